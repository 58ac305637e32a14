package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorCountsFits(t *testing.T) {
	pool := DescriptorCounts{UniformBuffers: 4, Sets: 2}
	req := DescriptorCounts{UniformBuffers: 3, Sets: 1}
	assert.True(t, pool.fits(req))

	tooMany := DescriptorCounts{UniformBuffers: 5, Sets: 1}
	assert.False(t, pool.fits(tooMany))
}

func TestDescriptorCountsAddSubtractRoundTrip(t *testing.T) {
	capacity := DescriptorCounts{UniformBuffers: 10, SampledImages: 10, Sets: 10}
	used := DescriptorCounts{UniformBuffers: 3, SampledImages: 1, Sets: 1}

	remaining := capacity.subtract(used)
	assert.Equal(t, uint32(7), remaining.UniformBuffers)
	assert.Equal(t, uint32(9), remaining.SampledImages)
	assert.Equal(t, uint32(9), remaining.Sets)

	restored := remaining.add(used)
	assert.Equal(t, capacity, restored)
}

func TestDescriptorCountsPoolSizesSkipsZero(t *testing.T) {
	c := DescriptorCounts{UniformBuffers: 3, StorageImages: 2}
	sizes := c.poolSizes()
	assert.Len(t, sizes, 2, "kinds with zero count should not produce a VkDescriptorPoolSize entry")
	for _, s := range sizes {
		assert.NotZero(t, s.DescriptorCount)
	}
}
