package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestBoolToVk(t *testing.T) {
	assert.Equal(t, vk.True, boolToVk(true))
	assert.Equal(t, vk.False, boolToVk(false))
}

func TestSetLayoutHandlesPreservesOrder(t *testing.T) {
	a := &ResourceLayout{handle: vk.DescriptorSetLayout(1)}
	b := &ResourceLayout{handle: vk.DescriptorSetLayout(2)}
	got := setLayoutHandles([]*ResourceLayout{a, b})
	assert.Equal(t, []vk.DescriptorSetLayout{1, 2}, got)
}

func TestSetLayoutHandlesEmpty(t *testing.T) {
	got := setLayoutHandles(nil)
	assert.Empty(t, got)
}
