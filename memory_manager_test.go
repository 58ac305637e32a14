package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestRequiredPreferredFlagsPreferDevice(t *testing.T) {
	required, preferred := requiredPreferredFlags(PreferDevice, 0)
	assert.Equal(t, vk.MemoryPropertyFlags(0), required)
	assert.Equal(t, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), preferred)
}

func TestRequiredPreferredFlagsPreferHost(t *testing.T) {
	required, preferred := requiredPreferredFlags(PreferHost, 0)
	want := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
	assert.Equal(t, want, required)
	assert.Equal(t, vk.MemoryPropertyFlags(0), preferred)
}

func TestRequiredPreferredFlagsRandomAccessPrefersCached(t *testing.T) {
	_, preferred := requiredPreferredFlags(PreferHost, MappeableForRandomAccess)
	assert.NotZero(t, preferred&vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit))
}

func TestRequiredPreferredFlagsMappedRequiresHostVisible(t *testing.T) {
	required, _ := requiredPreferredFlags(PreferDevice, Mapped)
	assert.NotZero(t, required&vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit))
}

func TestScoreMemoryTypeGatesOnRequired(t *testing.T) {
	required := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	_, ok := scoreMemoryType(vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), required, 0)
	assert.False(t, ok, "a type missing a required bit must be rejected")
}

func TestScoreMemoryTypePrefersMoreMatchedPreferredBits(t *testing.T) {
	preferred := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit) | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit)
	scoreBoth, ok := scoreMemoryType(preferred, 0, preferred)
	assert.True(t, ok)
	scoreOne, ok := scoreMemoryType(vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit), 0, preferred)
	assert.True(t, ok)
	assert.Greater(t, scoreBoth, scoreOne)
}

func TestScoreMemoryTypePenalizesExtraNonPreferredBits(t *testing.T) {
	preferred := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	clean, ok := scoreMemoryType(preferred, 0, preferred)
	assert.True(t, ok)
	noisy, ok := scoreMemoryType(preferred|vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit), 0, preferred)
	assert.True(t, ok)
	assert.Greater(t, clean, noisy)
}

func TestSelectMemoryTypeHonorsTypeBitsMask(t *testing.T) {
	types := []vk.MemoryPropertyFlags{
		vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit),
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit),
	}
	// Only index 1 is allowed by typeBits.
	idx, ok := selectMemoryType(types, 1<<1, 0, vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	assert.True(t, ok)
	assert.Equal(t, uint32(1), idx)
}

func TestSelectMemoryTypeNoCandidateFitsRequired(t *testing.T) {
	types := []vk.MemoryPropertyFlags{vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)}
	_, ok := selectMemoryType(types, 0xFFFFFFFF, vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit), 0)
	assert.False(t, ok)
}

func TestPopcount32(t *testing.T) {
	assert.Equal(t, 0, popcount32(0))
	assert.Equal(t, 1, popcount32(1<<5))
	assert.Equal(t, 32, popcount32(0xFFFFFFFF))
}
