package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestMemoryRequestForStagingPrefersHost(t *testing.T) {
	usage, flags := memoryRequestFor(UsageStaging)
	assert.Equal(t, PreferHost, usage)
	assert.NotZero(t, flags&Mapped)
	assert.NotZero(t, flags&MappeableForRandomAccess)
}

func TestMemoryRequestForDynamicPrefersHost(t *testing.T) {
	usage, _ := memoryRequestFor(UsageDynamic)
	assert.Equal(t, PreferHost, usage)
}

func TestMemoryRequestForVertexPrefersDevice(t *testing.T) {
	usage, flags := memoryRequestFor(UsageVertex)
	assert.Equal(t, PreferDevice, usage)
	assert.Zero(t, flags)
}

func TestToVkBufferUsageCombinesBits(t *testing.T) {
	f := toVkBufferUsage(UsageVertex | UsageIndex)
	assert.NotZero(t, f&vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	assert.NotZero(t, f&vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
	assert.Zero(t, f&vk.BufferUsageFlags(vk.BufferUsageUniformBufferBit))
}

func TestToVkBufferUsageStagingImpliesBothTransferDirections(t *testing.T) {
	f := toVkBufferUsage(UsageStaging)
	assert.NotZero(t, f&vk.BufferUsageFlags(vk.BufferUsageTransferSrcBit))
	assert.NotZero(t, f&vk.BufferUsageFlags(vk.BufferUsageTransferDstBit))
}

func TestToVkBufferUsageStructuredMapsToStorage(t *testing.T) {
	f := toVkBufferUsage(UsageStructuredRO | UsageStructuredRW)
	assert.NotZero(t, f&vk.BufferUsageFlags(vk.BufferUsageStorageBufferBit))
}
