package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestToVkImageType(t *testing.T) {
	assert.Equal(t, vk.ImageType1d, toVkImageType(Texture1D))
	assert.Equal(t, vk.ImageType2d, toVkImageType(Texture2D))
	assert.Equal(t, vk.ImageType3d, toVkImageType(Texture3D))
}

func TestToVkImageUsageCombinesBits(t *testing.T) {
	f := toVkImageUsage(UsageSampled | UsageRenderTarget)
	assert.NotZero(t, f&vk.ImageUsageFlags(vk.ImageUsageSampledBit))
	assert.NotZero(t, f&vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit))
	assert.Zero(t, f&vk.ImageUsageFlags(vk.ImageUsageDepthStencilAttachmentBit))
}

func TestToVkImageUsageStagingImpliesBothTransferDirections(t *testing.T) {
	f := toVkImageUsage(UsageTextureStaging)
	assert.NotZero(t, f&vk.ImageUsageFlags(vk.ImageUsageTransferSrcBit))
	assert.NotZero(t, f&vk.ImageUsageFlags(vk.ImageUsageTransferDstBit))
}

func TestMaxU32(t *testing.T) {
	assert.Equal(t, uint32(5), maxU32(5, 3))
	assert.Equal(t, uint32(5), maxU32(3, 5))
}
