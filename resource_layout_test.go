package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestResourceElementDescriptorType(t *testing.T) {
	assert.Equal(t, vk.DescriptorTypeUniformBuffer, ResourceElement{Kind: ElementUniformBuffer}.descriptorType())
	assert.Equal(t, vk.DescriptorTypeSampledImage, ResourceElement{Kind: ElementTextureRO}.descriptorType())
	assert.Equal(t, vk.DescriptorTypeStorageImage, ResourceElement{Kind: ElementTextureRW}.descriptorType())
	assert.Equal(t, vk.DescriptorTypeSampler, ResourceElement{Kind: ElementSampler}.descriptorType())
}

func TestResourceElementDescriptorTypeDynamicBinding(t *testing.T) {
	e := ResourceElement{Kind: ElementUniformBuffer, Options: ResourceElementOptions{DynamicBinding: true}}
	assert.Equal(t, vk.DescriptorTypeUniformBufferDynamic, e.descriptorType())

	e = ResourceElement{Kind: ElementStructuredRW, Options: ResourceElementOptions{DynamicBinding: true}}
	assert.Equal(t, vk.DescriptorTypeStorageBufferDynamic, e.descriptorType())
}

func TestResourceElementDescriptorTypeStructuredROIgnoresDynamicFlag(t *testing.T) {
	e := ResourceElement{Kind: ElementStructuredRO, Options: ResourceElementOptions{DynamicBinding: true}}
	assert.Equal(t, vk.DescriptorTypeStorageBuffer, e.descriptorType(), "StructuredRO has no dynamic variant")
}
