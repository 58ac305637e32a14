package corevk

import vk "github.com/vulkan-go/vulkan"

// ResourceElementKind is the kind enum spec §6 names for createResourceLayout.
type ResourceElementKind int

const (
	ElementUniformBuffer ResourceElementKind = iota
	ElementStructuredRO
	ElementStructuredRW
	ElementTextureRO
	ElementTextureRW
	ElementSampler
)

// ResourceElementOptions holds per-element options; DynamicBinding maps a
// UniformBuffer/StructuredRW element onto the *_DYNAMIC descriptor types.
type ResourceElementOptions struct {
	DynamicBinding bool
}

// ResourceElement is one binding slot in a ResourceLayout, spec §6.
type ResourceElement struct {
	Kind    ResourceElementKind
	Stages  ShaderStage
	Options ResourceElementOptions
}

func (e ResourceElement) descriptorType() vk.DescriptorType {
	switch e.Kind {
	case ElementUniformBuffer:
		if e.Options.DynamicBinding {
			return vk.DescriptorTypeUniformBufferDynamic
		}
		return vk.DescriptorTypeUniformBuffer
	case ElementStructuredRO:
		return vk.DescriptorTypeStorageBuffer
	case ElementStructuredRW:
		if e.Options.DynamicBinding {
			return vk.DescriptorTypeStorageBufferDynamic
		}
		return vk.DescriptorTypeStorageBuffer
	case ElementTextureRO:
		return vk.DescriptorTypeSampledImage
	case ElementTextureRW:
		return vk.DescriptorTypeStorageImage
	case ElementSampler:
		return vk.DescriptorTypeSampler
	default:
		return vk.DescriptorTypeUniformBuffer
	}
}

// ResourceLayoutDesc is the createResourceLayout argument of spec §6.
type ResourceLayoutDesc struct {
	Elements []ResourceElement
}

// ResourceLayout is a ref-counted VkDescriptorSetLayout, grounded on the
// teacher's buffers.go descriptor-set-layout construction and
// other_examples' gviegas-neo3 per-kind binding accounting.
type ResourceLayout struct {
	resourceBase
	device  vk.Device
	handle  vk.DescriptorSetLayout
	desc    ResourceLayoutDesc
	counts  DescriptorCounts
}

// CreateResourceLayout implements spec §6's createResourceLayout.
func CreateResourceLayout(d *Device, desc ResourceLayoutDesc) (*ResourceLayout, error) {
	bindings := make([]vk.DescriptorSetLayoutBinding, len(desc.Elements))
	var counts DescriptorCounts
	for i, e := range desc.Elements {
		bindings[i] = vk.DescriptorSetLayoutBinding{
			Binding:         uint32(i),
			DescriptorType:  e.descriptorType(),
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(e.Stages.vkStage()),
		}
		switch e.descriptorType() {
		case vk.DescriptorTypeUniformBuffer:
			counts.UniformBuffers++
		case vk.DescriptorTypeUniformBufferDynamic:
			counts.DynamicUniformBuffers++
		case vk.DescriptorTypeSampledImage:
			counts.SampledImages++
		case vk.DescriptorTypeSampler:
			counts.Samplers++
		case vk.DescriptorTypeStorageBuffer:
			counts.StorageBuffers++
		case vk.DescriptorTypeStorageBufferDynamic:
			counts.DynamicStorageBuffers++
		case vk.DescriptorTypeStorageImage:
			counts.StorageImages++
		}
	}
	counts.Sets = 1

	var handle vk.DescriptorSetLayout
	ret := vk.CreateDescriptorSetLayout(d.adapter.Device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: uint32(len(bindings)),
		PBindings:    bindings,
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	l := &ResourceLayout{device: d.adapter.Device, handle: handle, desc: desc, counts: counts}
	l.resourceBase = newResourceBase(d.registry, KindResourceLayout, l.destroyNow)
	return l, nil
}

func (l *ResourceLayout) Handle() vk.DescriptorSetLayout { return l.handle }

func (l *ResourceLayout) destroyNow() {
	vk.DestroyDescriptorSetLayout(l.device, l.handle, nil)
}
