package corevk

import vk "github.com/vulkan-go/vulkan"

// BoundResource binds one resource to one binding slot of a ResourceSet.
// Exactly one of Buffer/View should be set, per the element kind it targets
// in the set's ResourceLayout; Sampler is additionally set for combined
// image-sampler style TextureRO bindings.
type BoundResource struct {
	Binding uint32
	Buffer  *Buffer
	View    *TextureView
	Sampler *Sampler
}

// ResourceSetDesc is the createResourceSet argument of spec §6.
type ResourceSetDesc struct {
	Layout         *ResourceLayout
	BoundResources []BoundResource
}

// ResourceSet holds weak references (by handle) to bound resources but
// keeps a strong ref-count on each so the bound resource outlives the set,
// per spec §3. Grounded on other_examples' gviegas-neo3 descTable
// SetBuffer/SetImage/SetSampler translated to vulkan-go/vulkan's
// vkUpdateDescriptorSets.
type ResourceSet struct {
	resourceBase
	device *Device
	layout *ResourceLayout
	token  *DescriptorToken
	bound  []BoundResource
}

// CreateResourceSet implements spec §6's createResourceSet.
func CreateResourceSet(d *Device, desc ResourceSetDesc) (*ResourceSet, error) {
	token, err := d.descriptors.Allocate(desc.Layout.counts, desc.Layout.handle)
	if err != nil {
		return nil, err
	}

	writes := make([]vk.WriteDescriptorSet, 0, len(desc.BoundResources))
	for _, b := range desc.BoundResources {
		write := vk.WriteDescriptorSet{
			SType:           vk.StructureTypeWriteDescriptorSet,
			DstSet:          token.set,
			DstBinding:      b.Binding,
			DescriptorCount: 1,
		}
		switch {
		case b.Buffer != nil:
			write.DescriptorType = vk.DescriptorTypeUniformBuffer
			write.PBufferInfo = []vk.DescriptorBufferInfo{{
				Buffer: b.Buffer.handle,
				Offset: 0,
				Range:  vk.DeviceSize(b.Buffer.size),
			}}
		case b.View != nil:
			write.DescriptorType = vk.DescriptorTypeSampledImage
			info := vk.DescriptorImageInfo{
				ImageView:   b.View.handle,
				ImageLayout: vk.ImageLayoutShaderReadOnlyOptimal,
			}
			if b.Sampler != nil {
				write.DescriptorType = vk.DescriptorTypeCombinedImageSampler
				info.Sampler = b.Sampler.handle
			}
			write.PImageInfo = []vk.DescriptorImageInfo{info}
		default:
			continue
		}
		writes = append(writes, write)
	}
	if len(writes) > 0 {
		vk.UpdateDescriptorSets(d.adapter.Device, uint32(len(writes)), writes, 0, nil)
	}

	desc.Layout.Retain()
	for _, b := range desc.BoundResources {
		if b.Buffer != nil {
			b.Buffer.Retain()
		}
		if b.View != nil {
			b.View.Retain()
		}
		if b.Sampler != nil {
			b.Sampler.Retain()
		}
	}

	rs := &ResourceSet{device: d, layout: desc.Layout, token: token, bound: desc.BoundResources}
	rs.resourceBase = newResourceBase(d.registry, KindResourceSet, rs.destroyNow)
	return rs, nil
}

func (rs *ResourceSet) Handle() vk.DescriptorSet { return rs.token.set }

func (rs *ResourceSet) destroyNow() {
	for _, b := range rs.bound {
		if b.Buffer != nil {
			b.Buffer.Release()
		}
		if b.View != nil {
			b.View.Release()
		}
		if b.Sampler != nil {
			b.Sampler.Release()
		}
	}
	rs.layout.Release()
	_ = rs.device.descriptors.Free(rs.token)
}
