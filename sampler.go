package corevk

import vk "github.com/vulkan-go/vulkan"

// SamplerDesc is the createSampler argument of spec §6.
type SamplerDesc struct {
	MinFilter    vk.Filter
	MagFilter    vk.Filter
	MipmapMode   vk.SamplerMipmapMode
	AddressModeU vk.SamplerAddressMode
	AddressModeV vk.SamplerAddressMode
	AddressModeW vk.SamplerAddressMode
	MaxAnisotropy float32
}

// Sampler is a ref-counted VkSampler. No sampler code exists in the
// teacher beyond its contract line; built in the teacher's per-resource
// file idiom.
type Sampler struct {
	resourceBase
	device vk.Device
	handle vk.Sampler
}

// CreateSampler implements spec §6's createSampler.
func CreateSampler(d *Device, desc SamplerDesc) (*Sampler, error) {
	anisotropyEnable := vk.False
	if desc.MaxAnisotropy > 1.0 {
		anisotropyEnable = vk.True
	}
	var handle vk.Sampler
	ret := vk.CreateSampler(d.adapter.Device, &vk.SamplerCreateInfo{
		SType:                   vk.StructureTypeSamplerCreateInfo,
		MagFilter:               desc.MagFilter,
		MinFilter:               desc.MinFilter,
		MipmapMode:              desc.MipmapMode,
		AddressModeU:            desc.AddressModeU,
		AddressModeV:            desc.AddressModeV,
		AddressModeW:            desc.AddressModeW,
		AnisotropyEnable:        anisotropyEnable,
		MaxAnisotropy:           desc.MaxAnisotropy,
		BorderColor:             vk.BorderColorIntOpaqueBlack,
		CompareOp:               vk.CompareOpNever,
		MaxLod:                  1.0,
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}
	s := &Sampler{device: d.adapter.Device, handle: handle}
	s.resourceBase = newResourceBase(d.registry, KindResourceSampler, s.destroyNow)
	return s, nil
}

func (s *Sampler) Handle() vk.Sampler { return s.handle }

func (s *Sampler) destroyNow() {
	vk.DestroySampler(s.device, s.handle, nil)
}
