package corevk

import vk "github.com/vulkan-go/vulkan"

// TextureViewDesc is the createTextureView argument of spec §6.
type TextureViewDesc struct {
	Target         *Texture
	BaseMipLevel   uint32
	MipLevels      uint32
	BaseArrayLayer uint32
	ArrayLayers    uint32
	Format         vk.Format // zero value means "inherit from Target"
}

func viewTypeFor(t TextureKind, layers uint32) vk.ImageViewType {
	switch {
	case t == Texture3D:
		return vk.ImageViewType3d
	case t == Texture1D:
		return vk.ImageViewType1d
	case layers > 1:
		return vk.ImageViewType2dArray
	default:
		return vk.ImageViewType2d
	}
}

// TextureView is a ref-counted VkImageView. It keeps a strong reference to
// its target Texture so the texture outlives every view onto it, per spec
// §3's ownership rule for ResourceSet extended the same way here.
type TextureView struct {
	resourceBase
	device vk.Device
	target *Texture
	handle vk.ImageView
}

// CreateTextureView implements spec §6's createTextureView, grounded on
// the teacher's swapchain.go CreateFrameImageView.
func CreateTextureView(d *Device, desc TextureViewDesc) (*TextureView, error) {
	format := desc.Format
	if format == vk.FormatUndefined {
		format = desc.Target.desc.Format
	}
	mipLevels := desc.MipLevels
	if mipLevels == 0 {
		mipLevels = 1
	}
	arrayLayers := desc.ArrayLayers
	if arrayLayers == 0 {
		arrayLayers = 1
	}
	aspect := vk.ImageAspectColorBit
	if desc.Target.desc.Usage&UsageDepthStencil != 0 {
		aspect = vk.ImageAspectDepthBit
	}

	var handle vk.ImageView
	ret := vk.CreateImageView(d.adapter.Device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    desc.Target.handle,
		ViewType: viewTypeFor(desc.Target.desc.Kind, arrayLayers),
		Format:   format,
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask:     vk.ImageAspectFlags(aspect),
			BaseMipLevel:   desc.BaseMipLevel,
			LevelCount:     mipLevels,
			BaseArrayLayer: desc.BaseArrayLayer,
			LayerCount:     arrayLayers,
		},
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	desc.Target.Retain()
	v := &TextureView{device: d.adapter.Device, target: desc.Target, handle: handle}
	v.resourceBase = newResourceBase(d.registry, KindResourceTextureView, v.destroyNow)
	return v, nil
}

func (v *TextureView) Handle() vk.ImageView { return v.handle }

func (v *TextureView) destroyNow() {
	vk.DestroyImageView(v.device, v.handle, nil)
	v.target.Release()
}
