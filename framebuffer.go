package corevk

import vk "github.com/vulkan-go/vulkan"

// FramebufferDesc is the createFramebuffer argument of spec §6, for
// framebuffers outside the swapchain's own per-image set (e.g. offscreen
// render targets bound to TextureViews).
type FramebufferDesc struct {
	RenderPass  vk.RenderPass
	Attachments []*TextureView
	Width       uint32
	Height      uint32
	Layers      uint32
}

// Framebuffer is a ref-counted VkFramebuffer, grounded on the teacher's
// swapchain.go CreateFrameBuffer generalized from the hardcoded
// color+depth swapchain case into an arbitrary attachment list.
type Framebuffer struct {
	resourceBase
	device      vk.Device
	handle      vk.Framebuffer
	attachments []*TextureView
}

// CreateFramebuffer implements spec §6's createFramebuffer.
func CreateFramebuffer(d *Device, desc FramebufferDesc) (*Framebuffer, error) {
	layers := desc.Layers
	if layers == 0 {
		layers = 1
	}
	views := make([]vk.ImageView, len(desc.Attachments))
	for i, a := range desc.Attachments {
		views[i] = a.handle
	}

	var handle vk.Framebuffer
	ret := vk.CreateFramebuffer(d.adapter.Device, &vk.FramebufferCreateInfo{
		SType:           vk.StructureTypeFramebufferCreateInfo,
		RenderPass:      desc.RenderPass,
		AttachmentCount: uint32(len(views)),
		PAttachments:    views,
		Width:           desc.Width,
		Height:          desc.Height,
		Layers:          layers,
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	for _, a := range desc.Attachments {
		a.Retain()
	}
	fb := &Framebuffer{device: d.adapter.Device, handle: handle, attachments: desc.Attachments}
	fb.resourceBase = newResourceBase(d.registry, KindResourceFramebuffer, fb.destroyNow)
	return fb, nil
}

func (fb *Framebuffer) Handle() vk.Framebuffer { return fb.handle }

func (fb *Framebuffer) destroyNow() {
	vk.DestroyFramebuffer(fb.device, fb.handle, nil)
	for _, a := range fb.attachments {
		a.Release()
	}
}

// newDepthAttachment creates the depth VkImage+VkImageView pair a
// SwapchainFramebuffer keeps alongside each swapchain color image,
// grounded on the teacher's swapchain.go CreateFrameBuffer depth-image
// setup but routed through the memory manager instead of a raw
// vkAllocateMemory call.
func newDepthAttachment(d *Device, format vk.Format, width, height uint32) (*Texture, *TextureView, error) {
	tex, err := CreateTexture(d, TextureDesc{
		Kind:   Texture2D,
		Width:  width,
		Height: height,
		Depth:  1,
		Format: format,
		Usage:  UsageDepthStencil,
	})
	if err != nil {
		return nil, nil, err
	}
	view, err := CreateTextureView(d, TextureViewDesc{Target: tex, MipLevels: 1, ArrayLayers: 1, Format: format})
	if err != nil {
		tex.Release()
		return nil, nil, err
	}
	return tex, view, nil
}
