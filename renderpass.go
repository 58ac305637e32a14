package corevk

import vk "github.com/vulkan-go/vulkan"

// renderPassVariant picks the color attachment's load op for one of the
// three compatibility render passes a SwapchainFramebuffer keeps, spec §3.
type renderPassVariant int

const (
	renderPassClear renderPassVariant = iota
	renderPassLoad
	renderPassNoClearInit
)

func (v renderPassVariant) loadOp() vk.AttachmentLoadOp {
	switch v {
	case renderPassLoad:
		return vk.AttachmentLoadOpLoad
	case renderPassNoClearInit:
		return vk.AttachmentLoadOpDontCare
	default:
		return vk.AttachmentLoadOpClear
	}
}

func (v renderPassVariant) initialLayout() vk.ImageLayout {
	if v == renderPassNoClearInit {
		return vk.ImageLayoutUndefined
	}
	return vk.ImageLayoutUndefined
}

// createRenderPass builds one of the three render pass variants for a
// swapchain's color format and optional depth format. Grounded directly on
// the teacher's renderpass.go CreateRenderPass, generalized from one fixed
// clear-only pass into the clear/load/noclear-init variants spec §3 names.
func createRenderPass(device vk.Device, colorFormat vk.Format, depthFormat vk.Format, variant renderPassVariant) (vk.RenderPass, error) {
	hasDepth := depthFormat != vk.FormatUndefined

	attachments := []vk.AttachmentDescription{{
		Format:         colorFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         variant.loadOp(),
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  variant.initialLayout(),
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}
	colorRef := vk.AttachmentReference{Attachment: 0, Layout: vk.ImageLayoutColorAttachmentOptimal}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    []vk.AttachmentReference{colorRef},
	}

	if hasDepth {
		attachments = append(attachments, vk.AttachmentDescription{
			Format:         depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         variant.loadOp(),
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  variant.initialLayout(),
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		depthRef := vk.AttachmentReference{Attachment: 1, Layout: vk.ImageLayoutDepthStencilAttachmentOptimal}
		subpass.PDepthStencilAttachment = &depthRef
	}

	dependencies := []vk.SubpassDependency{
		{
			SrcSubpass:    vk.SubpassExternal,
			DstSubpass:    0,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			SrcAccessMask: vk.AccessFlags(vk.AccessMemoryReadBit),
			DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit) | vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
		},
		{
			SrcSubpass:    0,
			DstSubpass:    vk.SubpassExternal,
			SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
			DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageBottomOfPipeBit),
			SrcAccessMask: vk.AccessFlags(vk.AccessColorAttachmentReadBit) | vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
			DstAccessMask: vk.AccessFlags(vk.AccessMemoryReadBit),
		},
	}

	var pass vk.RenderPass
	ret := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil, &pass)
	if isError(ret) {
		return vk.NullRenderPass, vkErr(ret)
	}
	return pass, nil
}
