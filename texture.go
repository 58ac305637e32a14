package corevk

import vk "github.com/vulkan-go/vulkan"

// TextureKind is the dimensionality of spec §6's createTexture.
type TextureKind int

const (
	Texture1D TextureKind = iota
	Texture2D
	Texture3D
)

// TextureUsage is the bitset spec §6 names for createTexture.
type TextureUsage uint32

const (
	UsageSampled TextureUsage = 1 << iota
	UsageStorage
	UsageRenderTarget
	UsageDepthStencil
	UsageCubemap
	UsageTextureStaging
)

// TextureDesc is the createTexture argument of spec §6.
type TextureDesc struct {
	Kind        TextureKind
	Width       uint32
	Height      uint32
	Depth       uint32
	MipLevels   uint32
	ArrayLayers uint32
	Format      vk.Format
	Usage       TextureUsage
	SampleCount vk.SampleCountFlagBits
}

func toVkImageType(k TextureKind) vk.ImageType {
	switch k {
	case Texture1D:
		return vk.ImageType1d
	case Texture3D:
		return vk.ImageType3d
	default:
		return vk.ImageType2d
	}
}

func toVkImageUsage(u TextureUsage) vk.ImageUsageFlags {
	var f vk.ImageUsageFlagBits
	if u&UsageSampled != 0 {
		f |= vk.ImageUsageSampledBit
	}
	if u&UsageStorage != 0 {
		f |= vk.ImageUsageStorageBit
	}
	if u&UsageRenderTarget != 0 {
		f |= vk.ImageUsageColorAttachmentBit
	}
	if u&UsageDepthStencil != 0 {
		f |= vk.ImageUsageDepthStencilAttachmentBit
	}
	if u&UsageTextureStaging != 0 {
		f |= vk.ImageUsageTransferDstBit | vk.ImageUsageTransferSrcBit
	}
	return vk.ImageUsageFlags(f)
}

// Texture is a ref-counted VkImage + its backing memory, grounded on the
// teacher's context.go Texture/Depth structs generalized from two
// hardcoded kinds into the full createTexture surface of spec §6.
type Texture struct {
	resourceBase
	device vk.Device
	memory *MemoryManager

	handle vk.Image
	alloc  *MemoryAllocation
	desc   TextureDesc
	layout vk.ImageLayout
}

// CreateTexture implements spec §6's createTexture.
func CreateTexture(d *Device, desc TextureDesc) (*Texture, error) {
	sampleCount := desc.SampleCount
	if sampleCount == 0 {
		sampleCount = vk.SampleCount1Bit
	}
	mips := desc.MipLevels
	if mips == 0 {
		mips = 1
	}
	layers := desc.ArrayLayers
	if layers == 0 {
		layers = 1
	}
	if desc.Usage&UsageCubemap != 0 {
		layers = 6
	}

	var handle vk.Image
	ret := vk.CreateImage(d.adapter.Device, &vk.ImageCreateInfo{
		SType:       vk.StructureTypeImageCreateInfo,
		ImageType:   toVkImageType(desc.Kind),
		Format:      desc.Format,
		Extent:      vk.Extent3D{Width: desc.Width, Height: maxU32(desc.Height, 1), Depth: maxU32(desc.Depth, 1)},
		MipLevels:   mips,
		ArrayLayers: layers,
		Samples:     sampleCount,
		Tiling:      vk.ImageTilingOptimal,
		Usage:       toVkImageUsage(desc.Usage),
		SharingMode: vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	var reqs vk.MemoryRequirements
	vk.GetImageMemoryRequirements(d.adapter.Device, handle, &reqs)
	reqs.Deref()

	alloc, err := d.memory.Allocate(MemoryRequest{
		Size:           uint64(reqs.Size),
		Alignment:      uint64(reqs.Alignment),
		MemoryTypeBits: reqs.MemoryTypeBits,
		Usage:          PreferDevice,
		Linear:         false,
	})
	if err != nil {
		vk.DestroyImage(d.adapter.Device, handle, nil)
		return nil, err
	}
	if ret := vk.BindImageMemory(d.adapter.Device, handle, alloc.Memory(), vk.DeviceSize(alloc.Offset())); isError(ret) {
		d.memory.Free(alloc)
		vk.DestroyImage(d.adapter.Device, handle, nil)
		return nil, vkErr(ret)
	}

	t := &Texture{
		device: d.adapter.Device,
		memory: d.memory,
		handle: handle,
		alloc:  alloc,
		desc:   desc,
		layout: vk.ImageLayoutUndefined,
	}
	t.resourceBase = newResourceBase(d.registry, KindResourceTexture, t.destroyNow)
	return t, nil
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func (t *Texture) Handle() vk.Image { return t.handle }

func (t *Texture) destroyNow() {
	vk.DestroyImage(t.device, t.handle, nil)
	t.memory.Free(t.alloc)
}
