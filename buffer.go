package corevk

import vk "github.com/vulkan-go/vulkan"

// BufferUsage is the bitset spec §6 names for createBuffer.
type BufferUsage uint32

const (
	UsageVertex BufferUsage = 1 << iota
	UsageIndex
	UsageUniform
	UsageStructuredRO
	UsageStructuredRW
	UsageIndirect
	UsageStaging
	UsageDynamic
	// internal-only bits for staging-buffer plumbing (command_buffer_pool.go),
	// not exposed as part of spec §6's public bitset.
	UsageTransferSrc
	UsageTransferDst
)

// BufferDesc is the createBuffer argument of spec §6.
type BufferDesc struct {
	Size  uint64
	Usage BufferUsage
}

func toVkBufferUsage(u BufferUsage) vk.BufferUsageFlags {
	var f vk.BufferUsageFlagBits
	if u&UsageVertex != 0 {
		f |= vk.BufferUsageVertexBufferBit
	}
	if u&UsageIndex != 0 {
		f |= vk.BufferUsageIndexBufferBit
	}
	if u&UsageUniform != 0 {
		f |= vk.BufferUsageUniformBufferBit
	}
	if u&(UsageStructuredRO|UsageStructuredRW) != 0 {
		f |= vk.BufferUsageStorageBufferBit
	}
	if u&UsageIndirect != 0 {
		f |= vk.BufferUsageIndirectBufferBit
	}
	if u&(UsageStaging|UsageTransferSrc) != 0 {
		f |= vk.BufferUsageTransferSrcBit
	}
	if u&(UsageStaging|UsageTransferDst) != 0 {
		f |= vk.BufferUsageTransferDstBit
	}
	return vk.BufferUsageFlags(f)
}

// memoryRequestFor derives the MemoryManager request shape from a buffer
// usage bitset: staging buffers are random-access mapped (readback as well
// as upload, hence HOST_CACHED is worth asking for), dynamic buffers are
// sequential-write mapped, everything else prefers device-local, matching
// the teacher's CreateBuffer (which always requested
// HOST_VISIBLE|HOST_COHERENT — this generalizes that to device-local for the
// non-staging, non-dynamic case).
func memoryRequestFor(u BufferUsage) (MemoryUsage, MemoryFlags) {
	if u&UsageStaging != 0 {
		return PreferHost, Mapped | MappeableForRandomAccess
	}
	if u&UsageDynamic != 0 {
		return PreferHost, Mapped | MappeableForSequentialWrite
	}
	return PreferDevice, 0
}

// Buffer is the ref-counted GPU resource of spec §3/§6.
type Buffer struct {
	resourceBase
	device vk.Device
	memory *MemoryManager
	handle vk.Buffer
	alloc  *MemoryAllocation
	size   uint64
	usage  BufferUsage
}

func newBuffer(device vk.Device, mm *MemoryManager, desc BufferDesc) (*Buffer, error) {
	var handle vk.Buffer
	ret := vk.CreateBuffer(device, &vk.BufferCreateInfo{
		SType: vk.StructureTypeBufferCreateInfo,
		Size:  vk.DeviceSize(desc.Size),
		Usage: toVkBufferUsage(desc.Usage),
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}

	var reqs vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device, handle, &reqs)
	reqs.Deref()

	usage, flags := memoryRequestFor(desc.Usage)
	alloc, err := mm.Allocate(MemoryRequest{
		Size:           uint64(reqs.Size),
		Alignment:      uint64(reqs.Alignment),
		MemoryTypeBits: reqs.MemoryTypeBits,
		Usage:          usage,
		Flags:          flags,
		Linear:         true,
	})
	if err != nil {
		vk.DestroyBuffer(device, handle, nil)
		return nil, err
	}
	if ret := vk.BindBufferMemory(device, handle, alloc.Memory(), vk.DeviceSize(alloc.Offset())); isError(ret) {
		mm.Free(alloc)
		vk.DestroyBuffer(device, handle, nil)
		return nil, vkErr(ret)
	}

	b := &Buffer{
		device: device,
		memory: mm,
		handle: handle,
		alloc:  alloc,
		size:   desc.Size,
		usage:  desc.Usage,
	}
	return b, nil
}

// CreateBuffer is the public entry point of spec §6.
func CreateBuffer(d *Device, desc BufferDesc) (*Buffer, error) {
	b, err := newBuffer(d.adapter.Device, d.memory, desc)
	if err != nil {
		return nil, err
	}
	b.resourceBase = newResourceBase(d.registry, KindResourceBuffer, b.destroyNow)
	return b, nil
}

func (b *Buffer) Handle() vk.Buffer { return b.handle }
func (b *Buffer) Size() uint64      { return b.size }

// Map returns a host pointer for host-visible buffers (Staging/Dynamic).
func (b *Buffer) Map() (uintptr, error) {
	return b.alloc.Map()
}

func (b *Buffer) Unmap() {
	b.alloc.Unmap()
}

func (b *Buffer) destroyNow() {
	vk.DestroyBuffer(b.device, b.handle, nil)
	b.memory.Free(b.alloc)
}
