package corevk

import (
	"sync"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// MemoryChunk owns one VkDeviceMemory allocation and suballocates it with a
// tlsfAllocator. Grounded on gogpu-wgpu's poolBlock (one buddy-backed
// VkDeviceMemory region per pool) generalized to the segregated-fit
// suballocator this module uses instead.
type MemoryChunk struct {
	device          vk.Device
	memory          vk.DeviceMemory
	memoryTypeIndex uint32
	size            uint64
	isLinear        bool

	sub *tlsfAllocator

	mapLk       sync.Mutex // chunkMapLock, §5
	mappedPtr   unsafe.Pointer
	mapRefCount int
	persistent  bool
}

func newMemoryChunk(device vk.Device, memoryTypeIndex uint32, size uint64, isLinear bool) (*MemoryChunk, error) {
	var mem vk.DeviceMemory
	ret := vk.AllocateMemory(device, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vk.DeviceSize(size),
		MemoryTypeIndex: memoryTypeIndex,
	}, nil, &mem)
	if isError(ret) {
		return nil, vkErr(ret)
	}
	sub, err := newTLSFAllocator(size)
	if err != nil {
		vk.FreeMemory(device, mem, nil)
		return nil, err
	}
	return &MemoryChunk{
		device:          device,
		memory:          mem,
		memoryTypeIndex: memoryTypeIndex,
		size:            size,
		isLinear:        isLinear,
		sub:             sub,
	}, nil
}

// mapPersistent maps the whole chunk once and ref-counts further callers,
// per spec §4.1 ("On Mapped allocations with a host-visible chunk, the
// chunk is persistently mapped").
func (c *MemoryChunk) mapPersistent() (unsafe.Pointer, error) {
	c.mapLk.Lock()
	defer c.mapLk.Unlock()
	if c.mapRefCount == 0 {
		var ptr unsafe.Pointer
		ret := vk.MapMemory(c.device, c.memory, 0, vk.DeviceSize(c.size), 0, &ptr)
		if isError(ret) {
			return nil, vkErr(ret)
		}
		c.mappedPtr = ptr
		c.persistent = true
	}
	c.mapRefCount++
	return c.mappedPtr, nil
}

func (c *MemoryChunk) unmap() {
	c.mapLk.Lock()
	defer c.mapLk.Unlock()
	if c.mapRefCount == 0 {
		return
	}
	c.mapRefCount--
	if c.mapRefCount == 0 {
		vk.UnmapMemory(c.device, c.memory)
		c.mappedPtr = nil
		c.persistent = false
	}
}

func (c *MemoryChunk) pointerAt(offset uint64) unsafe.Pointer {
	if c.mappedPtr == nil {
		return nil
	}
	return unsafe.Pointer(uintptr(c.mappedPtr) + uintptr(offset))
}

func (c *MemoryChunk) isEmpty() bool {
	return c.sub.IsEmpty()
}

func (c *MemoryChunk) destroy() {
	c.mapLk.Lock()
	if c.mapRefCount > 0 {
		vk.UnmapMemory(c.device, c.memory)
	}
	c.mapLk.Unlock()
	vk.FreeMemory(c.device, c.memory, nil)
}
