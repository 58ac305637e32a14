package corevk

import vk "github.com/vulkan-go/vulkan"

// MemoryAllocation is a suballocation returned to callers: an offset and
// size within a chunk, or a dedicated chunk of its own.
type MemoryAllocation struct {
	chunk     *MemoryChunk
	offset    uint64
	size      uint64
	alignment uint64
	dedicated bool
}

func (a *MemoryAllocation) Memory() vk.DeviceMemory { return a.chunk.memory }
func (a *MemoryAllocation) Offset() uint64          { return a.offset }
func (a *MemoryAllocation) Size() uint64            { return a.size }
func (a *MemoryAllocation) IsDedicated() bool       { return a.dedicated }

// Map returns a pointer into the allocation's region of its chunk,
// persistently mapping the chunk on first use.
func (a *MemoryAllocation) Map() (uintptr, error) {
	if _, err := a.chunk.mapPersistent(); err != nil {
		return 0, err
	}
	return uintptr(a.chunk.pointerAt(a.offset)), nil
}

func (a *MemoryAllocation) Unmap() {
	a.chunk.unmap()
}

// memoryBucket is a MemoryTypeBucket from spec §3: the chunks backing one
// (memory-type, linearity) pair, each suballocated with its own tlsfAllocator.
// Grounded on gogpu-wgpu/hal/vulkan/memory/allocator.go's MemoryPool, with
// the buddy allocator swapped for tlsfAllocator per chunk.
type memoryBucket struct {
	device          vk.Device
	memoryTypeIndex uint32
	isLinear        bool

	chunkSize    uint64
	maxChunkSize uint64

	chunks []*MemoryChunk
}

func newMemoryBucket(device vk.Device, memoryTypeIndex uint32, isLinear bool, chunkSize, maxChunkSize uint64) *memoryBucket {
	return &memoryBucket{
		device:          device,
		memoryTypeIndex: memoryTypeIndex,
		isLinear:        isLinear,
		chunkSize:       chunkSize,
		maxChunkSize:    maxChunkSize,
	}
}

// alloc tries each existing chunk in order, growing (doubling, capped at
// maxChunkSize) and creating a new chunk on exhaustion, per spec §4.1
// "Suballocation".
func (b *memoryBucket) alloc(size, alignment uint64) (*MemoryAllocation, error) {
	for _, c := range b.chunks {
		if off, err := c.sub.Alloc(size, alignment); err == nil {
			return &MemoryAllocation{chunk: c, offset: off, size: size, alignment: alignment}, nil
		}
	}

	chunkSize := b.chunkSize
	if len(b.chunks) > 0 {
		chunkSize = b.chunks[len(b.chunks)-1].size * 2
		if chunkSize > b.maxChunkSize {
			chunkSize = b.maxChunkSize
		}
	}
	if size > chunkSize {
		chunkSize = size
	}
	c, err := newMemoryChunk(b.device, b.memoryTypeIndex, chunkSize, b.isLinear)
	if err != nil {
		return nil, err
	}
	off, err := c.sub.Alloc(size, alignment)
	if err != nil {
		c.destroy()
		return nil, err
	}
	b.chunks = append(b.chunks, c)
	return &MemoryAllocation{chunk: c, offset: off, size: size, alignment: alignment}, nil
}

// dedicated allocates a chunk sized exactly to fit size, bypassing the
// suballocator, for Dedicated flags or allocations >= half a chunk.
func (b *memoryBucket) dedicated(size, alignment uint64) (*MemoryAllocation, error) {
	c, err := newMemoryChunk(b.device, b.memoryTypeIndex, size, b.isLinear)
	if err != nil {
		return nil, err
	}
	off, err := c.sub.Alloc(size, alignment)
	if err != nil {
		c.destroy()
		return nil, err
	}
	return &MemoryAllocation{chunk: c, offset: off, size: size, alignment: alignment, dedicated: true}, nil
}

// free releases a suballocation, destroying the owning chunk if it becomes
// empty and the bucket still has another chunk to serve future requests, or
// if the allocation was dedicated.
func (b *memoryBucket) free(a *MemoryAllocation) {
	if a.dedicated {
		a.chunk.destroy()
		return
	}
	_ = a.chunk.sub.Free(a.offset)
	if a.chunk.isEmpty() && len(b.chunks) > 1 {
		for i, c := range b.chunks {
			if c == a.chunk {
				b.chunks = append(b.chunks[:i], b.chunks[i+1:]...)
				break
			}
		}
		a.chunk.destroy()
	}
}

func (b *memoryBucket) destroy() {
	for _, c := range b.chunks {
		c.destroy()
	}
	b.chunks = nil
}
