package corevk

import (
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// MemoryUsage is the high-level intent behind an allocation request, spec
// §4.1.
type MemoryUsage int

const (
	PreferDevice MemoryUsage = iota
	PreferHost
)

// MemoryFlags is the bitmask of extra requirements/hints spec §4.1 names.
type MemoryFlags uint32

const (
	Dedicated MemoryFlags = 1 << iota
	Mapped
	MappeableForSequentialWrite
	MappeableForRandomAccess
	RequiredTransfer
	AllowTransfer
)

// MemoryRequest is everything MemoryManager.Allocate needs: a buffer or
// image's memory requirements plus the usage intent that drives selection.
type MemoryRequest struct {
	Size           uint64
	Alignment      uint64
	MemoryTypeBits uint32
	Usage          MemoryUsage
	Flags          MemoryFlags
	Linear         bool // true for buffers and linearly-tiled images
}

// MemoryManager selects a memory type and routes allocation requests to the
// right per-(type, linearity) bucket. Grounded on the teacher's
// FindRequiredMemoryType/FindRequiredMemoryTypeFallback for the
// required/preferred split, and on gogpu-wgpu's MemoryTypeSelector for the
// scored-selection shape.
type MemoryManager struct {
	device     vk.Device
	memProps   vk.PhysicalDeviceMemoryProperties
	chunkSize  uint64
	maxChunk   uint64

	lk      sync.Mutex // memoryManagerLock, §5
	buckets map[bucketKey]*memoryBucket
}

type bucketKey struct {
	typeIndex uint32
	linear    bool
}

func newMemoryManager(d *Device) *MemoryManager {
	return &MemoryManager{
		device:    d.adapter.Device,
		memProps:  d.adapter.MemoryProperties,
		chunkSize: uint64(d.opts.ChunkSize),
		maxChunk:  uint64(d.opts.MaxChunkSize),
		buckets:   make(map[bucketKey]*memoryBucket),
	}
}

// requiredPreferredFlags derives the required/preferred VkMemoryPropertyFlags
// set from usage and flags, per spec §4.1 "Memory-type selection". Pure
// function, no driver calls, so it's directly unit-testable.
func requiredPreferredFlags(usage MemoryUsage, flags MemoryFlags) (required, preferred vk.MemoryPropertyFlags) {
	switch usage {
	case PreferDevice:
		preferred |= vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	case PreferHost:
		required |= vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit) | vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
		if flags&MappeableForRandomAccess != 0 {
			preferred |= vk.MemoryPropertyFlags(vk.MemoryPropertyHostCachedBit)
		}
	}
	if flags&Mapped != 0 || flags&MappeableForSequentialWrite != 0 || flags&MappeableForRandomAccess != 0 {
		required |= vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	}
	return required, preferred
}

// scoreMemoryType scores one candidate memory type against a
// required/preferred flag set. Required is a hard gate checked here: a type
// missing any required bit returns ok=false. Otherwise the score is 100 for
// fully-satisfied-required plus preferred bits matched minus non-preferred
// bits present, per spec §4.1.
func scoreMemoryType(typeFlags, required, preferred vk.MemoryPropertyFlags) (score int, ok bool) {
	if typeFlags&required != required {
		return 0, false
	}
	score += 100
	matched := typeFlags & preferred
	score += popcount32(uint32(matched))
	nonPreferred := typeFlags &^ (required | preferred)
	score -= popcount32(uint32(nonPreferred))
	return score, true
}

func popcount32(v uint32) int {
	n := 0
	for v != 0 {
		n += int(v & 1)
		v >>= 1
	}
	return n
}

// selectMemoryType picks the highest-scoring memory type index among those
// allowed by typeBits, per spec §4.1. Pure over a plain
// []vk.MemoryType-shaped slice so it is testable without a real device.
func selectMemoryType(types []vk.MemoryPropertyFlags, typeBits uint32, required, preferred vk.MemoryPropertyFlags) (uint32, bool) {
	bestIdx := uint32(0)
	bestScore := -1
	found := false
	for i, flags := range types {
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		score, ok := scoreMemoryType(flags, required, preferred)
		if !ok {
			continue
		}
		if score > bestScore {
			bestScore = score
			bestIdx = uint32(i)
			found = true
		}
	}
	return bestIdx, found
}

func (m *MemoryManager) memoryTypeFlags() []vk.MemoryPropertyFlags {
	count := int(m.memProps.MemoryTypeCount)
	out := make([]vk.MemoryPropertyFlags, count)
	for i := 0; i < count; i++ {
		mt := m.memProps.MemoryTypes[i]
		mt.Deref()
		out[i] = mt.PropertyFlags
	}
	return out
}

// Allocate implements the MemoryManager contract of spec §4.1.
func (m *MemoryManager) Allocate(req MemoryRequest) (*MemoryAllocation, error) {
	required, preferred := requiredPreferredFlags(req.Usage, req.Flags)
	typeIndex, ok := selectMemoryType(m.memoryTypeFlags(), req.MemoryTypeBits, required, preferred)
	if !ok {
		return nil, newErr(KindOutOfMemoryTypes)
	}

	m.lk.Lock()
	defer m.lk.Unlock()

	key := bucketKey{typeIndex: typeIndex, linear: req.Linear}
	b, ok := m.buckets[key]
	if !ok {
		b = newMemoryBucket(m.device, typeIndex, req.Linear, m.chunkSize, m.maxChunk)
		m.buckets[key] = b
	}

	dedicated := req.Flags&Dedicated != 0 || req.Size*2 >= b.chunkSize
	var (
		alloc *MemoryAllocation
		err   error
	)
	if dedicated {
		alloc, err = b.dedicated(req.Size, req.Alignment)
	} else {
		alloc, err = b.alloc(req.Size, req.Alignment)
	}
	if err != nil {
		return nil, newErrWrap(KindOutOfMemoryDevice, err)
	}

	if req.Flags&Mapped != 0 {
		if _, mapErr := alloc.Map(); mapErr != nil {
			b.free(alloc)
			return nil, mapErr
		}
	}
	return alloc, nil
}

func (m *MemoryManager) Free(a *MemoryAllocation) {
	if a == nil {
		return
	}
	m.lk.Lock()
	defer m.lk.Unlock()
	key := bucketKey{typeIndex: a.chunk.memoryTypeIndex, linear: a.chunk.isLinear}
	b, ok := m.buckets[key]
	if !ok {
		return
	}
	b.free(a)
}

func (m *MemoryManager) destroy() {
	m.lk.Lock()
	defer m.lk.Unlock()
	for _, b := range m.buckets {
		b.destroy()
	}
	m.buckets = nil
}
