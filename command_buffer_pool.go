package corevk

import (
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// CommandBufferState is the finite state machine of spec §4.3.
type CommandBufferState int

const (
	StateReady CommandBufferState = iota
	StateRecording
	StateSubmitted
	StateCompleted
	StateDisposed
)

// nextState is the pure FSM transition table for spec §4.3, kept free of
// driver calls so it is directly unit-testable. It returns the new state
// and whether the transition is legal.
func nextState(current CommandBufferState, event string) (CommandBufferState, bool) {
	switch current {
	case StateReady:
		switch event {
		case "begin":
			return StateRecording, true
		case "dispose":
			return StateDisposed, true
		}
	case StateRecording:
		if event == "submit" {
			return StateSubmitted, true
		}
	case StateSubmitted:
		if event == "complete" {
			return StateCompleted, true
		}
	case StateCompleted:
		if event == "reset" {
			return StateReady, true
		}
	}
	return current, false
}

func inUse(s CommandBufferState) bool {
	return s == StateRecording || s == StateSubmitted
}

// PoolState is derived from a CommandBufferPool's member states, spec §4.3.
type PoolState int

const (
	PoolReady PoolState = iota
	PoolInUse
	PoolCompletedState
	PoolDisposed
)

// derivePoolState computes the pool's state from its counters, a pure
// function per spec §4.3's "any state change... notifies the pool which
// updates counters then derives new state".
func derivePoolState(disposed bool, inUseCount, completedCount int) PoolState {
	switch {
	case disposed:
		return PoolDisposed
	case inUseCount > 0:
		return PoolInUse
	case completedCount > 0:
		return PoolCompletedState
	default:
		return PoolReady
	}
}

type commandBufferHandle struct {
	vk    vk.CommandBuffer
	state CommandBufferState
}

// stagingEntry is one free staging buffer kept by size for reuse, spec
// §4.3 "Staging buffers".
type stagingEntry struct {
	size  uint64
	buf   *Buffer
}

// CommandBufferPool creates and reuses command buffers, tracks FSM state,
// and lends staging buffers to recording code. Grounded directly on the
// teacher's managers.go CommandBufferManager (count-vs-len(slice) reuse,
// ResetCommandBuffer) generalized with the full per-buffer FSM and the
// staging free-list the spec adds.
type CommandBufferPool struct {
	device  vk.Device
	pool    vk.CommandPool
	memory  *MemoryManager
	level   vk.CommandBufferLevel

	lk             sync.Mutex // commandBufferPoolLock, §5
	buffers        []*commandBufferHandle
	createdCount   int
	inUseCount     int
	completedCount int
	disposed       bool
	suppressNotify bool

	stagingFree []*stagingEntry
}

// NewCommandBufferPool creates the underlying VkCommandPool. transient/
// canReset map to VK_COMMAND_POOL_CREATE_TRANSIENT_BIT and
// VK_COMMAND_POOL_CREATE_RESET_COMMAND_BUFFER_BIT, spec §6.
func NewCommandBufferPool(d *Device, transient, canReset bool) (*CommandBufferPool, error) {
	var flags vk.CommandPoolCreateFlagBits
	if transient {
		flags |= vk.CommandPoolCreateTransientBit
	}
	if canReset {
		flags |= vk.CommandPoolCreateResetCommandBufferBit
	}
	var pool vk.CommandPool
	ret := vk.CreateCommandPool(d.adapter.Device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(d.mainFamily),
		Flags:            vk.CommandPoolCreateFlags(flags),
	}, nil, &pool)
	if isError(ret) {
		return nil, newErrWrap(KindGraphicsError, vkErr(ret))
	}
	return &CommandBufferPool{
		device: d.adapter.Device,
		pool:   pool,
		memory: d.memory,
		level:  vk.CommandBufferLevelPrimary,
	}, nil
}

func (p *CommandBufferPool) notify() {
	if p.suppressNotify {
		return
	}
	// Pool-level state is derived on demand by State(); nothing to cache.
}

// Create returns a preallocated buffer from the pool's vector when
// createdCount < len(buffers), else allocates a fresh one, spec §4.3
// "Reuse".
func (p *CommandBufferPool) Create() (vk.CommandBuffer, error) {
	p.lk.Lock()
	defer p.lk.Unlock()
	if p.disposed {
		return nil, newErr(KindObjectDisposed)
	}

	if p.createdCount < len(p.buffers) {
		h := p.buffers[p.createdCount]
		p.createdCount++
		ret := vk.ResetCommandBuffer(h.vk, vk.CommandBufferResetFlags(vk.CommandBufferResetReleaseResourcesBit))
		if isError(ret) {
			return nil, vkErr(ret)
		}
		h.state = StateReady
		return h.vk, nil
	}

	bufs := make([]vk.CommandBuffer, 1)
	ret := vk.AllocateCommandBuffers(p.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        p.pool,
		Level:              p.level,
		CommandBufferCount: 1,
	}, bufs)
	if isError(ret) {
		return nil, vkErr(ret)
	}
	h := &commandBufferHandle{vk: bufs[0], state: StateReady}
	p.buffers = append(p.buffers, h)
	p.createdCount++
	return h.vk, nil
}

func (p *CommandBufferPool) find(cb vk.CommandBuffer) *commandBufferHandle {
	for _, h := range p.buffers {
		if h.vk == cb {
			return h
		}
	}
	return nil
}

// transition drives event through the FSM for cb and updates pool counters.
func (p *CommandBufferPool) transition(cb vk.CommandBuffer, event string) error {
	p.lk.Lock()
	defer p.lk.Unlock()
	h := p.find(cb)
	if h == nil {
		return newErr(KindObjectDisposed)
	}
	wasInUse := inUse(h.state)
	wasCompleted := h.state == StateCompleted
	next, ok := nextState(h.state, event)
	if !ok {
		return newErr(KindObjectInUse)
	}
	h.state = next
	if !p.suppressNotify {
		nowInUse := inUse(next)
		nowCompleted := next == StateCompleted
		if wasInUse && !nowInUse {
			p.inUseCount--
		}
		if !wasInUse && nowInUse {
			p.inUseCount++
		}
		if wasCompleted && !nowCompleted {
			p.completedCount--
		}
		if !wasCompleted && nowCompleted {
			p.completedCount++
		}
	}
	return nil
}

func (p *CommandBufferPool) BeginRecording(cb vk.CommandBuffer) error { return p.transition(cb, "begin") }
func (p *CommandBufferPool) Submit(cb vk.CommandBuffer) error         { return p.transition(cb, "submit") }
func (p *CommandBufferPool) MarkCompleted(cb vk.CommandBuffer) error  { return p.transition(cb, "complete") }

// Reset frees all command buffers back to Ready and resets the underlying
// VkCommandPool, per spec §4.3. State-update notifications are suppressed
// during the reset to avoid thrashing counters, per spec.
func (p *CommandBufferPool) Reset(releaseSystemMemory bool) error {
	p.lk.Lock()
	defer p.lk.Unlock()
	if p.disposed {
		return newErr(KindObjectDisposed)
	}
	if p.inUseCount > 0 {
		return newErr(KindObjectInUse)
	}
	p.suppressNotify = true
	defer func() { p.suppressNotify = false }()

	var flags vk.CommandPoolResetFlagBits
	if releaseSystemMemory {
		flags = vk.CommandPoolResetReleaseResourcesBit
	}
	ret := vk.ResetCommandPool(p.device, p.pool, vk.CommandPoolResetFlags(flags))
	if isError(ret) {
		return vkErr(ret)
	}
	for _, h := range p.buffers {
		h.state = StateReady
	}
	p.createdCount = 0
	p.inUseCount = 0
	p.completedCount = 0
	return nil
}

// State returns the pool's derived state, spec §4.3.
func (p *CommandBufferPool) State() PoolState {
	p.lk.Lock()
	defer p.lk.Unlock()
	return derivePoolState(p.disposed, p.inUseCount, p.completedCount)
}

// GetStagingBuffer returns the smallest free staging buffer with
// size >= request, allocating a fresh one via the Memory Manager otherwise,
// spec §4.3 "Staging buffers".
func (p *CommandBufferPool) GetStagingBuffer(size uint64) (*Buffer, error) {
	p.lk.Lock()
	bestIdx := -1
	for i, e := range p.stagingFree {
		if e.size >= size && (bestIdx == -1 || e.size < p.stagingFree[bestIdx].size) {
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		e := p.stagingFree[bestIdx]
		p.stagingFree = append(p.stagingFree[:bestIdx], p.stagingFree[bestIdx+1:]...)
		p.lk.Unlock()
		return e.buf, nil
	}
	p.lk.Unlock()

	buf, err := newBuffer(p.device, p.memory, BufferDesc{
		Size:  size,
		Usage: UsageTransferSrc | UsageTransferDst | UsageStaging,
	})
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ReturnStagingBuffer reinserts b into the free-list for future reuse.
func (p *CommandBufferPool) ReturnStagingBuffer(b *Buffer) {
	p.lk.Lock()
	defer p.lk.Unlock()
	p.stagingFree = append(p.stagingFree, &stagingEntry{size: b.size, buf: b})
}

// Destroy disposes all staging buffers and the underlying VkCommandPool.
func (p *CommandBufferPool) Destroy() {
	p.lk.Lock()
	defer p.lk.Unlock()
	p.disposed = true
	for _, e := range p.stagingFree {
		e.buf.destroyNow()
	}
	p.stagingFree = nil
	vk.FreeCommandBuffers(p.device, p.pool, uint32(len(p.buffers)), rawBuffers(p.buffers))
	vk.DestroyCommandPool(p.device, p.pool, nil)
}

func rawBuffers(hs []*commandBufferHandle) []vk.CommandBuffer {
	out := make([]vk.CommandBuffer, len(hs))
	for i, h := range hs {
		out[i] = h.vk
	}
	return out
}
