package corevk

import (
	"sync"

	vk "github.com/vulkan-go/vulkan"
)

// ResourceRegistry holds the deferred-destroy queue that resources enqueue
// into when their ref-count reaches zero, per spec §4.5. It keeps no list of
// live resources, and pending destroys are not keyed by fence: a drain runs
// every pending destroy at once. Grounded on the teacher's managers.go
// FenceManager — the only fence-lifecycle code in the teacher.
type ResourceRegistry struct {
	device *Device

	lk      sync.Mutex
	pending []func()
}

func newResourceRegistry(d *Device) *ResourceRegistry {
	return &ResourceRegistry{device: d}
}

// enqueueDestroy adds a destroy thunk to the deferred queue. It is not run
// inline: the queue is drained only by DrainCompleted or DrainIdle. Inside
// this package only Device.Destroy drains it (through DrainIdle); swapchain
// recreation and CommandBufferPool do not drain it.
func (r *ResourceRegistry) enqueueDestroy(destroy func()) {
	r.lk.Lock()
	r.pending = append(r.pending, destroy)
	r.lk.Unlock()
}

// DrainCompleted runs and clears every pending destroy. Safe to call
// whenever the caller knows no in-flight command buffer can still
// reference the pending resources (e.g. a CommandBufferPool just reported
// PoolCompletedState for all its members).
func (r *ResourceRegistry) DrainCompleted() {
	r.lk.Lock()
	pending := r.pending
	r.pending = nil
	r.lk.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// DrainIdle waits for the device to go idle, then runs every pending
// destroy unconditionally, per spec §4.5 ("At device shutdown, all
// resources are destroyed after vkDeviceWaitIdle").
func (r *ResourceRegistry) DrainIdle() {
	vk.DeviceWaitIdle(r.device.adapter.Device)
	r.DrainCompleted()
}

func (r *ResourceRegistry) destroyAll() {
	r.DrainIdle()
}
