package corevk

import (
	"sync"

	"go.uber.org/zap"

	vk "github.com/vulkan-go/vulkan"
)

// Adapter is the already-enumerated, already-created instance/physical
// device/logical device this core wraps. Instance and device
// creation/enumeration are out of scope per spec §1 ("external
// collaborators"); callers construct an Adapter with whatever bootstrap
// path they prefer (the teacher's own platform.go is one example) and hand
// it to Device.
type Adapter struct {
	Instance          vk.Instance
	PhysicalDevice    vk.PhysicalDevice
	Device            vk.Device
	MemoryProperties  vk.PhysicalDeviceMemoryProperties
	DeviceProperties  vk.PhysicalDeviceProperties
}

// Options configures Device creation. Extra is the Usage escape hatch for
// knobs not yet promoted to a typed field.
type Options struct {
	ChunkSize              vk.DeviceSize // default 64 MiB
	MaxChunkSize           vk.DeviceSize // default 256 MiB
	DescriptorPoolCapacity uint32        // default 1000 per kind/sets
	FrameLag               int           // default 2
	Extra                  *Usage
}

func (o Options) withDefaults() Options {
	if o.ChunkSize == 0 {
		o.ChunkSize = 64 * 1024 * 1024
	}
	if o.MaxChunkSize == 0 {
		o.MaxChunkSize = 256 * 1024 * 1024
	}
	if o.DescriptorPoolCapacity == 0 {
		o.DescriptorPoolCapacity = 1000
	}
	if o.FrameLag == 0 {
		o.FrameLag = 2
	}
	return o
}

// Device is one logical GPU instance, per spec §9 ("Global state: none;
// there is one Device per logical GPU instance"). It owns the memory
// manager, the descriptor pool manager and the resource registry's
// deferred-destroy queue. Command-buffer pools and swapchains are created
// against a Device but are not held by it.
type Device struct {
	adapter Adapter
	opts    Options
	log     *zap.SugaredLogger

	queues      *queueFamilies
	mainFamily  int
	mainQueue   vk.Queue
	graphicsLk  sync.Mutex // graphicsQueueLock, §5

	memory      *MemoryManager
	descriptors *DescriptorPoolManager
	registry    *ResourceRegistry
}

// Create builds a Device around an already-created Adapter, binding the
// main (graphics+compute+transfer) queue. Mirrors spec §6's
// `Device = create(Adapter, Options)`.
func Create(adapter Adapter, opts Options) (*Device, error) {
	opts = opts.withDefaults()
	qf := newQueueFamilies(adapter.PhysicalDevice)
	if qf == nil {
		return nil, newErr(KindGraphicsError)
	}
	qf.bindQueues(adapter.Device)
	mainQueue, mainFamily, ok := qf.mainQueue()
	if !ok {
		return nil, newErr(KindNoPresentQueue)
	}

	d := &Device{
		adapter:    adapter,
		opts:       opts,
		log:        newLogger(),
		queues:     qf,
		mainFamily: mainFamily,
		mainQueue:  mainQueue,
	}
	d.memory = newMemoryManager(d)
	d.descriptors = newDescriptorPoolManager(d, opts.DescriptorPoolCapacity)
	d.registry = newResourceRegistry(d)
	return d, nil
}

// Destroy waits for the device to go idle, drains the deferred-destroy
// queue, and tears down the subsystems. Per §7, destruction paths never
// return an error.
func (d *Device) Destroy() {
	vk.DeviceWaitIdle(d.adapter.Device)
	d.registry.destroyAll()
	d.descriptors.destroy()
	d.memory.destroy()
	_ = d.log.Sync()
}

// submitLocked runs fn while holding graphicsQueueLock, the lock held
// across any vkQueueSubmit to the main queue (and across vkQueuePresentKHR
// when the present queue shares the main queue family), per spec §5.
func (d *Device) submitLocked(fn func(queue vk.Queue) error) error {
	d.graphicsLk.Lock()
	defer d.graphicsLk.Unlock()
	return fn(d.mainQueue)
}

func (d *Device) waitIdle() {
	vk.DeviceWaitIdle(d.adapter.Device)
}
