package corevk

import vk "github.com/vulkan-go/vulkan"

// Fence is a ref-counted VkFence, narrowed from the teacher's FenceManager
// (which pooled fences behind a single per-thread manager) into the single
// resource object spec §6 names: createFence(signaled), resetFence,
// waitForFence.
type Fence struct {
	resourceBase
	device vk.Device
	handle vk.Fence
}

// CreateFence implements spec §6's createFence(signaled).
func CreateFence(d *Device, signaled bool) (*Fence, error) {
	var flags vk.FenceCreateFlags
	if signaled {
		flags = vk.FenceCreateFlags(vk.FenceCreateSignaledBit)
	}
	var handle vk.Fence
	ret := vk.CreateFence(d.adapter.Device, &vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: flags,
	}, nil, &handle)
	if isError(ret) {
		return nil, vkErr(ret)
	}
	f := &Fence{device: d.adapter.Device, handle: handle}
	f.resourceBase = newResourceBase(d.registry, KindResourceFence, f.destroyNow)
	return f, nil
}

func (f *Fence) Handle() vk.Fence { return f.handle }

// Reset implements spec §6's device.resetFence.
func (f *Fence) Reset() error {
	ret := vk.ResetFences(f.device, 1, []vk.Fence{f.handle})
	if isError(ret) {
		return vkErr(ret)
	}
	return nil
}

// Wait implements spec §6's device.waitForFence(s), narrowed to a single
// fence; callers waiting on several call Wait concurrently or use
// WaitMultiple.
func (f *Fence) Wait(timeoutNanos uint64) error {
	ret := vk.WaitForFences(f.device, 1, []vk.Fence{f.handle}, vk.True, timeoutNanos)
	if isError(ret) {
		return vkErr(ret)
	}
	return nil
}

// WaitMultiple waits on several fences sharing one device, per spec §6's
// device.waitForFence(s) plural form.
func WaitMultiple(d *Device, fences []*Fence, waitAll bool, timeoutNanos uint64) error {
	handles := make([]vk.Fence, len(fences))
	for i, f := range fences {
		handles[i] = f.handle
	}
	all := vk.False
	if waitAll {
		all = vk.True
	}
	ret := vk.WaitForFences(d.adapter.Device, uint32(len(handles)), handles, all, timeoutNanos)
	if isError(ret) {
		return vkErr(ret)
	}
	return nil
}

func (f *Fence) destroyNow() {
	vk.DestroyFence(f.device, f.handle, nil)
}
