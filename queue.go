package corevk

import vk "github.com/vulkan-go/vulkan"

// queueFamilies wraps the queue family properties of a physical device and
// tracks which families this Device has already bound a queue from,
// generalized from the teacher's CoreQueue.
type queueFamilies struct {
	gpu        vk.PhysicalDevice
	properties []vk.QueueFamilyProperties
	bound      []bool
	queues     []vk.Queue
}

func newQueueFamilies(gpu vk.PhysicalDevice) *queueFamilies {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, nil)
	if count == 0 {
		return nil
	}
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(gpu, &count, props)
	return &queueFamilies{
		gpu:        gpu,
		properties: props,
		bound:      make([]bool, count),
		queues:     make([]vk.Queue, count),
	}
}

func (q *queueFamilies) createInfos() []vk.DeviceQueueCreateInfo {
	infos := make([]vk.DeviceQueueCreateInfo, len(q.properties))
	priority := float32(1.0)
	for i := range q.properties {
		infos[i] = vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: uint32(i),
			QueueCount:       1,
			PQueuePriorities: []float32{priority},
		}
	}
	return infos
}

func (q *queueFamilies) bindQueues(device vk.Device) {
	for i := range q.properties {
		vk.GetDeviceQueue(device, uint32(i), 0, &q.queues[i])
	}
}

// find returns the first family index satisfying flagBits. If unboundOnly,
// a family already marked bound is skipped.
func (q *queueFamilies) find(flagBits vk.QueueFlagBits, unboundOnly bool) (int, bool) {
	for i := range q.properties {
		props := q.properties[i]
		props.Deref()
		if props.QueueFlags&vk.QueueFlags(flagBits) != vk.QueueFlags(flagBits) {
			continue
		}
		if unboundOnly && q.bound[i] {
			continue
		}
		return i, true
	}
	return 0, false
}

// mainQueue binds the first unbound family supporting graphics, the queue
// this module calls the "main queue" per the glossary.
func (q *queueFamilies) mainQueue() (vk.Queue, int, bool) {
	idx, ok := q.find(vk.QueueGraphicsBit, true)
	if !ok {
		return vk.Queue(vk.NullHandle), 0, false
	}
	q.bound[idx] = true
	return q.queues[idx], idx, true
}

// supportsPresent reports whether family idx can present to surface.
func (q *queueFamilies) supportsPresent(idx int, surface vk.Surface) bool {
	var supported vk.Bool32
	vk.GetPhysicalDeviceSurfaceSupport(q.gpu, uint32(idx), surface, &supported)
	return supported.B()
}

// presentQueueFamily implements the §4.4 present-queue selection: prefer
// the main queue family, else scan for the first family that supports
// present on surface.
func (q *queueFamilies) presentQueueFamily(mainFamily int, surface vk.Surface) (int, bool) {
	if q.supportsPresent(mainFamily, surface) {
		return mainFamily, true
	}
	for i := range q.properties {
		if q.supportsPresent(i, surface) {
			return i, true
		}
	}
	return 0, false
}

func (q *queueFamilies) queueAt(idx int) vk.Queue {
	return q.queues[idx]
}
