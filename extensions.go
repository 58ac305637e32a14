package corevk

import vk "github.com/vulkan-go/vulkan"

// InstanceExtensions lists the instance extensions available on the
// platform, grounded on the teacher's function of the same name.
func InstanceExtensions() ([]string, error) {
	var count uint32
	if ret := vk.EnumerateInstanceExtensionProperties("", &count, nil); isError(ret) {
		return nil, vkErr(ret)
	}
	list := make([]vk.ExtensionProperties, count)
	if ret := vk.EnumerateInstanceExtensionProperties("", &count, list); isError(ret) {
		return nil, vkErr(ret)
	}
	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// DeviceExtensions lists the extensions a physical device supports.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	var count uint32
	if ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil); isError(ret) {
		return nil, vkErr(ret)
	}
	list := make([]vk.ExtensionProperties, count)
	if ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, list); isError(ret) {
		return nil, vkErr(ret)
	}
	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vk.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// ValidationLayers lists the validation layers available on the platform.
func ValidationLayers() ([]string, error) {
	var count uint32
	if ret := vk.EnumerateInstanceLayerProperties(&count, nil); isError(ret) {
		return nil, vkErr(ret)
	}
	list := make([]vk.LayerProperties, count)
	if ret := vk.EnumerateInstanceLayerProperties(&count, list); isError(ret) {
		return nil, vkErr(ret)
	}
	names := make([]string, 0, len(list))
	for _, layer := range list {
		layer.Deref()
		names = append(names, vk.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// extensionSet reconciles a set of wanted and required names against what is
// actually available, generalizing the teacher's
// BaseInstanceExtensions/BaseDeviceExtensions/BaseLayerExtensions trio into
// one reusable type.
type extensionSet struct {
	wanted   []string
	required []string
	actual   []string
}

func newExtensionSet(wanted, required, available []string) *extensionSet {
	avail := make(map[string]bool, len(available))
	for _, a := range available {
		avail[a] = true
	}
	var actual []string
	for _, w := range wanted {
		if avail[w] {
			actual = append(actual, w)
		}
	}
	for _, r := range required {
		if avail[r] && !contains(actual, r) {
			actual = append(actual, r)
		}
	}
	return &extensionSet{wanted: wanted, required: required, actual: actual}
}

// missingRequired returns the first required name unsatisfied by the
// available set, or "" if all required names are present.
func (e *extensionSet) missingRequired() string {
	have := make(map[string]bool, len(e.actual))
	for _, a := range e.actual {
		have[a] = true
	}
	for _, r := range e.required {
		if !have[r] {
			return r
		}
	}
	return ""
}

func (e *extensionSet) names() []string {
	return e.actual
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
