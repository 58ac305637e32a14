package corevk

import vk "github.com/vulkan-go/vulkan"

// SurfaceSource is the tagged union of native surface descriptors from
// spec §6. Exactly one field must be set by the caller.
type SurfaceSource struct {
	Win32   *Win32Surface
	Xlib    *XlibSurface
	Wayland *WaylandSurface

	// custom lets a dev-convenience adapter (surface_glfw.go) hand back an
	// already-created vk.Surface, since GLFW creates the VkSurfaceKHR
	// itself rather than exposing the native handles this core translates.
	custom func(instance vk.Instance) (vk.Surface, error)
}

type Win32Surface struct {
	HInstance uintptr
	HWnd      uintptr
}

type XlibSurface struct {
	Display uintptr
	Window  uintptr
}

type WaylandSurface struct {
	Display uintptr
	Surface uintptr
}

// requiredInstanceExtension returns the surface-KHR extension this source
// needs; createSurface uses it to name the extension in its
// InstanceExtensionMissing error. Device creation does not call it.
func (s SurfaceSource) requiredInstanceExtension() string {
	switch {
	case s.Win32 != nil:
		return "VK_KHR_win32_surface"
	case s.Xlib != nil:
		return "VK_KHR_xlib_surface"
	case s.Wayland != nil:
		return "VK_KHR_wayland_surface"
	default:
		return ""
	}
}

// createSurface dispatches to the appropriate surface-KHR call. Native
// Win32/Xlib/Wayland surface creation is out of scope per spec §1 ("platform
// window surface creation") — those branches are left as the seam an
// external collaborator fills in; only the GLFW dev-convenience path
// (custom) is implemented in this module.
func createSurface(instance vk.Instance, src SurfaceSource) (vk.Surface, error) {
	if src.custom != nil {
		return src.custom(instance)
	}
	name := src.requiredInstanceExtension()
	if name == "" {
		name = "surface"
	}
	return vk.NullSurface, newErrName(KindInstanceExtensionMissing, name)
}
