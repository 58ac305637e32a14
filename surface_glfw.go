package corevk

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// GLFWSurface builds a SurfaceSource backed by a *glfw.Window, grounded on
// the teacher's CoreDisplay.GetVulkanSurface. It is a developer convenience
// for desktop targets, not a replacement for the native Win32/Xlib/Wayland
// paths spec §1 places out of scope.
func GLFWSurface(window *glfw.Window) SurfaceSource {
	return SurfaceSource{
		custom: func(instance vk.Instance) (vk.Surface, error) {
			raw, err := window.CreateWindowSurface(instance, nil)
			if err != nil {
				return vk.NullSurface, newErrWrap(KindSurfaceLost, err)
			}
			return vk.SurfaceFromPointer(raw), nil
		},
	}
}

// GLFWInstanceExtensions returns the instance extensions GLFW needs for
// window surface creation on the current platform.
func GLFWInstanceExtensions() []string {
	return glfw.GetRequiredInstanceExtensions()
}
