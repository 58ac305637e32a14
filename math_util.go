package corevk

import lin "github.com/xlab/linmath"

// vulkanClipFixup converts a GL-style clip-space projection matrix to
// Vulkan's: Y flipped (Vulkan's NDC has +Y down) and depth remapped from
// [-1,1] to [0,1]. Grounded on the teacher's VulkanProjectionMat, kept as a
// free function since it owns no Vulkan object lifetime.
func vulkanClipFixup(dst *lin.Mat4x4, proj *lin.Mat4x4) {
	dst.Fill(1.0)
	dst.ScaleAniso(dst, 1.0, -1.0, 1.0)
	dst.ScaleAniso(dst, 1.0, 1.0, 0.5)
	dst.Translate(0.0, 0.0, 1.0)
	dst.Mult(dst, proj)
}

// viewportFor returns the x, y, width and height of a viewport covering the
// whole width×height extent. It does not flip Y: the origin stays at the
// top-left corner and the height stays positive.
func viewportFor(width, height uint32) (x, y, w, h float32) {
	return 0, 0, float32(width), float32(height)
}
