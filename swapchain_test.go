package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vk "github.com/vulkan-go/vulkan"
)

func TestSelectSurfaceFormatSrgbRequestedPicksMatch(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	got, err := selectSurfaceFormat(formats, true)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, got.Format)
}

func TestSelectSurfaceFormatNonSrgbPicksMatch(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
		{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	got, err := selectSurfaceFormat(formats, false)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, got.Format)
}

func TestSelectSurfaceFormatSrgbRequestedButUnsupportedFails(t *testing.T) {
	formats := []vk.SurfaceFormat{
		{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear},
	}
	_, err := selectSurfaceFormat(formats, true)
	var gerr *Error
	assert.ErrorAs(t, err, &gerr)
	assert.Equal(t, KindSwapchainFormatUnsupported, gerr.Kind)
}

func TestSelectSurfaceFormatUndefinedMeansAnyFormatSrgbOn(t *testing.T) {
	formats := []vk.SurfaceFormat{{Format: vk.FormatUndefined, ColorSpace: vk.ColorSpaceSrgbNonlinear}}
	got, err := selectSurfaceFormat(formats, true)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Srgb, got.Format)
}

func TestSelectSurfaceFormatUndefinedMeansAnyFormatSrgbOff(t *testing.T) {
	formats := []vk.SurfaceFormat{{Format: vk.FormatUndefined, ColorSpace: vk.ColorSpaceSrgbNonlinear}}
	got, err := selectSurfaceFormat(formats, false)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatB8g8r8a8Unorm, got.Format)
}

func TestSelectSurfaceFormatFallsBackToFirstWhenNonSrgbNoMatch(t *testing.T) {
	formats := []vk.SurfaceFormat{{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}}
	got, err := selectSurfaceFormat(formats, false)
	require.NoError(t, err)
	assert.Equal(t, vk.FormatR8g8b8a8Unorm, got.Format)
}

func TestSelectPresentModeSyncOnPrefersFifoRelaxed(t *testing.T) {
	available := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeFifoRelaxed}
	assert.Equal(t, vk.PresentModeFifoRelaxed, selectPresentMode(available, true))
}

func TestSelectPresentModeSyncOnFallsBackToFifo(t *testing.T) {
	available := []vk.PresentMode{vk.PresentModeFifo}
	assert.Equal(t, vk.PresentModeFifo, selectPresentMode(available, true))
}

func TestSelectPresentModeSyncOffPrefersMailbox(t *testing.T) {
	available := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox, vk.PresentModeImmediate}
	assert.Equal(t, vk.PresentModeMailbox, selectPresentMode(available, false))
}

func TestSelectPresentModeSyncOffFallsBackToImmediate(t *testing.T) {
	available := []vk.PresentMode{vk.PresentModeFifo, vk.PresentModeImmediate}
	assert.Equal(t, vk.PresentModeImmediate, selectPresentMode(available, false))
}

func TestSelectPresentModeSyncOffFallsBackToFifo(t *testing.T) {
	available := []vk.PresentMode{vk.PresentModeFifo}
	assert.Equal(t, vk.PresentModeFifo, selectPresentMode(available, false))
}

func TestComputeImageCountIsMinPlusOneClampedToMax(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}
	assert.Equal(t, uint32(2), computeImageCount(caps))
}

func TestComputeImageCountIsMinPlusOneWhenRoom(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}
	assert.Equal(t, uint32(3), computeImageCount(caps))
}

func TestComputeImageCountUnboundedMax(t *testing.T) {
	caps := vk.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}
	assert.Equal(t, uint32(3), computeImageCount(caps))
}

func TestComputeSharingModeSameFamily(t *testing.T) {
	mode, families := computeSharingMode(0, 0)
	assert.Equal(t, vk.SharingModeExclusive, mode)
	assert.Nil(t, families)
}

func TestComputeSharingModeDifferentFamilies(t *testing.T) {
	mode, families := computeSharingMode(0, 2)
	assert.Equal(t, vk.SharingModeConcurrent, mode)
	assert.Equal(t, []uint32{0, 2}, families)
}

func TestClampExtentUsesCurrentExtentWhenDefined(t *testing.T) {
	caps := vk.SurfaceCapabilities{CurrentExtent: vk.Extent2D{Width: 800, Height: 600}}
	got := clampExtent(caps, vk.Extent2D{Width: 1920, Height: 1080})
	assert.Equal(t, uint32(800), got.Width)
	assert.Equal(t, uint32(600), got.Height)
}

func TestClampExtentClampsFallbackWhenUndefined(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 64, Height: 64},
		MaxImageExtent: vk.Extent2D{Width: 1024, Height: 1024},
	}
	got := clampExtent(caps, vk.Extent2D{Width: 2000, Height: 32})
	assert.Equal(t, uint32(1024), got.Width)
	assert.Equal(t, uint32(64), got.Height)
}

func TestIsMinimizedBothExtentsZero(t *testing.T) {
	caps := vk.SurfaceCapabilities{}
	assert.True(t, isMinimized(caps))
}

func TestIsMinimizedNotMinimizedWhenMaxNonzero(t *testing.T) {
	caps := vk.SurfaceCapabilities{MaxImageExtent: vk.Extent2D{Width: 1024, Height: 1024}}
	assert.False(t, isMinimized(caps))
}

func TestSelectDepthFormatPicksFirstSupported(t *testing.T) {
	supported := func(f vk.Format) bool { return f == vk.FormatD32Sfloat }
	got, ok := selectDepthFormat(supported, depthFormatCandidates)
	assert.True(t, ok)
	assert.Equal(t, vk.FormatD32Sfloat, got)
}

func TestSelectDepthFormatNoneSupported(t *testing.T) {
	_, ok := selectDepthFormat(func(vk.Format) bool { return false }, depthFormatCandidates)
	assert.False(t, ok)
}

func TestSelectCompositeAlphaPrefersOpaque(t *testing.T) {
	supported := vk.CompositeAlphaFlags(vk.CompositeAlphaOpaqueBit) | vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit)
	assert.Equal(t, vk.CompositeAlphaOpaqueBit, selectCompositeAlpha(supported))
}

func TestSelectCompositeAlphaFallsBackWhenOpaqueUnsupported(t *testing.T) {
	supported := vk.CompositeAlphaFlags(vk.CompositeAlphaPreMultipliedBit)
	assert.Equal(t, vk.CompositeAlphaPreMultipliedBit, selectCompositeAlpha(supported))
}
