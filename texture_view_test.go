package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestViewTypeFor3D(t *testing.T) {
	assert.Equal(t, vk.ImageViewType3d, viewTypeFor(Texture3D, 1))
}

func TestViewTypeFor1D(t *testing.T) {
	assert.Equal(t, vk.ImageViewType1d, viewTypeFor(Texture1D, 1))
}

func TestViewTypeFor2DArray(t *testing.T) {
	assert.Equal(t, vk.ImageViewType2dArray, viewTypeFor(Texture2D, 6))
}

func TestViewTypeFor2DSingleLayer(t *testing.T) {
	assert.Equal(t, vk.ImageViewType2d, viewTypeFor(Texture2D, 1))
}
