package corevk

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	vk "github.com/vulkan-go/vulkan"
)

func TestVkErrClassifiesOutOfMemory(t *testing.T) {
	var e *Error
	err := vkErr(vk.ErrorOutOfHostMemory)
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, KindOutOfMemoryHost, e.Kind)

	err = vkErr(vk.ErrorOutOfDeviceMemory)
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, KindOutOfMemoryDevice, e.Kind)
}

func TestVkErrWrapsOtherResultsAsGraphicsError(t *testing.T) {
	var e *Error
	err := vkErr(vk.ErrorDeviceLost)
	assert.ErrorAs(t, err, &e)
	assert.Equal(t, KindGraphicsError, e.Kind)
	assert.Equal(t, vk.ErrorDeviceLost, e.Driver)
}

func TestVkErrSuccessIsNil(t *testing.T) {
	assert.NoError(t, vkErr(vk.Success))
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	wrapped := newErrWrap(KindOutOfMemoryDevice, inner)
	assert.ErrorIs(t, wrapped, inner)
}

func TestErrorMessageIncludesName(t *testing.T) {
	err := newErrName(KindInstanceExtensionMissing, "VK_KHR_surface")
	assert.Contains(t, err.Error(), "VK_KHR_surface")
	assert.Contains(t, err.Error(), "InstanceExtensionMissing")
}

func TestCheckErrRecoversPanicWithError(t *testing.T) {
	var err error
	func() {
		defer checkErr(&err)
		panic(errors.New("deep recording failure"))
	}()
	assert.EqualError(t, err, "deep recording failure")
}

func TestCheckErrRecoversNonErrorPanic(t *testing.T) {
	var err error
	func() {
		defer checkErr(&err)
		panic("unexpected string panic")
	}()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected string panic")
}
