package corevk

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// Kind classifies the errors this module returns across its API boundary.
// Driver result codes never cross that boundary directly; they are wrapped
// into one of these kinds.
type Kind int

const (
	KindUnknown Kind = iota
	KindGraphicsError
	KindOutOfMemoryHost
	KindOutOfMemoryDevice
	KindOutOfMemoryTypes
	KindSurfaceLost
	KindSwapchainAcquireFailed
	KindSwapchainFormatUnsupported
	KindNoPresentQueue
	KindInstanceExtensionMissing
	KindDeviceExtensionMissing
	KindObjectDisposed
	KindObjectInUse
	KindAllocationTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindGraphicsError:
		return "GraphicsError"
	case KindOutOfMemoryHost:
		return "OutOfMemoryHost"
	case KindOutOfMemoryDevice:
		return "OutOfMemoryDevice"
	case KindOutOfMemoryTypes:
		return "OutOfMemoryTypes"
	case KindSurfaceLost:
		return "SurfaceLost"
	case KindSwapchainAcquireFailed:
		return "SwapchainAcquireFailed"
	case KindSwapchainFormatUnsupported:
		return "SwapchainFormatUnsupported"
	case KindNoPresentQueue:
		return "NoPresentQueue"
	case KindInstanceExtensionMissing:
		return "InstanceExtensionMissing"
	case KindDeviceExtensionMissing:
		return "DeviceExtensionMissing"
	case KindObjectDisposed:
		return "ObjectDisposed"
	case KindObjectInUse:
		return "ObjectInUse"
	case KindAllocationTooLarge:
		return "AllocationTooLargeForAnyChunk"
	default:
		return "Unknown"
	}
}

// Error is the typed error this module's public API returns. Name carries
// extra context for InstanceExtensionMissing/DeviceExtensionMissing; Driver
// carries the vk.Result for GraphicsError, zero otherwise.
type Error struct {
	Kind   Kind
	Name   string
	Driver vk.Result
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("corevk: %s(%s)", e.Kind, e.Name)
	case e.Err != nil:
		return fmt.Sprintf("corevk: %s: %v", e.Kind, e.Err)
	case e.Kind == KindGraphicsError:
		return fmt.Sprintf("corevk: %s: driver result %d", e.Kind, e.Driver)
	default:
		return fmt.Sprintf("corevk: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind Kind) error {
	return &Error{Kind: kind}
}

func newErrName(kind Kind, name string) error {
	return &Error{Kind: kind, Name: name}
}

func newErrWrap(kind Kind, err error) error {
	return &Error{Kind: kind, Err: err}
}

// isError reports whether a Vulkan call result should be treated as failure.
func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// vkErr wraps a non-success driver result into a GraphicsError, classifying
// the two out-of-memory results the spec calls out by name.
func vkErr(ret vk.Result) error {
	if !isError(ret) {
		return nil
	}
	switch ret {
	case vk.ErrorOutOfHostMemory:
		return newErr(KindOutOfMemoryHost)
	case vk.ErrorOutOfDeviceMemory:
		return newErr(KindOutOfMemoryDevice)
	default:
		return &Error{Kind: KindGraphicsError, Driver: ret}
	}
}

// checkErr is installed via defer to turn a recovered panic into an error,
// matching the teacher's recover-at-the-boundary helper. No function in
// this package defers it.
func checkErr(err *error) {
	if v := recover(); v != nil {
		switch e := v.(type) {
		case error:
			*err = e
		default:
			*err = fmt.Errorf("corevk: panic: %+v", v)
		}
	}
}
