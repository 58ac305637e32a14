package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceBaseReleaseAtZeroEnqueuesDestroy(t *testing.T) {
	reg := newResourceRegistry(nil)
	destroyed := 0
	base := newResourceBase(reg, KindResourceBuffer, func() { destroyed++ })

	base.Release()
	assert.True(t, base.Disposed())
	assert.Equal(t, 0, destroyed, "destroy runs only when the registry drains, not inline")

	reg.DrainCompleted()
	assert.Equal(t, 1, destroyed)
}

func TestResourceBaseRetainDelaysDestroy(t *testing.T) {
	reg := newResourceRegistry(nil)
	destroyed := 0
	base := newResourceBase(reg, KindResourceBuffer, func() { destroyed++ })

	base.Retain()
	base.Release()
	assert.False(t, base.Disposed(), "one Retain should outlive the matching Release")

	base.Release()
	assert.True(t, base.Disposed())
	reg.DrainCompleted()
	assert.Equal(t, 1, destroyed)
}

func TestResourceBaseReleaseIsIdempotentPastZero(t *testing.T) {
	reg := newResourceRegistry(nil)
	destroyed := 0
	base := newResourceBase(reg, KindResourceBuffer, func() { destroyed++ })

	base.Release()
	base.Release() // extra release must not enqueue a second destroy
	reg.DrainCompleted()
	assert.Equal(t, 1, destroyed)
}

func TestResourceRegistryDrainCompletedClearsPending(t *testing.T) {
	reg := newResourceRegistry(nil)
	calls := 0
	reg.enqueueDestroy(func() { calls++ })
	reg.enqueueDestroy(func() { calls++ })
	reg.DrainCompleted()
	assert.Equal(t, 2, calls)

	reg.DrainCompleted()
	assert.Equal(t, 2, calls, "a second drain with nothing pending must be a no-op")
}
