package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextStateHappyPath(t *testing.T) {
	s, ok := nextState(StateReady, "begin")
	assert.True(t, ok)
	assert.Equal(t, StateRecording, s)

	s, ok = nextState(s, "submit")
	assert.True(t, ok)
	assert.Equal(t, StateSubmitted, s)

	s, ok = nextState(s, "complete")
	assert.True(t, ok)
	assert.Equal(t, StateCompleted, s)

	s, ok = nextState(s, "reset")
	assert.True(t, ok)
	assert.Equal(t, StateReady, s)
}

func TestNextStateRejectsIllegalTransitions(t *testing.T) {
	s, ok := nextState(StateReady, "submit")
	assert.False(t, ok)
	assert.Equal(t, StateReady, s, "state must be unchanged on an illegal transition")

	_, ok = nextState(StateRecording, "complete")
	assert.False(t, ok)

	_, ok = nextState(StateSubmitted, "begin")
	assert.False(t, ok)
}

func TestNextStateDisposeFromReady(t *testing.T) {
	s, ok := nextState(StateReady, "dispose")
	assert.True(t, ok)
	assert.Equal(t, StateDisposed, s)
}

func TestInUse(t *testing.T) {
	assert.False(t, inUse(StateReady))
	assert.True(t, inUse(StateRecording))
	assert.True(t, inUse(StateSubmitted))
	assert.False(t, inUse(StateCompleted))
	assert.False(t, inUse(StateDisposed))
}

func TestDerivePoolState(t *testing.T) {
	assert.Equal(t, PoolDisposed, derivePoolState(true, 5, 5))
	assert.Equal(t, PoolInUse, derivePoolState(false, 1, 0))
	assert.Equal(t, PoolCompletedState, derivePoolState(false, 0, 1))
	assert.Equal(t, PoolReady, derivePoolState(false, 0, 0))
}

func TestDerivePoolStateInUseTakesPriorityOverCompleted(t *testing.T) {
	assert.Equal(t, PoolInUse, derivePoolState(false, 1, 3))
}
