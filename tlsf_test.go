package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapping(t *testing.T) {
	flA, slA := mapping(64)
	flB, slB := mapping(127)
	assert.Equal(t, flA, flB, "64 and 127 should fall in the same first-level class below the next power of two")
	assert.NotEqual(t, slA, slB)

	// A size at a class boundary maps to sl == 0.
	_, sl := mapping(128)
	assert.Equal(t, 0, sl)

	// Below the minimum block size, everything collapses to the smallest class.
	fl, _ := mapping(4)
	assert.Equal(t, 0, fl)
}

func TestMappingSearchRoundup(t *testing.T) {
	assert.Equal(t, uint64(tlsfMinBlockSize), mappingSearchRoundup(1))
	rounded := mappingSearchRoundup(130)
	assert.GreaterOrEqual(t, rounded, uint64(130))
	fl, sl := mapping(rounded)
	flLo, slLo := mapping(130)
	assert.True(t, fl > flLo || (fl == flLo && sl >= slLo))
}

func TestTLSFAllocFreeRoundTrip(t *testing.T) {
	a, err := newTLSFAllocator(4096)
	require.NoError(t, err)
	assert.True(t, a.IsEmpty())

	off1, err := a.Alloc(256, 16)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), off1%16)
	assert.False(t, a.IsEmpty())

	off2, err := a.Alloc(512, 64)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), off2%64)
	assert.NotEqual(t, off1, off2)

	require.NoError(t, a.Free(off1))
	require.NoError(t, a.Free(off2))
	assert.True(t, a.IsEmpty(), "freeing every allocation should coalesce back to one block")

	err = a.Free(off1)
	assert.ErrorIs(t, err, ErrDoubleFree)
}

func TestTLSFOutOfMemory(t *testing.T) {
	a, err := newTLSFAllocator(1024)
	require.NoError(t, err)
	_, err = a.Alloc(2048, 1)
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestTLSFCoalescingAcrossThreeBlocks(t *testing.T) {
	a, err := newTLSFAllocator(1024)
	require.NoError(t, err)
	o1, err := a.Alloc(128, 1)
	require.NoError(t, err)
	o2, err := a.Alloc(128, 1)
	require.NoError(t, err)
	o3, err := a.Alloc(128, 1)
	require.NoError(t, err)

	require.NoError(t, a.Free(o2))
	require.NoError(t, a.Free(o1))
	require.NoError(t, a.Free(o3))
	assert.True(t, a.IsEmpty())
}

func TestTLSFReset(t *testing.T) {
	a, err := newTLSFAllocator(2048)
	require.NoError(t, err)
	_, err = a.Alloc(100, 1)
	require.NoError(t, err)
	before := a.Stats()
	a.Reset()
	assert.True(t, a.IsEmpty())
	after := a.Stats()
	assert.Equal(t, uint64(0), after.AllocatedSize)
	assert.Equal(t, before.TotalAllocated, after.TotalAllocated, "cumulative counters survive Reset")
}

func TestNewTLSFAllocatorRejectsTooSmall(t *testing.T) {
	_, err := newTLSFAllocator(tlsfMinBlockSize - 1)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
