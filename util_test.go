package corevk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSliceUint32LittleEndian(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0xFF, 0xFF, 0xFF, 0xFF}
	got := sliceUint32(data)
	assert.Equal(t, []uint32{1, 0xFFFFFFFF}, got)
}

func TestSliceUint32TruncatesPartialWord(t *testing.T) {
	data := []byte{0x01, 0x00, 0x00, 0x00, 0xAB}
	got := sliceUint32(data)
	assert.Len(t, got, 1, "a trailing partial word is dropped, not zero-padded")
}

func TestSliceUint32Empty(t *testing.T) {
	assert.Empty(t, sliceUint32(nil))
}
