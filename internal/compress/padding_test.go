package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPad(t *testing.T) {
	tests := []struct {
		name     string
		size     int
		targetKB float64
		wantLen  int
	}{
		{name: "undershoot is padded to exact size", size: 150_000, targetKB: 200, wantLen: 204_800},
		{name: "one byte short", size: 204_799, targetKB: 200, wantLen: 204_800},
		{name: "exact size untouched", size: 204_800, targetKB: 200, wantLen: 204_800},
		{name: "overshoot untouched", size: 210_000, targetKB: 200, wantLen: 210_000},
		{name: "fractional target floors", size: 100, targetKB: 1.5, wantLen: 1536},
		{name: "empty buffer", size: 0, targetKB: 2, wantLen: 2048},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := bytes.Repeat([]byte{0xAB}, tt.size)
			orig := bytes.Clone(buf)

			got := Pad(buf, tt.targetKB)

			assert.Len(t, got, tt.wantLen)
			assert.True(t, bytes.Equal(orig, got[:tt.size]))
			assert.Equal(t, make([]byte, tt.wantLen-tt.size), got[tt.size:])
			assert.Equal(t, tt.wantLen-tt.size, PaddedBytes(tt.size, tt.targetKB))
		})
	}
}

func TestPadKeepsJPEGTrailer(t *testing.T) {
	jpegLike := []byte{0xFF, 0xD8, 0x01, 0x02, 0xFF, 0xD9}

	got := Pad(jpegLike, 1)

	assert.Len(t, got, 1024)
	assert.Equal(t, []byte{0xFF, 0xD9}, got[4:6])
	assert.Equal(t, byte(0), got[6])
}
