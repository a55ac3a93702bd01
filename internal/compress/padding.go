package compress

import "math"

// Pad appends zero bytes so that len(buf) reaches floor(targetKB*1024). A
// buffer already at or above the target is returned as is. The leading bytes
// are never touched, so decoders that stop at the end-of-image marker read the
// same picture.
func Pad(buf []byte, targetKB float64) []byte {
	want := int(math.Floor(targetKB * 1024))
	if SizeKB(len(buf)) >= targetKB || want <= len(buf) {
		return buf
	}

	out := make([]byte, want)
	copy(out, buf)
	return out
}

// PaddedBytes reports how many bytes Pad would add.
func PaddedBytes(n int, targetKB float64) int {
	want := int(math.Floor(targetKB * 1024))
	if SizeKB(n) >= targetKB || want <= n {
		return 0
	}
	return want - n
}
