package compress

import "github.com/ds124wfegd/sizefit/internal/entity"

const (
	minRatio = 0.1
	maxRatio = 2.0
)

// Bounds is the window of target sizes accepted for one upload.
type Bounds struct {
	MinKB int
	MaxKB int
}

// NewBounds derives the window from the uploaded byte length: at least 10% of
// the original (never below 1KB) and at most 200% of it.
func NewBounds(originalBytes int64) Bounds {
	originalKB := float64(originalBytes) / 1024

	minKB := int(originalKB * minRatio)
	if minKB < 1 {
		minKB = 1
	}
	return Bounds{MinKB: minKB, MaxKB: int(originalKB * maxRatio)}
}

func (b Bounds) Contains(targetKB int) bool {
	return targetKB >= b.MinKB && targetKB <= b.MaxKB
}

func (b Bounds) Check(targetKB int) error {
	if b.Contains(targetKB) {
		return nil
	}
	return &entity.BoundsError{TargetKB: targetKB, MinKB: b.MinKB, MaxKB: b.MaxKB}
}
