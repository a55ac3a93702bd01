// Package compress holds the size fitting core: the quality search, padding,
// the quality gate and the bounds a target size must fall in.
package compress

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
)

const (
	MaxQuality = 95
	MinQuality = 1
)

// Encoder produces a lossy encoding of img at the given quality.
type Encoder interface {
	EncodeJPEG(img image.Image, quality int) ([]byte, error)
}

// Result is one encode attempt.
type Result struct {
	Bytes   []byte
	Quality int
}

func (r Result) SizeKB() float64 {
	return SizeKB(len(r.Bytes))
}

func SizeKB(n int) float64 {
	return float64(n) / 1024
}

// Fit walks quality from MaxQuality down and keeps the encoding whose size is
// closest to targetKB. On equal distance the higher quality is kept. The scan
// stops at the first encoding smaller than the target, so at most
// MaxQuality encodes are made.
func Fit(ctx context.Context, enc Encoder, img image.Image, targetKB float64) (Result, error) {
	if targetKB <= 0 {
		return Result{}, fmt.Errorf("target size must be positive, got %v", targetKB)
	}

	var (
		best     Result
		bestDiff = math.Inf(1)
	)

	for q := MaxQuality; q >= MinQuality; q-- {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		data, err := enc.EncodeJPEG(img, q)
		if err != nil {
			return Result{}, fmt.Errorf("encode at quality %d: %w", q, err)
		}

		size := SizeKB(len(data))
		if diff := math.Abs(size - targetKB); diff < bestDiff {
			best = Result{Bytes: data, Quality: q}
			bestDiff = diff
		}

		if size < targetKB {
			break
		}
	}

	if best.Bytes == nil {
		return Result{}, errors.New("encoder produced no output")
	}
	return best, nil
}

// Single encodes once at MaxQuality. Used when the target is above the
// original size and there is nothing to search for.
func Single(enc Encoder, img image.Image) (Result, error) {
	data, err := enc.EncodeJPEG(img, MaxQuality)
	if err != nil {
		return Result{}, fmt.Errorf("encode at quality %d: %w", MaxQuality, err)
	}
	return Result{Bytes: data, Quality: MaxQuality}, nil
}
