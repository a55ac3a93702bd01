package entity

import (
	"errors"
	"fmt"
)

var (
	ErrNoImageProvided = errors.New("No image file provided")
	ErrNoFileSelected  = errors.New("No selected file")
	ErrNoTargetSize    = errors.New("no target size (in KB) found in prompt")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoImageInPDF    = errors.New("no images found in the PDF file")
	ErrNothingToPack   = errors.New("none of the uploaded files could be processed")
	ErrJobNotFound     = errors.New("job not found")
)

// BoundsError reports a target size outside the window allowed for an upload.
type BoundsError struct {
	TargetKB int
	MinKB    int
	MaxKB    int
}

func (e *BoundsError) Error() string {
	if e.TargetKB < e.MinKB {
		return fmt.Sprintf("Requested size %dKB is too small. Minimum allowed is %dKB (10%% of original).", e.TargetKB, e.MinKB)
	}
	return fmt.Sprintf("Requested size %dKB is too large. Maximum allowed is %dKB (200%% of original).", e.TargetKB, e.MaxKB)
}

// IsValidation reports whether err should be surfaced to the client as a 400.
func IsValidation(err error) bool {
	var be *BoundsError
	switch {
	case errors.As(err, &be):
		return true
	case errors.Is(err, ErrNoImageProvided),
		errors.Is(err, ErrNoFileSelected),
		errors.Is(err, ErrNoTargetSize),
		errors.Is(err, ErrUnsupportedFile),
		errors.Is(err, ErrNoImageInPDF),
		errors.Is(err, ErrNothingToPack):
		return true
	}
	return false
}
