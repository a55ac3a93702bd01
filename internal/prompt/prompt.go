// Package prompt pulls a target size and output formats out of free text.
package prompt

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ds124wfegd/sizefit/internal/entity"
)

var sizePattern = regexp.MustCompile(`(?i)(\d+)\s*kb`)

// Parse never fails. A prompt without a usable size yields TargetSizeKB == 0
// and the caller decides what to do with it.
func Parse(text string) entity.SizeRequest {
	req := entity.SizeRequest{}

	if m := sizePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			req.TargetSizeKB = n
		}
	}

	lower := strings.ToLower(text)
	seen := map[entity.Format]bool{
		entity.FormatJPEG: strings.Contains(lower, "jpg") || strings.Contains(lower, "jpeg"),
		entity.FormatPNG:  strings.Contains(lower, "png"),
		entity.FormatPDF:  strings.Contains(lower, "pdf"),
	}
	for _, f := range entity.Formats {
		if seen[f] {
			req.Formats = append(req.Formats, f)
		}
	}
	if len(req.Formats) == 0 {
		req.Formats = []entity.Format{entity.FormatJPEG}
	}

	return req
}
