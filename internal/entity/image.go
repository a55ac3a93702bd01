package entity

import (
	"io"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatPDF  Format = "pdf"
)

// Formats in the order they are emitted into archives and reports.
var Formats = []Format{FormatJPEG, FormatPNG, FormatPDF}

func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	default:
		return "image/jpeg"
	}
}

func (f Format) Upper() string {
	return strings.ToUpper(string(f))
}

// SizeRequest is what a prompt asks for. TargetSizeKB == 0 means no size was found.
type SizeRequest struct {
	TargetSizeKB int      `json:"target_size_kb"`
	Formats      []Format `json:"formats"`
}

func (r SizeRequest) HasSize() bool {
	return r.TargetSizeKB > 0
}

type Upload struct {
	Filename string
	Size     int64
	Prompt   string
	Force    bool
	Open     func() (io.ReadCloser, error)
}

type BatchUpload struct {
	Files  []Upload
	Prompt string
	Force  bool
}

// Output is a finished artifact ready to be written to the client.
type Output struct {
	JobID       string
	Filename    string
	ContentType string
	Data        []byte
	Warning     string
	Skipped     []string
}

// QualityWarning is returned instead of a file when the quality gate blocks.
type QualityWarning struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	QualityLevel int    `json:"quality_level"`
}
