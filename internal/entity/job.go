package entity

import "time"

const (
	JobStatusCompleted = "completed"
	JobStatusWarning   = "warning"
)

// JobReport is the stored outcome of one compression request.
type JobReport struct {
	ID           string    `json:"id"`
	Filename     string    `json:"filename"`
	MIME         string    `json:"mime"`
	OriginalKB   float64   `json:"original_kb"`
	TargetKB     int       `json:"target_kb"`
	Formats      []Format  `json:"formats"`
	QualityLevel int       `json:"quality_level"`
	OutputKB     float64   `json:"output_kb"`
	PaddedBytes  int       `json:"padded_bytes"`
	Warning      string    `json:"warning,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompressionEvent is published after every finished request.
type CompressionEvent struct {
	Report JobReport `json:"report"`
	Batch  bool      `json:"batch"`
}
