package compress

import "fmt"

const DefaultQualityThreshold = 40

// Gate refuses low quality output unless the caller forces it.
type Gate struct {
	Threshold int
}

func NewGate(threshold int) Gate {
	if threshold <= 0 {
		threshold = DefaultQualityThreshold
	}
	return Gate{Threshold: threshold}
}

func (g Gate) Allow(quality int, forced bool) bool {
	return forced || quality >= g.Threshold
}

func (g Gate) Low(quality int) bool {
	return quality < g.Threshold
}

func (g Gate) Message(quality int) string {
	return fmt.Sprintf("Warning: Image quality will be very low (Level: %d). To proceed, send request again with 'force=true'.", quality)
}
