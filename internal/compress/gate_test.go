package compress

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGateAllow(t *testing.T) {
	gate := NewGate(DefaultQualityThreshold)

	tests := []struct {
		name    string
		quality int
		forced  bool
		want    bool
	}{
		{name: "just below threshold", quality: 39, forced: false, want: false},
		{name: "at threshold", quality: 40, forced: false, want: true},
		{name: "forced low quality", quality: 10, forced: true, want: true},
		{name: "lowest quality unforced", quality: 1, forced: false, want: false},
		{name: "max quality", quality: 95, forced: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, gate.Allow(tt.quality, tt.forced))
		})
	}
}

func TestNewGateDefaults(t *testing.T) {
	assert.Equal(t, DefaultQualityThreshold, NewGate(0).Threshold)
	assert.Equal(t, 60, NewGate(60).Threshold)
	assert.True(t, NewGate(60).Low(59))
	assert.False(t, NewGate(60).Low(60))
}

func TestGateMessage(t *testing.T) {
	msg := NewGate(40).Message(12)

	assert.Contains(t, msg, "Level: 12")
	assert.Contains(t, msg, "force=true")
}
