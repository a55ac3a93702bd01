package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessage(t *testing.T) {
	event := entity.CompressionEvent{
		Report: entity.JobReport{ID: "job-1", TargetKB: 200, QualityLevel: 55},
		Batch:  true,
	}
	value, err := json.Marshal(event)
	require.NoError(t, err)

	var got entity.CompressionEvent
	err = HandleMessage(context.Background(), value, func(_ context.Context, e entity.CompressionEvent) error {
		got = e
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, event.Report.ID, got.Report.ID)
	assert.Equal(t, 55, got.Report.QualityLevel)
	assert.True(t, got.Batch)
}

func TestHandleMessageRejectsBadPayloads(t *testing.T) {
	called := false
	handle := func(context.Context, entity.CompressionEvent) error {
		called = true
		return nil
	}

	assert.Error(t, HandleMessage(context.Background(), []byte("{not json"), handle))
	assert.Error(t, HandleMessage(context.Background(), []byte(`{"report":{}}`), handle))
	assert.False(t, called)
}

func TestMockProducer(t *testing.T) {
	p := NewMockProducer()

	assert.NoError(t, p.Publish(context.Background(), entity.CompressionEvent{}))
	assert.NoError(t, p.Close())
}

func TestNewProducerWithoutBrokers(t *testing.T) {
	p := NewProducer(nil, "compression-events")

	assert.IsType(t, &mockProducer{}, p)
	assert.NoError(t, p.Publish(context.Background(), entity.CompressionEvent{}))
}
