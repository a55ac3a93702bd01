package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type EventHandler func(ctx context.Context, event entity.CompressionEvent) error

// Consume reads compression events until ctx is cancelled. Malformed messages
// and handler failures are logged and skipped.
func Consume(ctx context.Context, brokers []string, topic, groupID string, handle EventHandler) error {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		CommitInterval: time.Second,
		StartOffset:    kafka.FirstOffset,
	})
	defer reader.Close()

	logrus.WithFields(logrus.Fields{"brokers": brokers, "topic": topic, "group_id": groupID}).
		Info("compression event consumer started")

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			logrus.WithError(err).Error("error reading message from kafka")
			continue
		}

		if err := HandleMessage(ctx, msg.Value, handle); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Warn("skipping compression event")
		}
	}
}

func HandleMessage(ctx context.Context, value []byte, handle EventHandler) error {
	var event entity.CompressionEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}
	if event.Report.ID == "" {
		return errors.New("event without job id")
	}
	return handle(ctx, event)
}
