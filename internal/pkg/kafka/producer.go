package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Producer interface {
	Publish(ctx context.Context, event entity.CompressionEvent) error
	Close() error
}

type kafkaProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewProducer dials the first broker to create the topic. If Kafka is not
// reachable a logging producer is returned so the service keeps working.
func NewProducer(brokers []string, topic string) Producer {
	if len(brokers) == 0 {
		logrus.WithField("topic", topic).Warn("no kafka brokers configured, using mock producer")
		return NewMockProducer()
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	log := logrus.WithFields(logrus.Fields{"brokers": strings.Join(brokers, ","), "topic": topic})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := kafka.DialContext(ctx, "tcp", brokers[0])
	if err != nil {
		log.WithError(err).Warn("kafka connection failed, using mock producer")
		return NewMockProducer()
	}
	defer conn.Close()

	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	})
	if err != nil {
		log.WithError(err).Info("could not create topic (might already exist)")
	}

	log.Info("kafka producer connected")
	return &kafkaProducer{writer: writer, topic: topic}
}

func (p *kafkaProducer) Publish(ctx context.Context, event entity.CompressionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.Report.ID),
		Value: value,
		Time:  time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}

	logrus.WithField("job_id", event.Report.ID).Debugf("event sent to topic %s", p.topic)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// mockProducer only logs; used when Kafka is disabled or unreachable.
type mockProducer struct{}

func NewMockProducer() Producer {
	return &mockProducer{}
}

func (m *mockProducer) Publish(_ context.Context, event entity.CompressionEvent) error {
	logrus.WithFields(logrus.Fields{
		"job_id":  event.Report.ID,
		"quality": event.Report.QualityLevel,
		"batch":   event.Batch,
	}).Debug("MOCK: compression event")
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}
