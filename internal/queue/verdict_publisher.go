package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// VerdictPublisher publishes verdict events.
type VerdictPublisher struct {
	writer *kafka.Writer
}

// NewVerdictPublisher constructs a publisher for the given topic.
func NewVerdictPublisher(k *Kafka, topic string) *VerdictPublisher {
	return &VerdictPublisher{writer: k.NewWriter(topic)}
}

// PublishVerdict emits a verdict message to Kafka.
func (p *VerdictPublisher) PublishVerdict(ctx context.Context, msg VerdictMessage) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("verdict publisher: marshal message: %w", err)
	}
	record := kafka.Message{
		Key:   msg.VerdictID[:],
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(ctx, record); err != nil {
		return fmt.Errorf("verdict publisher: write message: %w", err)
	}
	return nil
}

// Close closes the publisher.
func (p *VerdictPublisher) Close() error {
	return p.writer.Close()
}
