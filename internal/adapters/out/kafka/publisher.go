// Package kafka mirrors detected exceptions to a Kafka topic so that
// downstream consumers (dashboards, audit) can follow them without polling
// the crew endpoint.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"logistics/internal/core/domain/model/exception"

	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher implements ports.ExceptionPublisher. Records are keyed by
// shipment id so all events of one shipment land on the same partition.
type Publisher struct {
	writer MessageWriter
	clock  func() time.Time
}

// NewPublisher creates a publisher writing to topic on brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, errors.New("kafka publisher requires a topic")
	}
	return NewPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		RequiredAcks: kafka.RequireAll,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 250 * time.Millisecond,
	}), nil
}

// NewPublisherWithWriter wraps an existing writer.
func NewPublisherWithWriter(w MessageWriter) *Publisher {
	return &Publisher{writer: w, clock: time.Now}
}

// Publish writes all records in one batch.
func (p *Publisher) Publish(ctx context.Context, records []exception.Record) error {
	if len(records) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(records))
	for _, r := range records {
		value, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode exception %s: %w", r.ID.String(), err)
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(r.ShipmentID),
			Value: value,
			Time:  p.clock().UTC(),
			Headers: []kafka.Header{
				{Key: "exception_type", Value: []byte(r.Type)},
				{Key: "severity", Value: []byte(r.Severity)},
			},
		})
	}

	return p.writer.WriteMessages(ctx, msgs...)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
