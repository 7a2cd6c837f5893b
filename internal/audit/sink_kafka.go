package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
)

// KafkaSink publishes audit events to the compliance topic. It satisfies
// Store so the worker can drain the inbox straight into Kafka when no
// postgres outbox is configured. Records are keyed by session so one
// session's events land in order on a single partition.
type KafkaSink struct {
	client *kgo.Client
	topic  string
}

// NewKafkaSink connects a producer to the given brokers.
func NewKafkaSink(brokers []string, topic string) (*KafkaSink, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ProducerLinger(0),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaSink{client: client, topic: topic}, nil
}

// Append produces one event synchronously. The audit stream is the
// compliance record, so a failed produce is a failed append.
func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(toPayload(uuid.New(), event))
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(event.SessionID.String()),
		Value: payload,
	}
	if err := s.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit event: %w", err)
	}
	return nil
}

// ListBySession is unsupported on the stream sink; querying happens against
// the materialized postgres table.
func (s *KafkaSink) ListBySession(context.Context, string) ([]Event, error) {
	return nil, fmt.Errorf("kafka sink does not support queries")
}

// Close flushes and releases the producer.
func (s *KafkaSink) Close() {
	s.client.Close()
}
