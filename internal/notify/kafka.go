package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes status changes to a topic, keyed by applicant id so one
// applicant's notices stay ordered within a partition.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka builds a producer for the given brokers and topic.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Kafka{client: client, topic: topic}, nil
}

func (k *Kafka) Notify(ctx context.Context, change StatusChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("marshal status change: %w", err)
	}
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(change.ApplicantID),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce status change: %w", err)
	}
	return nil
}

func (k *Kafka) Close() {
	k.client.Close()
}
