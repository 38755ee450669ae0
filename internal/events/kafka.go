package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/twmb/franz-go/pkg/kgo"
)

type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects a producer to brokers. topic overrides TopicOrderCreated when set.
func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if topic == "" {
		topic = TopicOrderCreated
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka client: %w", err)
	}
	log.Printf("✅ Kafka producer ready (%v)", brokers)
	return &Kafka{client: client, topic: topic}, nil
}

func (k *Kafka) ProduceMessage(ctx context.Context, key, value []byte) error {
	record := &kgo.Record{Topic: k.topic, Key: key, Value: value}
	return k.client.ProduceSync(ctx, record).FirstErr()
}

func (k *Kafka) OrderCreated(ctx context.Context, e OrderCreated) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return k.ProduceMessage(ctx, []byte(e.OrderID.String()), data)
}

func (k *Kafka) Close() {
	k.client.Close()
}
