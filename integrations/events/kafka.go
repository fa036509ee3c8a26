package events

import (
	"context"
	"encoding/json"
	"fmt"

	"learnhub/logger"

	"github.com/segmentio/kafka-go"
)

// KafkaPublisher writes JSON encoded events to a single topic, keyed by Event.Key.
type KafkaPublisher struct {
	writer *kafka.Writer
	log    *logger.Logger
}

func NewKafkaPublisher(broker, topic string, baseLog *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		log: baseLog.With("component", "KafkaPublisher", "topic", topic),
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", e.Type, err)
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(e.Type)},
		},
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", e.Type, err)
	}
	p.log.Debug("event published", "type", e.Type, "key", e.Key)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
