package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Balancer:     &kafka.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: kafka.RequireOne,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	log := logging.FromContext(ctx).WithField("topic", topic).WithField("key", key)

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}

	log.Debug("published to kafka")
	return nil
}

// PublishTicketEvent stamps the request correlation id onto the event.
func (p *Producer) PublishTicketEvent(ctx context.Context, topic string, event TicketEvent) error {
	if event.CorrelationID == "" {
		event.CorrelationID = logging.CorrelationIDFromContext(ctx)
	}
	return p.Publish(ctx, topic, event.Key(), event)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
