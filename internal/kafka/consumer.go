package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// ConsumeTicketEvents hands every decodable event to handler and commits the
// offset once it succeeds. Undecodable messages are logged and committed so
// they do not block the partition. Returns nil when ctx is canceled.
func (c *Consumer) ConsumeTicketEvents(ctx context.Context, handler func(context.Context, TicketEvent) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}

		event, err := DecodeTicketEvent(msg.Value)
		if err != nil {
			logging.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Warn("skipping malformed ticket event")
		} else {
			msgCtx := logging.ContextWithCorrelationID(ctx, event.CorrelationID)
			msgCtx = logging.ToContext(msgCtx, logging.FromContext(ctx).WithField("correlation_id", event.CorrelationID))
			if err := handler(msgCtx, event); err != nil {
				return err
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}
