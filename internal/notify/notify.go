package notify

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/kafka"
	"github.com/Domenick1991/flightdesk/internal/logging"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

// Notification is the user-facing message derived from a ticket event.
type Notification struct {
	UserID  int64  `json:"user_id"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type Sender struct {
	publisher Publisher
	topic     string
}

// NewSender builds a sender that forwards notifications to topic. With a nil
// publisher or empty topic notifications are only logged.
func NewSender(publisher Publisher, topic string) *Sender {
	return &Sender{publisher: publisher, topic: topic}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	n := Compose(event)

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"user_id":         n.UserID,
		"ticket_id":       event.TicketID,
		"confirmation_id": event.ConfirmationID,
	}).Info(n.Subject)

	if s.publisher == nil || s.topic == "" {
		return nil
	}
	if err := s.publisher.Publish(ctx, s.topic, strconv.FormatInt(n.UserID, 10), n); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	return nil
}

func Compose(e kafka.TicketEvent) Notification {
	n := Notification{UserID: e.UserID}

	switch {
	case e.Type == kafka.TicketEventBooked:
		n.Subject = fmt.Sprintf("Booking %s confirmed", e.ConfirmationID)
		n.Body = fmt.Sprintf("Ticket %d on flight %s is paid: %s.", e.TicketID, e.FlightNumber, e.Amount.StringFixed(2))
	case e.Status == domain.TicketStatusRefunded:
		n.Subject = fmt.Sprintf("Ticket %d refunded", e.TicketID)
		n.Body = fmt.Sprintf("Your ticket on flight %s was canceled and %s will be refunded.", e.FlightNumber, e.Amount.StringFixed(2))
	default:
		n.Subject = fmt.Sprintf("Ticket %d canceled", e.TicketID)
		n.Body = fmt.Sprintf("Your ticket on flight %s was canceled inside the refund window and is not refundable.", e.FlightNumber)
	}
	return n
}
