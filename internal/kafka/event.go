package kafka

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
)

type TicketEventType string

const (
	TicketEventBooked   TicketEventType = "ticket.booked"
	TicketEventCanceled TicketEventType = "ticket.canceled"
)

// TicketEvent is published after a ticket purchase or status transition.
type TicketEvent struct {
	Type           TicketEventType     `json:"type"`
	TicketID       int64               `json:"ticket_id"`
	UserID         int64               `json:"user_id"`
	FlightID       int64               `json:"flight_id"`
	FlightNumber   string              `json:"flight_number"`
	ConfirmationID string              `json:"confirmation_id"`
	Status         domain.TicketStatus `json:"status"`
	Amount         decimal.Decimal     `json:"amount"`
	CorrelationID  string              `json:"correlation_id,omitempty"`
	OccurredAt     time.Time           `json:"occurred_at"`
}

func NewTicketEvent(typ TicketEventType, t domain.Ticket, f domain.Flight, at time.Time) TicketEvent {
	return TicketEvent{
		Type:           typ,
		TicketID:       t.ID,
		UserID:         t.UserID,
		FlightID:       t.FlightID,
		FlightNumber:   f.FlightNumber,
		ConfirmationID: t.ConfirmationID,
		Status:         t.Status,
		Amount:         t.PricePaid,
		OccurredAt:     at,
	}
}

// Key partitions events by confirmation id so a booking's events stay ordered.
func (e TicketEvent) Key() string {
	if e.ConfirmationID != "" {
		return e.ConfirmationID
	}
	return strconv.FormatInt(e.TicketID, 10)
}

func DecodeTicketEvent(data []byte) (TicketEvent, error) {
	var e TicketEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return e, fmt.Errorf("decode ticket event: %w", err)
	}
	if e.Type != TicketEventBooked && e.Type != TicketEventCanceled {
		return e, fmt.Errorf("unknown ticket event type %q", e.Type)
	}
	return e, nil
}
