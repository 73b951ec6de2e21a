package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketStatus string

const (
	TicketStatusPaid     TicketStatus = "PAID"
	TicketStatusCanceled TicketStatus = "CANCELED"
	TicketStatusRefunded TicketStatus = "REFUNDED"
)

// Terminal reports whether no further transition is defined for the status.
func (s TicketStatus) Terminal() bool {
	return s == TicketStatusCanceled || s == TicketStatusRefunded
}

type Ticket struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	FlightID       int64           `json:"flight_id"`
	Status         TicketStatus    `json:"status"`
	ConfirmationID string          `json:"confirmation_id"`
	PricePaid      decimal.Decimal `json:"price_paid"`
	PurchasedAt    time.Time       `json:"purchased_at"`
	CanceledAt     *time.Time      `json:"canceled_at,omitempty"`
}

// Cancel moves a PAID ticket into a terminal state. Tickets canceled at least
// refundWindow before departure are REFUNDED, later ones CANCELED. Calling it
// on a terminal ticket leaves the ticket untouched and returns false.
func (t *Ticket) Cancel(at, departure time.Time, refundWindow time.Duration) bool {
	if t.Status != TicketStatusPaid {
		return false
	}

	if departure.Sub(at) >= refundWindow {
		t.Status = TicketStatusRefunded
	} else {
		t.Status = TicketStatusCanceled
	}
	canceledAt := at
	t.CanceledAt = &canceledAt
	return true
}
