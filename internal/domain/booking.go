package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusActive            BookingStatus = "ACTIVE"
	BookingStatusPartiallyCanceled BookingStatus = "PARTIALLY_CANCELED"
	BookingStatusCanceled          BookingStatus = "CANCELED"
)

// BookingAggregate is the set of tickets bought together under one
// confirmation id. It is derived on every read and never stored.
type BookingAggregate struct {
	ConfirmationID   string          `json:"confirmation_id"`
	FlightID         int64           `json:"flight_id"`
	Tickets          []Ticket        `json:"tickets"`
	Total            decimal.Decimal `json:"total"`
	EarliestPurchase time.Time       `json:"earliest_purchase"`
	Status           BookingStatus   `json:"status"`
	PaidCount        int             `json:"paid_count"`
	CanceledCount    int             `json:"canceled_count"`
	RefundedCount    int             `json:"refunded_count"`
}
