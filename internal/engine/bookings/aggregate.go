// Package bookings derives booking aggregates from flat ticket collections.
package bookings

import (
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregate groups tickets by confirmation id. Aggregates come back in the
// order their confirmation id first appears in tickets, and every field is
// recomputed from the tickets on each call.
func Aggregate(tickets []domain.Ticket) []domain.BookingAggregate {
	index := make(map[string]int, len(tickets))
	result := make([]domain.BookingAggregate, 0)

	for _, t := range tickets {
		i, ok := index[t.ConfirmationID]
		if !ok {
			i = len(result)
			index[t.ConfirmationID] = i
			result = append(result, domain.BookingAggregate{
				ConfirmationID:   t.ConfirmationID,
				FlightID:         t.FlightID,
				Total:            decimal.Zero,
				EarliestPurchase: t.PurchasedAt,
			})
		}

		agg := &result[i]
		agg.Tickets = append(agg.Tickets, t)
		agg.Total = agg.Total.Add(t.PricePaid)
		if t.PurchasedAt.Before(agg.EarliestPurchase) {
			agg.EarliestPurchase = t.PurchasedAt
		}
		switch t.Status {
		case domain.TicketStatusPaid:
			agg.PaidCount++
		case domain.TicketStatusCanceled:
			agg.CanceledCount++
		case domain.TicketStatusRefunded:
			agg.RefundedCount++
		}
	}

	for i := range result {
		result[i].Status = CompositeStatus(result[i].Tickets)
	}
	return result
}

// CompositeStatus derives a booking status from its member tickets. CANCELED
// and REFUNDED both count as non-PAID.
func CompositeStatus(tickets []domain.Ticket) domain.BookingStatus {
	closed := 0
	for _, t := range tickets {
		if t.Status != domain.TicketStatusPaid {
			closed++
		}
	}

	switch {
	case closed == 0:
		return domain.BookingStatusActive
	case closed == len(tickets):
		return domain.BookingStatusCanceled
	default:
		return domain.BookingStatusPartiallyCanceled
	}
}
