package stats

import (
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Summarize reports flight and passenger totals. A flight is active while its
// departure is still ahead of now. Revenue counts PAID tickets only.
func Summarize(flights []domain.Flight, tickets []domain.Ticket, now time.Time) domain.Summary {
	active := lo.CountBy(flights, func(f domain.Flight) bool {
		return f.DepartureTime.After(now)
	})

	revenue := decimal.Zero
	for _, t := range tickets {
		if t.Status == domain.TicketStatusPaid {
			revenue = revenue.Add(t.PricePaid)
		}
	}

	return domain.Summary{
		TotalFlights:     len(flights),
		ActiveFlights:    active,
		CompletedFlights: len(flights) - active,
		TotalPassengers:  len(tickets),
		TotalRevenue:     revenue,
	}
}

// BookingRecords maps booking aggregates to stats records: the earliest
// purchase is the record instant and the booking total its amount.
func BookingRecords(aggs []domain.BookingAggregate, group func(domain.BookingAggregate) (key, label string)) []domain.Record {
	return lo.Map(aggs, func(a domain.BookingAggregate, _ int) domain.Record {
		key, label := group(a)
		return domain.Record{
			Key:    key,
			Label:  label,
			At:     a.EarliestPurchase,
			Amount: a.Total,
		}
	})
}
