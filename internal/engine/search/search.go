// Package search filters, orders and pages flight inventory that has already
// been loaded into memory.
package search

import (
	"sort"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/samber/lo"
)

// Search returns the active flights that satisfy every constraint in q.
// Without a sort key the input order is kept; with one the sort is stable.
// The input slice is never modified.
func Search(flights []domain.Flight, q Query) []domain.Flight {
	m := newMatcher(q)
	matches := lo.Filter(flights, func(f domain.Flight, _ int) bool {
		return m.match(f)
	})

	switch q.Sort {
	case SortPrice:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Price.LessThan(matches[j].Price)
		})
	case SortDepartureTime:
		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].DepartureTime.Before(matches[j].DepartureTime)
		})
	}
	return matches
}

type matcher struct {
	q           Query
	origin      string
	destination string
	airline     string
}

func newMatcher(q Query) matcher {
	return matcher{
		q:           q,
		origin:      strings.ToLower(q.Origin),
		destination: strings.ToLower(q.Destination),
		airline:     strings.ToLower(q.Airline),
	}
}

func (m matcher) match(f domain.Flight) bool {
	if !f.Active {
		return false
	}
	if m.origin != "" && !strings.Contains(strings.ToLower(f.Origin), m.origin) {
		return false
	}
	if m.destination != "" && !strings.Contains(strings.ToLower(f.Destination), m.destination) {
		return false
	}
	if m.airline != "" && !strings.Contains(strings.ToLower(f.Carrier), m.airline) {
		return false
	}
	// Literal comparison against the stored timestamp's own calendar date.
	if m.q.Date != "" && f.DepartureTime.Format(dateLayout) != m.q.Date {
		return false
	}
	if m.q.Passengers != nil && f.AvailableSeats < *m.q.Passengers {
		return false
	}
	if m.q.MinPrice != nil && f.Price.LessThan(*m.q.MinPrice) {
		return false
	}
	if m.q.MaxPrice != nil && f.Price.GreaterThan(*m.q.MaxPrice) {
		return false
	}
	if m.q.Stops != nil && f.Stops != *m.q.Stops {
		return false
	}
	return true
}
