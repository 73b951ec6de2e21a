package search

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type SortKey string

const (
	SortNone          SortKey = ""
	SortPrice         SortKey = "price"
	SortDepartureTime SortKey = "departure_time"
)

// Query holds the optional search constraints. Zero values and nil pointers
// mean "no constraint".
type Query struct {
	Origin      string
	Destination string
	Date        string
	Passengers  *int
	MinPrice    *decimal.Decimal
	MaxPrice    *decimal.Decimal
	Stops       *int
	Airline     string
	Sort        SortKey
}

// ParseQuery builds a Query from raw query-string values. Values that cannot
// be parsed are dropped instead of failing the search.
func ParseQuery(values url.Values) Query {
	return Query{
		Origin:      strings.TrimSpace(values.Get("origin")),
		Destination: strings.TrimSpace(values.Get("destination")),
		Airline:     strings.TrimSpace(values.Get("airline")),
		Date:        parseDate(values.Get("date")),
		Passengers:  parseInt(values.Get("passengers"), 1),
		MinPrice:    parseDecimal(values.Get("min_price")),
		MaxPrice:    parseDecimal(values.Get("max_price")),
		Stops:       parseInt(values.Get("stops"), 0),
		Sort:        parseSort(values.Get("sort")),
	}
}

func parseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return ""
	}
	return raw
}

func parseInt(raw string, min int) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < min {
		return nil
	}
	return &n
}

func parseDecimal(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	return &d
}

func parseSort(raw string) SortKey {
	switch SortKey(strings.TrimSpace(raw)) {
	case SortPrice:
		return SortPrice
	case SortDepartureTime:
		return SortDepartureTime
	default:
		return SortNone
	}
}
