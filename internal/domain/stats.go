package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record is one timestamped, grouped amount fed into range statistics.
type Record struct {
	Key    string
	Label  string
	At     time.Time
	Amount decimal.Decimal
}

// DateRange is an inclusive range of calendar days. Start and End are
// midnights in the reporting location.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type DayBucket struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type RankEntry struct {
	Key     string          `json:"key"`
	Label   string          `json:"label"`
	Count   int             `json:"count"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Snapshot struct {
	Range             DateRange       `json:"range"`
	TotalDays         int             `json:"total_days"`
	Days              []DayBucket     `json:"days"`
	TotalCount        int             `json:"total_count"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	Top               []RankEntry     `json:"top"`
	NewSinceWatermark int             `json:"new_since_watermark"`
	Watermark         *time.Time      `json:"watermark,omitempty"`
}

// Summary is the flight/passenger/revenue overview shown to operators.
type Summary struct {
	TotalFlights     int             `json:"total_flights"`
	ActiveFlights    int             `json:"active_flights"`
	CompletedFlights int             `json:"completed_flights"`
	TotalPassengers  int             `json:"total_passengers"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}
