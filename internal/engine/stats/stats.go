// Package stats buckets timestamped records into calendar days, ranks the
// entities behind them and measures what is new since an operator last looked.
package stats

import (
	"sort"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultDisplayDays = 14
	DefaultTopN        = 5
)

type Options struct {
	// Location is the reporting zone used for calendar days. Nil means
	// time.Local.
	Location    *time.Location
	DisplayDays int
	TopN        int
	// Watermark is the last "mark as seen" instant for the report scope.
	Watermark *time.Time
}

func (o Options) withDefaults() Options {
	o.Location = orLocal(o.Location)
	if o.DisplayDays <= 0 {
		o.DisplayDays = DefaultDisplayDays
	}
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	return o
}

// RangeStats builds a snapshot of records over r. Totals and the ranking
// cover every day of r, Days holds only the most recent DisplayDays of it,
// and NewSinceWatermark looks at all records regardless of r.
func RangeStats(records []domain.Record, r domain.DateRange, opts Options) domain.Snapshot {
	opts = opts.withDefaults()
	loc := opts.Location
	r = NormalizeRange(r.Start, r.End, loc)
	startKey, endKey := dayKey(r.Start, loc), dayKey(r.End, loc)

	snap := domain.Snapshot{
		Range:        r,
		TotalDays:    Days(r),
		TotalRevenue: decimal.Zero,
		Watermark:    opts.Watermark,
	}

	counts := make(map[string]int)
	revenue := make(map[string]decimal.Decimal)
	rank := newRanking()

	for _, rec := range records {
		key := dayKey(rec.At, loc)
		if key < startKey || key > endKey {
			continue
		}
		snap.TotalCount++
		snap.TotalRevenue = snap.TotalRevenue.Add(rec.Amount)
		counts[key]++
		revenue[key] = revenue[key].Add(rec.Amount)
		rank.add(rec)
	}

	shown := min(snap.TotalDays, opts.DisplayDays)
	snap.Days = make([]domain.DayBucket, 0, shown)
	for i := shown - 1; i >= 0; i-- {
		key := dayKey(r.End.AddDate(0, 0, -i), loc)
		bucket := domain.DayBucket{Date: key, Count: counts[key], Revenue: decimal.Zero}
		if v, ok := revenue[key]; ok {
			bucket.Revenue = v
		}
		snap.Days = append(snap.Days, bucket)
	}

	snap.Top = rank.top(opts.TopN)
	snap.NewSinceWatermark = NewSince(records, opts.Watermark)
	return snap
}

// NewSince counts records strictly after watermark. A nil watermark means the
// operator never marked anything as seen, so every record is new.
func NewSince(records []domain.Record, watermark *time.Time) int {
	if watermark == nil {
		return len(records)
	}
	n := 0
	for _, rec := range records {
		if rec.At.After(*watermark) {
			n++
		}
	}
	return n
}

type ranking struct {
	index   map[string]int
	entries []domain.RankEntry
}

func newRanking() *ranking {
	return &ranking{index: make(map[string]int)}
}

func (r *ranking) add(rec domain.Record) {
	i, ok := r.index[rec.Key]
	if !ok {
		i = len(r.entries)
		r.index[rec.Key] = i
		r.entries = append(r.entries, domain.RankEntry{Key: rec.Key, Label: rec.Label, Revenue: decimal.Zero})
	}
	r.entries[i].Count++
	r.entries[i].Revenue = r.entries[i].Revenue.Add(rec.Amount)
}

// top orders by count descending; equal counts keep first-seen order.
func (r *ranking) top(n int) []domain.RankEntry {
	out := make([]domain.RankEntry, len(r.entries))
	copy(out, r.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
