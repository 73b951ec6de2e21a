package stats

import (
	"strings"
	"time"

	"github.com/Domenick1991/flightdesk/internal/domain"
)

const dateLayout = "2006-01-02"

const (
	PresetLast7Days  = "7d"
	PresetLast30Days = "30d"
	PresetThisMonth  = "this-month"
	PresetCustom     = "custom"
)

// NormalizeRange truncates both ends to midnight in loc and swaps them when
// they are reversed.
func NormalizeRange(start, end time.Time, loc *time.Location) domain.DateRange {
	loc = orLocal(loc)
	s, e := midnight(start, loc), midnight(end, loc)
	if s.After(e) {
		s, e = e, s
	}
	return domain.DateRange{Start: s, End: e}
}

// ParseRange parses YYYY-MM-DD bounds in loc. A missing or malformed bound
// defaults to the current day.
func ParseRange(start, end string, now time.Time, loc *time.Location) domain.DateRange {
	loc = orLocal(loc)
	return NormalizeRange(parseDay(start, now, loc), parseDay(end, now, loc), loc)
}

// ResolvePreset turns a range selector into a concrete range. Unknown presets
// fall back to the last seven days.
func ResolvePreset(preset, start, end string, now time.Time, loc *time.Location) domain.DateRange {
	loc = orLocal(loc)
	today := midnight(now, loc)

	switch strings.TrimSpace(preset) {
	case PresetCustom:
		return ParseRange(start, end, now, loc)
	case PresetLast30Days:
		return domain.DateRange{Start: today.AddDate(0, 0, -29), End: today}
	case PresetThisMonth:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, loc)
		return domain.DateRange{Start: first, End: first.AddDate(0, 1, -1)}
	default:
		return domain.DateRange{Start: today.AddDate(0, 0, -6), End: today}
	}
}

// Days returns the number of calendar days in r, both ends included.
func Days(r domain.DateRange) int {
	return civilDiff(r.Start, r.End) + 1
}

func parseDay(raw string, now time.Time, loc *time.Location) time.Time {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(raw), loc)
	if err != nil {
		return now
	}
	return t
}

func midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func dayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// civilDiff counts whole calendar days from a to b, ignoring DST shifts.
func civilDiff(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	from := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	to := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int((to.Unix() - from.Unix()) / 86400)
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
