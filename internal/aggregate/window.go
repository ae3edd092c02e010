package aggregate

import (
	"time"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

// Period is a named rolling window ending at "now".
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) delta() (time.Duration, bool) {
	switch p {
	case PeriodDay:
		return 24 * time.Hour, true
	case PeriodWeek:
		return 7 * 24 * time.Hour, true
	case PeriodMonth:
		return 30 * 24 * time.Hour, true
	case PeriodYear:
		return 365 * 24 * time.Hour, true
	}
	return 0, false
}

// WindowFor maps a period onto the range [now-delta, now]. An
// unrecognized period returns ok=false and the zero (unbounded) range:
// bad input falls back to "no filter" rather than an error, so callers
// never have to validate the period themselves.
func WindowFor(period Period, now time.Time) (store.Range, bool) {
	d, ok := period.delta()
	if !ok {
		return store.Range{}, false
	}
	return store.Range{Start: now.Add(-d), End: now}, true
}

// ComparisonWindows returns the current window [now-delta, now] and the
// immediately preceding, equal-length, non-overlapping window
// [now-2*delta, now-delta]. An unrecognized period compares years,
// matching the original dashboard's fallback.
func ComparisonWindows(period Period, now time.Time) (current, previous store.Range) {
	d, ok := period.delta()
	if !ok {
		d, _ = PeriodYear.delta()
	}
	current = store.Range{Start: now.Add(-d), End: now}
	previous = store.Range{Start: now.Add(-2 * d), End: now.Add(-d)}
	return current, previous
}

// Growth returns the percentage change from previous to current.
// When previous is zero the result is zero regardless of current; a
// jump from nothing to something reports 0% rather than infinity. The
// dashboard has always shown it this way, so it stays.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// sum adds the extracted value across all samples. Extractors for
// optional metrics return 0 for absent values.
func sum[T any](rows []T, value func(T) float64) float64 {
	var total float64
	for _, r := range rows {
		total += value(r)
	}
	return total
}
