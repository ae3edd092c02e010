package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func queryArgs(s string) *fasthttp.Args {
	args := &fasthttp.Args{}
	args.Parse(s)
	return args
}

func TestParseDate(t *testing.T) {
	got, ok := parseDate("2025-06-15T10:30:00Z")
	assert.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)))

	got, ok = parseDate("2025-06-15")
	assert.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)))

	_, ok = parseDate("15/06/2025")
	assert.False(t, ok)

	_, ok = parseDate("")
	assert.False(t, ok)
}

func TestQueryRangePeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	r := queryRange(queryArgs("period=week"), now)
	assert.True(t, r.Start.Equal(now.Add(-7*24*time.Hour)))
	assert.True(t, r.End.Equal(now))
}

func TestQueryRangeUnknownPeriodMeansNoFilter(t *testing.T) {
	r := queryRange(queryArgs("period=fortnight"), time.Now())
	assert.True(t, r.Start.IsZero())
	assert.True(t, r.End.IsZero())
}

func TestQueryRangeExplicitDatesNarrowPeriod(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	r := queryRange(queryArgs("period=month&start_date=2025-06-10&end_date=2025-06-12"), now)
	assert.True(t, r.Start.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.End.Equal(time.Date(2025, 6, 12, 0, 0, 0, 0, time.UTC)))
}

func TestQueryRangeHalfSpecifiedPairIgnored(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	r := queryRange(queryArgs("period=day&start_date=2025-06-10"), now)
	assert.True(t, r.Start.Equal(now.Add(-24*time.Hour)), "a lone start_date falls back to the period window")
	assert.True(t, r.End.Equal(now))
}

func TestQueryRangeMalformedDatesIgnored(t *testing.T) {
	r := queryRange(queryArgs("start_date=soon&end_date=later"), time.Now())
	assert.True(t, r.Start.IsZero())
	assert.True(t, r.End.IsZero())
}
