package handlers

import (
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

func jsonResponse(ctx *fasthttp.RequestCtx, data any) {
	ctx.SetContentType("application/json")
	body, _ := json.Marshal(data)
	ctx.SetBody(body)
}

func errResponse(ctx *fasthttp.RequestCtx, code int, msg string) {
	ctx.SetStatusCode(code)
	ctx.SetBodyString(msg)
}

// parseDate accepts full RFC 3339 timestamps and bare dates.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// queryRange builds the collected_at filter from the period and
// start_date/end_date query parameters. An unrecognized period means no
// period filter; a malformed or half-specified date pair is silently
// ignored. Both filters narrow the range when present.
func queryRange(args *fasthttp.Args, now time.Time) store.Range {
	r, _ := aggregate.WindowFor(aggregate.Period(string(args.Peek("period"))), now)

	start, okStart := parseDate(string(args.Peek("start_date")))
	end, okEnd := parseDate(string(args.Peek("end_date")))
	if okStart && okEnd {
		if r.Start.IsZero() || start.After(r.Start) {
			r.Start = start
		}
		if r.End.IsZero() || end.Before(r.End) {
			r.End = end
		}
	}
	return r
}

func queryPlatform(args *fasthttp.Args) store.Platform {
	return store.Platform(string(args.Peek("platform")))
}
