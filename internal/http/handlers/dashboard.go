package handlers

import (
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
)

// DashboardSummary returns the consolidated cross-source view: latest
// social and app snapshots, the website window, and the three totals.
func DashboardSummary(engine *aggregate.Engine) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		period := aggregate.Period(string(ctx.QueryArgs().Peek("period")))
		if period == "" {
			period = aggregate.PeriodMonth
		}
		summary, err := engine.Summary(ctx, period, time.Now())
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to assemble dashboard summary")
			return
		}
		jsonResponse(ctx, summary)
	}
}
