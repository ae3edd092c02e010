package handlers

import (
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

func ListWebsite(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rows, err := st.WebsiteRange(ctx, queryRange(ctx.QueryArgs(), time.Now()))
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to query website metrics")
			return
		}
		jsonResponse(ctx, map[string]any{"results": rows})
	}
}

func CreateWebsite(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var row store.WebsiteSnapshot
		if err := json.Unmarshal(ctx.PostBody(), &row); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		row.ID = 0
		row.RecordedAt = time.Time{}
		if row.CollectedAt.IsZero() {
			row.CollectedAt = time.Now().UTC()
		}
		if err := st.InsertWebsite(ctx, &row); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to store website metric")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusCreated)
		jsonResponse(ctx, row)
	}
}

// WebsiteSummary totals traffic over the requested period (default month).
func WebsiteSummary(engine *aggregate.Engine) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		period := aggregate.Period(string(ctx.QueryArgs().Peek("period")))
		if period == "" {
			period = aggregate.PeriodMonth
		}
		summary, err := engine.WebsiteSummary(ctx, period, time.Now())
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to summarize website metrics")
			return
		}
		jsonResponse(ctx, summary)
	}
}
