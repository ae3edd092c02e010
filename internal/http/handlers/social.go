package handlers

import (
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

// ListSocial returns social snapshots filtered by platform, period, and
// explicit date range, newest first.
func ListSocial(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rows, err := st.SocialRange(ctx, queryPlatform(ctx.QueryArgs()), queryRange(ctx.QueryArgs(), time.Now()))
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to query social metrics")
			return
		}
		jsonResponse(ctx, map[string]any{"results": rows})
	}
}

// CreateSocial inserts a social snapshot directly. CollectedAt defaults
// to now and may be backdated by the caller; RecordedAt is always set by
// the store at insert time.
func CreateSocial(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var row store.SocialSnapshot
		if err := json.Unmarshal(ctx.PostBody(), &row); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		row.ID = 0
		row.RecordedAt = time.Time{}
		if row.CollectedAt.IsZero() {
			row.CollectedAt = time.Now().UTC()
		}
		if err := st.InsertSocial(ctx, &row); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to store social metric")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusCreated)
		jsonResponse(ctx, row)
	}
}

// LatestSocial returns the most recent snapshot per tracked platform.
func LatestSocial(engine *aggregate.Engine) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rows, err := engine.LatestSocial(ctx, store.SocialPlatforms())
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to query latest social metrics")
			return
		}
		jsonResponse(ctx, map[string]any{"results": rows})
	}
}

// SocialComparison compares summed followers between the current and
// previous windows of the requested period. Platform is required;
// period defaults to week.
func SocialComparison(engine *aggregate.Engine) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		platform := queryPlatform(ctx.QueryArgs())
		if platform == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "platform parameter is required")
			return
		}
		period := aggregate.Period(string(ctx.QueryArgs().Peek("period")))
		if period == "" {
			period = aggregate.PeriodWeek
		}

		cmp, err := engine.CompareFollowers(ctx, platform, period, time.Now())
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to compare social metrics")
			return
		}
		jsonResponse(ctx, cmp)
	}
}
