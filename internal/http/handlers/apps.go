package handlers

import (
	"encoding/json"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

func ListAppDownloads(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rows, err := st.AppDownloadRange(ctx, queryPlatform(ctx.QueryArgs()), queryRange(ctx.QueryArgs(), time.Now()))
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to query app downloads")
			return
		}
		jsonResponse(ctx, map[string]any{"results": rows})
	}
}

func CreateAppDownload(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var row store.AppDownloadSnapshot
		if err := json.Unmarshal(ctx.PostBody(), &row); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		row.ID = 0
		row.RecordedAt = time.Time{}
		if row.CollectedAt.IsZero() {
			row.CollectedAt = time.Now().UTC()
		}
		if err := st.InsertAppDownload(ctx, &row); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to store app download snapshot")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusCreated)
		jsonResponse(ctx, row)
	}
}

// AppDownloadTotals reports the cumulative downloads across both stores.
func AppDownloadTotals(engine *aggregate.Engine) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		totals, err := engine.DownloadTotals(ctx)
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to total app downloads")
			return
		}
		jsonResponse(ctx, totals)
	}
}
