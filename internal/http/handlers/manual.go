package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

func ListManualEntries(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		rows, err := st.ManualEntryRange(ctx, queryPlatform(ctx.QueryArgs()), queryRange(ctx.QueryArgs(), time.Now()))
		if err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to query manual entries")
			return
		}
		jsonResponse(ctx, map[string]any{"results": rows})
	}
}

// CreateManualEntry records a hand-entered metric. EnteredBy defaults to
// the authenticated user's name when the caller leaves it empty.
func CreateManualEntry(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		var row store.ManualEntry
		if err := json.Unmarshal(ctx.PostBody(), &row); err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid JSON body")
			return
		}
		if row.MetricName == "" {
			errResponse(ctx, fasthttp.StatusBadRequest, "metric_name is required")
			return
		}
		row.ID = 0
		row.RecordedAt = time.Time{}
		if row.CollectedAt.IsZero() {
			row.CollectedAt = time.Now().UTC()
		}
		if row.EnteredBy == "" {
			if user, ok := MustUser(ctx); ok {
				row.EnteredBy = user.Username
			} else {
				return
			}
		}
		if err := st.InsertManualEntry(ctx, &row); err != nil {
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to store manual entry")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusCreated)
		jsonResponse(ctx, row)
	}
}

func DeleteManualEntry(st *store.Store) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		idStr, _ := ctx.UserValue("id").(string)
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			errResponse(ctx, fasthttp.StatusBadRequest, "invalid id")
			return
		}
		if err := st.DeleteManualEntry(ctx, uint(id)); err != nil {
			if err == gorm.ErrRecordNotFound {
				errResponse(ctx, fasthttp.StatusNotFound, "manual entry not found")
				return
			}
			errResponse(ctx, fasthttp.StatusInternalServerError, "failed to delete manual entry")
			return
		}
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	}
}
