package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
	httpctx "github.com/mcoutinho2512/cor-social-dashboard/internal/http/ctx"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

func newTestDB(t *testing.T) (*gorm.DB, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, store.Migrate(db))
	return db, store.New(db)
}

func doRequest(handler fasthttp.RequestHandler, method, uri, body string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	if body != "" {
		req.SetBodyString(body)
	}
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	handler(ctx)
	return ctx
}

func TestListSocialFiltersByPlatform(t *testing.T) {
	_, st := newTestDB(t)
	now := time.Now().UTC()

	require.NoError(t, st.InsertSocial(context.Background(), &store.SocialSnapshot{Platform: store.PlatformTwitter, Followers: 10, CollectedAt: now}))
	require.NoError(t, st.InsertSocial(context.Background(), &store.SocialSnapshot{Platform: store.PlatformYouTube, Followers: 20, CollectedAt: now}))

	ctx := doRequest(ListSocial(st), fasthttp.MethodGet, "/v1/social?platform=twitter", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		Results []store.SocialSnapshot `json:"results"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, store.PlatformTwitter, resp.Results[0].Platform)
}

func TestCreateSocial(t *testing.T) {
	_, st := newTestDB(t)

	ctx := doRequest(CreateSocial(st), fasthttp.MethodPost, "/v1/social",
		`{"platform": "instagram", "followers": 4200, "collected_at": "2025-06-10T00:00:00Z"}`)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())

	snap, err := st.LatestSocial(context.Background(), store.PlatformInstagram)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, int64(4200), snap.Followers)
	assert.True(t, snap.CollectedAt.Equal(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)))
	assert.False(t, snap.RecordedAt.IsZero(), "recorded_at is set by the store, not the caller")
}

func TestCreateSocialRejectsBadJSON(t *testing.T) {
	_, st := newTestDB(t)

	ctx := doRequest(CreateSocial(st), fasthttp.MethodPost, "/v1/social", `{"platform":`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestSocialComparisonRequiresPlatform(t *testing.T) {
	_, st := newTestDB(t)
	engine := aggregate.New(st)

	ctx := doRequest(SocialComparison(engine), fasthttp.MethodGet, "/v1/social/comparison", "")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestSocialComparisonDefaultsToWeek(t *testing.T) {
	_, st := newTestDB(t)
	engine := aggregate.New(st)
	now := time.Now().UTC()

	require.NoError(t, st.InsertSocial(context.Background(), &store.SocialSnapshot{Platform: store.PlatformTwitter, Followers: 100, CollectedAt: now.Add(-time.Hour)}))
	require.NoError(t, st.InsertSocial(context.Background(), &store.SocialSnapshot{Platform: store.PlatformTwitter, Followers: 80, CollectedAt: now.Add(-8 * 24 * time.Hour)}))

	ctx := doRequest(SocialComparison(engine), fasthttp.MethodGet, "/v1/social/comparison?platform=twitter", "")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var cmp aggregate.Comparison
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &cmp))
	assert.Equal(t, aggregate.PeriodWeek, cmp.Period)
	assert.Equal(t, float64(100), cmp.Current)
	assert.Equal(t, float64(80), cmp.Previous)
	assert.InDelta(t, 25.0, cmp.Growth, 1e-9)
}

func TestCreateManualEntryDefaultsEnteredBy(t *testing.T) {
	_, st := newTestDB(t)

	handler := func(ctx *fasthttp.RequestCtx) {
		httpctx.SetUser(ctx, &store.User{Username: "maria"})
		CreateManualEntry(st)(ctx)
	}

	ctx := doRequest(handler, fasthttp.MethodPost, "/v1/manual-entries",
		`{"platform": "other", "metric_name": "newsletter_subscribers", "metric_value": 42}`)
	require.Equal(t, fasthttp.StatusCreated, ctx.Response.StatusCode())

	rows, err := st.ManualEntryRange(context.Background(), store.PlatformOther, store.Range{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "maria", rows[0].EnteredBy)
	assert.Equal(t, int64(42), rows[0].MetricValue)
	assert.False(t, rows[0].CollectedAt.IsZero())
}

func TestCreateManualEntryRequiresMetricName(t *testing.T) {
	_, st := newTestDB(t)

	ctx := doRequest(CreateManualEntry(st), fasthttp.MethodPost, "/v1/manual-entries",
		`{"platform": "other", "metric_value": 5}`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestDeleteManualEntry(t *testing.T) {
	_, st := newTestDB(t)

	row := &store.ManualEntry{Platform: store.PlatformOther, MetricName: "m", MetricValue: 1, EnteredBy: "x", CollectedAt: time.Now()}
	require.NoError(t, st.InsertManualEntry(context.Background(), row))

	handler := func(ctx *fasthttp.RequestCtx) {
		ctx.SetUserValue("id", fmt.Sprintf("%d", row.ID))
		DeleteManualEntry(st)(ctx)
	}
	ctx := doRequest(handler, fasthttp.MethodDelete, "/v1/manual-entries/1", "")
	assert.Equal(t, fasthttp.StatusNoContent, ctx.Response.StatusCode())

	ctx = doRequest(handler, fasthttp.MethodDelete, "/v1/manual-entries/1", "")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestLogin(t *testing.T) {
	db, _ := newTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := store.User{Username: "admin", PasswordHash: string(hash), IsAdmin: true}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&store.APIKey{UserID: user.ID, Name: "cli", Key: "key-abc", Active: true}).Error)
	require.NoError(t, db.Create(&store.APIKey{UserID: user.ID, Name: "revoked", Key: "key-old", Active: false}).Error)

	ctx := doRequest(Login(db), fasthttp.MethodPost, "/v1/auth/login", `{"username": "admin", "password": "s3cret"}`)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp struct {
		Username string `json:"username"`
		APIKeys  []struct {
			Name string `json:"name"`
			Key  string `json:"key"`
		} `json:"api_keys"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, "admin", resp.Username)
	require.Len(t, resp.APIKeys, 1, "revoked keys are not returned")
	assert.Equal(t, "key-abc", resp.APIKeys[0].Key)
}

func TestLoginWrongPassword(t *testing.T) {
	db, _ := newTestDB(t)

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.DefaultCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&store.User{Username: "admin", PasswordHash: string(hash)}).Error)

	ctx := doRequest(Login(db), fasthttp.MethodPost, "/v1/auth/login", `{"username": "admin", "password": "wrong"}`)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = doRequest(Login(db), fasthttp.MethodPost, "/v1/auth/login", `{"username": "ghost", "password": "x"}`)
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}
