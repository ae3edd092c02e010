package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

const appStoreBaseURL = "https://itunes.apple.com"

// AppStore snapshots the iOS app's rating and review counters from the
// public iTunes lookup endpoint. Apple exposes no download counter
// there, so TotalDownloads stays at the kind's zero default.
type AppStore struct {
	cfg     config.AppStoreConfig
	store   *store.Store
	http    *http.Client
	baseURL string
}

// AppStoreOption configures the adapter.
type AppStoreOption func(*AppStore)

// WithAppStoreBaseURL overrides the API base URL.
func WithAppStoreBaseURL(url string) AppStoreOption {
	return func(c *AppStore) { c.baseURL = url }
}

// WithAppStoreHTTPClient overrides the default http.Client.
func WithAppStoreHTTPClient(hc *http.Client) AppStoreOption {
	return func(c *AppStore) { c.http = hc }
}

func NewAppStore(cfg config.AppStoreConfig, st *store.Store, opts ...AppStoreOption) *AppStore {
	c := &AppStore{
		cfg:     cfg,
		store:   st,
		http:    newHTTPClient(),
		baseURL: appStoreBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *AppStore) Name() string { return "appstore" }

type itunesLookupResponse struct {
	ResultCount int `json:"resultCount"`
	Results     []struct {
		AverageUserRating float64 `json:"averageUserRating"`
		UserRatingCount   int64   `json:"userRatingCount"`
	} `json:"results"`
}

func (c *AppStore) Collect(ctx context.Context) (int, error) {
	if c.cfg.AppID == "" {
		return 0, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("id", c.cfg.AppID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lookup?"+q.Encode(), nil)
	if err != nil {
		return 0, eris.Wrap(err, "appstore: create request")
	}

	var result itunesLookupResponse
	if err := getJSON(c.http, req, &result); err != nil {
		return 0, eris.Wrap(err, "appstore")
	}
	if result.ResultCount == 0 || len(result.Results) == 0 {
		return 0, eris.Errorf("appstore: app %s not found", c.cfg.AppID)
	}

	app := result.Results[0]
	snap := &store.AppDownloadSnapshot{
		Platform:     store.PlatformIOS,
		Rating:       f64(app.AverageUserRating),
		ReviewsCount: i64(app.UserRatingCount),
		CollectedAt:  time.Now().UTC(),
	}
	if err := c.store.InsertAppDownload(ctx, snap); err != nil {
		return 0, eris.Wrap(err, "appstore")
	}
	return 1, nil
}
