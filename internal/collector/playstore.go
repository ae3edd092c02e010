package collector

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

const playStoreBaseURL = "https://androidpublisher.googleapis.com/androidpublisher/v3"

// PlayStore snapshots the Android app's download and rating counters
// from the publisher stats export.
type PlayStore struct {
	cfg     config.PlayStoreConfig
	store   *store.Store
	http    *http.Client
	baseURL string
}

// PlayStoreOption configures the adapter.
type PlayStoreOption func(*PlayStore)

// WithPlayStoreBaseURL overrides the API base URL.
func WithPlayStoreBaseURL(url string) PlayStoreOption {
	return func(c *PlayStore) { c.baseURL = url }
}

// WithPlayStoreHTTPClient overrides the default http.Client.
func WithPlayStoreHTTPClient(hc *http.Client) PlayStoreOption {
	return func(c *PlayStore) { c.http = hc }
}

func NewPlayStore(cfg config.PlayStoreConfig, st *store.Store, opts ...PlayStoreOption) *PlayStore {
	c := &PlayStore{
		cfg:     cfg,
		store:   st,
		http:    newHTTPClient(),
		baseURL: playStoreBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *PlayStore) Name() string { return "playstore" }

type playStoreStatsResponse struct {
	TotalDownloads   int64    `json:"totalDownloads"`
	DailyDownloads   *int64   `json:"dailyDownloads"`
	WeeklyDownloads  *int64   `json:"weeklyDownloads"`
	MonthlyDownloads *int64   `json:"monthlyDownloads"`
	ActiveUsers      *int64   `json:"activeUsers"`
	Rating           *float64 `json:"rating"`
	ReviewsCount     *int64   `json:"reviewsCount"`
}

func (c *PlayStore) Collect(ctx context.Context) (int, error) {
	if c.cfg.PackageName == "" || c.cfg.ServiceKey == "" {
		return 0, ErrNotConfigured
	}

	url := c.baseURL + "/applications/" + c.cfg.PackageName + "/stats"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, eris.Wrap(err, "playstore: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)

	var result playStoreStatsResponse
	if err := getJSON(c.http, req, &result); err != nil {
		return 0, eris.Wrap(err, "playstore")
	}

	snap := &store.AppDownloadSnapshot{
		Platform:         store.PlatformAndroid,
		TotalDownloads:   result.TotalDownloads,
		DailyDownloads:   result.DailyDownloads,
		WeeklyDownloads:  result.WeeklyDownloads,
		MonthlyDownloads: result.MonthlyDownloads,
		ActiveUsers:      result.ActiveUsers,
		Rating:           result.Rating,
		ReviewsCount:     result.ReviewsCount,
		CollectedAt:      time.Now().UTC(),
	}
	if err := c.store.InsertAppDownload(ctx, snap); err != nil {
		return 0, eris.Wrap(err, "playstore")
	}
	return 1, nil
}
