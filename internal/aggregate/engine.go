// Package aggregate answers the dashboard's read queries: latest sample
// per platform, windowed totals, and period-over-period growth. All
// queries are plain reads against whatever samples exist at call time.
package aggregate

import (
	"context"
	"time"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

// Engine runs aggregation queries against the sample store.
type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// LatestSocial returns the most recent social snapshot for each platform
// in the given order. Platforms with no samples are omitted, never
// padded with placeholders; output order follows input order.
func (e *Engine) LatestSocial(ctx context.Context, platforms []store.Platform) ([]store.SocialSnapshot, error) {
	out := make([]store.SocialSnapshot, 0, len(platforms))
	for _, p := range platforms {
		snap, err := e.store.LatestSocial(ctx, p)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			out = append(out, *snap)
		}
	}
	return out, nil
}

// LatestAppDownloads returns the most recent app download snapshot for
// each platform in the given order, omitting platforms with no samples.
func (e *Engine) LatestAppDownloads(ctx context.Context, platforms []store.Platform) ([]store.AppDownloadSnapshot, error) {
	out := make([]store.AppDownloadSnapshot, 0, len(platforms))
	for _, p := range platforms {
		snap, err := e.store.LatestAppDownload(ctx, p)
		if err != nil {
			return nil, err
		}
		if snap != nil {
			out = append(out, *snap)
		}
	}
	return out, nil
}

// Comparison is the result of a period-over-period follower comparison.
// Current and Previous are sums of the point-in-time follower counts
// across each window. Summing snapshots rather than averaging them is
// how the dashboard has always computed this; the numbers scale with
// collection frequency, which consumers of the growth percentage accept.
type Comparison struct {
	Platform store.Platform `json:"platform"`
	Period   Period         `json:"period"`
	Current  float64        `json:"current"`
	Previous float64        `json:"previous"`
	Growth   float64        `json:"growth"`
}

// CompareFollowers sums followers over the current and previous windows
// for one platform and computes the growth percentage between them.
func (e *Engine) CompareFollowers(ctx context.Context, platform store.Platform, period Period, now time.Time) (Comparison, error) {
	current, previous := ComparisonWindows(period, now)

	currentRows, err := e.store.SocialRange(ctx, platform, current)
	if err != nil {
		return Comparison{}, err
	}
	previousRows, err := e.store.SocialRange(ctx, platform, previous)
	if err != nil {
		return Comparison{}, err
	}

	followers := func(s store.SocialSnapshot) float64 { return float64(s.Followers) }
	cmp := Comparison{
		Platform: platform,
		Period:   period,
		Current:  sum(currentRows, followers),
		Previous: sum(previousRows, followers),
	}
	cmp.Growth = Growth(cmp.Current, cmp.Previous)
	return cmp, nil
}

// WebsiteSummary totals site traffic over the period's window.
type WebsiteSummary struct {
	Period              Period `json:"period"`
	TotalPageViews      int64  `json:"total_page_views"`
	TotalUniqueVisitors int64  `json:"total_unique_visitors"`
	TotalSessions       int64  `json:"total_sessions"`
}

func (e *Engine) WebsiteSummary(ctx context.Context, period Period, now time.Time) (WebsiteSummary, error) {
	w, _ := WindowFor(period, now)
	rows, err := e.store.WebsiteRange(ctx, w)
	if err != nil {
		return WebsiteSummary{}, err
	}
	return WebsiteSummary{
		Period:              period,
		TotalPageViews:      int64(sum(rows, func(s store.WebsiteSnapshot) float64 { return float64(s.PageViews) })),
		TotalUniqueVisitors: int64(sum(rows, func(s store.WebsiteSnapshot) float64 { return float64(s.UniqueVisitors) })),
		TotalSessions:       int64(sum(rows, func(s store.WebsiteSnapshot) float64 { return float64(s.Sessions) })),
	}, nil
}

// DownloadTotals reports the all-time cumulative download counters per
// app platform and their sum.
type DownloadTotals struct {
	Android int64 `json:"android"`
	IOS     int64 `json:"ios"`
	Total   int64 `json:"total"`
}

func (e *Engine) DownloadTotals(ctx context.Context) (DownloadTotals, error) {
	android, err := e.store.MaxTotalDownloads(ctx, store.PlatformAndroid)
	if err != nil {
		return DownloadTotals{}, err
	}
	ios, err := e.store.MaxTotalDownloads(ctx, store.PlatformIOS)
	if err != nil {
		return DownloadTotals{}, err
	}
	return DownloadTotals{Android: android, IOS: ios, Total: android + ios}, nil
}

// DashboardSummary is the consolidated cross-source view.
type DashboardSummary struct {
	SocialMetrics     []store.SocialSnapshot      `json:"social_metrics"`
	AppDownloads      []store.AppDownloadSnapshot `json:"app_downloads"`
	WebsiteMetrics    []store.WebsiteSnapshot     `json:"website_metrics"`
	TotalFollowers    int64                       `json:"total_followers"`
	TotalAppDownloads int64                       `json:"total_app_downloads"`
	TotalPageViews    int64                       `json:"total_page_views"`
	Period            Period                      `json:"period"`
}

// Summary assembles the dashboard from the latest social and app
// snapshots plus the website window. Each piece is read independently;
// a sample inserted mid-assembly may appear in one section and not
// another, which is fine for a dashboard. An unrecognized period falls
// back to a month window here, matching the original dashboard.
func (e *Engine) Summary(ctx context.Context, period Period, now time.Time) (*DashboardSummary, error) {
	social, err := e.LatestSocial(ctx, store.SocialPlatforms())
	if err != nil {
		return nil, err
	}
	apps, err := e.LatestAppDownloads(ctx, store.AppPlatforms())
	if err != nil {
		return nil, err
	}

	w, ok := WindowFor(period, now)
	if !ok {
		w, _ = WindowFor(PeriodMonth, now)
	}
	website, err := e.store.WebsiteRange(ctx, w)
	if err != nil {
		return nil, err
	}

	summary := &DashboardSummary{
		SocialMetrics:  social,
		AppDownloads:   apps,
		WebsiteMetrics: website,
		Period:         period,
	}
	for _, s := range social {
		summary.TotalFollowers += s.Followers
	}
	for _, a := range apps {
		summary.TotalAppDownloads += a.TotalDownloads
	}
	summary.TotalPageViews = int64(sum(website, func(s store.WebsiteSnapshot) float64 { return float64(s.PageViews) }))
	return summary, nil
}
