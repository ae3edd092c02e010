package collector

import (
	"context"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/datatypes"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

const twitterBaseURL = "https://api.twitter.com/2"

// Twitter snapshots the COR account's public metrics from the Twitter/X
// API v2 users endpoint.
type Twitter struct {
	cfg     config.TwitterConfig
	store   *store.Store
	http    *http.Client
	baseURL string
}

// TwitterOption configures the adapter.
type TwitterOption func(*Twitter)

// WithTwitterBaseURL overrides the API base URL.
func WithTwitterBaseURL(url string) TwitterOption {
	return func(c *Twitter) { c.baseURL = url }
}

// WithTwitterHTTPClient overrides the default http.Client.
func WithTwitterHTTPClient(hc *http.Client) TwitterOption {
	return func(c *Twitter) { c.http = hc }
}

func NewTwitter(cfg config.TwitterConfig, st *store.Store, opts ...TwitterOption) *Twitter {
	c := &Twitter{
		cfg:     cfg,
		store:   st,
		http:    newHTTPClient(),
		baseURL: twitterBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Twitter) Name() string { return "twitter" }

type twitterUserResponse struct {
	Data struct {
		PublicMetrics struct {
			FollowersCount int64 `json:"followers_count"`
			FollowingCount int64 `json:"following_count"`
			TweetCount     int64 `json:"tweet_count"`
			ListedCount    int64 `json:"listed_count"`
		} `json:"public_metrics"`
	} `json:"data"`
}

func (c *Twitter) Collect(ctx context.Context) (int, error) {
	if c.cfg.BearerToken == "" || c.cfg.Username == "" {
		return 0, ErrNotConfigured
	}

	url := c.baseURL + "/users/by/username/" + c.cfg.Username + "?user.fields=public_metrics"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, eris.Wrap(err, "twitter: create request")
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.BearerToken)

	var result twitterUserResponse
	if err := getJSON(c.http, req, &result); err != nil {
		return 0, eris.Wrap(err, "twitter")
	}

	m := result.Data.PublicMetrics
	snap := &store.SocialSnapshot{
		Platform:    store.PlatformTwitter,
		Followers:   m.FollowersCount,
		Following:   i64(m.FollowingCount),
		PostsCount:  i64(m.TweetCount),
		Extra:       datatypes.JSONMap{"listed_count": m.ListedCount},
		CollectedAt: time.Now().UTC(),
	}
	if err := c.store.InsertSocial(ctx, snap); err != nil {
		return 0, eris.Wrap(err, "twitter")
	}
	return 1, nil
}
