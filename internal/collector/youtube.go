package collector

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

const youtubeBaseURL = "https://www.googleapis.com/youtube/v3"

// YouTube snapshots the channel's subscriber, video, and view counters
// from the Data API channels endpoint.
type YouTube struct {
	cfg     config.YouTubeConfig
	store   *store.Store
	http    *http.Client
	baseURL string
}

// YouTubeOption configures the adapter.
type YouTubeOption func(*YouTube)

// WithYouTubeBaseURL overrides the API base URL.
func WithYouTubeBaseURL(url string) YouTubeOption {
	return func(c *YouTube) { c.baseURL = url }
}

// WithYouTubeHTTPClient overrides the default http.Client.
func WithYouTubeHTTPClient(hc *http.Client) YouTubeOption {
	return func(c *YouTube) { c.http = hc }
}

func NewYouTube(cfg config.YouTubeConfig, st *store.Store, opts ...YouTubeOption) *YouTube {
	c := &YouTube{
		cfg:     cfg,
		store:   st,
		http:    newHTTPClient(),
		baseURL: youtubeBaseURL,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *YouTube) Name() string { return "youtube" }

// The Data API serializes the large counters as JSON strings.
type youtubeChannelsResponse struct {
	Items []struct {
		Statistics struct {
			ViewCount       string `json:"viewCount"`
			SubscriberCount string `json:"subscriberCount"`
			VideoCount      string `json:"videoCount"`
		} `json:"statistics"`
	} `json:"items"`
}

func (c *YouTube) Collect(ctx context.Context) (int, error) {
	if c.cfg.APIKey == "" || c.cfg.ChannelID == "" {
		return 0, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("part", "statistics")
	q.Set("id", c.cfg.ChannelID)
	q.Set("key", c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/channels?"+q.Encode(), nil)
	if err != nil {
		return 0, eris.Wrap(err, "youtube: create request")
	}

	var result youtubeChannelsResponse
	if err := getJSON(c.http, req, &result); err != nil {
		return 0, eris.Wrap(err, "youtube")
	}
	if len(result.Items) == 0 {
		return 0, eris.Errorf("youtube: channel %s not found", c.cfg.ChannelID)
	}

	stats := result.Items[0].Statistics
	subscribers, err := strconv.ParseInt(stats.SubscriberCount, 10, 64)
	if err != nil {
		return 0, eris.Wrap(err, "youtube: parse subscriber count")
	}

	snap := &store.SocialSnapshot{
		Platform:    store.PlatformYouTube,
		Followers:   subscribers,
		CollectedAt: time.Now().UTC(),
	}
	// Video and view counts are optional in the response; leave them
	// absent rather than storing a fabricated zero.
	if v, err := strconv.ParseInt(stats.VideoCount, 10, 64); err == nil {
		snap.PostsCount = i64(v)
	}
	if v, err := strconv.ParseInt(stats.ViewCount, 10, 64); err == nil {
		snap.Views = i64(v)
	}

	if err := c.store.InsertSocial(ctx, snap); err != nil {
		return 0, eris.Wrap(err, "youtube")
	}
	return 1, nil
}
