package store

import (
	"time"

	"gorm.io/datatypes"
)

// Platform identifies where a sample came from within its kind.
type Platform string

const (
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformYouTube   Platform = "youtube"
	PlatformThreads   Platform = "threads"

	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"

	PlatformOther Platform = "other"
)

// SocialPlatforms is the fixed set of social networks tracked by the
// dashboard, in display order.
func SocialPlatforms() []Platform {
	return []Platform{PlatformTwitter, PlatformFacebook, PlatformInstagram, PlatformYouTube, PlatformThreads}
}

// AppPlatforms is the fixed set of app stores tracked by the dashboard.
func AppPlatforms() []Platform {
	return []Platform{PlatformAndroid, PlatformIOS}
}

// SocialSnapshot is one point-in-time observation of a social account.
// Followers is always present (zero when the source reports nothing);
// every other metric is optional and stays NULL when the source does
// not provide it.
type SocialSnapshot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Platform  Platform `gorm:"index:idx_social_platform_collected,priority:1" json:"platform"`
	Followers int64    `json:"followers"`

	Following      *int64   `json:"following"`
	PostsCount     *int64   `json:"posts_count"`
	EngagementRate *float64 `json:"engagement_rate"`
	Likes          *int64   `json:"likes"`
	Comments       *int64   `json:"comments"`
	Shares         *int64   `json:"shares"`
	Views          *int64   `json:"views"`

	// Extra holds source-specific counters that have no normalized
	// column, so new vendor fields never require a schema change.
	Extra datatypes.JSONMap `gorm:"type:json" json:"extra,omitempty"`

	// CollectedAt is the business timestamp of the observation and may
	// be backdated. RecordedAt is set once when the row is written.
	CollectedAt time.Time `gorm:"index:idx_social_platform_collected,priority:2" json:"collected_at"`
	RecordedAt  time.Time `gorm:"autoCreateTime;<-:create" json:"recorded_at"`
}

// AppDownloadSnapshot is one point-in-time observation of an app store
// listing. TotalDownloads is cumulative; it is monotonic by construction
// at the source but not enforced here.
type AppDownloadSnapshot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Platform       Platform `gorm:"index:idx_app_platform_collected,priority:1" json:"platform"`
	TotalDownloads int64    `json:"total_downloads"`

	DailyDownloads   *int64   `json:"daily_downloads"`
	WeeklyDownloads  *int64   `json:"weekly_downloads"`
	MonthlyDownloads *int64   `json:"monthly_downloads"`
	ActiveUsers      *int64   `json:"active_users"`
	Rating           *float64 `json:"rating"`
	ReviewsCount     *int64   `json:"reviews_count"`

	CollectedAt time.Time `gorm:"index:idx_app_platform_collected,priority:2" json:"collected_at"`
	RecordedAt  time.Time `gorm:"autoCreateTime;<-:create" json:"recorded_at"`
}

// WebsiteSnapshot is one day (or one collection) of site traffic.
// There is a single site, so no platform discriminator.
type WebsiteSnapshot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	PageViews      int64 `json:"page_views"`
	UniqueVisitors int64 `json:"unique_visitors"`
	Sessions       int64 `json:"sessions"`

	BounceRate         *float64 `json:"bounce_rate"`
	AvgSessionDuration *int64   `json:"avg_session_duration"` // seconds

	OrganicTraffic  *int64 `json:"organic_traffic"`
	DirectTraffic   *int64 `json:"direct_traffic"`
	ReferralTraffic *int64 `json:"referral_traffic"`
	SocialTraffic   *int64 `json:"social_traffic"`

	CollectedAt time.Time `gorm:"index" json:"collected_at"`
	RecordedAt  time.Time `gorm:"autoCreateTime;<-:create" json:"recorded_at"`
}

// ManualEntry is a hand-entered metric for platforms without a usable
// API. EnteredBy is plain-text attribution, not an authenticated identity.
type ManualEntry struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Platform    Platform `gorm:"index" json:"platform"`
	MetricName  string   `json:"metric_name"`
	MetricValue int64    `json:"metric_value"`
	Notes       *string  `json:"notes"`
	EnteredBy   string   `json:"entered_by"`

	CollectedAt time.Time `gorm:"index" json:"collected_at"`
	RecordedAt  time.Time `gorm:"autoCreateTime;<-:create" json:"recorded_at"`
}
