package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the core runtime configuration for the service.
// Values are primarily sourced from environment variables, with
// sensible defaults where appropriate. See .env.example.
type Config struct {
	AdminUser     string
	AdminPassword string

	DatabaseURL string

	ListenAddr string

	// RetentionDays is how long collected samples are kept before the
	// pruning job removes them. Defaults to two years.
	RetentionDays int

	// InternalAPIKey, when set, is bootstrapped as an active API key
	// owned by the admin user so dashboards and scripts can talk to
	// the API without a manual key-creation step.
	InternalAPIKey string

	Twitter   TwitterConfig
	YouTube   YouTubeConfig
	PlayStore PlayStoreConfig
	AppStore  AppStoreConfig
	Plausible PlausibleConfig

	Schedule ScheduleConfig
}

// TwitterConfig holds credentials for the Twitter/X follower snapshot.
type TwitterConfig struct {
	BearerToken string
	Username    string
}

// YouTubeConfig holds credentials for the YouTube channel statistics snapshot.
type YouTubeConfig struct {
	APIKey    string
	ChannelID string
}

// PlayStoreConfig points at the Google Play download stats export.
type PlayStoreConfig struct {
	PackageName string
	ServiceKey  string
}

// AppStoreConfig identifies the iOS app for the iTunes lookup.
type AppStoreConfig struct {
	AppID string
}

// PlausibleConfig holds credentials for the web analytics provider.
type PlausibleConfig struct {
	APIKey string
	SiteID string
}

// ScheduleConfig carries the collection cadences. Each entry maps to one
// scheduler job; changing a cadence is a configuration change only.
type ScheduleConfig struct {
	TwitterInterval   time.Duration
	TwitterOffset     time.Duration
	YouTubeInterval   time.Duration
	YouTubeOffset     time.Duration
	PlayStoreInterval time.Duration
	PlayStoreOffset   time.Duration
	AppStoreInterval  time.Duration
	AppStoreOffset    time.Duration
	PlausibleInterval time.Duration
	PruneInterval     time.Duration
}

// Load reads configuration from environment variables and applies defaults.
func Load() *Config {
	cfg := &Config{
		AdminUser:      getenv("APP_ADMIN_USER", "admin"),
		AdminPassword:  getenv("APP_ADMIN_PASSWORD", "changeme"),
		DatabaseURL:    os.Getenv("APP_DATABASE_URL"),
		ListenAddr:     getenv("APP_LISTEN_ADDR", ":8080"),
		RetentionDays:  730,
		InternalAPIKey: getenv("APP_INTERNAL_API_KEY", ""),

		Twitter: TwitterConfig{
			BearerToken: os.Getenv("TWITTER_BEARER_TOKEN"),
			Username:    getenv("TWITTER_USERNAME", "OperacoesRio"),
		},
		YouTube: YouTubeConfig{
			APIKey:    os.Getenv("YOUTUBE_API_KEY"),
			ChannelID: os.Getenv("YOUTUBE_CHANNEL_ID"),
		},
		PlayStore: PlayStoreConfig{
			PackageName: os.Getenv("GOOGLE_PLAY_PACKAGE_NAME"),
			ServiceKey:  os.Getenv("GOOGLE_PLAY_SERVICE_KEY"),
		},
		AppStore: AppStoreConfig{
			AppID: os.Getenv("APPLE_APP_ID"),
		},
		Plausible: PlausibleConfig{
			APIKey: os.Getenv("PLAUSIBLE_API_KEY"),
			SiteID: os.Getenv("PLAUSIBLE_SITE_ID"),
		},

		Schedule: ScheduleConfig{
			TwitterInterval:   getduration("SCHEDULE_TWITTER_INTERVAL", time.Hour),
			TwitterOffset:     0,
			YouTubeInterval:   getduration("SCHEDULE_YOUTUBE_INTERVAL", time.Hour),
			YouTubeOffset:     5 * time.Minute,
			PlayStoreInterval: getduration("SCHEDULE_PLAY_STORE_INTERVAL", 24*time.Hour),
			PlayStoreOffset:   2 * time.Hour,
			AppStoreInterval:  getduration("SCHEDULE_APP_STORE_INTERVAL", 24*time.Hour),
			AppStoreOffset:    2*time.Hour + 30*time.Minute,
			PlausibleInterval: getduration("SCHEDULE_PLAUSIBLE_INTERVAL", 6*time.Hour),
			PruneInterval:     getduration("SCHEDULE_PRUNE_INTERVAL", 24*time.Hour),
		},
	}

	if v := os.Getenv("APP_RETENTION_DAYS"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			cfg.RetentionDays = days
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getduration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
