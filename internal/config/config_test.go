package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 730, cfg.RetentionDays)
	assert.Equal(t, "OperacoesRio", cfg.Twitter.Username)
	assert.Equal(t, time.Hour, cfg.Schedule.TwitterInterval)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.PlayStoreInterval)
	assert.Equal(t, 2*time.Hour, cfg.Schedule.PlayStoreOffset)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.PruneInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_LISTEN_ADDR", ":9090")
	t.Setenv("APP_RETENTION_DAYS", "90")
	t.Setenv("SCHEDULE_TWITTER_INTERVAL", "30m")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, 90, cfg.RetentionDays)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.TwitterInterval)
}

func TestLoadRejectsBadOverrides(t *testing.T) {
	t.Setenv("APP_RETENTION_DAYS", "-5")
	t.Setenv("SCHEDULE_PRUNE_INTERVAL", "tomorrow")

	cfg := Load()

	assert.Equal(t, 730, cfg.RetentionDays, "non-positive retention keeps the default")
	assert.Equal(t, 24*time.Hour, cfg.Schedule.PruneInterval, "unparseable duration keeps the default")
}
