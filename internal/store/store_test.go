package store

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return New(db)
}

func TestSocialRangeOrdering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, offset := range []time.Duration{0, 48 * time.Hour, 24 * time.Hour} {
		require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{
			Platform:    PlatformTwitter,
			Followers:   100,
			CollectedAt: base.Add(offset),
		}))
	}

	rows, err := st.SocialRange(ctx, PlatformTwitter, Range{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.False(t, rows[i].CollectedAt.After(rows[i-1].CollectedAt), "rows must be collected_at descending")
	}
}

func TestSocialRangeFilters(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformTwitter, Followers: 1, CollectedAt: base}))
	require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformYouTube, Followers: 2, CollectedAt: base}))
	require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformTwitter, Followers: 3, CollectedAt: base.Add(72 * time.Hour)}))

	rows, err := st.SocialRange(ctx, PlatformTwitter, Range{Start: base, End: base.Add(24 * time.Hour)})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].Followers)

	// Range bounds are inclusive.
	rows, err = st.SocialRange(ctx, PlatformTwitter, Range{Start: base, End: base.Add(72 * time.Hour)})
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	// No platform filter returns every platform.
	rows, err = st.SocialRange(ctx, "", Range{})
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestLatestSocialTieBreak(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformTwitter, Followers: 100, CollectedAt: at}))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformTwitter, Followers: 200, CollectedAt: at}))

	latest, err := st.LatestSocial(ctx, PlatformTwitter)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, int64(200), latest.Followers, "most recently written row wins ties")
}

func TestLatestSocialNone(t *testing.T) {
	st := newTestStore(t)

	latest, err := st.LatestSocial(context.Background(), PlatformThreads)
	require.NoError(t, err)
	assert.Nil(t, latest)
}

func TestRecordedAtSetOnInsert(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	// Backdated business timestamp; recorded_at must still be "now".
	row := &SocialSnapshot{
		Platform:    PlatformInstagram,
		Followers:   500,
		CollectedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, st.InsertSocial(ctx, row))

	assert.False(t, row.RecordedAt.IsZero())
	assert.WithinDuration(t, time.Now(), row.RecordedAt, time.Minute)
}

func TestDeleteBeforeIdempotent(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	cutoff := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, at := range []time.Time{
		cutoff.Add(-48 * time.Hour),
		cutoff.Add(-time.Second),
		cutoff, // exactly at the cutoff survives
		cutoff.Add(24 * time.Hour),
	} {
		require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformTwitter, Followers: 1, CollectedAt: at}))
	}

	deleted, err := st.DeleteSocialBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = st.DeleteSocialBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted, "second pass with the same cutoff deletes nothing")

	rows, err := st.SocialRange(ctx, PlatformTwitter, Range{})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.CollectedAt.Before(cutoff))
	}
}

func TestDeleteAllBefore(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	old := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	cutoff := old.Add(24 * time.Hour)

	require.NoError(t, st.InsertSocial(ctx, &SocialSnapshot{Platform: PlatformTwitter, Followers: 1, CollectedAt: old}))
	require.NoError(t, st.InsertAppDownload(ctx, &AppDownloadSnapshot{Platform: PlatformAndroid, TotalDownloads: 1, CollectedAt: old}))
	require.NoError(t, st.InsertWebsite(ctx, &WebsiteSnapshot{PageViews: 1, CollectedAt: old}))
	require.NoError(t, st.InsertManualEntry(ctx, &ManualEntry{Platform: PlatformOther, MetricName: "m", MetricValue: 1, EnteredBy: "x", CollectedAt: old}))

	res, err := st.DeleteAllBefore(ctx, cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Total())
}

func TestManualEntryRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	note := "counted by hand from the page"
	withNote := &ManualEntry{
		Platform:    PlatformOther,
		MetricName:  "newsletter_subscribers",
		MetricValue: 42,
		Notes:       &note,
		EnteredBy:   "maria",
		CollectedAt: at,
	}
	require.NoError(t, st.InsertManualEntry(ctx, withNote))
	require.NoError(t, st.InsertManualEntry(ctx, &ManualEntry{
		Platform:    PlatformFacebook,
		MetricName:  "group_members",
		MetricValue: 7,
		EnteredBy:   "joao",
		CollectedAt: at.Add(time.Hour),
	}))

	rows, err := st.ManualEntryRange(ctx, PlatformOther, Range{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	got := rows[0]
	assert.Equal(t, "newsletter_subscribers", got.MetricName)
	assert.Equal(t, int64(42), got.MetricValue)
	require.NotNil(t, got.Notes)
	assert.Equal(t, note, *got.Notes)
	assert.True(t, got.CollectedAt.Equal(at))

	rows, err = st.ManualEntryRange(ctx, PlatformFacebook, Range{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].Notes)
}

func TestDeleteManualEntry(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	row := &ManualEntry{Platform: PlatformOther, MetricName: "m", MetricValue: 1, EnteredBy: "x", CollectedAt: time.Now()}
	require.NoError(t, st.InsertManualEntry(ctx, row))

	require.NoError(t, st.DeleteManualEntry(ctx, row.ID))
	err := st.DeleteManualEntry(ctx, row.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMaxTotalDownloads(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i, total := range []int64{100, 250, 200} {
		require.NoError(t, st.InsertAppDownload(ctx, &AppDownloadSnapshot{
			Platform:       PlatformAndroid,
			TotalDownloads: total,
			CollectedAt:    base.Add(time.Duration(i) * 24 * time.Hour),
		}))
	}

	max, err := st.MaxTotalDownloads(ctx, PlatformAndroid)
	require.NoError(t, err)
	assert.Equal(t, int64(250), max)

	// No rows for the platform means zero, not an error.
	max, err = st.MaxTotalDownloads(ctx, PlatformIOS)
	require.NoError(t, err)
	assert.Equal(t, int64(0), max)
}
