package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// Range bounds a query by collected_at. A zero Start or End leaves that
// side unbounded, so the zero Range matches everything.
type Range struct {
	Start time.Time
	End   time.Time
}

// Store is the append-only persistence layer for all sample kinds.
// Rows are inserted and range-scanned, never updated in place; the only
// deletions are the retention cutoff and explicit manual-entry removal.
// It is safe for concurrent readers and appenders.
type Store struct {
	db *gorm.DB
}

// New wraps a connected GORM handle.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying handle for the auth boundary.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func insertRow[T any](ctx context.Context, db *gorm.DB, row *T) error {
	if err := db.WithContext(ctx).Create(row).Error; err != nil {
		return eris.Wrap(err, "store: insert")
	}
	return nil
}

func rangeRows[T any](ctx context.Context, db *gorm.DB, platform Platform, r Range) ([]T, error) {
	q := db.WithContext(ctx).Model(new(T))
	if platform != "" {
		q = q.Where("platform = ?", platform)
	}
	if !r.Start.IsZero() {
		q = q.Where("collected_at >= ?", r.Start)
	}
	if !r.End.IsZero() {
		q = q.Where("collected_at <= ?", r.End)
	}
	var rows []T
	if err := q.Order("collected_at DESC, recorded_at DESC").Find(&rows).Error; err != nil {
		return nil, eris.Wrap(err, "store: range query")
	}
	return rows, nil
}

// latestRow returns the most recent row by collected_at, ties broken by
// recorded_at (most recently written wins), or nil when none exists.
func latestRow[T any](ctx context.Context, db *gorm.DB, platform Platform) (*T, error) {
	q := db.WithContext(ctx).Model(new(T))
	if platform != "" {
		q = q.Where("platform = ?", platform)
	}
	var row T
	err := q.Order("collected_at DESC, recorded_at DESC").Limit(1).Take(&row).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, "store: latest query")
	}
	return &row, nil
}

func deleteBefore[T any](ctx context.Context, db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("collected_at < ?", cutoff).Delete(new(T))
	if res.Error != nil {
		return 0, eris.Wrap(res.Error, "store: delete before cutoff")
	}
	return res.RowsAffected, nil
}

func (s *Store) InsertSocial(ctx context.Context, row *SocialSnapshot) error {
	return insertRow(ctx, s.db, row)
}

func (s *Store) SocialRange(ctx context.Context, platform Platform, r Range) ([]SocialSnapshot, error) {
	return rangeRows[SocialSnapshot](ctx, s.db, platform, r)
}

func (s *Store) LatestSocial(ctx context.Context, platform Platform) (*SocialSnapshot, error) {
	return latestRow[SocialSnapshot](ctx, s.db, platform)
}

func (s *Store) DeleteSocialBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteBefore[SocialSnapshot](ctx, s.db, cutoff)
}

func (s *Store) InsertAppDownload(ctx context.Context, row *AppDownloadSnapshot) error {
	return insertRow(ctx, s.db, row)
}

func (s *Store) AppDownloadRange(ctx context.Context, platform Platform, r Range) ([]AppDownloadSnapshot, error) {
	return rangeRows[AppDownloadSnapshot](ctx, s.db, platform, r)
}

func (s *Store) LatestAppDownload(ctx context.Context, platform Platform) (*AppDownloadSnapshot, error) {
	return latestRow[AppDownloadSnapshot](ctx, s.db, platform)
}

func (s *Store) DeleteAppDownloadsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteBefore[AppDownloadSnapshot](ctx, s.db, cutoff)
}

// MaxTotalDownloads returns the highest cumulative download counter ever
// recorded for a platform. The counter is cumulative at the source, so
// the maximum is the all-time total even after older rows are pruned.
func (s *Store) MaxTotalDownloads(ctx context.Context, platform Platform) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&AppDownloadSnapshot{}).
		Where("platform = ?", platform).
		Select("COALESCE(MAX(total_downloads), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, eris.Wrap(err, "store: max total downloads")
	}
	return total, nil
}

func (s *Store) InsertWebsite(ctx context.Context, row *WebsiteSnapshot) error {
	return insertRow(ctx, s.db, row)
}

func (s *Store) WebsiteRange(ctx context.Context, r Range) ([]WebsiteSnapshot, error) {
	return rangeRows[WebsiteSnapshot](ctx, s.db, "", r)
}

func (s *Store) LatestWebsite(ctx context.Context) (*WebsiteSnapshot, error) {
	return latestRow[WebsiteSnapshot](ctx, s.db, "")
}

func (s *Store) DeleteWebsiteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteBefore[WebsiteSnapshot](ctx, s.db, cutoff)
}

func (s *Store) InsertManualEntry(ctx context.Context, row *ManualEntry) error {
	return insertRow(ctx, s.db, row)
}

func (s *Store) ManualEntryRange(ctx context.Context, platform Platform, r Range) ([]ManualEntry, error) {
	return rangeRows[ManualEntry](ctx, s.db, platform, r)
}

func (s *Store) DeleteManualEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return deleteBefore[ManualEntry](ctx, s.db, cutoff)
}

// DeleteManualEntry removes one manual entry by id. Manual entries are
// the only rows deletable individually; collected samples age out via
// the retention job instead.
func (s *Store) DeleteManualEntry(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&ManualEntry{}, id)
	if res.Error != nil {
		return eris.Wrap(res.Error, "store: delete manual entry")
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PruneResult reports how many rows the retention pass removed per kind.
type PruneResult struct {
	Social      int64
	AppDownload int64
	Website     int64
	ManualEntry int64
}

// Total sums the per-kind deletion counts.
func (p PruneResult) Total() int64 {
	return p.Social + p.AppDownload + p.Website + p.ManualEntry
}

// DeleteAllBefore runs the retention cutoff across every sample kind.
// Each kind is pruned independently; a failure on one kind stops the
// pass but leaves the counts deleted so far in the result.
func (s *Store) DeleteAllBefore(ctx context.Context, cutoff time.Time) (PruneResult, error) {
	var res PruneResult
	var err error
	if res.Social, err = s.DeleteSocialBefore(ctx, cutoff); err != nil {
		return res, err
	}
	if res.AppDownload, err = s.DeleteAppDownloadsBefore(ctx, cutoff); err != nil {
		return res, err
	}
	if res.Website, err = s.DeleteWebsiteBefore(ctx, cutoff); err != nil {
		return res, err
	}
	if res.ManualEntry, err = s.DeleteManualEntriesBefore(ctx, cutoff); err != nil {
		return res, err
	}
	return res, nil
}
