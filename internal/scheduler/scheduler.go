// Package scheduler runs the collection and retention jobs on their
// configured cadences. Jobs are independent units of work: one job's
// failure or slowness never delays another job's ticks.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/collector"
)

// Job describes one scheduled unit of work. Ticks fire every Interval,
// aligned to the reference clock (Unix epoch, UTC) and shifted by
// Offset, so "daily at 02:00" is Interval=24h, Offset=2h.
type Job struct {
	Name     string
	Interval time.Duration
	Offset   time.Duration

	// Run performs one collection pass and reports how many samples it
	// stored. A collector.ErrNotConfigured result is expected and logged
	// at info level; any other error is a failed run. Failed runs stay
	// eligible for the next tick.
	Run func(ctx context.Context) (int, error)
}

type job struct {
	Job
	inFlight atomic.Bool
}

// Scheduler owns the process-wide schedule table. It is created at
// process start, jobs are added before Start, and Stop tears it down.
type Scheduler struct {
	log    *zap.Logger
	jobs   []*job
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(log *zap.Logger) *Scheduler {
	return &Scheduler{log: log}
}

// Add registers a job. Must be called before Start.
func (s *Scheduler) Add(j Job) {
	s.jobs = append(s.jobs, &job{Job: j})
}

// Start launches one goroutine per job. It returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	for _, j := range s.jobs {
		s.wg.Add(1)
		go func(j *job) {
			defer s.wg.Done()
			s.tickLoop(ctx, j)
		}(j)
	}
	s.log.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
}

// Stop cancels all tick loops and waits for in-flight runs to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("scheduler stopped")
}

// RunNow executes the named job once, synchronously, honoring the
// at-most-one-in-flight rule. It reports whether the job ran.
func (s *Scheduler) RunNow(ctx context.Context, name string) bool {
	for _, j := range s.jobs {
		if j.Name != name {
			continue
		}
		if !j.inFlight.CompareAndSwap(false, true) {
			return false
		}
		defer j.inFlight.Store(false)
		s.runOnce(ctx, j)
		return true
	}
	return false
}

func (s *Scheduler) tickLoop(ctx context.Context, j *job) {
	timer := time.NewTimer(time.Until(nextTick(time.Now(), j.Interval, j.Offset)))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// At most one in-flight run per job: a tick that would overlap
		// the previous run is skipped, not queued.
		if !j.inFlight.CompareAndSwap(false, true) {
			s.log.Warn("previous run still in flight, skipping tick", zap.String("job", j.Name))
			runsTotal.WithLabelValues(j.Name, outcomeSkipped).Inc()
		} else {
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				defer j.inFlight.Store(false)
				s.runOnce(ctx, j)
			}()
		}

		timer.Reset(time.Until(nextTick(time.Now(), j.Interval, j.Offset)))
	}
}

// runOnce executes the job body, converting every outcome - success,
// reported failure, or panic - into a log line and a counter. Nothing
// escapes to the tick loop.
func (s *Scheduler) runOnce(ctx context.Context, j *job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("job panicked", zap.String("job", j.Name), zap.Any("panic", r))
			runsTotal.WithLabelValues(j.Name, outcomeFailure).Inc()
		}
	}()

	start := time.Now()
	stored, err := j.Run(ctx)
	switch {
	case err == nil:
		s.log.Info("job run complete",
			zap.String("job", j.Name),
			zap.Int("samples", stored),
			zap.Duration("took", time.Since(start)),
		)
		runsTotal.WithLabelValues(j.Name, outcomeSuccess).Inc()
		samplesStored.WithLabelValues(j.Name).Add(float64(stored))
	case errors.Is(err, collector.ErrNotConfigured):
		s.log.Info("source not configured, nothing to collect", zap.String("job", j.Name))
		runsTotal.WithLabelValues(j.Name, outcomeNotConfigured).Inc()
	default:
		s.log.Error("job run failed",
			zap.String("job", j.Name),
			zap.Duration("took", time.Since(start)),
			zap.Error(err),
		)
		runsTotal.WithLabelValues(j.Name, outcomeFailure).Inc()
	}
}

// nextTick returns the first instant strictly after now that lands on
// the job's interval grid (epoch-aligned, shifted by offset).
func nextTick(now time.Time, interval, offset time.Duration) time.Time {
	next := now.Add(-offset).Truncate(interval).Add(offset)
	for !next.After(now) {
		next = next.Add(interval)
	}
	return next
}
