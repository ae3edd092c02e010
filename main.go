package main

import (
	"context"
	"time"

	"github.com/fasthttp/router"
	"github.com/joho/godotenv"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/mcoutinho2512/cor-social-dashboard/internal/aggregate"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/collector"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/config"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/http/handlers"
	appmw "github.com/mcoutinho2512/cor-social-dashboard/internal/http/middleware"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/scheduler"
	"github.com/mcoutinho2512/cor-social-dashboard/internal/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	db, err := store.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	st := store.New(db)

	if err := store.EnsureBootstrapAdmin(db, cfg); err != nil {
		log.Fatal("failed to ensure bootstrap admin", zap.Error(err))
	}
	if cfg.InternalAPIKey != "" {
		if err := store.EnsureBootstrapAPIKey(db, cfg); err != nil {
			log.Warn("failed to ensure bootstrap API key", zap.Error(err))
		}
	}

	scheduler.InitMetrics()
	sched := scheduler.New(log)
	addCollectorJob(sched, collector.NewTwitter(cfg.Twitter, st), cfg.Schedule.TwitterInterval, cfg.Schedule.TwitterOffset)
	addCollectorJob(sched, collector.NewYouTube(cfg.YouTube, st), cfg.Schedule.YouTubeInterval, cfg.Schedule.YouTubeOffset)
	addCollectorJob(sched, collector.NewPlayStore(cfg.PlayStore, st), cfg.Schedule.PlayStoreInterval, cfg.Schedule.PlayStoreOffset)
	addCollectorJob(sched, collector.NewAppStore(cfg.AppStore, st), cfg.Schedule.AppStoreInterval, cfg.Schedule.AppStoreOffset)
	addCollectorJob(sched, collector.NewPlausible(cfg.Plausible, st), cfg.Schedule.PlausibleInterval, 0)

	retentionDays := cfg.RetentionDays
	sched.Add(scheduler.Job{
		Name:     "retention-prune",
		Interval: cfg.Schedule.PruneInterval,
		Run: func(ctx context.Context) (int, error) {
			cutoff := time.Now().UTC().Add(-time.Duration(retentionDays) * 24 * time.Hour)
			res, err := st.DeleteAllBefore(ctx, cutoff)
			if err != nil {
				return 0, err
			}
			log.Info("retention prune complete",
				zap.Int64("social", res.Social),
				zap.Int64("app_downloads", res.AppDownload),
				zap.Int64("website", res.Website),
				zap.Int64("manual_entries", res.ManualEntry),
			)
			return 0, nil
		},
	})

	ctx := context.Background()
	sched.Start(ctx)
	defer sched.Stop()

	// One prune at startup so a long-stopped instance catches up without
	// waiting for the next daily tick.
	go sched.RunNow(ctx, "retention-prune")

	engine := aggregate.New(st)

	r := router.New()

	r.GET("/healthz", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString("ok")
	})
	r.GET("/metrics", handlers.PrometheusMetrics())
	r.POST("/v1/auth/login", handlers.Login(db))

	auth := appmw.BearerAuth(db)

	r.GET("/v1/social", auth(handlers.ListSocial(st)))
	r.POST("/v1/social", auth(handlers.CreateSocial(st)))
	r.GET("/v1/social/latest", auth(handlers.LatestSocial(engine)))
	r.GET("/v1/social/comparison", auth(handlers.SocialComparison(engine)))

	r.GET("/v1/app-downloads", auth(handlers.ListAppDownloads(st)))
	r.POST("/v1/app-downloads", auth(handlers.CreateAppDownload(st)))
	r.GET("/v1/app-downloads/total", auth(handlers.AppDownloadTotals(engine)))

	r.GET("/v1/website", auth(handlers.ListWebsite(st)))
	r.POST("/v1/website", auth(handlers.CreateWebsite(st)))
	r.GET("/v1/website/summary", auth(handlers.WebsiteSummary(engine)))

	r.GET("/v1/manual-entries", auth(handlers.ListManualEntries(st)))
	r.POST("/v1/manual-entries", auth(handlers.CreateManualEntry(st)))
	r.DELETE("/v1/manual-entries/{id}", auth(handlers.DeleteManualEntry(st)))

	r.GET("/v1/dashboard/summary", auth(handlers.DashboardSummary(engine)))

	handler := appmw.RequestLogger(log)(r.Handler)

	log.Info("cor-social-dashboard listening", zap.String("addr", cfg.ListenAddr))
	if err := fasthttp.ListenAndServe(cfg.ListenAddr, handler); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func addCollectorJob(sched *scheduler.Scheduler, c collector.Collector, interval, offset time.Duration) {
	sched.Add(scheduler.Job{
		Name:     c.Name(),
		Interval: interval,
		Offset:   offset,
		Run:      c.Collect,
	})
}
