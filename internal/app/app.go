package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/orgball2608/bluesky-likes-crawler/internal/bluesky"
	"github.com/orgball2608/bluesky-likes-crawler/internal/bluesky/blueskyimpl"
	"github.com/orgball2608/bluesky-likes-crawler/internal/crawler"
	"github.com/orgball2608/bluesky-likes-crawler/internal/crawler/crawlerimpl"
	"github.com/orgball2608/bluesky-likes-crawler/internal/downloader"
	"github.com/orgball2608/bluesky-likes-crawler/internal/downloader/downloaderimpl"
	"github.com/orgball2608/bluesky-likes-crawler/internal/feedcache"
	"github.com/orgball2608/bluesky-likes-crawler/internal/fetcher"
	"github.com/orgball2608/bluesky-likes-crawler/internal/fetcher/fetcherimpl"
	"github.com/orgball2608/bluesky-likes-crawler/internal/migrations"
	"github.com/orgball2608/bluesky-likes-crawler/internal/normalizer"
	"github.com/orgball2608/bluesky-likes-crawler/internal/pgx"
	"github.com/orgball2608/bluesky-likes-crawler/internal/ratelimit"
	repositories "github.com/orgball2608/bluesky-likes-crawler/internal/repositories/fx"
	"github.com/orgball2608/bluesky-likes-crawler/internal/telegram/telegramimpl"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"go.uber.org/fx"
)

const downloadBurst = 4

var Module = fx.Options(
	fx.Provide(
		config.New,
		logger.FxOption,
		pgx.New,
		normalizer.New,
		newFeedCache,
		newLimiter,
		blueskyimpl.NewStore,
		telegramimpl.New,
	),
	fx.Provide(
		fx.Annotate(
			blueskyimpl.New,
			fx.As(new(bluesky.Client)),
		), fx.Annotate(
			fetcherimpl.New,
			fx.As(new(fetcher.Client)),
		), fx.Annotate(
			downloaderimpl.New,
			fx.As(new(downloader.Client)),
		),
		fx.Annotate(
			crawlerimpl.New,
			fx.As(new(crawler.Client)),
		),
	),
	repositories.Module,
	fx.Invoke(migrate),
	fx.Invoke(run),
)

func newFeedCache(cfg *config.Config) *feedcache.Cache {
	return feedcache.New(cfg.Crawler.CachePath)
}

func newLimiter(cfg *config.Config) ratelimit.Limiter {
	return ratelimit.NewInMemoryLimiter(cfg.Downloader.RatePerSecond, downloadBurst)
}

func migrate(cfg *config.Config, log logger.Logger) error {
	if err := migrations.Up(cfg.GetDSN()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	log.Info("Migrations applied")
	return nil
}

func run(lc fx.Lifecycle, log logger.Logger, cfg *config.Config, c crawler.Client) {
	ctx, cancel := context.WithCancel(context.Background())
	srv := newHealthServer(log, cfg)

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info(fmt.Sprintf("Starting server on :%d", cfg.App.Port))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Server failed to start", "error", err)
				}
			}()

			if err := c.ScheduleCrawl(ctx); err != nil {
				cancel()
				return err
			}
			if err := c.ScheduleCacheCleanup(ctx); err != nil {
				cancel()
				return err
			}
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			return srv.Shutdown(stopCtx)
		},
	})
}

func newHealthServer(log logger.Logger, cfg *config.Config) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCheckHandler(w, r, log)
	})

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request, logger logger.Logger) {
	logger.Debug("Health check request received", "Method", r.Method, "URL", r.URL.String())
	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("ok")); err != nil {
		logger.Error("Failed to write response", "Error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
