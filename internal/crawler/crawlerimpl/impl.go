package crawlerimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/bluesky-likes-crawler/internal/crawler"
	"github.com/orgball2608/bluesky-likes-crawler/internal/dedup"
	"github.com/orgball2608/bluesky-likes-crawler/internal/downloader"
	"github.com/orgball2608/bluesky-likes-crawler/internal/feedcache"
	"github.com/orgball2608/bluesky-likes-crawler/internal/fetcher"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories/author"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories/like"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories/media"
	"github.com/orgball2608/bluesky-likes-crawler/internal/telegram"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Fetcher    fetcher.Client
	Downloader downloader.Client
	Telegram   telegram.Client
	LikeRepo   like.Repository
	AuthorRepo author.Repository
	MediaRepo  media.Repository
	Cache      *feedcache.Cache
	Logger     logger.Logger
	Config     *config.Config
}

type CrawlerImpl struct {
	Fetcher    fetcher.Client
	Downloader downloader.Client
	Telegram   telegram.Client
	LikeRepo   like.Repository
	AuthorRepo author.Repository
	MediaRepo  media.Repository
	Cache      *feedcache.Cache
	Logger     logger.Logger
	Config     *config.Config

	newRunID func() string
}

func New(opts Opts) *CrawlerImpl {
	return &CrawlerImpl{
		Fetcher:    opts.Fetcher,
		Downloader: opts.Downloader,
		Telegram:   opts.Telegram,
		LikeRepo:   opts.LikeRepo,
		AuthorRepo: opts.AuthorRepo,
		MediaRepo:  opts.MediaRepo,
		Cache:      opts.Cache,
		Logger:     opts.Logger.WithComponent("Crawler"),
		Config:     opts.Config,
		newRunID:   uuid.NewString,
	}
}

var _ crawler.Client = (*CrawlerImpl)(nil)

func (c *CrawlerImpl) Run(ctx context.Context) (crawler.Report, error) {
	report := crawler.Report{RunID: c.newRunID()}
	log := c.Logger.With("run_id", report.RunID)
	start := time.Now()

	if timeout := c.Config.Crawler.RunTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log.Info("Crawl run started")

	records, err := c.Fetcher.Fetch(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to fetch likes: %w", err)
	}
	report.Fetched = len(records)

	history, err := c.MediaRepo.Select(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to read media history: %w", err)
	}

	window := c.Config.Crawler.HistoryWindow
	if window <= 0 {
		window = dedup.DefaultWindow
	}
	batch := dedup.Plan(records, history, window)
	if batch.Empty() {
		report.UpToDate = true
		log.Info("No new media", "fetched", report.Fetched, "history", len(history))
		return report, nil
	}

	log.Info("New media found",
		"likes", len(batch.Likes),
		"authors", len(batch.Authors),
		"media", len(batch.Media))

	report.Download = c.Downloader.Download(ctx, batch.Media)

	if _, err := c.LikeRepo.Upsert(ctx, batch.Likes); err != nil {
		return report, fmt.Errorf("failed to store likes: %w", err)
	}
	report.Likes = len(batch.Likes)

	if _, err := c.AuthorRepo.Upsert(ctx, batch.Authors); err != nil {
		return report, fmt.Errorf("failed to store authors: %w", err)
	}
	report.Authors = len(batch.Authors)

	if _, err := c.MediaRepo.Upsert(ctx, batch.Media); err != nil {
		return report, fmt.Errorf("failed to store media: %w", err)
	}
	report.Media = len(batch.Media)

	log.Info("Crawl run finished",
		"downloaded", report.Download.Downloaded,
		"download_failed", report.Download.Failed,
		"took", time.Since(start).Round(time.Millisecond).String())
	return report, nil
}

// runJob runs one crawl and reports a failure to the user.
func (c *CrawlerImpl) runJob(ctx context.Context) {
	report, err := c.Run(ctx)
	if err != nil {
		c.Logger.Error("Crawl run failed", "run_id", report.RunID, "error", err)
		c.Telegram.SendMessageToUser(fmt.Sprintf("Crawl run %s failed: %v", report.RunID, err))
		return
	}
	if report.Download.Failed > 0 {
		c.Telegram.SendMessageToUser(fmt.Sprintf("Crawl run %s: %d of %d downloads failed",
			report.RunID, report.Download.Failed, report.Media))
	}
}
