package fetcherimpl

import (
	"context"
	"time"

	"github.com/orgball2608/bluesky-likes-crawler/internal/bluesky"
	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/internal/feedcache"
	"github.com/orgball2608/bluesky-likes-crawler/internal/fetcher"
	"github.com/orgball2608/bluesky-likes-crawler/internal/locator"
	"github.com/orgball2608/bluesky-likes-crawler/internal/normalizer"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/config"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Bluesky    bluesky.Client
	Cache      *feedcache.Cache
	Normalizer *normalizer.Normalizer
	Config     *config.Config
	Logger     logger.Logger
}

type FetcherImpl struct {
	bluesky    bluesky.Client
	cache      *feedcache.Cache
	normalizer *normalizer.Normalizer
	logger     logger.Logger
	debug      bool
	limit      int
	now        func() time.Time
}

func New(opts Opts) *FetcherImpl {
	return &FetcherImpl{
		bluesky:    opts.Bluesky,
		cache:      opts.Cache,
		normalizer: opts.Normalizer,
		logger:     opts.Logger.WithComponent("Fetcher"),
		debug:      opts.Config.Crawler.Debug,
		limit:      opts.Config.Bluesky.FeedLimit,
		now:        time.Now,
	}
}

var _ fetcher.Client = (*FetcherImpl)(nil)

func (f *FetcherImpl) Fetch(ctx context.Context) ([]domain.FetchedRecord, error) {
	page, err := f.page(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := locator.List(page, "feed", locator.MaxDepth(0))
	if err != nil {
		return nil, errors.Wrap(err, "feed page")
	}

	records := make([]domain.FetchedRecord, 0, len(entries))
	skipped := 0
	// the API returns newest first
	for i := len(entries) - 1; i >= 0; i-- {
		rec, err := f.normalizer.Normalize(entries[i])
		if err != nil {
			skipped++
			switch {
			case errors.IsNoMedia(err):
				f.logger.Debug("Skipping entry without media", "index", i)
			case errors.IsLocate(err):
				f.logger.Info("Skipping entry with missing or repeated keys", "index", i, "error", err)
			case errors.IsInvalidRecordShape(err):
				f.logger.Info("Skipping entry with unexpected shape", "index", i, "error", err)
			default:
				f.logger.Info("Skipping malformed entry", "index", i, "error", err)
			}
			continue
		}
		records = append(records, rec)
	}

	f.logger.Info("Feed normalized", "entries", len(entries), "records", len(records), "skipped", skipped)
	return records, nil
}

func (f *FetcherImpl) page(ctx context.Context) (map[string]any, error) {
	if f.debug {
		page, path, err := f.cache.LoadLatest()
		if err != nil {
			return nil, err
		}
		f.logger.Info("Loaded feed from cache", "path", path)
		return page, nil
	}

	page, err := f.bluesky.GetActorLikes(ctx, f.limit)
	if err != nil {
		return nil, err
	}

	if feed := locator.Locate(page, "feed", locator.MaxDepth(0)); len(feed) > 0 {
		if entries, ok := feed[0].([]any); ok && len(entries) > 0 {
			path, err := f.cache.Save(page, f.now())
			if err != nil {
				f.logger.Warn("Failed to save feed cache", "error", err)
			} else {
				f.logger.Info("Saved feed cache", "path", path)
			}
		}
	}
	return page, nil
}
