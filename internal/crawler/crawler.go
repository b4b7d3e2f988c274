package crawler

import (
	"context"

	"github.com/orgball2608/bluesky-likes-crawler/internal/downloader"
)

// Report describes one crawl run.
type Report struct {
	RunID    string
	Fetched  int
	Likes    int
	Authors  int
	Media    int
	Download downloader.Summary
	// UpToDate is set when every fetched media was already stored.
	UpToDate bool
}

type Client interface {
	// Run fetches the likes feed, downloads the new media and stores the new
	// likes, authors and media, in that order. A storage failure fails the run.
	Run(ctx context.Context) (Report, error)
	ScheduleCrawl(ctx context.Context) error
	ScheduleCacheCleanup(ctx context.Context) error
}
