package downloader

import (
	"context"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
)

// Summary counts what one Download call did.
type Summary struct {
	Downloaded int
	Skipped    int
	Failed     int
	Bytes      int64
}

//go:generate go run go.uber.org/mock/mockgen -source=downloader.go -destination=mocks/mock.go
type Client interface {
	// Download fetches every item concurrently into the save directory and
	// returns once all of them finished. Items already on disk are skipped and
	// a failing item never stops the others.
	Download(ctx context.Context, media []domain.Media) Summary
}
