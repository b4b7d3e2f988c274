package fetcher

import (
	"context"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=fetcher.go -destination=mocks/mock.go
type Client interface {
	// Fetch returns the normalized entries of one feed page, oldest first.
	// Entries that cannot be normalized are logged and left out.
	Fetch(ctx context.Context) ([]domain.FetchedRecord, error)
}
