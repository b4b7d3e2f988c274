package author

import (
	"context"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=author.go -destination=mocks/mock.go
type Repository interface {
	// Select returns every stored author in storage order
	Select(ctx context.Context) ([]domain.Author, error)

	// Upsert stores authors keyed by author id in one transaction
	Upsert(ctx context.Context, authors []domain.Author) ([]domain.UpsertOutcome, error)
}
