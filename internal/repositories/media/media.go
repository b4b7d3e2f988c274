package media

import (
	"context"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=media.go -destination=mocks/mock.go
type Repository interface {
	// Select returns every stored media record in storage order
	Select(ctx context.Context) ([]domain.Media, error)

	// Upsert stores media keyed by (media id, post id) in one transaction
	Upsert(ctx context.Context, media []domain.Media) ([]domain.UpsertOutcome, error)
}
