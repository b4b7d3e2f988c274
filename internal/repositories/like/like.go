package like

import (
	"context"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=like.go -destination=mocks/mock.go
type Repository interface {
	// Select returns every stored like in storage order
	Select(ctx context.Context) ([]domain.Like, error)

	// Upsert stores likes keyed by post id in one transaction
	Upsert(ctx context.Context, likes []domain.Like) ([]domain.UpsertOutcome, error)
}
