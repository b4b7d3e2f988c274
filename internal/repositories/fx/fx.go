package fx

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories/author"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories/like"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories/media"
	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			func(pool *pgxpool.Pool) repositories.DB {
				return pool
			},
			fx.As(new(repositories.DB)),
		),
	),
	like.Module,
	author.Module,
	media.Module,
)
