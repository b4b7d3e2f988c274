package like

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
)

const table = "likes"

var columns = []string{"post_id", "author_id", "url", "text", "created_at", "registered_at"}

type Pgx struct {
	pg     repositories.DB
	logger logger.Logger
}

func NewPgx(pg repositories.DB, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("LikeRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Select(ctx context.Context) ([]domain.Like, error) {
	query, args, err := selectQuery().ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var likes []domain.Like
	for rows.Next() {
		var l domain.Like
		if err := rows.Scan(&l.PostID, &l.AuthorID, &l.URL, &l.Text, &l.CreatedAt, &l.RegisteredAt); err != nil {
			return nil, err
		}
		likes = append(likes, l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return likes, nil
}

func (p *Pgx) Upsert(ctx context.Context, likes []domain.Like) ([]domain.UpsertOutcome, error) {
	outcomes := make([]domain.UpsertOutcome, 0, len(likes))
	err := repositories.InTx(ctx, p.pg, func(tx pgx.Tx) error {
		for _, l := range likes {
			outcome, err := upsertOne(ctx, tx, l)
			if err != nil {
				return err
			}
			outcomes = append(outcomes, outcome)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inserted, updated := domain.CountOutcomes(outcomes)
	p.logger.Info("Likes upserted", "inserted", inserted, "updated", updated)
	return outcomes, nil
}

func upsertOne(ctx context.Context, tx pgx.Tx, l domain.Like) (domain.UpsertOutcome, error) {
	id, found, err := repositories.Locked(ctx, tx, lockQuery(l.PostID))
	if err != nil {
		return 0, err
	}

	var (
		query string
		args  []any
	)
	outcome := domain.Inserted
	if found {
		outcome = domain.Updated
		query, args, err = updateQuery(id, l).ToSql()
	} else {
		query, args, err = insertQuery(l).ToSql()
	}
	if err != nil {
		return 0, repositories.ErrBadQuery
	}

	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return 0, err
	}
	return outcome, nil
}

func selectQuery() sq.SelectBuilder {
	return repositories.SqBuilder.Select(columns...).From(table).OrderBy("id")
}

func lockQuery(postID string) sq.SelectBuilder {
	return repositories.SqBuilder.Select("id").From(table).Where(sq.Eq{"post_id": postID})
}

func insertQuery(l domain.Like) sq.InsertBuilder {
	return repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(l.PostID, l.AuthorID, l.URL, l.Text, l.CreatedAt, l.RegisteredAt)
}

func updateQuery(id int64, l domain.Like) sq.UpdateBuilder {
	return repositories.SqBuilder.
		Update(table).
		SetMap(map[string]any{
			"author_id":     l.AuthorID,
			"url":           l.URL,
			"text":          l.Text,
			"created_at":    l.CreatedAt,
			"registered_at": l.RegisteredAt,
		}).
		Where(sq.Eq{"id": id})
}
