package author

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
)

const table = "authors"

var columns = []string{"author_id", "display_name", "username", "avatar_url", "registered_at"}

type Pgx struct {
	pg     repositories.DB
	logger logger.Logger
}

func NewPgx(pg repositories.DB, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("AuthorRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Select(ctx context.Context) ([]domain.Author, error) {
	query, args, err := selectQuery().ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var authors []domain.Author
	for rows.Next() {
		var a domain.Author
		if err := rows.Scan(&a.AuthorID, &a.DisplayName, &a.Username, &a.AvatarURL, &a.RegisteredAt); err != nil {
			return nil, err
		}
		authors = append(authors, a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return authors, nil
}

func (p *Pgx) Upsert(ctx context.Context, authors []domain.Author) ([]domain.UpsertOutcome, error) {
	outcomes := make([]domain.UpsertOutcome, 0, len(authors))
	err := repositories.InTx(ctx, p.pg, func(tx pgx.Tx) error {
		for _, a := range authors {
			id, found, err := repositories.Locked(ctx, tx, lockQuery(a.AuthorID))
			if err != nil {
				return err
			}

			builder := sq.Sqlizer(insertQuery(a))
			outcome := domain.Inserted
			if found {
				builder, outcome = updateQuery(id, a), domain.Updated
			}

			query, args, err := builder.ToSql()
			if err != nil {
				return repositories.ErrBadQuery
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
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
	p.logger.Info("Authors upserted", "inserted", inserted, "updated", updated)
	return outcomes, nil
}

func selectQuery() sq.SelectBuilder {
	return repositories.SqBuilder.Select(columns...).From(table).OrderBy("id")
}

func lockQuery(authorID string) sq.SelectBuilder {
	return repositories.SqBuilder.Select("id").From(table).Where(sq.Eq{"author_id": authorID})
}

func insertQuery(a domain.Author) sq.InsertBuilder {
	return repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(a.AuthorID, a.DisplayName, a.Username, a.AvatarURL, a.RegisteredAt)
}

func updateQuery(id int64, a domain.Author) sq.UpdateBuilder {
	return repositories.SqBuilder.
		Update(table).
		SetMap(map[string]any{
			"display_name":  a.DisplayName,
			"username":      a.Username,
			"avatar_url":    a.AvatarURL,
			"registered_at": a.RegisteredAt,
		}).
		Where(sq.Eq{"id": id})
}
