package media

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/internal/repositories"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
)

const table = "media"

var columns = []string{
	"post_id", "media_id", "username", "alt_text", "mime_type",
	"size", "url", "created_at", "registered_at",
}

type Pgx struct {
	pg     repositories.DB
	logger logger.Logger
}

func NewPgx(pg repositories.DB, logger logger.Logger) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("MediaRepo"),
	}
}

var _ Repository = (*Pgx)(nil)

func (p *Pgx) Select(ctx context.Context) ([]domain.Media, error) {
	query, args, err := selectQuery().ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var media []domain.Media
	for rows.Next() {
		var m domain.Media
		if err := rows.Scan(
			&m.PostID, &m.MediaID, &m.Username, &m.AltText, &m.MimeType,
			&m.SizeBytes, &m.URL, &m.CreatedAt, &m.RegisteredAt,
		); err != nil {
			return nil, err
		}
		media = append(media, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return media, nil
}

func (p *Pgx) Upsert(ctx context.Context, media []domain.Media) ([]domain.UpsertOutcome, error) {
	outcomes := make([]domain.UpsertOutcome, 0, len(media))
	err := repositories.InTx(ctx, p.pg, func(tx pgx.Tx) error {
		for _, m := range media {
			id, found, err := repositories.Locked(ctx, tx, lockQuery(m.Key()))
			if err != nil {
				return err
			}

			builder := sq.Sqlizer(insertQuery(m))
			outcome := domain.Inserted
			if found {
				builder, outcome = updateQuery(id, m), domain.Updated
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
	p.logger.Info("Media upserted", "inserted", inserted, "updated", updated)
	return outcomes, nil
}

func selectQuery() sq.SelectBuilder {
	return repositories.SqBuilder.Select(columns...).From(table).OrderBy("id")
}

func lockQuery(key domain.MediaKey) sq.SelectBuilder {
	return repositories.SqBuilder.
		Select("id").
		From(table).
		Where(sq.Eq{"media_id": key.MediaID, "post_id": key.PostID})
}

func insertQuery(m domain.Media) sq.InsertBuilder {
	return repositories.SqBuilder.
		Insert(table).
		Columns(columns...).
		Values(m.PostID, m.MediaID, m.Username, m.AltText, m.MimeType, m.SizeBytes, m.URL, m.CreatedAt, m.RegisteredAt)
}

func updateQuery(id int64, m domain.Media) sq.UpdateBuilder {
	return repositories.SqBuilder.
		Update(table).
		SetMap(map[string]any{
			"username":      m.Username,
			"alt_text":      m.AltText,
			"mime_type":     m.MimeType,
			"size":          m.SizeBytes,
			"url":           m.URL,
			"created_at":    m.CreatedAt,
			"registered_at": m.RegisteredAt,
		}).
		Where(sq.Eq{"id": id})
}
