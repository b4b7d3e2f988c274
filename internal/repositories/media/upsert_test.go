package media

import (
	"context"
	"errors"
	"testing"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/logger"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	lockSQL   = "SELECT id FROM media WHERE media_id = $1 AND post_id = $2 FOR UPDATE"
	insertSQL = "INSERT INTO media (post_id,media_id,username,alt_text,mime_type,size,url,created_at,registered_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)"
	updateSQL = "UPDATE media SET alt_text = $1, created_at = $2, mime_type = $3, registered_at = $4, size = $5, url = $6, username = $7 WHERE id = $8"
)

func newMockRepo(t *testing.T) (*Pgx, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPgx(mock, logger.NewNop()), mock
}

func sampleMedia(mediaID string) domain.Media {
	return domain.Media{
		PostID:       "post_1",
		MediaID:      mediaID,
		Username:     "alice.example",
		AltText:      "a cat",
		MimeType:     "image/jpeg",
		SizeBytes:    641382,
		URL:          "https://cdn.bsky.app/img/feed_fullsize/plain/did:plc:x/" + mediaID + "@jpeg",
		CreatedAt:    "2024-03-23T21:34:00.897000+09:00",
		RegisteredAt: "2024-03-23T21:40:00+09:00",
	}
}

func insertArgs(m domain.Media) []any {
	return []any{m.PostID, m.MediaID, m.Username, m.AltText, m.MimeType, m.SizeBytes, m.URL, m.CreatedAt, m.RegisteredAt}
}

func TestUpsertInsertsAndUpdatesInOneTransaction(t *testing.T) {
	repo, mock := newMockRepo(t)
	fresh, stored := sampleMedia("mediaA"), sampleMedia("mediaB")

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).
		WithArgs("mediaA", "post_1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectExec(insertSQL).
		WithArgs(insertArgs(fresh)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(lockSQL).
		WithArgs("mediaB", "post_1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))
	mock.ExpectExec(updateSQL).
		WithArgs(stored.AltText, stored.CreatedAt, stored.MimeType, stored.RegisteredAt, stored.SizeBytes, stored.URL, stored.Username, int64(11)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	outcomes, err := repo.Upsert(context.Background(), []domain.Media{fresh, stored})
	require.NoError(t, err)

	assert.Equal(t, []domain.UpsertOutcome{domain.Inserted, domain.Updated}, outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertRollsBackWhenAWriteFails(t *testing.T) {
	repo, mock := newMockRepo(t)
	first, second := sampleMedia("mediaA"), sampleMedia("mediaB")
	diskFull := errors.New("could not extend file")

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).
		WithArgs("mediaA", "post_1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectExec(insertSQL).
		WithArgs(insertArgs(first)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectQuery(lockSQL).
		WithArgs("mediaB", "post_1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectExec(insertSQL).
		WithArgs(insertArgs(second)...).
		WillReturnError(diskFull)
	mock.ExpectRollback()

	outcomes, err := repo.Upsert(context.Background(), []domain.Media{first, second})
	require.ErrorIs(t, err, diskFull)

	assert.Nil(t, outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertBeginFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

	_, err := repo.Upsert(context.Background(), []domain.Media{sampleMedia("mediaA")})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectScansInStorageOrder(t *testing.T) {
	repo, mock := newMockRepo(t)
	a, b := sampleMedia("mediaA"), sampleMedia("mediaB")

	mock.ExpectQuery("SELECT post_id, media_id, username, alt_text, mime_type, size, url, created_at, registered_at FROM media ORDER BY id").
		WillReturnRows(pgxmock.NewRows(columns).AddRow(insertArgs(a)...).AddRow(insertArgs(b)...))

	got, err := repo.Select(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Media{a, b}, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}
