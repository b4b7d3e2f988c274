package author

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

const lockSQL = "SELECT id FROM authors WHERE author_id = $1 FOR UPDATE"

func newMockRepo(t *testing.T) (*Pgx, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewPgx(mock, logger.NewNop()), mock
}

func TestUpsertAuthors(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := domain.Author{AuthorID: "did:plc:alice", DisplayName: "Alice", Username: "alice.example", RegisteredAt: "2024-03-23T21:40:00+09:00"}

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).
		WithArgs("did:plc:alice").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(3)))
	mock.ExpectExec("UPDATE authors SET avatar_url = $1, display_name = $2, registered_at = $3, username = $4 WHERE id = $5").
		WithArgs("", "Alice", a.RegisteredAt, "alice.example", int64(3)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectCommit()

	outcomes, err := repo.Upsert(context.Background(), []domain.Author{a})
	require.NoError(t, err)

	assert.Equal(t, []domain.UpsertOutcome{domain.Updated}, outcomes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertAuthorsRollsBackOnCommitFailure(t *testing.T) {
	repo, mock := newMockRepo(t)
	a := domain.Author{AuthorID: "did:plc:bob", Username: "bob.example", RegisteredAt: "2024-03-23T21:40:00+09:00"}

	mock.ExpectBegin()
	mock.ExpectQuery(lockSQL).
		WithArgs("did:plc:bob").
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO authors (author_id,display_name,username,avatar_url,registered_at) VALUES ($1,$2,$3,$4,$5)").
		WithArgs("did:plc:bob", "", "bob.example", "", a.RegisteredAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), []domain.Author{a})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit transaction")
	assert.NoError(t, mock.ExpectationsWereMet())
}
