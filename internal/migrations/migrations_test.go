package migrations

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	files, err := fs.Glob(FS, "*.sql")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, name := range files {
		body, err := fs.ReadFile(FS, name)
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", name)
		assert.Contains(t, string(body), "-- +goose Down", name)
	}

	initial, err := fs.ReadFile(FS, "20240323000000_init.sql")
	require.NoError(t, err)
	assert.Contains(t, string(initial), "post_id       TEXT NOT NULL UNIQUE")
	assert.Contains(t, string(initial), "UNIQUE (media_id, post_id)")
}
