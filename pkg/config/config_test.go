package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadDefaults(t *testing.T) {
	t.Setenv("BLUESKY_HANDLE", "alice")

	c, err := read()
	require.NoError(t, err)

	assert.Equal(t, "development", c.App.Env)
	assert.Equal(t, "https://bsky.social", c.Bluesky.BaseURL)
	assert.Equal(t, 100, c.Bluesky.FeedLimit)
	assert.Equal(t, "file", c.Bluesky.SessionStore)
	assert.Equal(t, 1000, c.Crawler.HistoryWindow)
	assert.Equal(t, 168*time.Hour, c.Crawler.CacheRetention)
	assert.Equal(t, 5*time.Second, c.Downloader.ConnectTimeout)
	assert.Equal(t, 60*time.Second, c.Downloader.ReadTimeout)
	assert.Equal(t, uint64(3), c.Downloader.Retries)
	assert.True(t, c.Crawler.RunOnStart)
	assert.False(t, c.Crawler.Debug)
}

func TestReadWithoutBlueskyHandle(t *testing.T) {
	t.Setenv("POSTGRES_NAME", "likes")

	c, err := read()
	require.NoError(t, err)

	assert.Empty(t, c.Bluesky.Handle)
	assert.Equal(t, "likes", c.Postgres.Name)
}

func TestReadOverrides(t *testing.T) {
	t.Setenv("BLUESKY_HANDLE", "alice.example")
	t.Setenv("CRAWLER_DEBUG", "true")
	t.Setenv("CRAWLER_HISTORY_WINDOW", "50")
	t.Setenv("DOWNLOADER_WORKERS", "4")

	c, err := read()
	require.NoError(t, err)

	assert.Equal(t, "alice.example", c.Bluesky.Handle)
	assert.True(t, c.Crawler.Debug)
	assert.Equal(t, 50, c.Crawler.HistoryWindow)
	assert.Equal(t, 4, c.Downloader.Workers)
}

func TestGetDSN(t *testing.T) {
	c := &Config{}
	c.Postgres.User = "crawler"
	c.Postgres.Pass = "secret"
	c.Postgres.Host = "db"
	c.Postgres.Port = 5432
	c.Postgres.Name = "likes"
	c.Postgres.SslMode = "disable"

	assert.Equal(t, "postgres://crawler:secret@db:5432/likes?sslmode=disable", c.GetDSN())
}
