package feedcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage(uri string) map[string]any {
	return map[string]any{
		"cursor": "c1",
		"feed": []any{
			map[string]any{"post": map[string]any{"uri": uri, "record": map[string]any{"size": 641382}}},
		},
	}
}

func TestSaveWritesWrappedPage(t *testing.T) {
	c := New(filepath.Join(t.TempDir(), "cache"))
	at := time.Date(2024, 3, 23, 12, 34, 56, 0, time.Local)

	path, err := c.Save(samplePage("at://x/post_1"), at)
	require.NoError(t, err)
	assert.Equal(t, "20240323123456_bluesky.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var wrapper map[string]any
	require.NoError(t, json.Unmarshal(data, &wrapper))
	assert.Contains(t, wrapper, "result")
	assert.Contains(t, string(data), "\n  \"result\"")
}

func TestLoadLatest(t *testing.T) {
	c := New(t.TempDir())

	_, _, err := c.LoadLatest()
	require.ErrorIs(t, err, ErrNoCache)

	_, err = c.Save(samplePage("at://x/old"), time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)
	_, err = c.Save(samplePage("at://x/new"), time.Date(2024, 3, 2, 0, 0, 0, 0, time.Local))
	require.NoError(t, err)

	page, path, err := c.LoadLatest()
	require.NoError(t, err)
	assert.Equal(t, "20240302000000_bluesky.json", filepath.Base(path))

	post := page["feed"].([]any)[0].(map[string]any)["post"].(map[string]any)
	assert.Equal(t, "at://x/new", post["uri"])
	size, err := post["record"].(map[string]any)["size"].(json.Number).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(641382), size)
}

func TestLoadLatestRejectsUnexpectedShape(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20240101000000_bluesky.json"), []byte(`{"feed":[]}`), 0o644))

	_, _, err := New(dir).LoadLatest()
	assert.Error(t, err)
}

func TestCleanup(t *testing.T) {
	c := New(t.TempDir())
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.Local)

	for _, at := range []time.Time{
		now.Add(-10 * 24 * time.Hour),
		now.Add(-8 * 24 * time.Hour),
		now.Add(-time.Hour),
	} {
		_, err := c.Save(samplePage("at://x/p"), at)
		require.NoError(t, err)
	}

	removed, err := c.Cleanup(7*24*time.Hour, now)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	files, err := c.files()
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "20240310110000_bluesky.json", filepath.Base(files[0]))
}
