// Package feedcache stores raw feed pages on disk so a run can be replayed
// without calling the API.
package feedcache

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

const (
	suffix      = "_bluesky.json"
	stampLayout = "20060102150405"
	resultKey   = "result"
	filePattern = "*bluesky.json*"
	filePerm    = 0o644
	dirPerm     = 0o755
)

var ErrNoCache = errors.New("no cached feed")

type Cache struct {
	dir string
}

func New(dir string) *Cache {
	return &Cache{dir: dir}
}

func (c *Cache) Dir() string {
	return c.dir
}

// Save writes page as {"result": page} to a file named after at.
func (c *Cache) Save(page map[string]any, at time.Time) (string, error) {
	if err := os.MkdirAll(c.dir, dirPerm); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}

	data, err := json.MarshalIndent(map[string]any{resultKey: page}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode feed page: %w", err)
	}

	path := filepath.Join(c.dir, at.Format(stampLayout)+suffix)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return "", fmt.Errorf("failed to write cache file: %w", err)
	}
	return path, nil
}

// LoadLatest returns the newest saved page and the file it came from.
func (c *Cache) LoadLatest() (map[string]any, string, error) {
	paths, err := c.files()
	if err != nil {
		return nil, "", err
	}
	if len(paths) == 0 {
		return nil, "", errors.Wrapf(ErrNoCache, "dir %s", c.dir)
	}
	path := paths[len(paths)-1]

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read cache file: %w", err)
	}

	var wrapper map[string]any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&wrapper); err != nil {
		return nil, "", fmt.Errorf("failed to decode %s: %w", path, err)
	}

	page, ok := wrapper[resultKey].(map[string]any)
	if !ok {
		return nil, "", fmt.Errorf("cache file %s has no %q object", path, resultKey)
	}
	return page, path, nil
}

// Cleanup removes captures taken before now minus retention and returns how
// many were removed. Files without a readable stamp fall back to their
// modification time.
func (c *Cache) Cleanup(retention time.Duration, now time.Time) (int, error) {
	paths, err := c.files()
	if err != nil {
		return 0, err
	}

	cutoff := now.Add(-retention)
	removed := 0
	for _, path := range paths {
		taken, err := capturedAt(path, now.Location())
		if err != nil {
			continue
		}
		if !taken.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed++
	}
	return removed, nil
}

// files returns the cache files sorted by name, which is capture order.
func (c *Cache) files() ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(c.dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list cache dir: %w", err)
	}
	return paths, nil
}

func capturedAt(path string, loc *time.Location) (time.Time, error) {
	name := filepath.Base(path)
	if stamp, _, ok := strings.Cut(name, suffix); ok {
		if t, err := time.ParseInLocation(stampLayout, stamp, loc); err == nil {
			return t, nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
