package downloaderimpl

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/retry"
)

var ErrUnexpectedContent = errors.New("unexpected content")

func (d *DownloaderImpl) downloadOne(ctx context.Context, m domain.Media, names *claims) (outcome, int64) {
	log := d.logger.With("media_id", m.MediaID, "post_id", m.PostID)

	name, err := m.Filename()
	if err != nil {
		if errors.IsInvalidExtension(err) {
			log.Warn("Skipping media without a derivable extension", "url", m.URL, "mime_type", m.MimeType)
		} else {
			log.Error("Failed to derive file name", "error", err)
		}
		return failed, 0
	}
	// Every attachment of a post maps to the same name.
	if !names.claim(name) {
		log.Debug("File name already taken in this batch", "file", name)
		return skipped, 0
	}
	target := filepath.Join(d.basePath, name)
	if _, err := os.Stat(target); err == nil {
		log.Debug("File already exists", "path", target)
		return skipped, 0
	}

	var size int64
	switch {
	case m.IsVideo():
		size, err = d.fetchVideo(ctx, m, target)
	case strings.Contains(m.MimeType, "image"):
		size, err = d.fetchImage(ctx, m, target)
	default:
		log.Info("Skipping unsupported media type", "mime_type", m.MimeType)
		return skipped, 0
	}
	if err != nil {
		log.Error("Download failed", "url", m.URL, "error", err)
		return failed, 0
	}

	log.Info("Saved media", "path", target, "size", humanize.Bytes(uint64(size)))
	return downloaded, size
}

func (d *DownloaderImpl) fetchImage(ctx context.Context, m domain.Media, target string) (int64, error) {
	host := m.URL
	if u, err := url.Parse(m.URL); err == nil {
		host = u.Host
	}

	var body []byte
	err := retry.Do(ctx, d.logger, "download "+m.MediaID, func() error {
		if err := d.limiter.Wait(ctx, host); err != nil {
			return retry.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.URL, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		resp, err := d.http.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("unexpected status %s", resp.Status)
			if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
				return statusErr
			}
			return retry.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}, d.retry)
	if err != nil {
		return 0, err
	}

	detected := mimetype.Detect(body)
	if !strings.HasPrefix(detected.String(), "image/") {
		return 0, errors.Wrapf(ErrUnexpectedContent, "got %s, want %s", detected.String(), m.MimeType)
	}

	if err := writeAtomic(target, body); err != nil {
		return 0, err
	}
	return int64(len(body)), nil
}

// fetchVideo remuxes the HLS stream into target with ffmpeg.
func (d *DownloaderImpl) fetchVideo(ctx context.Context, m domain.Media, target string) (int64, error) {
	partial := filepath.Join(filepath.Dir(target), ".partial-"+filepath.Base(target))
	defer os.Remove(partial)

	err := d.run(ctx, d.ffmpegPath,
		"-y",
		"-i", m.URL,
		"-loglevel", "fatal",
		"-c", "copy",
		"-bsf:a", "aac_adtstoasc",
		partial,
	)
	if err != nil {
		return 0, fmt.Errorf("ffmpeg: %w", err)
	}

	info, err := os.Stat(partial)
	if err != nil {
		return 0, fmt.Errorf("ffmpeg produced no output: %w", err)
	}
	if err := os.Rename(partial, target); err != nil {
		return 0, fmt.Errorf("failed to move video into place: %w", err)
	}
	return info.Size(), nil
}

func writeAtomic(target string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move file into place: %w", err)
	}
	return nil
}
