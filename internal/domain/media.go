package domain

import (
	"fmt"
	"strings"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

// MediaKey identifies a media record.
type MediaKey struct {
	MediaID string
	PostID  string
}

// Media is one attachment of a liked post.
type Media struct {
	PostID       string
	MediaID      string
	Username     string
	AltText      string
	MimeType     string
	SizeBytes    int64
	URL          string
	CreatedAt    string
	RegisteredAt string
}

func (m Media) Key() MediaKey {
	return MediaKey{MediaID: m.MediaID, PostID: m.PostID}
}

func (m Media) Validate() error {
	return requireFields("media", map[string]string{
		"post_id":       m.PostID,
		"media_id":      m.MediaID,
		"username":      m.Username,
		"mime_type":     m.MimeType,
		"url":           m.URL,
		"created_at":    m.CreatedAt,
		"registered_at": m.RegisteredAt,
	})
}

// IsVideo reports whether the media has to be fetched as a stream.
func (m Media) IsVideo() bool {
	return strings.Contains(m.MimeType, "video") || strings.Contains(m.URL, "playlist.m3u8")
}

// Filename returns "{post_id}_{username}{ext}". The extension is whatever
// follows the last "@" of the URL, or the mime subtype with any "x-" prefix
// removed.
func (m Media) Filename() (string, error) {
	ext, err := m.extension()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s%s", m.PostID, m.Username, ext), nil
}

func (m Media) extension() (string, error) {
	var ext string
	if at := strings.Index(m.URL, "@"); at >= 0 && at < len(m.URL)-1 {
		ext = "." + m.URL[strings.LastIndex(m.URL, "@")+1:]
	} else if parts := strings.Split(m.MimeType, "/"); len(parts) > 1 && parts[0] != "" && parts[1] != "" {
		ext = "." + strings.TrimPrefix(parts[1], "x-")
	}

	if len(ext) < 2 {
		return "", errors.Wrapf(errors.ErrInvalidExtension, "media %s (url %q, mime %q)", m.MediaID, m.URL, m.MimeType)
	}
	return ext, nil
}
