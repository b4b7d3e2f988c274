package domain

import (
	"testing"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaFilename(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		mimeType string
		want     string
	}{
		{
			name:     "extension after at sign",
			url:      "https://cdn.bsky.app/img/feed_fullsize/plain/did:plc:abc/post123_user@jpeg",
			mimeType: "image/jpeg",
			want:     "3knbivgufgs2l_alice.example.jpeg",
		},
		{
			name:     "last at sign wins",
			url:      "https://cdn.example/a@b/c@png",
			mimeType: "image/jpeg",
			want:     "3knbivgufgs2l_alice.example.png",
		},
		{
			name:     "mime subtype with x- prefix",
			url:      "https://video.bsky.app/watch/did/cid/playlist.m3u8",
			mimeType: "image/x-png",
			want:     "3knbivgufgs2l_alice.example.png",
		},
		{
			name:     "plain mime subtype",
			url:      "https://video.bsky.app/watch/did/cid/playlist.m3u8",
			mimeType: "video/mp4",
			want:     "3knbivgufgs2l_alice.example.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Media{PostID: "3knbivgufgs2l", Username: "alice.example", URL: tt.url, MimeType: tt.mimeType}

			got, err := m.Filename()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaFilenameInvalidExtension(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		mimeType string
	}{
		{name: "nothing derivable", url: "https://cdn.example/plain", mimeType: "jpeg"},
		{name: "empty after last at sign", url: "https://cdn.example/a@b@", mimeType: "image/jpeg"},
		{name: "empty subtype", url: "https://cdn.example/plain", mimeType: "image/"},
		{name: "empty everything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Media{PostID: "p", Username: "u", URL: tt.url, MimeType: tt.mimeType}

			_, err := m.Filename()
			assert.ErrorIs(t, err, errors.ErrInvalidExtension)
		})
	}
}

func TestMediaIsVideo(t *testing.T) {
	assert.True(t, Media{MimeType: "video/mp4"}.IsVideo())
	assert.True(t, Media{URL: "https://video.bsky.app/watch/x/y/playlist.m3u8"}.IsVideo())
	assert.False(t, Media{MimeType: "image/jpeg", URL: "https://cdn/x@jpeg"}.IsVideo())
}

func TestMediaKey(t *testing.T) {
	a := Media{MediaID: "m1", PostID: "p1", AltText: "first"}
	b := Media{MediaID: "m1", PostID: "p1", AltText: "second"}
	c := Media{MediaID: "m1", PostID: "p2"}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}
