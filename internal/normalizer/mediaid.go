package normalizer

import (
	"regexp"
	"strings"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

const playlistSuffix = "playlist.m3u8"

var (
	playlistPattern = regexp.MustCompile(`^.*/([^/]+)/playlist\.m3u8$`)
	blobPattern     = regexp.MustCompile(`^.*/([^/@]+)@[^/]*$`)
)

// ParseMediaID extracts the media identifier from a media URL: the segment
// before "/playlist.m3u8" for streams, otherwise the part of the last segment
// up to "@".
func ParseMediaID(url string) (string, error) {
	pattern := blobPattern
	if strings.Contains(url, playlistSuffix) {
		pattern = playlistPattern
	}

	m := pattern.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", errors.Wrapf(errors.ErrMediaIDParse, "url %q", url)
	}
	return m[1], nil
}
