package normalizer

import (
	"github.com/orgball2608/bluesky-likes-crawler/internal/locator"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

// attachment is the uniform shape of an image or video before it becomes a
// media record.
type attachment struct {
	URL      string
	Alt      string
	MimeType string
	Size     int64
}

var direct = locator.MaxDepth(0)

// embeds returns the post level embed (view data: urls, alt text) and the
// record level embed (blob data: mime type, size).
func embeds(post, record map[string]any) (map[string]any, map[string]any, error) {
	view, err := locator.Map(post, "embed", direct)
	if err != nil {
		return nil, nil, err
	}
	blob, err := locator.Map(record, "embed", direct)
	if err != nil {
		return nil, nil, err
	}
	return mediaScope(view), mediaScope(blob), nil
}

// mediaScope unwraps quote posts that carry their own media.
func mediaScope(embed map[string]any) map[string]any {
	if media, ok := embed["media"].(map[string]any); ok {
		return media
	}
	return embed
}

// imageAttachments pairs the view images with the blob images index by index.
// found is false when either list is absent.
func imageAttachments(post, record map[string]any) (list []attachment, found bool, err error) {
	view, blob, err := embeds(post, record)
	if err != nil {
		return nil, false, nil
	}
	views, err := locator.List(view, "images", direct)
	if err != nil {
		return nil, false, nil
	}
	blobs, err := locator.List(blob, "images", direct)
	if err != nil {
		return nil, false, nil
	}
	if len(views) == 0 && len(blobs) == 0 {
		return nil, false, nil
	}
	if len(views) != len(blobs) {
		return nil, true, errors.Wrapf(errors.ErrMediaListMismatch, "%d image views, %d image blobs", len(views), len(blobs))
	}

	list = make([]attachment, 0, len(views))
	for i := range views {
		url, err := locator.String(views[i], "fullsize", direct)
		if err != nil {
			return nil, true, errors.Wrapf(err, "image %d", i+1)
		}
		alt, err := locator.OptionalString(views[i], "alt", direct)
		if err != nil {
			return nil, true, errors.Wrapf(err, "image %d", i+1)
		}
		mimeType, err := locator.String(blobs[i], "mime_type")
		if err != nil {
			return nil, true, errors.Wrapf(err, "image %d", i+1)
		}
		size, err := locator.Int(blobs[i], "size")
		if err != nil {
			return nil, true, errors.Wrapf(err, "image %d", i+1)
		}
		list = append(list, attachment{URL: url, Alt: alt, MimeType: mimeType, Size: size})
	}

	return list, true, nil
}

// videoAttachment reads the playlist from the view and the blob fields scoped
// under "video" so a same named field elsewhere is never picked up.
func videoAttachment(post, record map[string]any) (attachment, bool) {
	view, blob, err := embeds(post, record)
	if err != nil {
		return attachment{}, false
	}
	playlist, err := locator.String(view, "playlist", direct)
	if err != nil {
		return attachment{}, false
	}
	alt, err := locator.OptionalString(view, "alt", direct)
	if err != nil {
		return attachment{}, false
	}
	video := locator.IncludeUnder("video")
	mimeType, err := locator.String(blob, "mime_type", video)
	if err != nil {
		return attachment{}, false
	}
	size, err := locator.Int(blob, "size", video)
	if err != nil {
		return attachment{}, false
	}

	return attachment{URL: playlist, Alt: alt, MimeType: mimeType, Size: size}, true
}
