// Package normalizer turns one raw feed entry into a like, its author and the
// media attached to the post.
package normalizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/orgball2608/bluesky-likes-crawler/internal/locator"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

const postURLFormat = "https://bsky.app/profile/%s/post/%s"

type Normalizer struct {
	now func() time.Time
}

func New() *Normalizer {
	return NewWithClock(time.Now)
}

// NewWithClock uses now for registered_at.
func NewWithClock(now func() time.Time) *Normalizer {
	return &Normalizer{now: now}
}

// Normalize fails with errors.ErrNoMedia when the entry has neither images nor
// a video. Any other failure means the entry is malformed.
func (n *Normalizer) Normalize(entry any) (domain.FetchedRecord, error) {
	registeredAt := FormatISO(n.now())

	post, err := locator.Map(entry, "post", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	author, err := locator.Map(post, "author", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	record, err := locator.Map(post, "record", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}

	attachments, found, err := imageAttachments(post, record)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	if !found {
		video, ok := videoAttachment(post, record)
		if !ok {
			return domain.FetchedRecord{}, errors.ErrNoMedia
		}
		attachments = []attachment{video}
	}

	uri, err := locator.String(post, "uri", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	postID := uri[strings.LastIndex(uri, "/")+1:]

	rawCreatedAt, err := locator.String(record, "created_at", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	createdAt, err := NormalizeDate(rawCreatedAt)
	if err != nil {
		return domain.FetchedRecord{}, err
	}

	username, err := locator.String(author, "handle", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}

	media := make([]domain.Media, 0, len(attachments))
	for i, a := range attachments {
		mediaID, err := ParseMediaID(a.URL)
		if err != nil {
			return domain.FetchedRecord{}, errors.Wrapf(err, "media %d", i+1)
		}
		media = append(media, domain.Media{
			PostID:       postID,
			MediaID:      mediaID,
			Username:     username,
			AltText:      a.Alt,
			MimeType:     a.MimeType,
			SizeBytes:    a.Size,
			URL:          a.URL,
			CreatedAt:    createdAt,
			RegisteredAt: registeredAt,
		})
	}

	authorID, err := locator.String(author, "did", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	text, err := locator.OptionalString(record, "text", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	like := domain.Like{
		PostID:       postID,
		AuthorID:     authorID,
		URL:          fmt.Sprintf(postURLFormat, username, postID),
		Text:         text,
		CreatedAt:    createdAt,
		RegisteredAt: registeredAt,
	}

	displayName, err := locator.OptionalString(author, "display_name", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}
	if displayName == "" {
		displayName = username
	}
	avatarURL, err := locator.OptionalString(author, "avatar", direct)
	if err != nil {
		return domain.FetchedRecord{}, err
	}

	return domain.NewFetchedRecord(like, domain.Author{
		AuthorID:     authorID,
		DisplayName:  displayName,
		Username:     username,
		AvatarURL:    avatarURL,
		RegisteredAt: registeredAt,
	}, media)
}
