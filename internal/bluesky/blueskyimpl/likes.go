package blueskyimpl

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/orgball2608/bluesky-likes-crawler/internal/bluesky"
	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

func (b *BlueskyImpl) GetActorLikes(ctx context.Context, limit int) (map[string]any, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.session == nil {
		if err := b.login(ctx); err != nil {
			return nil, err
		}
	}

	page, err := b.actorLikes(ctx, limit)
	if IsExpired(err) {
		b.logger.Info("Access token expired, logging in again")
		if err := b.login(ctx); err != nil {
			return nil, err
		}
		page, err = b.actorLikes(ctx, limit)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get actor likes")
	}

	converted, _ := SnakeKeys(page).(map[string]any)
	return converted, nil
}

func (b *BlueskyImpl) actorLikes(ctx context.Context, limit int) (map[string]any, error) {
	if b.session == nil || b.session.AccessJwt == "" {
		return nil, bluesky.ErrNotLoggedIn
	}

	query := url.Values{}
	query.Set("actor", b.handle)
	query.Set("limit", strconv.Itoa(limit))

	var page map[string]any
	err := b.xrpc(ctx, xrpcRequest{
		method: http.MethodGet,
		nsid:   "app.bsky.feed.getActorLikes",
		token:  b.session.AccessJwt,
		query:  query,
	}, &page)
	return page, err
}
