package dedup

import (
	"fmt"
	"testing"

	"github.com/orgball2608/bluesky-likes-crawler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(postID, authorID string, mediaIDs ...string) domain.FetchedRecord {
	like := domain.Like{PostID: postID, AuthorID: authorID}
	author := domain.Author{AuthorID: authorID, Username: authorID + ".example"}
	media := make([]domain.Media, 0, len(mediaIDs))
	for _, id := range mediaIDs {
		media = append(media, domain.Media{PostID: postID, MediaID: id, Username: author.Username})
	}
	return domain.FetchedRecord{Like: like, Author: author, Media: media}
}

func stored(ids ...string) []domain.Media {
	out := make([]domain.Media, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Media{PostID: "old", MediaID: id})
	}
	return out
}

func mediaIDs(media []domain.Media) []string {
	ids := make([]string, 0, len(media))
	for _, m := range media {
		ids = append(ids, m.MediaID)
	}
	return ids
}

func TestPlanSkipsStoredMedia(t *testing.T) {
	records := []domain.FetchedRecord{
		record("p1", "alice", "A", "B"),
		record("p2", "bob", "C"),
	}

	batch := Plan(records, stored("A", "B"), DefaultWindow)

	assert.Equal(t, []string{"C"}, mediaIDs(batch.Media))
	require.Len(t, batch.Likes, 1)
	assert.Equal(t, "p2", batch.Likes[0].PostID)
	require.Len(t, batch.Authors, 1)
	assert.Equal(t, "bob", batch.Authors[0].AuthorID)
	assert.False(t, batch.Empty())
}

func TestPlanKeepsPartiallyStoredPost(t *testing.T) {
	batch := Plan([]domain.FetchedRecord{record("p1", "alice", "A", "B", "C")}, stored("A", "B"), DefaultWindow)

	assert.Equal(t, []string{"C"}, mediaIDs(batch.Media))
	assert.Len(t, batch.Likes, 1)
	assert.Len(t, batch.Authors, 1)
}

func TestPlanRemovesDuplicatesInFirstSeenOrder(t *testing.T) {
	records := []domain.FetchedRecord{
		record("p2", "bob", "X"),
		record("p1", "alice", "Y", "Z"),
		record("p3", "bob", "W"),
		record("p1", "alice", "Y"),
	}

	batch := Plan(records, nil, DefaultWindow)

	assert.Equal(t, []string{"X", "Y", "Z", "W"}, mediaIDs(batch.Media))
	require.Len(t, batch.Likes, 3)
	assert.Equal(t, "p2", batch.Likes[0].PostID)
	assert.Equal(t, "p1", batch.Likes[1].PostID)
	assert.Equal(t, "p3", batch.Likes[2].PostID)
	require.Len(t, batch.Authors, 2)
	assert.Equal(t, "bob", batch.Authors[0].AuthorID)
	assert.Equal(t, "alice", batch.Authors[1].AuthorID)
}

func TestPlanEverythingStoredIsEmpty(t *testing.T) {
	batch := Plan([]domain.FetchedRecord{record("p1", "alice", "A")}, stored("A"), DefaultWindow)

	assert.True(t, batch.Empty())
	assert.Empty(t, batch.Likes)
	assert.Empty(t, batch.Authors)
}

func TestPlanOnlyLooksAtNewestWindow(t *testing.T) {
	ids := make([]string, 0, DefaultWindow+1)
	for i := 0; i <= DefaultWindow; i++ {
		ids = append(ids, fmt.Sprintf("m%04d", i))
	}
	history := stored(ids...)

	// m0000 is the oldest entry and falls outside the window
	batch := Plan([]domain.FetchedRecord{
		record("p1", "alice", "m0000"),
		record("p2", "alice", "m0001"),
		record("p3", "alice", fmt.Sprintf("m%04d", DefaultWindow)),
	}, history, DefaultWindow)

	assert.Equal(t, []string{"m0000"}, mediaIDs(batch.Media))
}

func TestWindow(t *testing.T) {
	history := stored("a", "b", "c", "d")

	assert.Equal(t, []string{"c", "d"}, mediaIDs(Window(history, 2)))
	assert.Equal(t, []string{"a", "b", "c", "d"}, mediaIDs(Window(history, 10)))
	assert.Empty(t, Window(history, 0))
	assert.Empty(t, Window(nil, DefaultWindow))
}
