// Package dedup works out which fetched media still need a download and which
// likes and authors come with them.
package dedup

import "github.com/orgball2608/bluesky-likes-crawler/internal/domain"

// DefaultWindow is how many of the most recently stored media take part in
// filtering. Older media are treated as unseen.
const DefaultWindow = 1000

// Batch is the new work of one run. Every list is free of duplicates and keeps
// first seen order.
type Batch struct {
	Likes   []domain.Like
	Authors []domain.Author
	Media   []domain.Media
}

func (b Batch) Empty() bool {
	return len(b.Media) == 0
}

// Window keeps the last n entries of history, which is ordered oldest first.
func Window(history []domain.Media, n int) []domain.Media {
	if n < 0 {
		n = 0
	}
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

// Plan drops every triple whose media id is in the windowed history and
// collects what is left.
func Plan(records []domain.FetchedRecord, history []domain.Media, n int) Batch {
	seen := make(map[string]struct{}, n)
	for _, m := range Window(history, n) {
		seen[m.MediaID] = struct{}{}
	}

	var (
		batch   Batch
		likes   = make(map[string]struct{})
		authors = make(map[string]struct{})
		media   = make(map[domain.MediaKey]struct{})
	)
	for _, rec := range records {
		for _, t := range rec.Triples() {
			if _, ok := seen[t.Media.MediaID]; ok {
				continue
			}
			if _, ok := likes[t.Like.Key()]; !ok {
				likes[t.Like.Key()] = struct{}{}
				batch.Likes = append(batch.Likes, t.Like)
			}
			if _, ok := authors[t.Author.Key()]; !ok {
				authors[t.Author.Key()] = struct{}{}
				batch.Authors = append(batch.Authors, t.Author)
			}
			if _, ok := media[t.Media.Key()]; !ok {
				media[t.Media.Key()] = struct{}{}
				batch.Media = append(batch.Media, t.Media)
			}
		}
	}

	return batch
}
