package domain

import (
	"sort"
	"strings"

	"github.com/orgball2608/bluesky-likes-crawler/pkg/errors"
)

// FetchedRecord is one normalized feed entry. It always holds at least one
// media record.
type FetchedRecord struct {
	Like   Like
	Author Author
	Media  []Media
}

// Triple pairs one media record with the like and author it belongs to.
type Triple struct {
	Like   Like
	Author Author
	Media  Media
}

func NewFetchedRecord(like Like, author Author, media []Media) (FetchedRecord, error) {
	if err := like.Validate(); err != nil {
		return FetchedRecord{}, err
	}
	if err := author.Validate(); err != nil {
		return FetchedRecord{}, err
	}
	if len(media) == 0 {
		return FetchedRecord{}, errors.Wrap(errors.ErrInvalidRecordShape, "fetched record without media")
	}
	for _, m := range media {
		if err := m.Validate(); err != nil {
			return FetchedRecord{}, err
		}
	}

	return FetchedRecord{Like: like, Author: author, Media: media}, nil
}

// Triples flattens the record into one triple per media item.
func (r FetchedRecord) Triples() []Triple {
	triples := make([]Triple, 0, len(r.Media))
	for _, m := range r.Media {
		triples = append(triples, Triple{Like: r.Like, Author: r.Author, Media: m})
	}
	return triples
}

// UpsertOutcome is what an upsert did to one record.
type UpsertOutcome int

const (
	Inserted UpsertOutcome = iota
	Updated
)

func (o UpsertOutcome) String() string {
	if o == Updated {
		return "updated"
	}
	return "inserted"
}

// CountOutcomes returns how many records were inserted and updated.
func CountOutcomes(outcomes []UpsertOutcome) (inserted, updated int) {
	for _, o := range outcomes {
		if o == Updated {
			updated++
		} else {
			inserted++
		}
	}
	return inserted, updated
}

func requireFields(entity string, fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return errors.Wrapf(errors.ErrInvalidRecordShape, "%s missing %s", entity, strings.Join(missing, ", "))
}
