// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"
	"slices"
	"strings"
	"unicode/utf8"

	"pressctx/internal/models"
	"pressctx/internal/store"
)

// minWordLength: title words this short or shorter carry no signal.
const minWordLength = 3

// RelatedResolver ranks items related to an anchor by shared tags and shared
// title words.
type RelatedResolver struct {
	store Store
	cache *ItemCache
}

// NewRelatedResolver creates a resolver over s.
func NewRelatedResolver(s Store, cache *ItemCache) *RelatedResolver {
	return &RelatedResolver{store: s, cache: cache}
}

// Find returns at most limit related items, best first. The result is never
// nil. An anchor without tags and without usable title words has no related
// items.
func (r *RelatedResolver) Find(ctx context.Context, anchor *models.Item, limit int) ([]*models.Item, error) {
	q := store.RelatedQuery{
		AnchorID: anchor.ID,
		Filter:   models.PublishedFilter(false),
		TagIDs:   anchor.TagIDs(),
		Words:    titleWords(anchor.Title),
		Limit:    limit,
	}
	if limit <= 0 || !q.HasSignal() {
		return []*models.Item{}, nil
	}

	ids, err := r.store.QueryRelated(ctx, q)
	if err != nil {
		return nil, storeErr("query related", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}
	return r.cache.Items(ctx, ids)
}

// titleWords splits a title on whitespace and keeps the distinct lower-case
// words longer than minWordLength characters.
func titleWords(title string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(title)) {
		if utf8.RuneCountInString(w) <= minWordLength || slices.Contains(words, w) {
			continue
		}
		words = append(words, w)
	}
	return words
}
