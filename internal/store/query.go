// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"cmp"
	"slices"
	"strings"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
)

// NeighborQuery asks for the single closest item on one side of an anchor.
type NeighborQuery struct {
	AnchorID int64
	Filter   models.StatusFilter
	Boundary ordering.Predicate
	// Order is the scan order: the first matching row is the neighbor.
	Order ordering.Policy
	// AnyTagIDs, when non-empty, requires the candidate to carry one of them.
	AnyTagIDs []int64
}

// RelatedQuery asks for items related to an anchor by shared tags or by
// title words. Words are lower-cased literal substrings.
type RelatedQuery struct {
	AnchorID int64
	Filter   models.StatusFilter
	TagIDs   []int64
	Words    []string
	Limit    int
}

// Scoring weights for related items.
const (
	TagWeight  = 2
	WordWeight = 1
)

// HasSignal reports whether the query carries any relatedness signal.
func (q RelatedQuery) HasSignal() bool {
	return len(q.TagIDs) > 0 || len(q.Words) > 0
}

// relatedHit is one scored candidate for a RelatedQuery.
type relatedHit struct {
	id    int64
	score int
}

// wordHits counts the words found in title. Case folds with Unicode rules on
// both sides.
func wordHits(title string, words []string) int {
	if len(words) == 0 {
		return 0
	}
	title = strings.ToLower(title)
	n := 0
	for _, w := range words {
		if strings.Contains(title, strings.ToLower(w)) {
			n++
		}
	}
	return n
}

// rankRelated orders hits by score, highest first, then by id, and keeps at
// most limit of them.
func rankRelated(hits []relatedHit, limit int) []int64 {
	slices.SortFunc(hits, func(a, b relatedHit) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		return cmp.Compare(a.id, b.id)
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	ids := make([]int64, len(hits))
	for i, h := range hits {
		ids[i] = h.id
	}
	return ids
}

// MenuSettingKey is the site setting holding the JSON menu configuration.
const MenuSettingKey = "menu_config"
