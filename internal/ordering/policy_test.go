// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package ordering

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressctx/internal/models"
)

func TestParse(t *testing.T) {
	p, err := Parse("Title", "asc")
	require.NoError(t, err)
	assert.Equal(t, Policy{Key: KeyTitle, Direction: Asc}, p)

	_, err = Parse("id; DROP TABLE posts", "ASC")
	assert.Error(t, err)

	_, err = Parse("created_at", "sideways")
	assert.Error(t, err)
}

func TestReversedAndScanOrder(t *testing.T) {
	p := Policy{Key: KeyOrder, Direction: Asc}
	assert.Equal(t, Desc, p.Reversed().Direction)
	assert.Equal(t, p, p.Reversed().Reversed())
	assert.Equal(t, p, p.ScanOrder(Next))
	assert.Equal(t, p.Reversed(), p.ScanOrder(Previous))
}

func TestBoundaryOperators(t *testing.T) {
	anchor := &models.Item{ID: 2, CreatedAt: 20}
	tests := []struct {
		dir  Direction
		side Side
		want Op
	}{
		{Asc, Previous, Less},
		{Asc, Next, Greater},
		{Desc, Previous, Greater},
		{Desc, Next, Less},
	}
	for _, tt := range tests {
		pr := Policy{Key: KeyCreatedAt, Direction: tt.dir}.Boundary(anchor, tt.side)
		assert.Equal(t, tt.want, pr.Op, "%s %s", tt.dir, tt.side)
		assert.Equal(t, int64(20), pr.Value.Num)
		assert.Equal(t, int64(2), pr.AnchorID)
	}
}

func TestPredicateTieBreak(t *testing.T) {
	anchor := &models.Item{ID: 5, CreatedAt: 100}
	pr := Policy{Key: KeyCreatedAt, Direction: Asc}.Boundary(anchor, Next)

	assert.True(t, pr.Match(&models.Item{ID: 6, CreatedAt: 100}))
	assert.False(t, pr.Match(&models.Item{ID: 4, CreatedAt: 100}))
	assert.False(t, pr.Match(anchor))
	assert.True(t, pr.Match(&models.Item{ID: 1, CreatedAt: 101}))
}

func TestTitleIgnoresQuotes(t *testing.T) {
	p := Policy{Key: KeyTitle, Direction: Asc}
	a := &models.Item{ID: 1, Title: `"Zebra"`}
	b := &models.Item{ID: 2, Title: "Apple"}
	c := &models.Item{ID: 3, Title: "'Mango'"}

	items := []*models.Item{a, b, c}
	slices.SortFunc(items, p.Compare)
	assert.Equal(t, []int64{2, 3, 1}, ids(items))
}

func TestCompareIsStrictTotalOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	items := make([]*models.Item, 40)
	for i := range items {
		items[i] = &models.Item{
			ID:         int64(i + 1),
			CreatedAt:  int64(rng.Intn(5)),
			ModifiedAt: int64(rng.Intn(5)),
			Order:      int64(rng.Intn(3)),
			Title:      string(rune('a' + rng.Intn(3))),
		}
	}

	for _, key := range []Key{KeyCreatedAt, KeyModifiedAt, KeyTitle, KeyOrder} {
		for _, dir := range []Direction{Asc, Desc} {
			p := Policy{Key: key, Direction: dir}
			sorted := slices.Clone(items)
			slices.SortFunc(sorted, p.Compare)

			for i := range sorted {
				for j := range sorted {
					c := p.Compare(sorted[i], sorted[j])
					switch {
					case i < j:
						require.Negative(t, c, "%s: %d vs %d", p, i, j)
					case i > j:
						require.Positive(t, c, "%s: %d vs %d", p, i, j)
					default:
						require.Zero(t, c)
					}
				}
			}

			// Every boundary must partition the sorted slice at the anchor.
			for i, anchor := range sorted {
				prev := p.Boundary(anchor, Previous)
				next := p.Boundary(anchor, Next)
				for j, it := range sorted {
					assert.Equal(t, j < i, prev.Match(it), "%s previous of %d", p, anchor.ID)
					assert.Equal(t, j > i, next.Match(it), "%s next of %d", p, anchor.ID)
				}
			}
		}
	}
}

func ids(items []*models.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
