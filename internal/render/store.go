// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render assembles the data contexts handed to theme templates: the
// listing context for the homepage and its pages, and the item context for
// every post, including neighbor navigation and related posts. All lookups
// within a render pass go through one shared item cache.
package render

import (
	"context"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
	"pressctx/internal/store"
)

// Store is the content store the renderer reads from. store.SQLStore and
// store.MemoryStore implement it.
type Store interface {
	QueryItemsPage(ctx context.Context, filter models.StatusFilter, policy ordering.Policy, offset, limit int) ([]int64, error)
	QueryNeighbor(ctx context.Context, q store.NeighborQuery) (int64, bool, error)
	QueryRelated(ctx context.Context, q store.RelatedQuery) ([]int64, error)
	QueryCount(ctx context.Context, filter models.StatusFilter) (int, error)
	HydrateItem(ctx context.Context, id int64) (*models.Item, error)
	HydrateAuthor(ctx context.Context, id int64) (*models.Author, error)
	MetadataOverride(ctx context.Context, id int64, key string) (string, bool, error)
	Tags(ctx context.Context) ([]*models.Tag, error)
	AuthorIDs(ctx context.Context) ([]int64, error)
	Menus(ctx context.Context) ([]models.Menu, error)
}

var (
	_ Store = (*store.SQLStore)(nil)
	_ Store = (*store.MemoryStore)(nil)
)

// maxItems replaces the -1 "unlimited" sentinel in count settings.
const maxItems = 999

// capCount maps a configured count to a query limit: -1 becomes maxItems.
func capCount(n int) int {
	if n == -1 {
		return maxItems
	}
	return n
}
