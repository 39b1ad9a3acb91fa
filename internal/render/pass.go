// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pressctx/internal/config"
	"pressctx/internal/models"
	"pressctx/internal/ordering"
	"pressctx/internal/publish"
)

// PageFilter selects every item that gets its own page: published and not
// trashed. Hidden items still get a page; they are only left out of listings.
var PageFilter = models.StatusFilter{
	Require: []models.StatusFlag{models.StatusPublished},
	Exclude: []models.StatusFlag{models.StatusTrashed},
}

// Pass is one render pass over the site. Builders obtained from a pass
// share its item cache and common data.
type Pass struct {
	ID string

	store   Store
	theme   config.Theme
	policy  ordering.Policy
	workers int

	cache    *ItemCache
	common   *StoreCommonData
	listing  *ListingBuilder
	item     *ItemBuilder
	neighbor []NeighborOption
}

// PassOption configures a Pass.
type PassOption func(*Pass)

// WithWorkers bounds the number of pages built concurrently by Run.
func WithWorkers(n int) PassOption {
	return func(p *Pass) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithNeighborOptions configures the pass's neighbor resolver.
func WithNeighborOptions(opts ...NeighborOption) PassOption {
	return func(p *Pass) { p.neighbor = append(p.neighbor, opts...) }
}

// Stats summarizes a finished Run.
type Stats struct {
	Pages      int
	Items      int
	Hydrations int64
	Duration   time.Duration
}

// NewPass creates a render pass over s using the theme's settings.
func NewPass(s Store, theme config.Theme, opts ...PassOption) (*Pass, error) {
	if err := theme.Validate(); err != nil {
		return nil, err
	}
	policy, err := theme.Policy()
	if err != nil {
		return nil, err
	}

	p := &Pass{
		ID:      uuid.NewString(),
		store:   s,
		theme:   theme,
		policy:  policy,
		workers: 1,
	}
	for _, opt := range opts {
		opt(p)
	}

	links := Links{BaseURL: theme.Site.BaseURL, PrettyURLs: theme.Site.PrettyURLs}
	p.cache = NewItemCache(s, links)
	p.common = NewStoreCommonData(s, p.cache, policy, theme.Renderer)
	p.listing = NewListingBuilder(s, p.cache, p.common, theme, policy)
	p.item = NewItemBuilder(s, p.cache, p.common,
		NewNeighborResolver(s, p.cache, policy, p.neighbor...),
		NewRelatedResolver(s, p.cache),
		theme)
	return p, nil
}

// Listing returns the pass's listing builder.
func (p *Pass) Listing() *ListingBuilder { return p.listing }

// Item returns the pass's item builder.
func (p *Pass) Item() *ItemBuilder { return p.item }

// Cache returns the pass's item cache.
func (p *Pass) Cache() *ItemCache { return p.cache }

// Common returns the pass's common data provider.
func (p *Pass) Common() *StoreCommonData { return p.common }

// ListingKey is the sink key of a listing page (1-based).
func ListingKey(page int) string {
	if page <= 1 {
		return "index"
	}
	return "page/" + strconv.Itoa(page)
}

// ItemKey is the sink key of an item page.
func ItemKey(id int64) string {
	return "post/" + strconv.FormatInt(id, 10)
}

// Run builds every listing page and every item page and hands each context
// to sink. The first failure cancels the remaining work.
func (p *Pass) Run(ctx context.Context, sink publish.Sink) (Stats, error) {
	start := time.Now()
	slog.Info("render pass started", "pass", p.ID, "order", p.policy.String(), "workers", p.workers)

	if err := p.common.Load(ctx); err != nil {
		return Stats{}, fmt.Errorf("load common data: %w", err)
	}

	total, err := p.listing.Count(ctx)
	if err != nil {
		return Stats{}, err
	}
	pageSize := p.theme.Renderer.PostsPerPage
	pages := models.NewPagination(total, 1, pageSize).TotalPages

	ids, err := p.store.QueryItemsPage(ctx, PageFilter, p.policy, 0, -1)
	if err != nil {
		return Stats{}, storeErr("query pages", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	var built atomic.Int64
	for page := 1; page <= pages; page++ {
		g.Go(func() error {
			offset := 0
			if pageSize > 0 {
				offset = (page - 1) * pageSize
			}
			lc, err := p.listing.Build(gctx, offset, pageSize)
			if err != nil {
				return fmt.Errorf("build listing page %d: %w", page, err)
			}
			pg := models.NewPagination(total, page, pageSize)
			lc.Pagination = &pg
			if err := sink.Put(gctx, ListingKey(page), lc); err != nil {
				return fmt.Errorf("publish listing page %d: %w", page, err)
			}
			built.Add(1)
			return nil
		})
	}
	for _, id := range ids {
		g.Go(func() error {
			ic, err := p.item.Build(gctx, id)
			if err != nil {
				return fmt.Errorf("build item %d: %w", id, err)
			}
			if err := sink.Put(gctx, ItemKey(id), ic); err != nil {
				return fmt.Errorf("publish item %d: %w", id, err)
			}
			built.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("render pass failed", "pass", p.ID, "error", err)
		return Stats{}, err
	}

	stats := Stats{
		Pages:      pages,
		Items:      len(ids),
		Hydrations: p.cache.Hydrations(),
		Duration:   time.Since(start),
	}
	slog.Info("render pass finished",
		"pass", p.ID,
		"listing_pages", stats.Pages,
		"items", stats.Items,
		"contexts", built.Load(),
		"hydrations", stats.Hydrations,
		"duration", stats.Duration,
	)
	return stats, nil
}

// Close ends the pass and drops everything it cached.
func (p *Pass) Close() {
	p.cache.Reset()
	p.common.Reset()
}
