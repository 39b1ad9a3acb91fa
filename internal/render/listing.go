// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"

	"pressctx/internal/config"
	"pressctx/internal/models"
	"pressctx/internal/ordering"
)

// ListingBuilder assembles the homepage context and its paged variants.
type ListingBuilder struct {
	store  Store
	cache  *ItemCache
	common CommonData
	theme  config.Theme
	policy ordering.Policy
}

// NewListingBuilder creates a listing builder.
func NewListingBuilder(s Store, cache *ItemCache, common CommonData, theme config.Theme, policy ordering.Policy) *ListingBuilder {
	return &ListingBuilder{store: s, cache: cache, common: common, theme: theme, policy: policy}
}

// filter is the status filter for listed posts.
func (b *ListingBuilder) filter() models.StatusFilter {
	return models.PublishedFilter(!b.theme.Renderer.IncludeFeaturedInPosts)
}

// Count returns the number of posts the listing spans.
func (b *ListingBuilder) Count(ctx context.Context) (int, error) {
	n, err := b.store.QueryCount(ctx, b.filter())
	if err != nil {
		return 0, storeErr("query count", err)
	}
	return n, nil
}

// Build returns the listing context for postsNumber posts starting at
// offset. postsNumber 0 lists nothing and -1 lists everything up to a fixed
// bound.
func (b *ListingBuilder) Build(ctx context.Context, offset, postsNumber int) (*models.ListingContext, error) {
	posts := []*models.Item{}
	if limit := capCount(postsNumber); limit > 0 {
		ids, err := b.store.QueryItemsPage(ctx, b.filter(), b.policy, offset, limit)
		if err != nil {
			return nil, storeErr("query items page", err)
		}
		if posts, err = b.cache.Items(ctx, ids); err != nil {
			return nil, err
		}
	}

	tags, err := b.common.Tags(ctx)
	if err != nil {
		return nil, err
	}
	menus, err := b.common.Menus(ctx)
	if err != nil {
		return nil, err
	}
	unassigned, err := b.common.UnassignedMenus(ctx)
	if err != nil {
		return nil, err
	}
	authors, err := b.common.Authors(ctx)
	if err != nil {
		return nil, err
	}
	featured, err := b.common.FeaturedItems(ctx, ScopeHomepage)
	if err != nil {
		return nil, err
	}
	hidden, err := b.common.HiddenItems(ctx)
	if err != nil {
		return nil, err
	}
	owner, err := siteOwner(ctx, b.cache, b.theme.Site.SiteOwnerID)
	if err != nil {
		return nil, err
	}

	r := b.theme.Renderer
	if r.IncludeFeaturedInPosts && (r.FeaturedPostsNumber > 0 || r.FeaturedPostsNumber == -1) {
		posts = withoutItems(posts, featured)
	}

	site := b.theme.Site
	siteName := b.theme.SiteTitle()
	metaTitle := placeholders(site.MetaTitle, "", siteName, "")
	title := metaTitle
	if title == "" {
		title = site.Name
	}

	return &models.ListingContext{
		Title:              title,
		Posts:              posts,
		FeaturedPosts:      featured,
		HiddenPosts:        hidden,
		Tags:               tags,
		Authors:            authors,
		MetaTitleRaw:       metaTitle,
		MetaDescriptionRaw: placeholders(site.MetaDescription, "", siteName, ""),
		MetaRobotsRaw:      robots(site, ""),
		SiteOwner:          owner,
		Menus:              menus,
		UnassignedMenus:    unassigned,
	}, nil
}

// withoutItems returns items minus anything in drop, keeping order.
func withoutItems(items, drop []*models.Item) []*models.Item {
	if len(drop) == 0 {
		return items
	}
	skip := make(map[int64]struct{}, len(drop))
	for _, d := range drop {
		skip[d.ID] = struct{}{}
	}
	out := make([]*models.Item, 0, len(items))
	for _, it := range items {
		if _, ok := skip[it.ID]; !ok {
			out = append(out, it)
		}
	}
	return out
}
