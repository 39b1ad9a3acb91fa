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

// ItemBuilder assembles the context of a single post page.
type ItemBuilder struct {
	store     Store
	cache     *ItemCache
	common    CommonData
	neighbors *NeighborResolver
	related   *RelatedResolver
	theme     config.Theme
}

// NewItemBuilder creates an item builder.
func NewItemBuilder(s Store, cache *ItemCache, common CommonData, neighbors *NeighborResolver, related *RelatedResolver, theme config.Theme) *ItemBuilder {
	return &ItemBuilder{
		store:     s,
		cache:     cache,
		common:    common,
		neighbors: neighbors,
		related:   related,
		theme:     theme,
	}
}

// Build returns the context for the item with the given ID. Either a fully
// populated context or an error is returned.
func (b *ItemBuilder) Build(ctx context.Context, id int64) (*models.ItemContext, error) {
	item, err := b.cache.Item(ctx, id)
	if err != nil {
		return nil, err
	}

	raw, _, err := b.store.MetadataOverride(ctx, id, models.CoreMetadataKey)
	if err != nil {
		return nil, storeErr("metadata override", err)
	}
	override, err := parseOverride(id, raw)
	if err != nil {
		return nil, err
	}

	r := b.theme.Renderer
	related := []*models.Item{}
	if r.RenderRelatedPosts {
		if limit := capCount(r.RelatedPostsNumber); limit > 0 {
			if related, err = b.related.Find(ctx, item, limit); err != nil {
				return nil, err
			}
		}
	}

	var prev, next, prevSimilar, nextSimilar *models.Item
	if !item.IsHidden() {
		if r.RenderPrevNextPosts {
			if prev, err = b.neighbors.Find(ctx, item, ordering.Previous, false); err != nil {
				return nil, err
			}
			if next, err = b.neighbors.Find(ctx, item, ordering.Next, false); err != nil {
				return nil, err
			}
		}
		if r.RenderSimilarPosts {
			if prevSimilar, err = b.neighbors.Find(ctx, item, ordering.Previous, true); err != nil {
				return nil, err
			}
			if nextSimilar, err = b.neighbors.Find(ctx, item, ordering.Next, true); err != nil {
				return nil, err
			}
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
	featured, err := b.common.FeaturedItems(ctx, ScopeItem)
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

	site := b.theme.Site
	siteName := b.theme.SiteTitle()
	authorName := ""
	if item.Author != nil {
		authorName = item.Author.Name
	}

	title := placeholders(firstNonEmpty(override.MetaTitle, site.PostMetaTitle, site.MetaTitle), item.Title, siteName, authorName)
	if title == "" {
		title = item.Title
	}
	description := placeholders(firstNonEmpty(override.MetaDesc, site.PostMetaDescription, site.MetaDescription),
		item.Title, siteName, authorName)

	return &models.ItemContext{
		Title:               title,
		Post:                item,
		FeaturedPosts:       featured,
		HiddenPosts:         hidden,
		RelatedPosts:        related,
		Tags:                tags,
		Authors:             authors,
		MetaTitleRaw:        title,
		MetaDescriptionRaw:  description,
		MetaRobotsRaw:       robots(site, override.MetaRobots),
		CanonicalURL:        firstNonEmpty(override.CanonicalURL, item.URL),
		PreviousPost:        prev,
		PreviousSimilarPost: prevSimilar,
		NextPost:            next,
		NextSimilarPost:     nextSimilar,
		SiteOwner:           owner,
		Menus:               menus,
		UnassignedMenus:     unassigned,
	}, nil
}
