// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"
	"errors"
	"sync"

	"pressctx/internal/config"
	"pressctx/internal/models"
	"pressctx/internal/ordering"
	"pressctx/internal/store"
)

// Scope names the page type asking for featured items.
type Scope string

const (
	ScopeHomepage Scope = "homepage"
	ScopeItem     Scope = "post"
)

// CommonData supplies the data every page context carries.
type CommonData interface {
	Tags(ctx context.Context) ([]*models.Tag, error)
	Menus(ctx context.Context) ([]models.Menu, error)
	UnassignedMenus(ctx context.Context) ([]models.Menu, error)
	Authors(ctx context.Context) ([]*models.Author, error)
	FeaturedItems(ctx context.Context, scope Scope) ([]*models.Item, error)
	HiddenItems(ctx context.Context) ([]*models.Item, error)
}

// HiddenFilter admits published hidden items that are not trashed.
var HiddenFilter = models.StatusFilter{
	Require: []models.StatusFlag{models.StatusPublished, models.StatusHidden},
	Exclude: []models.StatusFlag{models.StatusTrashed},
}

// StoreCommonData loads common data from the store once per pass. Loading
// is retried on the next call if it failed.
type StoreCommonData struct {
	store    Store
	cache    *ItemCache
	policy   ordering.Policy
	renderer config.RendererConfig

	mu         sync.Mutex
	loaded     bool
	menus      []models.Menu
	unassigned []models.Menu
	authors    []*models.Author
	featured   []*models.Item
	hidden     []*models.Item
}

// NewStoreCommonData creates a provider sharing cache with the builders.
func NewStoreCommonData(s Store, cache *ItemCache, policy ordering.Policy, renderer config.RendererConfig) *StoreCommonData {
	return &StoreCommonData{store: s, cache: cache, policy: policy, renderer: renderer}
}

// Load fetches everything up front. Accessors call it implicitly.
func (d *StoreCommonData) Load(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		return nil
	}

	if _, err := d.cache.Tags(ctx); err != nil {
		return err
	}

	all, err := d.store.Menus(ctx)
	if err != nil {
		return storeErr("load menus", err)
	}
	menus, unassigned := []models.Menu{}, []models.Menu{}
	for _, m := range all {
		if m.Position == "" {
			unassigned = append(unassigned, m)
		} else {
			menus = append(menus, m)
		}
	}

	authorIDs, err := d.store.AuthorIDs(ctx)
	if err != nil {
		return storeErr("list authors", err)
	}
	authors := make([]*models.Author, 0, len(authorIDs))
	for _, id := range authorIDs {
		a, err := d.cache.Author(ctx, id)
		if err != nil {
			return err
		}
		authors = append(authors, a)
	}

	featured := []*models.Item{}
	if limit := capCount(d.renderer.FeaturedPostsNumber); limit > 0 {
		ids, err := d.store.QueryItemsPage(ctx, models.PublishedFilter(false).With(models.StatusFeatured), d.policy, 0, limit)
		if err != nil {
			return storeErr("query featured", err)
		}
		if featured, err = d.cache.Items(ctx, ids); err != nil {
			return err
		}
	}

	ids, err := d.store.QueryItemsPage(ctx, HiddenFilter, d.policy, 0, -1)
	if err != nil {
		return storeErr("query hidden", err)
	}
	hidden, err := d.cache.Items(ctx, ids)
	if err != nil {
		return err
	}

	d.menus, d.unassigned, d.authors = menus, unassigned, authors
	d.featured, d.hidden = featured, hidden
	d.loaded = true
	return nil
}

func (d *StoreCommonData) Tags(ctx context.Context) ([]*models.Tag, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.cache.Tags(ctx)
}

func (d *StoreCommonData) Menus(ctx context.Context) ([]models.Menu, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.menus, nil
}

func (d *StoreCommonData) UnassignedMenus(ctx context.Context) ([]models.Menu, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.unassigned, nil
}

func (d *StoreCommonData) Authors(ctx context.Context) ([]*models.Author, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.authors, nil
}

// FeaturedItems returns the featured items. Every scope currently shares
// the homepage selection.
func (d *StoreCommonData) FeaturedItems(ctx context.Context, _ Scope) ([]*models.Item, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.featured, nil
}

func (d *StoreCommonData) HiddenItems(ctx context.Context) ([]*models.Item, error) {
	if err := d.Load(ctx); err != nil {
		return nil, err
	}
	return d.hidden, nil
}

// Reset forgets the loaded data.
func (d *StoreCommonData) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loaded = false
	d.menus, d.unassigned, d.authors, d.featured, d.hidden = nil, nil, nil, nil, nil
}

// siteOwner resolves the configured owner; a missing author yields nil.
func siteOwner(ctx context.Context, cache *ItemCache, id int64) (*models.Author, error) {
	a, err := cache.Author(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return a, err
}
