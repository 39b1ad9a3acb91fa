// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
)

// MemoryStore is an in-memory content store with the same query semantics
// as SQLStore. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	posts    map[int64]memPost
	tags     map[int64]models.Tag
	authors  map[int64]models.Author
	metadata map[int64]map[string]string
	menus    []models.Menu
}

type memPost struct {
	item   models.Item
	tagIDs []int64
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		posts:    make(map[int64]memPost),
		tags:     make(map[int64]models.Tag),
		authors:  make(map[int64]models.Author),
		metadata: make(map[int64]map[string]string),
	}
}

// AddAuthor stores an author, replacing any author with the same ID.
func (m *MemoryStore) AddAuthor(a models.Author) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authors[a.ID] = a
}

// AddTag stores a tag, replacing any tag with the same ID.
func (m *MemoryStore) AddTag(t models.Tag) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t.PostsCount = 0
	m.tags[t.ID] = t
}

// AddItem stores an item carrying the given tags. Tags and Author on item
// are ignored.
func (m *MemoryStore) AddItem(item models.Item, tagIDs ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.Tags = nil
	item.Author = nil
	m.posts[item.ID] = memPost{item: item, tagIDs: slices.Clone(tagIDs)}
}

// SetMetadata stores an additional data value for an item.
func (m *MemoryStore) SetMetadata(id int64, key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.metadata[id] == nil {
		m.metadata[id] = make(map[string]string)
	}
	m.metadata[id][key] = value
}

// SetMenus replaces the menu configuration.
func (m *MemoryStore) SetMenus(menus []models.Menu) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menus = slices.Clone(menus)
}

// sorted returns the items matching filter in policy order.
func (m *MemoryStore) sorted(filter models.StatusFilter, policy ordering.Policy, keep func(memPost) bool) []*models.Item {
	var items []*models.Item
	for _, p := range m.posts {
		if !filter.Match(p.item.Status) {
			continue
		}
		if keep != nil && !keep(p) {
			continue
		}
		it := p.item
		items = append(items, &it)
	}
	slices.SortFunc(items, policy.Compare)
	return items
}

func (m *MemoryStore) QueryItemsPage(_ context.Context, filter models.StatusFilter, policy ordering.Policy, offset, limit int) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.sorted(filter, policy, nil)
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []int64{}, nil
	}
	items = items[offset:]
	if limit >= 0 && limit < len(items) {
		items = items[:limit]
	}

	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids, nil
}

func (m *MemoryStore) QueryCount(_ context.Context, filter models.StatusFilter) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, p := range m.posts {
		if filter.Match(p.item.Status) {
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) QueryNeighbor(_ context.Context, q NeighborQuery) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.sorted(q.Filter, q.Order, func(p memPost) bool {
		if p.item.ID == q.AnchorID || !q.Boundary.Match(&p.item) {
			return false
		}
		if len(q.AnyTagIDs) == 0 {
			return true
		}
		for _, id := range p.tagIDs {
			if slices.Contains(q.AnyTagIDs, id) {
				return true
			}
		}
		return false
	})
	if len(items) == 0 {
		return 0, false, nil
	}
	return items[0].ID, true, nil
}

func (m *MemoryStore) QueryRelated(_ context.Context, q RelatedQuery) ([]int64, error) {
	if !q.HasSignal() || q.Limit <= 0 {
		return []int64{}, nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []relatedHit
	for _, p := range m.posts {
		if p.item.ID == q.AnchorID || !q.Filter.Match(p.item.Status) {
			continue
		}
		score := WordWeight * wordHits(p.item.Title, q.Words)
		for _, id := range p.tagIDs {
			if slices.Contains(q.TagIDs, id) {
				score += TagWeight
			}
		}
		if score > 0 {
			hits = append(hits, relatedHit{id: p.item.ID, score: score})
		}
	}
	return rankRelated(hits, q.Limit), nil
}

func (m *MemoryStore) HydrateItem(_ context.Context, id int64) (*models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.posts[id]
	if !ok {
		return nil, fmt.Errorf("hydrate item %d: %w", id, ErrNotFound)
	}
	item := p.item
	item.Status = slices.Clone(p.item.Status)
	item.Tags = []*models.Tag{}
	for _, tid := range p.tagIDs {
		if t, ok := m.tags[tid]; ok {
			item.Tags = append(item.Tags, &models.Tag{ID: t.ID, Name: t.Name, Slug: t.Slug})
		}
	}
	slices.SortFunc(item.Tags, compareTags)
	return &item, nil
}

func (m *MemoryStore) HydrateAuthor(_ context.Context, id int64) (*models.Author, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.authors[id]
	if !ok {
		return nil, fmt.Errorf("hydrate author %d: %w", id, ErrNotFound)
	}
	return &a, nil
}

func (m *MemoryStore) MetadataOverride(_ context.Context, id int64, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.metadata[id][key]
	return v, ok && v != "", nil
}

func (m *MemoryStore) Tags(_ context.Context) ([]*models.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	visible := models.PublishedFilter(false)
	counts := make(map[int64]int)
	for _, p := range m.posts {
		if !visible.Match(p.item.Status) {
			continue
		}
		for _, tid := range p.tagIDs {
			counts[tid]++
		}
	}

	tags := make([]*models.Tag, 0, len(m.tags))
	for _, t := range m.tags {
		t.PostsCount = counts[t.ID]
		tags = append(tags, &t)
	}
	slices.SortFunc(tags, compareTags)
	return tags, nil
}

func (m *MemoryStore) AuthorIDs(_ context.Context) ([]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	authors := make([]models.Author, 0, len(m.authors))
	for _, a := range m.authors {
		authors = append(authors, a)
	}
	slices.SortFunc(authors, func(a, b models.Author) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	ids := make([]int64, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	return ids, nil
}

func (m *MemoryStore) Menus(_ context.Context) ([]models.Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	menus := slices.Clone(m.menus)
	if menus == nil {
		menus = []models.Menu{}
	}
	return menus, nil
}

func compareTags(a, b *models.Tag) int {
	if c := strings.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
