// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"pressctx/internal/markdown"
	"pressctx/internal/models"
	"pressctx/internal/slug"
	"pressctx/internal/store"
)

// ItemCache hydrates items, authors and tags once per render pass and hands
// out the same pointer for every later lookup of the same ID. It is safe for
// concurrent use; concurrent first lookups of one ID share a single store
// call.
type ItemCache struct {
	store Store
	links Links

	mu         sync.RWMutex
	items      map[int64]*models.Item
	authors    map[int64]*models.Author
	tags       map[int64]*models.Tag
	tagList    []*models.Tag
	tagsLoaded bool

	group      singleflight.Group
	hydrations atomic.Int64
}

// NewItemCache creates an empty cache reading from s.
func NewItemCache(s Store, links Links) *ItemCache {
	c := &ItemCache{store: s, links: links}
	c.clear()
	return c
}

func (c *ItemCache) clear() {
	c.items = make(map[int64]*models.Item)
	c.authors = make(map[int64]*models.Author)
	c.tags = make(map[int64]*models.Tag)
	c.tagList = nil
	c.tagsLoaded = false
}

// Item returns the hydrated item with the given ID.
func (c *ItemCache) Item(ctx context.Context, id int64) (*models.Item, error) {
	c.mu.RLock()
	item, ok := c.items[id]
	c.mu.RUnlock()
	if ok {
		return item, nil
	}

	v, err, _ := c.group.Do("item:"+strconv.FormatInt(id, 10), func() (any, error) {
		c.mu.RLock()
		item, ok := c.items[id]
		c.mu.RUnlock()
		if ok {
			return item, nil
		}

		item, err := c.hydrate(ctx, id)
		if err != nil {
			return nil, err
		}
		return c.storeItem(item), nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Item), nil
}

// Items translates IDs to hydrated items, keeping their order.
func (c *ItemCache) Items(ctx context.Context, ids []int64) ([]*models.Item, error) {
	items := make([]*models.Item, 0, len(ids))
	for _, id := range ids {
		item, err := c.Item(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// storeItem inserts item unless another one won the race, and returns the
// cached pointer.
func (c *ItemCache) storeItem(item *models.Item) *models.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.items[item.ID]; ok {
		return existing
	}
	c.items[item.ID] = item
	return item
}

func (c *ItemCache) hydrate(ctx context.Context, id int64) (*models.Item, error) {
	item, err := c.store.HydrateItem(ctx, id)
	if err != nil {
		return nil, storeErr("hydrate item", err)
	}
	c.hydrations.Add(1)
	slog.Debug("item hydrated", "id", id)

	tags, err := c.internTags(ctx, item.Tags)
	if err != nil {
		return nil, err
	}
	item.Tags = tags

	if item.AuthorID > 0 {
		author, err := c.Author(ctx, item.AuthorID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		item.Author = author
	}

	item.Slug = slug.OrFallback(item.Slug, item.Title, "post", item.ID)
	item.URL = c.links.Item(item.Slug)

	if item.TextFormat == models.TextFormatMarkdown {
		html, err := markdown.ToHTML(item.Text)
		if err != nil {
			return nil, err
		}
		item.Text = html
	}
	item.Excerpt = markdown.Excerpt(item.Text)
	return item, nil
}

// Author returns the hydrated author with the given ID. A missing author is
// reported with store.ErrNotFound.
func (c *ItemCache) Author(ctx context.Context, id int64) (*models.Author, error) {
	c.mu.RLock()
	author, ok := c.authors[id]
	c.mu.RUnlock()
	if ok {
		return author, nil
	}

	v, err, _ := c.group.Do("author:"+strconv.FormatInt(id, 10), func() (any, error) {
		c.mu.RLock()
		author, ok := c.authors[id]
		c.mu.RUnlock()
		if ok {
			return author, nil
		}

		author, err := c.store.HydrateAuthor(ctx, id)
		if err != nil {
			return nil, storeErr("hydrate author", err)
		}
		author.URL = c.links.Author(slug.OrFallback(author.Username, author.Name, "author", author.ID))

		c.mu.Lock()
		defer c.mu.Unlock()
		if existing, ok := c.authors[id]; ok {
			return existing, nil
		}
		c.authors[id] = author
		return author, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Author), nil
}

// Tags returns every tag with its visible post count. The list is loaded
// once per pass; a failed load is retried on the next call.
func (c *ItemCache) Tags(ctx context.Context) ([]*models.Tag, error) {
	c.mu.RLock()
	if c.tagsLoaded {
		list := c.tagList
		c.mu.RUnlock()
		return list, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do("tags", func() (any, error) {
		c.mu.RLock()
		if c.tagsLoaded {
			list := c.tagList
			c.mu.RUnlock()
			return list, nil
		}
		c.mu.RUnlock()

		loaded, err := c.store.Tags(ctx)
		if err != nil {
			return nil, storeErr("list tags", err)
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		list := make([]*models.Tag, 0, len(loaded))
		for _, t := range loaded {
			if existing, ok := c.tags[t.ID]; ok {
				list = append(list, existing)
				continue
			}
			t.Slug = slug.OrFallback(t.Slug, t.Name, "tag", t.ID)
			t.URL = c.links.Tag(t.Slug)
			c.tags[t.ID] = t
			list = append(list, t)
		}
		c.tagList = list
		c.tagsLoaded = true
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*models.Tag), nil
}

// internTags swaps freshly hydrated tags for the shared pointers. The tag
// list is loaded first so shared tags carry their post counts.
func (c *ItemCache) internTags(ctx context.Context, tags []*models.Tag) ([]*models.Tag, error) {
	if _, err := c.Tags(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*models.Tag, 0, len(tags))
	for _, t := range tags {
		if existing, ok := c.tags[t.ID]; ok {
			out = append(out, existing)
			continue
		}
		t.Slug = slug.OrFallback(t.Slug, t.Name, "tag", t.ID)
		t.URL = c.links.Tag(t.Slug)
		c.tags[t.ID] = t
		out = append(out, t)
	}
	return out, nil
}

// Hydrations reports how many items were loaded from the store since the
// cache was created or last reset.
func (c *ItemCache) Hydrations() int64 {
	return c.hydrations.Load()
}

// Len reports the number of cached items.
func (c *ItemCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Reset drops every cached entry. The next lookup hydrates again.
func (c *ItemCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.items)
	c.clear()
	c.hydrations.Store(0)
	slog.Debug("item cache reset", "items", n)
}
