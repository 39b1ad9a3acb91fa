// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the content types read from the store and the
// renderer-facing context structures assembled from them.
package models

import "time"

// TextFormat tells how an item's stored body must be converted to HTML.
type TextFormat string

const (
	TextFormatHTML     TextFormat = "html"
	TextFormatMarkdown TextFormat = "markdown"
)

// Item is a single post as seen by the renderer. Items are read-only inside
// a render pass; the item cache hands out one shared pointer per ID.
type Item struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Slug       string     `json:"slug"`
	Status     Status     `json:"status"`
	CreatedAt  int64      `json:"createdAt"`  // epoch milliseconds
	ModifiedAt int64      `json:"modifiedAt"` // epoch milliseconds
	Order      int64      `json:"order"`
	AuthorID   int64      `json:"-"`
	Author     *Author    `json:"author"`
	Tags       []*Tag     `json:"tags"`
	TextFormat TextFormat `json:"-"`
	Text       string     `json:"text"`
	Excerpt    string     `json:"excerpt"`
	URL        string     `json:"url"`
}

// IsHidden reports whether the item is excluded from listings and navigation.
func (i *Item) IsHidden() bool {
	return i.Status.Has(StatusHidden)
}

// Created returns the creation timestamp as a time.Time.
func (i *Item) Created() time.Time {
	return time.UnixMilli(i.CreatedAt)
}

// Modified returns the modification timestamp as a time.Time.
func (i *Item) Modified() time.Time {
	return time.UnixMilli(i.ModifiedAt)
}

// TagIDs returns the identifiers of the item's tags in tag order.
func (i *Item) TagIDs() []int64 {
	ids := make([]int64, 0, len(i.Tags))
	for _, t := range i.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}

// HasTag reports whether the item carries the tag with the given ID.
func (i *Item) HasTag(id int64) bool {
	for _, t := range i.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Tag is a label shared by many items.
type Tag struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	URL        string `json:"url"`
	PostsCount int    `json:"postsNumber"`
}

// Author is the writer of an item.
type Author struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	URL      string `json:"url"`
}

// MetaOverride is the per-item metadata document stored under the "_core"
// key of posts_additional_data. Empty fields leave the computed defaults.
type MetaOverride struct {
	MetaTitle    string `json:"metaTitle"`
	MetaDesc     string `json:"metaDesc"`
	MetaRobots   string `json:"metaRobots"`
	CanonicalURL string `json:"canonicalUrl"`
}

// CoreMetadataKey is the posts_additional_data key holding MetaOverride.
const CoreMetadataKey = "_core"
