// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// MenuItem is one entry of a navigation menu. Items nest.
type MenuItem struct {
	Label string     `json:"label"`
	Link  string     `json:"link"`
	Items []MenuItem `json:"items,omitempty"`
}

// Menu is a named navigation tree. A menu without a Position is unassigned:
// themes may still render it by name.
type Menu struct {
	Name     string     `json:"name"`
	Position string     `json:"position"`
	Items    []MenuItem `json:"items"`
}

// ListingContext holds everything the theme needs to render the homepage
// or one page of the paged post listing.
type ListingContext struct {
	Title              string      `json:"title"`
	Posts              []*Item     `json:"posts"`
	FeaturedPosts      []*Item     `json:"featuredPosts"`
	HiddenPosts        []*Item     `json:"hiddenPosts"`
	Tags               []*Tag      `json:"tags"`
	Authors            []*Author   `json:"authors"`
	MetaTitleRaw       string      `json:"metaTitleRaw"`
	MetaDescriptionRaw string      `json:"metaDescriptionRaw"`
	MetaRobotsRaw      string      `json:"metaRobotsRaw"`
	SiteOwner          *Author     `json:"siteOwner"`
	Menus              []Menu      `json:"menus"`
	UnassignedMenus    []Menu      `json:"unassignedMenus"`
	Pagination         *Pagination `json:"pagination,omitempty"`
}

// ItemContext holds everything the theme needs to render a single post.
// Neighbor fields are nil when there is no such neighbor.
type ItemContext struct {
	Title               string    `json:"title"`
	Post                *Item     `json:"post"`
	FeaturedPosts       []*Item   `json:"featuredPosts"`
	HiddenPosts         []*Item   `json:"hiddenPosts"`
	RelatedPosts        []*Item   `json:"relatedPosts"`
	Tags                []*Tag    `json:"tags"`
	Authors             []*Author `json:"authors"`
	MetaTitleRaw        string    `json:"metaTitleRaw"`
	MetaDescriptionRaw  string    `json:"metaDescriptionRaw"`
	MetaRobotsRaw       string    `json:"metaRobotsRaw"`
	CanonicalURL        string    `json:"canonicalUrl"`
	PreviousPost        *Item     `json:"previousPost"`
	PreviousSimilarPost *Item     `json:"previousSimilarPost"`
	NextPost            *Item     `json:"nextPost"`
	NextSimilarPost     *Item     `json:"nextSimilarPost"`
	SiteOwner           *Author   `json:"siteOwner"`
	Menus               []Menu    `json:"menus"`
	UnassignedMenus     []Menu    `json:"unassignedMenus"`
}
