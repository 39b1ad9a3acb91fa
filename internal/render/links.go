// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"net/url"
	"strings"
)

// Links builds public URLs for items, tags and authors.
type Links struct {
	BaseURL    string
	PrettyURLs bool
}

func (l Links) base() string {
	return strings.TrimSuffix(l.BaseURL, "/")
}

// Item returns the URL of a post page.
func (l Links) Item(slug string) string {
	if l.PrettyURLs {
		return l.base() + "/" + url.PathEscape(slug) + "/"
	}
	return l.base() + "/" + url.PathEscape(slug) + ".html"
}

// Tag returns the URL of a tag page.
func (l Links) Tag(slug string) string {
	return l.base() + "/tags/" + url.PathEscape(slug) + "/"
}

// Author returns the URL of an author page.
func (l Links) Author(username string) string {
	return l.base() + "/authors/" + url.PathEscape(username) + "/"
}
