// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"strconv"

	gosimple "github.com/gosimple/slug"
)

// MaxLength caps generated slugs. Truncation happens on a word boundary.
const MaxLength = 96

func init() {
	gosimple.MaxLength = MaxLength
}

// Generate creates a URL-friendly slug from the given string. Accented
// characters are transliterated.
// Example: "Hello, World! 2026" → "hello-world-2026"
func Generate(s string) string {
	return gosimple.Make(s)
}

// OrFallback returns slug when non-empty, otherwise a slug generated from
// name, otherwise prefix-id.
func OrFallback(slug, name, prefix string, id int64) string {
	if slug != "" {
		return slug
	}
	if s := Generate(name); s != "" {
		return s
	}
	return prefix + "-" + strconv.FormatInt(id, 10)
}
