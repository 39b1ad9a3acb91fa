// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"slices"
	"strings"
)

// StatusFlag is a single publishing flag. An item's status is a set of them.
type StatusFlag string

const (
	StatusPublished StatusFlag = "published"
	StatusHidden    StatusFlag = "hidden"
	StatusTrashed   StatusFlag = "trashed"
	StatusFeatured  StatusFlag = "featured"
	StatusDraft     StatusFlag = "draft"
)

// Status is the set of flags on an item, in stored order without duplicates.
type Status []StatusFlag

// ParseStatus splits the comma-joined stored form ("published,featured").
func ParseStatus(s string) Status {
	var st Status
	for _, part := range strings.Split(s, ",") {
		f := StatusFlag(strings.TrimSpace(part))
		if f == "" || slices.Contains(st, f) {
			continue
		}
		st = append(st, f)
	}
	return st
}

// Has reports whether the flag is set.
func (s Status) Has(f StatusFlag) bool {
	return slices.Contains(s, f)
}

// String returns the stored form of the status.
func (s Status) String() string {
	parts := make([]string, len(s))
	for i, f := range s {
		parts[i] = string(f)
	}
	return strings.Join(parts, ",")
}

// StatusFilter admits items whose status carries every Require flag and none
// of the Exclude flags.
type StatusFilter struct {
	Require []StatusFlag
	Exclude []StatusFlag
}

// PublishedFilter is the listing filter: published, not hidden, not trashed,
// and not featured when excludeFeatured is set.
func PublishedFilter(excludeFeatured bool) StatusFilter {
	f := StatusFilter{
		Require: []StatusFlag{StatusPublished},
		Exclude: []StatusFlag{StatusHidden, StatusTrashed},
	}
	if excludeFeatured {
		f.Exclude = append(f.Exclude, StatusFeatured)
	}
	return f
}

// Match evaluates the filter against a status.
func (f StatusFilter) Match(s Status) bool {
	for _, r := range f.Require {
		if !s.Has(r) {
			return false
		}
	}
	for _, e := range f.Exclude {
		if s.Has(e) {
			return false
		}
	}
	return true
}

// Without returns a copy of the filter with the flag removed from Exclude.
func (f StatusFilter) Without(flag StatusFlag) StatusFilter {
	out := StatusFilter{Require: slices.Clone(f.Require)}
	for _, e := range f.Exclude {
		if e != flag {
			out.Exclude = append(out.Exclude, e)
		}
	}
	return out
}

// With returns a copy of the filter that also requires the flag.
func (f StatusFilter) With(flag StatusFlag) StatusFilter {
	out := StatusFilter{
		Require: append(slices.Clone(f.Require), flag),
		Exclude: slices.Clone(f.Exclude),
	}
	return out
}
