// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package ordering defines the post sort order used by listings and neighbor
// navigation. A Policy plus the item ID tie-break is a strict total order.
package ordering

import (
	"cmp"
	"fmt"
	"strings"

	"pressctx/internal/models"
)

// Key is the column items are sorted by.
type Key string

const (
	KeyCreatedAt  Key = "created_at"
	KeyModifiedAt Key = "modified_at"
	KeyTitle      Key = "title"
	KeyOrder      Key = "order"
)

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "ASC"
	Desc Direction = "DESC"
)

// Side selects which neighbor of an anchor is wanted.
type Side int

const (
	Previous Side = iota
	Next
)

func (s Side) String() string {
	if s == Previous {
		return "previous"
	}
	return "next"
}

// Op is a strict comparison operator.
type Op string

const (
	Less    Op = "<"
	Greater Op = ">"
)

// Policy is the configured sort order.
type Policy struct {
	Key       Key
	Direction Direction
}

// Default is the order used when a site does not configure one.
var Default = Policy{Key: KeyCreatedAt, Direction: Desc}

// Parse validates a column name and direction coming from site configuration.
// The direction is case-insensitive.
func Parse(column, direction string) (Policy, error) {
	p := Policy{
		Key:       Key(strings.ToLower(strings.TrimSpace(column))),
		Direction: Direction(strings.ToUpper(strings.TrimSpace(direction))),
	}
	switch p.Key {
	case KeyCreatedAt, KeyModifiedAt, KeyTitle, KeyOrder:
	default:
		return Policy{}, fmt.Errorf("parse ordering: unknown sort column %q", column)
	}
	switch p.Direction {
	case Asc, Desc:
	default:
		return Policy{}, fmt.Errorf("parse ordering: unknown sort direction %q", direction)
	}
	return p, nil
}

func (p Policy) String() string {
	return string(p.Key) + " " + string(p.Direction)
}

// Reversed returns the policy with the opposite direction.
func (p Policy) Reversed() Policy {
	if p.Direction == Asc {
		return Policy{Key: p.Key, Direction: Desc}
	}
	return Policy{Key: p.Key, Direction: Asc}
}

// ScanOrder is the order in which candidates on the given side are scanned so
// that the first one is the closest to the anchor.
func (p Policy) ScanOrder(side Side) Policy {
	if side == Previous {
		return p.Reversed()
	}
	return p
}

// Compare orders a before b (-1), after b (1) or equal (0) under the policy.
func (p Policy) Compare(a, b *models.Item) int {
	c := ValueOf(p.Key, a).Compare(ValueOf(p.Key, b))
	if c == 0 {
		c = cmp.Compare(a.ID, b.ID)
	}
	if p.Direction == Desc {
		return -c
	}
	return c
}

// Boundary returns the predicate selecting items strictly on the given side
// of the anchor.
func (p Policy) Boundary(anchor *models.Item, side Side) Predicate {
	op := Greater
	if (side == Previous && p.Direction == Asc) || (side == Next && p.Direction == Desc) {
		op = Less
	}
	return Predicate{
		Key:      p.Key,
		Op:       op,
		Value:    ValueOf(p.Key, anchor),
		AnchorID: anchor.ID,
	}
}

// Predicate is (v op Value) OR (v = Value AND id op AnchorID).
type Predicate struct {
	Key      Key
	Op       Op
	Value    Value
	AnchorID int64
}

// Match evaluates the predicate against an item.
func (pr Predicate) Match(item *models.Item) bool {
	c := ValueOf(pr.Key, item).Compare(pr.Value)
	if c == 0 {
		c = cmp.Compare(item.ID, pr.AnchorID)
	}
	if pr.Op == Less {
		return c < 0
	}
	return c > 0
}

// Value is the sort value of an item under a key.
type Value struct {
	Num    int64
	Text   string
	IsText bool
}

// Arg returns the value as a query argument.
func (v Value) Arg() any {
	if v.IsText {
		return v.Text
	}
	return v.Num
}

// Compare compares two values of the same key.
func (v Value) Compare(o Value) int {
	if v.IsText {
		return strings.Compare(v.Text, o.Text)
	}
	return cmp.Compare(v.Num, o.Num)
}

var quoteStripper = strings.NewReplacer(`"`, "", `'`, "")

// NormalizeTitle strips double and single quotes so titles that begin with a
// quotation sort by their first letter.
func NormalizeTitle(title string) string {
	return quoteStripper.Replace(title)
}

// ValueOf extracts the sort value of item for key.
func ValueOf(key Key, item *models.Item) Value {
	switch key {
	case KeyModifiedAt:
		return Value{Num: item.ModifiedAt}
	case KeyTitle:
		return Value{Text: NormalizeTitle(item.Title), IsText: true}
	case KeyOrder:
		return Value{Num: item.Order}
	default:
		return Value{Num: item.CreatedAt}
	}
}
