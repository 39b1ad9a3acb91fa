// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"context"

	"pressctx/internal/models"
	"pressctx/internal/ordering"
	"pressctx/internal/store"
)

// NeighborResolver finds the item directly before or after an anchor in the
// site's post order.
type NeighborResolver struct {
	store         Store
	cache         *ItemCache
	policy        ordering.Policy
	includeHidden bool
}

// NeighborOption configures a NeighborResolver.
type NeighborOption func(*NeighborResolver)

// WithHidden lets hidden items be returned as neighbors.
func WithHidden() NeighborOption {
	return func(r *NeighborResolver) { r.includeHidden = true }
}

// NewNeighborResolver creates a resolver over s ordered by policy.
func NewNeighborResolver(s Store, cache *ItemCache, policy ordering.Policy, opts ...NeighborOption) *NeighborResolver {
	r := &NeighborResolver{store: s, cache: cache, policy: policy}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Filter is the status filter candidates must pass.
func (r *NeighborResolver) Filter() models.StatusFilter {
	f := models.PublishedFilter(false)
	if r.includeHidden {
		f = f.Without(models.StatusHidden)
	}
	return f
}

// Find returns the neighbor of anchor on side, or nil when there is none.
// With requireSharedTag the neighbor must carry one of the anchor's tags; an
// untagged anchor then has no neighbor.
func (r *NeighborResolver) Find(ctx context.Context, anchor *models.Item, side ordering.Side, requireSharedTag bool) (*models.Item, error) {
	q := store.NeighborQuery{
		AnchorID: anchor.ID,
		Filter:   r.Filter(),
		Boundary: r.policy.Boundary(anchor, side),
		Order:    r.policy.ScanOrder(side),
	}
	if requireSharedTag {
		q.AnyTagIDs = anchor.TagIDs()
		if len(q.AnyTagIDs) == 0 {
			return nil, nil
		}
	}

	id, found, err := r.store.QueryNeighbor(ctx, q)
	if err != nil {
		return nil, storeErr("query neighbor", err)
	}
	if !found {
		return nil, nil
	}
	return r.cache.Item(ctx, id)
}
