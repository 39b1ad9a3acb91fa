// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Pagination describes where a listing page sits in the paged listing.
type Pagination struct {
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	CurrentPage int  `json:"currentPage"`
	NextPage    int  `json:"nextPage"`
	PrevPage    int  `json:"prevPage"`
	PageSize    int  `json:"pageSize"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

// NewPagination computes the pagination block for page (1-based) of a listing
// of total posts split into pages of pageSize. A non-positive pageSize means a
// single page holding everything.
func NewPagination(total, page, pageSize int) Pagination {
	totalPages := 1
	if pageSize > 0 && total > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	if page < 1 {
		page = 1
	}

	next := page + 1
	if next > totalPages {
		next = totalPages
	}
	prev := page - 1
	if prev < 1 {
		prev = 1
	}

	return Pagination{
		TotalPages:  totalPages,
		TotalPosts:  total,
		CurrentPage: page,
		NextPage:    next,
		PrevPage:    prev,
		PageSize:    pageSize,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}
}
