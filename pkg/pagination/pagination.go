// Copyright (c) 2026 Quillpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination reads the ?page=&limit= window of list endpoints and
// describes it back in the response envelope.
package pagination

import (
	"net/url"
	"strconv"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page is a 1-indexed window over a listing.
type Page struct {
	Number int
	Limit  int
}

// Parse reads page and limit from query. Missing or malformed values fall
// back to the first page and [DefaultLimit]; larger limits are capped at [MaxLimit].
func Parse(query url.Values) Page {
	page := Page{Number: positive(query.Get("page"), 1), Limit: positive(query.Get("limit"), DefaultLimit)}
	page.Limit = min(page.Limit, MaxLimit)
	return page
}

// Offset is the number of rows skipped before this page.
func (page Page) Offset() int {
	return (page.Number - 1) * page.Limit
}

// Meta describes the page against the total row count.
func (page Page) Meta(total int) Meta {
	pages := 0
	if page.Limit > 0 {
		pages = (total + page.Limit - 1) / page.Limit
	}
	return Meta{
		Page:       page.Number,
		Limit:      page.Limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page.Number < pages,
	}
}

// Meta is the pagination block of list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
}

func positive(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
