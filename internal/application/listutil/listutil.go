// Package listutil parses paging parameters for back-office list views.
package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 20

// MaxPerPage caps client-supplied page sizes.
const MaxPerPage = 100

// Params carries paging and search parameters parsed from a request.
type Params struct {
	Page    int // 1-indexed
	PerPage int
	Search  string
}

// Parse extracts page, per_page and q from URL query values.
// POST: Page >= 1 and 1 <= PerPage <= MaxPerPage
func Parse(q url.Values) Params {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Params{Page: page, PerPage: perPage, Search: strings.TrimSpace(q.Get("q"))}
}

// PageInfo carries pagination metadata for JSON and templates.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPageInfo computes pagination metadata, clamping page into range.
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	page = min(max(page, 1), totalPages)
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the SQL OFFSET for the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// HasPrev reports whether a previous page exists.
func (p PageInfo) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a next page exists.
func (p PageInfo) HasNext() bool { return p.Page < p.TotalPages }
