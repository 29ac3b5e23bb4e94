package listutil

import (
	"net/url"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		query string
		want  Params
	}{
		{"", Params{Page: 1, PerPage: DefaultPerPage}},
		{"page=3&per_page=50&q=+ana+", Params{Page: 3, PerPage: 50, Search: "ana"}},
		{"page=-2&per_page=abc", Params{Page: 1, PerPage: DefaultPerPage}},
		{"per_page=5000", Params{Page: 1, PerPage: MaxPerPage}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, _ := url.ParseQuery(tt.query)
			if got := Parse(q); got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewPageInfo(t *testing.T) {
	tests := []struct {
		name                string
		page, perPage, tot  int
		wantPage, wantPages int
		wantOffset          int
	}{
		{"empty", 1, 20, 0, 1, 1, 0},
		{"middle", 2, 20, 45, 2, 3, 20},
		{"past end clamps", 9, 20, 45, 3, 3, 40},
		{"zero per page uses default", 1, 0, 10, 1, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPageInfo(tt.page, tt.perPage, tt.tot)
			if p.Page != tt.wantPage || p.TotalPages != tt.wantPages || p.Offset() != tt.wantOffset {
				t.Errorf("got %+v offset=%d", p, p.Offset())
			}
		})
	}
}

func TestPageInfo_PrevNext(t *testing.T) {
	p := NewPageInfo(2, 10, 30)
	if !p.HasPrev() || !p.HasNext() {
		t.Errorf("middle page prev/next = %v/%v", p.HasPrev(), p.HasNext())
	}
	last := NewPageInfo(3, 10, 30)
	if last.HasNext() {
		t.Error("last page reports a next page")
	}
}
