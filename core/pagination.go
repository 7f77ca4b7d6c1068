package core

import "math"

// PageRequest selects a window of a sorted result set. Page is 1-based.
type PageRequest struct {
	Page  int
	Limit int
}

func NewPageRequest(page, limit int) PageRequest {
	return PageRequest{Page: page, Limit: limit}
}

// Offset is the number of items before the page. It saturates at math.MaxInt.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit < 1 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}

// Window returns the [start:end) bounds of the page inside a slice of length n.
func (p PageRequest) Window(n int) (int, int) {
	start := p.Offset()
	if start > n {
		start = n
	}
	end := n
	if p.Limit > 0 && p.Limit < n-start {
		end = start + p.Limit
	}
	return start, end
}

type Pagination struct {
	Total     int64 `json:"total"`
	Page      int   `json:"page"`
	Limit     int   `json:"limit"`
	PageCount int64 `json:"pages"`
}

func NewPagination(total int64, p PageRequest) Pagination {
	var pages int64
	if p.Limit > 0 {
		pages = (total + int64(p.Limit) - 1) / int64(p.Limit)
	}
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, PageCount: pages}
}
