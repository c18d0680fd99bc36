package catalog

import "math"

// Page is one page of a listing. Page numbers start at 1.
type Page[T any] struct {
	Total   int64
	Page    int
	PerPage int
	Items   []T
}

func (p *Page[T]) HasNext() bool {
	if p.PerPage <= 0 || p.Page >= math.MaxInt {
		return false
	}
	pages := p.Total / int64(p.PerPage)
	if p.Total%int64(p.PerPage) != 0 {
		pages++
	}
	return int64(p.Page) < pages
}

func (p *Page[T]) HasPrev() bool {
	return p.Page > 1
}

// normalizePage maps anything below 1 to the first page.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// pageOffset returns the row offset of page. ok is false when the page
// starts at or past total, including pages whose offset does not fit an int.
func pageOffset(page, perPage int, total int64) (offset int, ok bool) {
	if perPage <= 0 || page < 1 || page-1 > math.MaxInt/perPage {
		return 0, false
	}
	offset = (page - 1) * perPage
	if int64(offset) >= total {
		return 0, false
	}
	return offset, true
}
