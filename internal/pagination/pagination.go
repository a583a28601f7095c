package pagination

const (
	defaultPage     = 1
	defaultPageSize = 10
	maxPageSize     = 50
)

// Params identifies one page of an ordered result set
type Params struct {
	Page     int
	PageSize int
}

// Sanitize clamps the parameters into their valid ranges. Out-of-range
// values are defaulted, never rejected.
func (p Params) Sanitize() Params {
	if p.Page < 1 {
		p.Page = defaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

// Offset returns the zero-based offset of the first item on the page
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Page is a bounded slice of an ordered, filtered result set plus
// metadata describing its position within the whole.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
	TotalCount  int `json:"total_count"`
	TotalPages  int `json:"total_pages"`
}

// Meta is the position metadata of a page, surfaced to the transport
// layer as a response header.
type Meta struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

// New wraps items already sliced by the persistence layer into a page.
// A page number past the end yields an empty item list with unchanged
// metadata; it is not an error.
func New[T any](items []T, totalCount int, params Params) *Page[T] {
	totalPages := (totalCount + params.PageSize - 1) / params.PageSize
	return &Page[T]{
		Items:       items,
		CurrentPage: params.Page,
		PageSize:    params.PageSize,
		TotalCount:  totalCount,
		TotalPages:  totalPages,
	}
}

// Meta returns the page's position metadata
func (p *Page[T]) Meta() Meta {
	return Meta{
		CurrentPage:  p.CurrentPage,
		ItemsPerPage: p.PageSize,
		TotalItems:   p.TotalCount,
		TotalPages:   p.TotalPages,
	}
}

// Slice applies the page bounds to an in-memory ordered list. The
// persistence layer normally does this with LIMIT/OFFSET; this helper
// exists for sources that are already fully materialized.
func Slice[T any](items []T, params Params) []T {
	start := params.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + params.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
