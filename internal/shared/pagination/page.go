// Package pagination holds the page envelope shared by listing endpoints.
package pagination

const (
	DefaultPageSize = 9
	MaxPageSize     = 50
)

// Page is one slice of a paginated listing.
type Page[T any] struct {
	Items      []T `json:"items"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func (p Page[T]) HasNext() bool { return p.Page < p.TotalPages }

func (p Page[T]) HasPrev() bool { return p.Page > 1 }

// NextPage returns the following page number, or 0 on the last page.
func (p Page[T]) NextPage() int {
	if !p.HasNext() {
		return 0
	}
	return p.Page + 1
}

// NormalizePaging clamps page and limit to sane values.
func NormalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

// Paginate cuts items into the requested page. A page past the end yields an
// empty Items slice with correct totals.
func Paginate[T any](items []T, page, limit int) Page[T] {
	page, limit = NormalizePaging(page, limit)
	total := len(items)
	pages := (total + limit - 1) / limit
	start := total
	if page-1 < pages {
		start = (page - 1) * limit
	}
	end := start + limit
	if end > total {
		end = total
	}
	return Page[T]{
		Items:      append([]T{}, items[start:end]...),
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}
