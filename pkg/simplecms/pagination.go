package simplecms

const (
	DefaultContentPageSize = 10
	DefaultMediaPageSize   = 20
	MaxPageSize            = 100
)

// NormalizePage returns a 1-based page and a page size bounded to
// [1, MaxPageSize]. A zero page size selects defaultSize.
func NormalizePage(page, pageSize, defaultSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	switch {
	case pageSize == 0:
		pageSize = defaultSize
	case pageSize < 1:
		pageSize = 1
	case pageSize > MaxPageSize:
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// PageCount is ceil(total/pageSize), and 0 when there is nothing to show.
func PageCount(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Offset is the number of items before the first item of page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// Window returns items[offset:offset+limit] clipped to the slice bounds. A
// non-positive limit means no limit.
func Window[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}

// NewPage assembles a Page from one window of results.
func NewPage[T any](items []T, total, page, pageSize int) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:    items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    PageCount(total, pageSize),
	}
}
