package models

// Page is one window of an ordered listing.
type Page[T any] struct {
	Items   []T  `json:"items"`
	Page    int  `json:"page"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// NewPage trims a result fetched with limit perPage+1 and fills the
// navigation flags.
func NewPage[T any](items []T, page, perPage int) Page[T] {
	hasNext := len(items) > perPage
	if hasNext {
		items = items[:perPage]
	}
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, Page: page, HasNext: hasNext, HasPrev: page > 1}
}

// Offset returns the row offset of a 1-based page, clamping page to 1.
func Offset(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	return page, (page - 1) * perPage
}
