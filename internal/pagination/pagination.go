// Package pagination slices fully-fetched result sets into pages. The
// list endpoints read whole partitions and cut them here; only the
// before-timestamp path narrows server-side.
package pagination

import "errors"

var ErrInvalidPageRequest = errors.New("page and limit must be at least 1")

type Page[T any] struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Data  []T `json:"data"`
}

// Paginate returns the 1-based page of items with the original total
// length. Out-of-range pages yield an empty page, invalid inputs fail.
func Paginate[T any](items []T, page, limit int) (Page[T], error) {
	if page < 1 || limit < 1 {
		return Page[T]{}, ErrInvalidPageRequest
	}
	start := (page - 1) * limit
	end := start + limit
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	return Page[T]{
		Total: len(items),
		Page:  page,
		Limit: limit,
		Data:  items[start:end],
	}, nil
}
