// Package paginate slices ordered result sets into pages.
package paginate

import (
	"errors"
	"fmt"
)

// Page size limits and defaults
const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ErrInvalidPage is returned for a page below 1 or a size outside [1, MaxPageSize].
var ErrInvalidPage = errors.New("invalid page parameters")

// Result is one page of items.
type Result[T any] struct {
	Items      []T `json:"items"`
	TotalCount int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"rowsPerPage"`
}

// TotalPages returns the number of non-empty pages.
func (r Result[T]) TotalPages() int {
	if r.PageSize <= 0 {
		return 0
	}
	return (r.TotalCount + r.PageSize - 1) / r.PageSize
}

// Validate checks page parameters.
func Validate(page, pageSize int) error {
	if page < 1 {
		return fmt.Errorf("%w: page %d must be >= 1", ErrInvalidPage, page)
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		return fmt.Errorf("%w: page size %d must be in [1, %d]", ErrInvalidPage, pageSize, MaxPageSize)
	}
	return nil
}

// Paginate returns the requested page of items. A page past the end is
// empty, not an error. TotalCount is always len(items).
func Paginate[T any](items []T, page, pageSize int) (Result[T], error) {
	if err := Validate(page, pageSize); err != nil {
		return Result[T]{}, err
	}

	res := Result[T]{TotalCount: len(items), Page: page, PageSize: pageSize}

	if page > res.TotalPages() {
		res.Items = []T{}
		return res, nil
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	res.Items = items[start:end]
	return res, nil
}
