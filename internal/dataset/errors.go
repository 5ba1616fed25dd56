package dataset

import (
	"errors"
	"fmt"
)

// ErrMissingField marks a row without a required value.
var ErrMissingField = errors.New("missing required field")

// ParseError describes a malformed dataset row. Rows that fail to parse
// are skipped by callers, never fatal.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
