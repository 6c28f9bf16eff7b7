package pagination

import "errors"

// ErrInvalidParameter reports a negative limit or offset.
var ErrInvalidParameter = errors.New("invalid_pagination_parameter")

// DefaultLimit is applied when a caller does not specify one.
const DefaultLimit = 10

// Page is a limit/offset window over a list read.
// A nil Limit means unbounded.
type Page struct {
	Limit  *int
	Offset int
}

// Default returns the standard ten-row first page.
func Default() Page {
	limit := DefaultLimit
	return Page{Limit: &limit}
}

// WithLimit returns a page with an explicit limit.
func WithLimit(limit, offset int) Page {
	return Page{Limit: &limit, Offset: offset}
}

// Unbounded returns a page that retrieves every row past offset.
func Unbounded() Page {
	return Page{}
}

// Validate rejects negative limits and offsets.
func (p Page) Validate() error {
	if p.Limit != nil && *p.Limit < 0 {
		return ErrInvalidParameter
	}
	if p.Offset < 0 {
		return ErrInvalidParameter
	}
	return nil
}
