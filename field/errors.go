package field

import "errors"

var (
	// ErrBounds reports a coordinate or pattern that does not fit the grid.
	ErrBounds = errors.New("field: out of bounds")

	// ErrShape reports ragged, empty or non-square cell data.
	ErrShape = errors.New("field: invalid shape")
)
