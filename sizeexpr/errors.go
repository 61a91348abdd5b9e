package sizeexpr

import "errors"

var (
	// ErrEmptyInput is returned when the expression contains no clauses at all.
	ErrEmptyInput = errors.New("shoetally: size expression is empty")

	// ErrNoSizes is returned when a non-empty expression expands to zero sizes
	// (for example "42*0").
	ErrNoSizes = errors.New("shoetally: no valid sizes found")
)
