package store

import "errors"

var (
	// ErrNotFound is returned when no entry has the requested id.
	ErrNotFound = errors.New("shoetally: entry not found")

	// ErrInvalidEntry is returned when brand, color or sizes are missing.
	ErrInvalidEntry = errors.New("shoetally: brand, color and sizes are required")

	// ErrTooManySizes is returned when an expression expands past Config.MaxSizesPerAdd.
	ErrTooManySizes = errors.New("shoetally: size expression expands to too many sizes")

	// ErrNotArray is returned by DecodeSnapshot for valid JSON that is not an array.
	ErrNotArray = errors.New("shoetally: entries are not an array")

	// ErrNothingToExport is returned when exporting an empty collection.
	ErrNothingToExport = errors.New("shoetally: no data to export")
)
