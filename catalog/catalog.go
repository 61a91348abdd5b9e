// Package catalog manages the master catalog of brands and their colors
// that powers brand and color suggestions.
//
// A catalog file is a JSON object mapping brand names to arrays of color
// names. Files copied out of JavaScript source (a const declaration with
// comments and a trailing semicolon) are accepted too.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jacentio/shoetally/internal/jsonish"
)

var (
	// ErrNotObject is returned when the catalog is not a JSON object.
	ErrNotObject = errors.New("shoetally: catalog must be an object")

	// ErrArray is returned when the catalog is an array instead of an object.
	ErrArray = errors.New("shoetally: catalog should be an object with brands as keys, not an array")

	// ErrEmpty is returned when the catalog holds no brands.
	ErrEmpty = errors.New("shoetally: catalog is empty - no brands found")

	// ErrInvalidBrand is returned when a brand's value is not a list of strings.
	ErrInvalidBrand = errors.New("shoetally: invalid brand colors")
)

// Catalog maps brand names to color names.
type Catalog map[string][]string

// Stats summarizes a catalog.
type Stats struct {
	Brands int `json:"brands"`
	Colors int `json:"colors"`
}

// Stats returns the number of brands and the total number of colors.
func (c Catalog) Stats() Stats {
	st := Stats{Brands: len(c)}
	for _, colors := range c {
		st.Colors += len(colors)
	}
	return st
}

// Brands returns the catalog's brand names sorted case-insensitively.
func (c Catalog) Brands() []string {
	brands := make([]string, 0, len(c))
	for b := range c {
		brands = append(brands, b)
	}
	sortFold(brands)
	return brands
}

// Parse decodes and validates a catalog file.
func Parse(data []byte) (Catalog, error) {
	var v any
	if err := jsonish.Decode(data, &v); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return Validate(v)
}

// Validate checks a decoded JSON value and converts it to a Catalog.
// Brands are checked in sorted order so the reported error is stable.
func Validate(v any) (Catalog, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		if _, isArray := v.([]any); isArray {
			return nil, ErrArray
		}
		return nil, ErrNotObject
	}
	if len(obj) == 0 {
		return nil, ErrEmpty
	}

	brands := make([]string, 0, len(obj))
	for b := range obj {
		brands = append(brands, b)
	}
	sort.Strings(brands)

	c := make(Catalog, len(obj))
	for _, brand := range brands {
		list, ok := obj[brand].([]any)
		if !ok {
			return nil, fmt.Errorf("%w: brand %q should have an array of colors", ErrInvalidBrand, brand)
		}
		colors := make([]string, 0, len(list))
		for _, item := range list {
			color, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: brand %q contains non-string color: %v", ErrInvalidBrand, brand, item)
			}
			colors = append(colors, color)
		}
		c[brand] = colors
	}
	return c, nil
}

func sortFold(s []string) {
	sort.SliceStable(s, func(i, j int) bool {
		a, b := strings.ToLower(s[i]), strings.ToLower(s[j])
		if a != b {
			return a < b
		}
		return s[i] < s[j]
	})
}
