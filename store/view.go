package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// SortKey names the column a view is ordered by.
type SortKey string

const (
	SortNone  SortKey = ""
	SortBrand SortKey = "brand"
	SortColor SortKey = "color"
	SortSize  SortKey = "size"
	SortCount SortKey = "count"
)

// ParseSortKey converts a column name to a SortKey. "" and "none" keep
// insertion order.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNone, SortBrand, SortColor, SortSize, SortCount:
		return k, nil
	case "none":
		return SortNone, nil
	default:
		return SortNone, fmt.Errorf("unknown sort column %q", s)
	}
}

// ViewOptions selects and orders rows for display.
type ViewOptions struct {
	Sort       SortKey
	Descending bool

	// Filter keeps rows whose brand, color or size contains it, ignoring case.
	Filter string
}

// View returns the rows of entries matching opts, in the requested order.
// entries is not modified; ties keep their stored order.
func View(entries []Entry, opts ViewOptions) []Entry {
	q := strings.ToLower(strings.TrimSpace(opts.Filter))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if q == "" ||
			strings.Contains(strings.ToLower(e.Brand), q) ||
			strings.Contains(strings.ToLower(e.Color), q) ||
			strings.Contains(strings.ToLower(e.Size), q) {
			out = append(out, e)
		}
	}

	cmp := comparator(opts.Sort)
	if cmp == nil {
		return out
	}
	if opts.Descending {
		asc := cmp
		cmp = func(a, b Entry) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, cmp)
	return out
}

// TotalItems returns the sum of all counts.
func TotalItems(entries []Entry) int {
	total := 0
	for _, e := range entries {
		total = addCount(total, e.Count)
	}
	return total
}

func comparator(key SortKey) func(a, b Entry) int {
	switch key {
	case SortBrand:
		return func(a, b Entry) int { return compareText(a.Brand, b.Brand) }
	case SortColor:
		return func(a, b Entry) int { return compareText(a.Color, b.Color) }
	case SortSize:
		return func(a, b Entry) int { return CompareSizes(a.Size, b.Size) }
	case SortCount:
		return func(a, b Entry) int { return a.Count - b.Count }
	default:
		return nil
	}
}

func compareText(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// CompareSizes orders size tokens. Numeric sizes and fractions ("6/7" by
// its quotient) compare by value and sort before text sizes, which compare
// case-insensitively.
func CompareSizes(a, b string) int {
	av, aok := sizeValue(a)
	bv, bok := sizeValue(b)
	switch {
	case aok && bok:
		return av.Cmp(bv)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return compareText(a, b)
	}
}

func sizeValue(size string) (decimal.Decimal, bool) {
	size = strings.TrimSpace(size)
	if strings.Contains(size, "/") && !strings.Contains(size, "-") {
		num, den, ok := strings.Cut(size, "/")
		if !ok || strings.Contains(den, "/") {
			return decimal.Zero, false
		}
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil || d.IsZero() {
			return decimal.Zero, false
		}
		return n.DivRound(d, 16), true
	}
	v, err := decimal.NewFromString(size)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
