package catalog

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/jacentio/shoetally/store"
)

// Brands returns every known brand: those in c plus those used by entries,
// trimmed, without duplicates and sorted case-insensitively. c may be nil.
func Brands(c Catalog, entries []store.Entry) []string {
	set := newSet()
	for brand := range c {
		set.add(brand)
	}
	for _, e := range entries {
		set.add(e.Brand)
	}
	return set.sorted()
}

// Colors returns the colors known for brand: the catalog's colors for it
// plus colors of entries with exactly that brand. When that yields nothing,
// every known color is returned instead.
func Colors(c Catalog, entries []store.Entry, brand string) []string {
	if strings.TrimSpace(brand) == "" {
		return nil
	}

	set := newSet()
	for _, color := range c[brand] {
		set.add(color)
	}
	for _, e := range entries {
		if e.Brand == brand {
			set.add(e.Color)
		}
	}
	if len(set.items) > 0 {
		return set.sorted()
	}
	return AllColors(c, entries)
}

// AllColors returns every color in c and entries.
func AllColors(c Catalog, entries []store.Entry) []string {
	set := newSet()
	for _, colors := range c {
		for _, color := range colors {
			set.add(color)
		}
	}
	for _, e := range entries {
		set.add(e.Color)
	}
	return set.sorted()
}

// Suggest ranks candidates against query with case-insensitive fuzzy
// matching, best first, and returns at most limit of them (all when limit
// is not positive). An empty query returns the leading candidates as is.
func Suggest(candidates []string, query string, limit int) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return head(candidates, limit)
	}

	ranks := fuzzy.RankFindFold(query, candidates)
	sort.Stable(ranks)
	out := make([]string, len(ranks))
	for i, r := range ranks {
		out[i] = r.Target
	}
	return head(out, limit)
}

func head(s []string, limit int) []string {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

type set struct {
	items []string
	seen  map[string]struct{}
}

func newSet() *set { return &set{seen: make(map[string]struct{})} }

func (s *set) add(v string) {
	v = strings.TrimSpace(v)
	if v == "" {
		return
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}

func (s *set) sorted() []string {
	sortFold(s.items)
	return s.items
}
