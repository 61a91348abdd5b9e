package sizeexpr

import (
	"math"
	"strings"
)

// clauses splits an expression on commas, trimming pieces and dropping empty ones.
func clauses(input string) []string {
	pieces := strings.Split(input, ",")
	out := pieces[:0]
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Parse expands a full size expression into size tokens, preserving clause
// order and the order within each clause.
//
// Malformed clauses become literal tokens. Parse only fails when there is
// nothing to add: ErrEmptyInput when the input holds no clauses and
// ErrNoSizes when the clauses expand to zero tokens.
func Parse(input string, step Step) ([]string, error) {
	pieces := clauses(input)
	if len(pieces) == 0 {
		return nil, ErrEmptyInput
	}

	plans := make([]plan, len(pieces))
	total := 0
	for i, piece := range pieces {
		plans[i] = compile(piece, step)
		total = addSat(total, plans[i].len())
	}
	if total == 0 {
		return nil, ErrNoSizes
	}

	sizes := make([]string, 0, min(total, 1<<16))
	for _, p := range plans {
		sizes = p.appendTo(sizes)
	}
	return sizes, nil
}

// Count returns the number of tokens Parse would produce for input, or 0
// when Parse would fail. It does not materialize the tokens.
func Count(input string, step Step) int {
	total := 0
	for _, piece := range clauses(input) {
		total = addSat(total, compile(piece, step).len())
	}
	return total
}

func addSat(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
