package sizeexpr

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// term is a clause without its multiplier: a single literal token or a
// numeric range. A plain number is a literal holding its canonical form.
type term struct {
	literal string
	span    *span
}

// span is an arithmetic progression of n values starting at start.
type span struct {
	start  decimal.Decimal
	delta  decimal.Decimal
	places int32
	n      int
}

// plan is a compiled clause: base repeated repeat times.
type plan struct {
	base   term
	repeat int
}

func (t term) len() int {
	if t.span != nil {
		return t.span.n
	}
	return 1
}

func (t term) appendTo(dst []string) []string {
	if t.span == nil {
		return append(dst, t.literal)
	}
	v := t.span.start
	for i := 0; i < t.span.n; i++ {
		dst = append(dst, v.Round(t.span.places).String())
		v = v.Add(t.span.delta)
	}
	return dst
}

// len saturates at math.MaxInt instead of overflowing.
func (p plan) len() int {
	n := p.base.len()
	if p.repeat == 0 || n == 0 {
		return 0
	}
	if n > math.MaxInt/p.repeat {
		return math.MaxInt
	}
	return n * p.repeat
}

func (p plan) appendTo(dst []string) []string {
	if p.repeat == 0 {
		return dst
	}
	start := len(dst)
	dst = p.base.appendTo(dst)
	once := dst[start:]
	for i := 1; i < p.repeat; i++ {
		dst = append(dst, once...)
	}
	return dst
}

// compile turns one trimmed clause into its plan. It never fails: anything
// outside the grammar becomes a single literal token.
//
// A multiplier needs a non-empty left side and a finite number on the
// right. The number is truncated toward zero and negative values repeat
// nothing, so "42*2.5" yields two sizes and "42*-1" none. A non-numeric
// right side, or more than one "*", makes the whole clause a literal.
func compile(clause string, step Step) plan {
	if strings.Contains(clause, "*") {
		parts := strings.Split(clause, "*")
		if len(parts) == 2 {
			left := strings.TrimSpace(parts[0])
			n, ok := parseNumber(parts[1])
			if ok && left != "" {
				return plan{base: compileTerm(left, step), repeat: repeatCount(n)}
			}
		}
	}
	return plan{base: compileTerm(clause, step), repeat: 1}
}

// repeatCount truncates n toward zero, clamped to [0, math.MaxInt].
func repeatCount(n decimal.Decimal) int {
	n = n.Truncate(0)
	switch {
	case n.Sign() <= 0:
		return 0
	case n.GreaterThanOrEqual(maxInt):
		return math.MaxInt
	default:
		return int(n.IntPart())
	}
}

var maxInt = decimal.NewFromInt(math.MaxInt)

// compileTerm handles the multiplier-free forms: fraction literal, range,
// number, free-text literal.
func compileTerm(clause string, step Step) term {
	hasDash := strings.Contains(clause, "-")

	if strings.Contains(clause, "/") && !hasDash {
		return term{literal: clause}
	}

	if hasDash {
		parts := strings.Split(clause, "-")
		if len(parts) == 2 {
			start, okStart := parseNumber(parts[0])
			end, okEnd := parseNumber(parts[1])
			if okStart && okEnd {
				return rangeTerm(start, end, step)
			}
		}
	}

	if n, ok := parseNumber(clause); ok {
		return term{literal: n.String()}
	}
	return term{literal: clause}
}

func rangeTerm(start, end decimal.Decimal, step Step) term {
	if start.Equal(end) {
		return term{literal: start.String()}
	}

	inc := step.Increment()
	delta := inc
	if start.GreaterThan(end) {
		delta = inc.Neg()
	}

	// Values start + i*inc for i in [0, n) stay within the inclusive bound.
	// n saturates at math.MaxInt like the plan and clause totals.
	steps := end.Sub(start).Abs().Div(inc).Floor()
	n := math.MaxInt
	if steps.LessThan(maxInt) {
		n = int(steps.IntPart()) + 1
	}

	return term{span: &span{
		start:  start,
		delta:  delta,
		places: step.places(),
		n:      n,
	}}
}

// parseNumber accepts finite decimal numbers only ("10", "10.5", ".5",
// "1e3"). Values outside the float64 range, such as "1e400", are not
// numbers; the result is rebuilt from the float64 value so its digits stay
// bounded.
func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return decimal.Decimal{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Decimal{}, false
	}
	return decimal.NewFromFloat(f), true
}

// Expand expands a single clause (no commas) into its size tokens.
// Surrounding whitespace is ignored; an empty clause expands to nothing.
func Expand(clause string, step Step) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil
	}
	p := compile(clause, step)
	return p.appendTo(make([]string, 0, min(p.len(), 1024)))
}
