package sizeexpr

import "github.com/shopspring/decimal"

// Step is the increment used when enumerating numeric ranges.
type Step int

const (
	// Whole enumerates ranges in steps of 1 and rounds to integers.
	Whole Step = iota
	// Half enumerates ranges in steps of 0.5 and rounds to one decimal place.
	Half
)

// StepFor returns the step matching the "include half sizes" preference.
func StepFor(includeHalfSizes bool) Step {
	if includeHalfSizes {
		return Half
	}
	return Whole
}

// Increment returns the step size as a decimal (1 or 0.5).
func (s Step) Increment() decimal.Decimal {
	if s == Half {
		return decimal.New(5, -1)
	}
	return decimal.NewFromInt(1)
}

// places is the rounding precision applied to enumerated range values.
func (s Step) places() int32 {
	if s == Half {
		return 1
	}
	return 0
}

func (s Step) String() string {
	if s == Half {
		return "0.5"
	}
	return "1"
}
