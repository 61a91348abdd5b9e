// Package sizeexpr expands free-text shoe size expressions into concrete size tokens.
//
// An expression is a comma-separated list of clauses. Each clause is one of:
//
//	42        a single size (numeric sizes are canonicalized: "10.50" -> "10.5")
//	6/7       a fraction-style literal, kept verbatim
//	38-40     an inclusive range, enumerated with the current [Step]
//	40-38     a descending range
//	38-40*2   any of the above repeated n times (whole sequence, not interleaved)
//
// Clauses that do not fit the grammar are never rejected; they degrade to a
// single literal token so one bad clause does not discard its neighbours:
//
//	sizeexpr.Parse("38-40, 42*2, 6/7", sizeexpr.Whole)
//	// ["38" "39" "40" "42" "42" "6/7"]
//
// [Count] reports the number of tokens [Parse] would produce without
// materializing them. Both are driven by the same compiled clause plan, so
// they cannot disagree.
package sizeexpr
