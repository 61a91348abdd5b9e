// Package store provides the shoe inventory: entries, their normalization,
// merge keys and the operations that mutate the collection.
//
// Every operation is a full-snapshot read-modify-write against a [kv.Slots]
// backend: the entries slot is loaded, normalized, mutated in memory and
// written back as one JSON array. A failed write leaves the persisted
// collection exactly as it was.
//
// # Merge Keys
//
// Two entries are the same row when their brand, color and size match
// case-insensitively (see [MergeKey]). Adding a size that matches an
// existing row increments that row's count instead of inserting a new one,
// so the collection never holds two rows with the same merge key through
// [Store.AddParsedSizes] or [Store.MergeImport].
//
// # Adding Sizes
//
//	s := store.New(kv.NewMemory(), store.DefaultConfig(), logger)
//	res, err := s.AddExpression(ctx, "Nike", "Red", "38-40, 42*2")
//	// res.NewIDs holds the ids of rows that did not exist before.
//
// The range step comes from the half-size preference slot
// ([Store.IncludeHalfSizes]).
//
// # Configuration
//
// Use [DefaultConfig] for the slot names the tracker has always used.
// MaxSizesPerAdd caps how many tokens a single expression may expand to.
//
// # Errors
//
//   - [ErrNotFound] - no entry with the given id
//   - [ErrInvalidEntry] - brand, color or sizes missing
//   - [ErrTooManySizes] - expression expands past MaxSizesPerAdd
//   - [ErrNothingToExport] - the collection is empty
package store
