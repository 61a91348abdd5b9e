package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/jacentio/shoetally/internal/fingerprint"
	"github.com/jacentio/shoetally/kv"
	"github.com/jacentio/shoetally/sizeexpr"
)

// Store holds the inventory collection in a kv.Slots backend.
type Store struct {
	slots  kv.Slots
	config Config
	logger *zap.Logger

	mu         sync.Mutex
	dirty      bool
	lastDigest string
}

// New creates a new Store. A nil logger discards log output.
func New(slots kv.Slots, config Config, logger *zap.Logger) *Store {
	config.validate()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		slots:  slots,
		config: config,
		logger: logger,
	}
}

// Config returns the effective configuration.
func (s *Store) Config() Config { return s.config }

// AddResult reports the outcome of adding sizes or importing rows.
type AddResult struct {
	// NewIDs lists the ids of rows created by the call, in creation order.
	NewIDs []string

	// Merged counts sizes or rows that were folded into an existing row.
	Merged int
}

// DecrementResult reports the outcome of Decrement.
type DecrementResult struct {
	Entry Entry

	// ConfirmDelete is set when the entry had a count of 1. Nothing was
	// written; the caller decides whether to Delete it.
	ConfirmDelete bool
}

// Entries loads and returns the current collection.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the entry with the given id.
func (s *Store) Get(ctx context.Context, id string) (Entry, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return Entry{}, err
	}
	i := indexOf(entries, id)
	if i < 0 {
		return Entry{}, ErrNotFound
	}
	return entries[i], nil
}

// AddParsedSizes adds one unit of each size for brand and color. Sizes are
// applied in order against the collection as it grows, so repeated sizes in
// one call collapse into a single row.
func (s *Store) AddParsedSizes(ctx context.Context, brand, color string, sizes []string) (AddResult, error) {
	if len(sizes) == 0 {
		return AddResult{}, sizeexpr.ErrNoSizes
	}

	var res AddResult
	_, err := s.mutate(ctx, func(entries []Entry) ([]Entry, bool, error) {
		var out []Entry
		out, res = addSizes(entries, brand, color, sizes, s.config.NewID)
		return out, true, nil
	})
	if err != nil {
		return AddResult{}, err
	}
	s.logger.Debug("added sizes",
		zap.String("brand", brand),
		zap.String("color", color),
		zap.Int("sizes", len(sizes)),
		zap.Int("new", len(res.NewIDs)),
		zap.Int("merged", res.Merged),
	)
	return res, nil
}

// AddExpression parses input with the stored half-size preference and adds
// the resulting sizes. The expression is counted first and rejected with
// ErrTooManySizes when it exceeds Config.MaxSizesPerAdd.
func (s *Store) AddExpression(ctx context.Context, brand, color, input string) (AddResult, error) {
	brand, color = strings.TrimSpace(brand), strings.TrimSpace(color)
	if brand == "" || color == "" || strings.TrimSpace(input) == "" {
		return AddResult{}, ErrInvalidEntry
	}

	step, err := s.Step(ctx)
	if err != nil {
		return AddResult{}, err
	}
	if n := sizeexpr.Count(input, step); n > s.config.MaxSizesPerAdd {
		return AddResult{}, fmt.Errorf("%w: %d sizes, limit is %d", ErrTooManySizes, n, s.config.MaxSizesPerAdd)
	}
	sizes, err := sizeexpr.Parse(input, step)
	if err != nil {
		return AddResult{}, err
	}
	return s.AddParsedSizes(ctx, brand, color, sizes)
}

// Increment adds one to the count of the entry with the given id.
func (s *Store) Increment(ctx context.Context, id string) (Entry, error) {
	var updated Entry
	_, err := s.mutate(ctx, func(entries []Entry) ([]Entry, bool, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, false, ErrNotFound
		}
		entries[i].Count = addCount(entries[i].Count, 1)
		updated = entries[i]
		return entries, true, nil
	})
	return updated, err
}

// Decrement subtracts one from the count of the entry with the given id.
// An entry with count 1 is not modified; the result asks for confirmation
// instead.
func (s *Store) Decrement(ctx context.Context, id string) (DecrementResult, error) {
	var res DecrementResult
	_, err := s.mutate(ctx, func(entries []Entry) ([]Entry, bool, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, false, ErrNotFound
		}
		if entries[i].Count <= 1 {
			res = DecrementResult{Entry: entries[i], ConfirmDelete: true}
			return nil, false, nil
		}
		entries[i].Count--
		res = DecrementResult{Entry: entries[i]}
		return entries, true, nil
	})
	return res, err
}

// Delete removes the entry with the given id and returns it.
func (s *Store) Delete(ctx context.Context, id string) (Entry, error) {
	var removed Entry
	_, err := s.mutate(ctx, func(entries []Entry) ([]Entry, bool, error) {
		i := indexOf(entries, id)
		if i < 0 {
			return nil, false, ErrNotFound
		}
		removed = entries[i]
		return slices.Delete(entries, i, i+1), true, nil
	})
	return removed, err
}

// MergeImport normalizes rows and folds them into the collection: rows whose
// merge key already exists add their count to that row, the rest are
// appended. Rows not matched are left untouched.
func (s *Store) MergeImport(ctx context.Context, rows []RawEntry) (AddResult, error) {
	var res AddResult
	_, err := s.mutate(ctx, func(entries []Entry) ([]Entry, bool, error) {
		var out []Entry
		out, res = merge(entries, rows, s.config.NewID)
		return out, true, nil
	})
	if err != nil {
		return AddResult{}, err
	}
	s.logger.Info("merged import",
		zap.Int("rows", len(rows)),
		zap.Int("new", len(res.NewIDs)),
		zap.Int("merged", res.Merged),
	)
	return res, nil
}

// ReplaceAll discards the collection and stores the normalized rows as
// given, without merging. Duplicate ids are replaced with fresh ones.
func (s *Store) ReplaceAll(ctx context.Context, rows []RawEntry) ([]Entry, error) {
	out, err := s.mutate(ctx, func([]Entry) ([]Entry, bool, error) {
		return normalizeAll(rows, s.config.NewID), true, nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("replaced collection", zap.Int("rows", len(out)))
	return out, nil
}

// Clear empties the collection and the notes.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.ReplaceAll(ctx, nil); err != nil {
		return err
	}
	return s.SetNotes(ctx, "")
}

// Dirty reports whether anything changed since the last Flush.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush re-reads the collection and writes it back normalized if it differs
// from what this Store last wrote, then clears the dirty flag. It reports
// whether there was anything to flush.
func (s *Store) Flush(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return false, nil
	}

	entries, err := s.load(ctx)
	if err != nil {
		return false, err
	}
	if digest(entries) != s.lastDigest {
		if err := s.save(ctx, entries); err != nil {
			return false, err
		}
	}
	s.dirty = false
	return true, nil
}

func (s *Store) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
}

// mutate runs one load-modify-save cycle. fn reports whether it changed
// anything; nothing is written when it did not or when it failed.
func (s *Store) mutate(ctx context.Context, fn func([]Entry) ([]Entry, bool, error)) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	next, changed, err := fn(entries)
	if err != nil || !changed {
		return next, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}
	s.dirty = true
	return next, nil
}

// load reads the entries slot. Corrupt data yields an empty collection,
// which the next save overwrites.
func (s *Store) load(ctx context.Context) ([]Entry, error) {
	data, err := s.slots.Get(ctx, s.config.EntriesKey)
	if errors.Is(err, kv.ErrNotFound) {
		return []Entry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	entries, skipped, err := decodeSnapshot(data, s.config.NewID)
	if err != nil {
		s.logger.Warn("corrupt entries slot, starting empty",
			zap.String("key", s.config.EntriesKey),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return []Entry{}, nil
	}
	if skipped > 0 {
		s.logger.Warn("skipped malformed entries",
			zap.String("key", s.config.EntriesKey),
			zap.Int("skipped", skipped),
		)
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	if err := s.slots.Put(ctx, s.config.EntriesKey, data); err != nil {
		return fmt.Errorf("save entries: %w", err)
	}
	s.lastDigest = digest(entries)
	return nil
}

// DecodeSnapshot parses a persisted entries array and normalizes each row.
// Array elements that are not objects are dropped.
func DecodeSnapshot(data []byte) ([]Entry, error) {
	entries, _, err := decodeSnapshot(data, DefaultConfig().NewID)
	return entries, err
}

func decodeSnapshot(data []byte, newID func() string) ([]Entry, int, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		if json.Valid(trimmed) {
			return nil, 0, ErrNotArray
		}
		return nil, 0, fmt.Errorf("invalid JSON (%d bytes)", len(trimmed))
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, 0, err
	}

	rows := make([]RawEntry, 0, len(elems))
	skipped := 0
	for _, el := range elems {
		var raw RawEntry
		if t := bytes.TrimSpace(el); len(t) == 0 || t[0] != '{' || json.Unmarshal(t, &raw) != nil {
			skipped++
			continue
		}
		rows = append(rows, raw)
	}
	return normalizeAll(rows, newID), skipped, nil
}

// addSizes applies sizes to entries in order. entries is modified in place.
func addSizes(entries []Entry, brand, color string, sizes []string, newID func() string) ([]Entry, AddResult) {
	var res AddResult
	index := indexByKey(entries)
	brand, color = strings.TrimSpace(brand), strings.TrimSpace(color)

	for _, size := range sizes {
		e := Entry{Brand: brand, Color: color, Size: strings.TrimSpace(size), Count: 1}
		key := MergeKey(e)
		if i, ok := index[key]; ok {
			entries[i].Count = addCount(entries[i].Count, 1)
			res.Merged++
			continue
		}
		e.ID = newID()
		index[key] = len(entries)
		entries = append(entries, e)
		res.NewIDs = append(res.NewIDs, e.ID)
	}
	return entries, res
}

// Merge returns existing with rows folded in the way MergeImport does it,
// without touching storage or existing. It backs import dry runs.
func Merge(existing []Entry, rows []RawEntry) ([]Entry, AddResult) {
	return merge(slices.Clone(existing), rows, DefaultConfig().NewID)
}

func merge(entries []Entry, rows []RawEntry, newID func() string) ([]Entry, AddResult) {
	var res AddResult
	index := indexByKey(entries)
	ids := make(map[string]struct{}, len(entries)+len(rows))
	for _, e := range entries {
		ids[e.ID] = struct{}{}
	}

	for _, raw := range rows {
		e := normalize(raw, newID)
		key := MergeKey(e)
		if i, ok := index[key]; ok {
			entries[i].Count = addCount(entries[i].Count, e.Count)
			res.Merged++
			continue
		}
		if _, taken := ids[e.ID]; taken {
			e.ID = newID()
		}
		ids[e.ID] = struct{}{}
		index[key] = len(entries)
		entries = append(entries, e)
		res.NewIDs = append(res.NewIDs, e.ID)
	}
	return entries, res
}

func normalizeAll(rows []RawEntry, newID func() string) []Entry {
	out := make([]Entry, 0, len(rows))
	ids := make(map[string]struct{}, len(rows))
	for _, raw := range rows {
		e := normalize(raw, newID)
		if _, taken := ids[e.ID]; taken {
			e.ID = newID()
		}
		ids[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// indexByKey maps merge keys to the first row holding them.
func indexByKey(entries []Entry) map[string]int {
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		key := MergeKey(e)
		if _, ok := index[key]; !ok {
			index[key] = i
		}
	}
	return index
}

func indexOf(entries []Entry, id string) int {
	return slices.IndexFunc(entries, func(e Entry) bool { return e.ID == id })
}

func addCount(count, n int) int {
	if count > maxCount-n {
		return maxCount
	}
	return count + n
}

func digest(entries []Entry) string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = strings.Join([]string{e.ID, e.Brand, e.Color, e.Size, strconv.Itoa(e.Count)}, "\x00")
	}
	return fingerprint.Lines(lines)
}
