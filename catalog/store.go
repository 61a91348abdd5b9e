package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jacentio/shoetally/kv"
)

// DefaultKey is the slot the catalog is stored in.
const DefaultKey = "shoe_master_catalog"

// Store persists the catalog in one kv slot.
type Store struct {
	slots  kv.Slots
	key    string
	logger *zap.Logger
}

// NewStore creates a Store using key, or DefaultKey when key is empty.
// A nil logger discards log output.
func NewStore(slots kv.Slots, key string, logger *zap.Logger) *Store {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{slots: slots, key: key, logger: logger}
}

// Load returns the stored catalog, or nil when none is stored. A stored
// value that no longer decodes is logged and treated as absent.
func (s *Store) Load(ctx context.Context) (Catalog, error) {
	data, err := s.slots.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		s.logger.Warn("unreadable catalog, ignoring", zap.String("key", s.key), zap.Error(err))
		return nil, nil
	}
	return c, nil
}

// Save replaces the stored catalog.
func (s *Store) Save(ctx context.Context, c Catalog) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := s.slots.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	st := c.Stats()
	s.logger.Info("catalog saved", zap.Int("brands", st.Brands), zap.Int("colors", st.Colors))
	return nil
}

// Import parses a catalog file and saves it.
func (s *Store) Import(ctx context.Context, data []byte) (Stats, error) {
	c, err := Parse(data)
	if err != nil {
		return Stats{}, err
	}
	if err := s.Save(ctx, c); err != nil {
		return Stats{}, err
	}
	return c.Stats(), nil
}

// Clear removes the stored catalog.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.slots.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}
	return nil
}
