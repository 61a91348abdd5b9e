package store

import "github.com/google/uuid"

// Config holds configuration for the Store.
type Config struct {
	// EntriesKey is the slot holding the JSON array of entries.
	// Default: "shoe_entries_json_v11.0"
	EntriesKey string

	// NotesKey is the slot holding free-text notes.
	// Default: "shoe_tracker_notes_v1"
	NotesKey string

	// HalfSizeKey is the slot holding the half-size preference ("true"/"false").
	// Default: "shoe_tracker_halfsize_v1"
	HalfSizeKey string

	// MaxSizesPerAdd is the largest number of sizes one expression may add.
	// The expression is counted before it is expanded, so oversized input
	// is rejected without allocating the tokens.
	// Default: 10000
	MaxSizesPerAdd int

	// NewID generates entry ids.
	// Default: uuid.NewString
	NewID func() string
}

// DefaultConfig returns the standard slot names and limits.
func DefaultConfig() Config {
	return Config{
		EntriesKey:     "shoe_entries_json_v11.0",
		NotesKey:       "shoe_tracker_notes_v1",
		HalfSizeKey:    "shoe_tracker_halfsize_v1",
		MaxSizesPerAdd: 10000,
		NewID:          uuid.NewString,
	}
}

// validate fills in defaults for empty values.
func (c *Config) validate() {
	d := DefaultConfig()
	if c.EntriesKey == "" {
		c.EntriesKey = d.EntriesKey
	}
	if c.NotesKey == "" {
		c.NotesKey = d.NotesKey
	}
	if c.HalfSizeKey == "" {
		c.HalfSizeKey = d.HalfSizeKey
	}
	if c.MaxSizesPerAdd < 1 {
		c.MaxSizesPerAdd = d.MaxSizesPerAdd
	}
	if c.NewID == nil {
		c.NewID = d.NewID
	}
}
