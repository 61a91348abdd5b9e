// Package kv defines the named-slot storage the inventory persists into.
//
// A slot holds one opaque value that is always read and replaced whole, the
// same way a browser's local storage holds one string per key. Backends live
// in subpackages:
//
//   - [github.com/jacentio/shoetally/kv/filekv]: one file per slot, atomic replace
//   - [github.com/jacentio/shoetally/kv/sqlitekv]: one row per slot in SQLite
//   - [github.com/jacentio/shoetally/kv/dynamokv]: one DynamoDB item per slot with version locking
//
// [Memory] is an in-process implementation for tests and ephemeral sessions.
package kv

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned by Get when the slot has never been written or was deleted.
	ErrNotFound = errors.New("shoetally: slot not found")

	// ErrConcurrentModification is returned by Put when another writer replaced
	// the slot after it was last read.
	ErrConcurrentModification = errors.New("shoetally: slot was modified concurrently")

	// ErrInvalidKey is returned for blank keys or keys a backend cannot represent.
	ErrInvalidKey = errors.New("shoetally: invalid slot key")
)

// Slots reads and replaces whole values by key.
type Slots interface {
	// Get returns the current value of key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put replaces the value of key. A failed Put leaves the previous value intact.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// ValidKey reports whether key is usable by every backend.
func ValidKey(key string) bool {
	if strings.TrimSpace(key) == "" {
		return false
	}
	return !strings.ContainsAny(key, "/\\\x00")
}
