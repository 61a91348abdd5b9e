// Package sqlitekv stores slots as rows of a SQLite table using the pure-Go
// modernc.org/sqlite driver.
package sqlitekv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/jacentio/shoetally/kv"
)

const schema = `
CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// Store is a SQLite-backed kv.Slots.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

var _ kv.Slots = (*Store)(nil)

// Open opens (creating if necessary) the database at path and ensures the
// slots table exists.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path == "" {
		return nil, errors.New("sqlitekv: database path is required")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Debug("failed to set sqlite busy_timeout", zap.Error(err))
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.Debug("failed to set sqlite journal_mode=WAL", zap.Error(err))
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	logger.Debug("opened sqlite slot store", zap.String("path", path))
	return &Store{db: db, path: path, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get implements kv.Slots.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if !kv.ValidKey(key) {
		return nil, kv.ErrInvalidKey
	}
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put implements kv.Slots.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if !kv.ValidKey(key) {
		return kv.ErrInvalidKey
	}
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

// Delete implements kv.Slots.
func (s *Store) Delete(ctx context.Context, key string) error {
	if !kv.ValidKey(key) {
		return kv.ErrInvalidKey
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key)
	return err
}
