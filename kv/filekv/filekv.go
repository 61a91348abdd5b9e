// Package filekv stores slots as files in a directory, one file per key.
//
// Writes go to a temporary file in the same directory which is synced and
// then renamed over the destination, so a failed or interrupted Put never
// leaves a partially written slot behind.
package filekv

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacentio/shoetally/kv"
)

// Options configures a Store.
type Options struct {
	// Dir is the directory holding the slot files. Required.
	Dir string

	// PermFile and PermDir default to 0o644 and 0o755.
	PermFile os.FileMode
	PermDir  os.FileMode
}

// Store is a directory-backed kv.Slots.
type Store struct {
	dir   string
	permF os.FileMode
	permD os.FileMode
}

var _ kv.Slots = (*Store)(nil)

// New creates the directory if needed and returns a Store rooted at it.
func New(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Dir) == "" {
		return nil, errors.New("filekv: directory is required")
	}
	pf := opts.PermFile
	if pf == 0 {
		pf = 0o644
	}
	pd := opts.PermDir
	if pd == 0 {
		pd = 0o755
	}
	if err := os.MkdirAll(opts.Dir, pd); err != nil {
		return nil, err
	}
	return &Store{dir: opts.Dir, permF: pf, permD: pd}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) (string, error) {
	if !kv.ValidKey(key) || key == "." || key == ".." || strings.HasPrefix(key, ".tmp-") {
		return "", kv.ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

// Get implements kv.Slots.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, kv.ErrNotFound
	}
	return data, err
}

// Put implements kv.Slots.
func (s *Store) Put(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	return s.writeAtomic(p, value)
}

// Delete implements kv.Slots.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (s *Store) writeAtomic(dest string, value []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, s.permF)

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	// Best effort: persist the rename itself.
	_ = syncDir(dir)
	return nil
}

func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
