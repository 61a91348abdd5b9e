package transfer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jacentio/shoetally/internal/jsonish"
	"github.com/jacentio/shoetally/store"
)

// MaxImportSize is the largest import file accepted, in bytes.
const MaxImportSize = 10 << 20

var (
	// ErrTooLarge is returned for import files over MaxImportSize.
	ErrTooLarge = errors.New("shoetally: file is too large (max 10MB)")

	// ErrNotJSONFile is returned when the import file name does not end in .json.
	ErrNotJSONFile = errors.New("shoetally: please select a JSON file")

	// ErrNotArray is returned when the file holds no array of entries.
	ErrNotArray = errors.New("shoetally: invalid format: data should be an array")

	// ErrEmptyImport is returned when the file holds an empty array.
	ErrEmptyImport = errors.New("shoetally: file is empty - nothing to import")
)

// Import is a decoded import file.
type Import struct {
	Rows []store.RawEntry

	// Notes holds the notes of a {"notes","data"} file, or "".
	Notes string
}

// CheckFileName rejects names without a .json extension.
func CheckFileName(name string) error {
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		return ErrNotJSONFile
	}
	return nil
}

// ReadFile checks and decodes the import file at path.
func ReadFile(path string) (Import, error) {
	if err := CheckFileName(path); err != nil {
		return Import{}, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return Import{}, err
	}
	if info.Size() > MaxImportSize {
		return Import{}, ErrTooLarge
	}

	f, err := os.Open(path)
	if err != nil {
		return Import{}, err
	}
	defer f.Close()
	return Decode(f)
}

// Decode reads an import file from r. Rows are returned as found; the
// store normalizes them when they are merged or stored.
func Decode(r io.Reader) (Import, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImportSize+1))
	if err != nil {
		return Import{}, fmt.Errorf("read import: %w", err)
	}
	if len(data) > MaxImportSize {
		return Import{}, ErrTooLarge
	}

	var raw json.RawMessage
	if err := jsonish.Decode(data, &raw); err != nil {
		return Import{}, fmt.Errorf("%w: %v", ErrNotArray, err)
	}

	var imp Import
	body := bytes.TrimSpace(raw)
	if len(body) > 0 && body[0] == '{' {
		var wrapped struct {
			Notes any             `json:"notes"`
			Data  json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapped); err != nil {
			return Import{}, fmt.Errorf("%w: %v", ErrNotArray, err)
		}
		if s, ok := wrapped.Notes.(string); ok {
			imp.Notes = strings.TrimSpace(s)
		}
		body = bytes.TrimSpace(wrapped.Data)
	}

	if len(body) == 0 || body[0] != '[' {
		return Import{}, ErrNotArray
	}
	if err := json.Unmarshal(body, &imp.Rows); err != nil {
		return Import{}, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	if len(imp.Rows) == 0 {
		return Import{}, ErrEmptyImport
	}
	return imp, nil
}
