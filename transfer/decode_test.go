package transfer_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/shoetally/store"
	"github.com/jacentio/shoetally/transfer"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantRows  int
		wantNotes string
	}{
		{"bare array", `[{"brand":"Nike","color":"Red","size":"9","count":2}]`, 1, ""},
		{"notes wrapper", `{"notes":" keep dry ","data":[{"brand":"Nike"},{"brand":"Puma"}]}`, 2, "keep dry"},
		{"non string notes", `{"notes":5,"data":[{}]}`, 1, ""},
		{"pseudo code", "// backup\nconst data = [{\"brand\":\"Nike\"}, /* x */ {\"brand\":\"Vans\"}];", 2, ""},
		{"pseudo code wrapper", "let backup = {\"notes\":\"n\",\"data\":[{}]};", 1, "n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp, err := transfer.Decode(strings.NewReader(tt.in))
			require.NoError(t, err)
			assert.Len(t, imp.Rows, tt.wantRows)
			assert.Equal(t, tt.wantNotes, imp.Notes)
		})
	}
}

func TestDecode_RowsNormalize(t *testing.T) {
	imp, err := transfer.Decode(strings.NewReader(`[{"id":"a","brand":" Nike ","size":9,"count":"3"}]`))
	require.NoError(t, err)
	assert.Equal(t,
		store.Entry{ID: "a", Brand: "Nike", Size: "9", Count: 3},
		store.Normalize(imp.Rows[0]),
	)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty array", `[]`, transfer.ErrEmptyImport},
		{"empty wrapped", `{"data":[]}`, transfer.ErrEmptyImport},
		{"object without data", `{"notes":"x"}`, transfer.ErrNotArray},
		{"data not array", `{"data":{"brand":"Nike"}}`, transfer.ErrNotArray},
		{"number", `42`, transfer.ErrNotArray},
		{"garbage", `not json at all`, transfer.ErrNotArray},
		{"array of numbers", `[1,2]`, transfer.ErrNotArray},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := transfer.Decode(strings.NewReader(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_TooLarge(t *testing.T) {
	big := bytes.Repeat([]byte(" "), transfer.MaxImportSize)
	big = append(big, []byte(`[{}]`)...)
	_, err := transfer.Decode(bytes.NewReader(big))
	assert.ErrorIs(t, err, transfer.ErrTooLarge)
}

func TestCheckFileName(t *testing.T) {
	assert.NoError(t, transfer.CheckFileName("backup.json"))
	assert.NoError(t, transfer.CheckFileName("BACKUP.JSON"))
	assert.ErrorIs(t, transfer.CheckFileName("backup.xlsx"), transfer.ErrNotJSONFile)
	assert.ErrorIs(t, transfer.CheckFileName("json"), transfer.ErrNotJSONFile)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shoe-inventory-2024-05-01.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"brand":"Nike"}]`), 0o644))

	imp, err := transfer.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, imp.Rows, 1)

	_, err = transfer.ReadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte(`[]`), 0o644))
	_, err = transfer.ReadFile(txt)
	assert.ErrorIs(t, err, transfer.ErrNotJSONFile)
}
