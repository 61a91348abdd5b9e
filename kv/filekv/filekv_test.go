package filekv_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/shoetally/kv"
	"github.com/jacentio/shoetally/kv/filekv"
)

func TestNew_RequiresDir(t *testing.T) {
	_, err := filekv.New(filekv.Options{})
	assert.Error(t, err)
}

func TestNew_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	s, err := filekv.New(filekv.Options{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := filekv.New(filekv.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	_, err = s.Get(ctx, "shoe_entries_json_v11.0")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Put(ctx, "shoe_entries_json_v11.0", []byte(`[{"id":"1"}]`)))
	require.NoError(t, s.Put(ctx, "shoe_entries_json_v11.0", []byte(`[]`)))

	got, err := s.Get(ctx, "shoe_entries_json_v11.0")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got))

	require.NoError(t, s.Delete(ctx, "shoe_entries_json_v11.0"))
	require.NoError(t, s.Delete(ctx, "shoe_entries_json_v11.0"))
	_, err = s.Get(ctx, "shoe_entries_json_v11.0")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := filekv.New(filekv.Options{Dir: dir})
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Put(ctx, "notes", []byte("v")))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "notes", entries[0].Name())
}

func TestStore_RejectsUnsafeKeys(t *testing.T) {
	ctx := context.Background()
	s, err := filekv.New(filekv.Options{Dir: t.TempDir()})
	require.NoError(t, err)

	for _, key := range []string{"", "..", ".", "../escape", "a/b", ".tmp-123"} {
		assert.ErrorIs(t, s.Put(ctx, key, []byte("x")), kv.ErrInvalidKey, "key %q", key)
		_, err := s.Get(ctx, key)
		assert.ErrorIs(t, err, kv.ErrInvalidKey, "key %q", key)
	}
}
