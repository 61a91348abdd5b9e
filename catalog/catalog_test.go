package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jacentio/shoetally/catalog"
	"github.com/jacentio/shoetally/kv"
)

func TestParse(t *testing.T) {
	c, err := catalog.Parse([]byte(`{"Nike":["Red","Black"],"Puma":[]}`))
	require.NoError(t, err)
	assert.Equal(t, catalog.Catalog{"Nike": {"Red", "Black"}, "Puma": {}}, c)
	assert.Equal(t, catalog.Stats{Brands: 2, Colors: 2}, c.Stats())
	assert.Equal(t, []string{"Nike", "Puma"}, c.Brands())
}

func TestParse_JavaScript(t *testing.T) {
	src := `// master list
const shoeCatalog = {
  "Adidas": ["White", "Core Black"], // classics
  /* "Reebok": ["Gum"], */
  "Asics": ["Blue"]
};`
	c, err := catalog.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Brands: 2, Colors: 3}, c.Stats())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    error
		message string
	}{
		{"array", `["Nike"]`, catalog.ErrArray, ""},
		{"string", `"Nike"`, catalog.ErrNotObject, ""},
		{"null", `null`, catalog.ErrNotObject, ""},
		{"empty", `{}`, catalog.ErrEmpty, ""},
		{"colors not array", `{"Nike":"Red"}`, catalog.ErrInvalidBrand, `brand "Nike" should have an array of colors`},
		{"non string color", `{"Nike":["Red", 4]}`, catalog.ErrInvalidBrand, `brand "Nike" contains non-string color: 4`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Parse([]byte(tt.in))
			assert.ErrorIs(t, err, tt.want)
			if tt.message != "" {
				assert.ErrorContains(t, err, tt.message)
			}
		})
	}

	_, err := catalog.Parse([]byte(`const c = {broken`))
	assert.ErrorContains(t, err, "parse catalog")
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemory()
	s := catalog.NewStore(slots, "", zaptest.NewLogger(t))

	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	st, err := s.Import(ctx, []byte(`{"Nike":["Red"]}`))
	require.NoError(t, err)
	assert.Equal(t, catalog.Stats{Brands: 1, Colors: 1}, st)

	raw, err := slots.Get(ctx, catalog.DefaultKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Nike":["Red"]}`, string(raw))

	c, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Catalog{"Nike": {"Red"}}, c)

	require.NoError(t, s.Clear(ctx))
	c, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestStore_ImportInvalidKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	s := catalog.NewStore(kv.NewMemory(), "", nil)
	require.NoError(t, s.Save(ctx, catalog.Catalog{"Vans": {"Black"}}))

	_, err := s.Import(ctx, []byte(`[]`))
	assert.ErrorIs(t, err, catalog.ErrArray)

	c, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Catalog{"Vans": {"Black"}}, c)
}

func TestStore_CorruptIsIgnored(t *testing.T) {
	ctx := context.Background()
	slots := kv.NewMemory()
	require.NoError(t, slots.Put(ctx, "cat", []byte(`not json`)))
	core, logs := observer.New(zapcore.WarnLevel)

	c, err := catalog.NewStore(slots, "cat", zap.New(core)).Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Equal(t, 1, logs.FilterMessage("unreadable catalog, ignoring").Len())
}
