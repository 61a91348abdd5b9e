package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines_Deterministic(t *testing.T) {
	a := Lines([]string{"nike|red|9", "adidas|blue|10"})
	b := Lines([]string{"nike|red|9", "adidas|blue|10"})
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestLines_OrderMatters(t *testing.T) {
	assert.NotEqual(t,
		Lines([]string{"a", "b"}),
		Lines([]string{"b", "a"}),
	)
}

func TestLines_LengthPrefixed(t *testing.T) {
	assert.NotEqual(t, Lines([]string{"ab", "c"}), Lines([]string{"a", "bc"}))
}

func TestLines_Empty(t *testing.T) {
	assert.Equal(t, Lines(nil), Lines([]string{}))
	assert.NotEqual(t, Lines(nil), Lines([]string{""}))
}

func TestShort(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"digest", Lines([]string{"x"})},
		{"unicode", "日本語"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Short(tt.in)
			assert.Len(t, got, 8)
			assert.Equal(t, got, Short(tt.in))
		})
	}
	assert.NotEqual(t, Short("a"), Short("b"))
}
