package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// maxCount caps coerced counts so arithmetic on them cannot overflow.
const maxCount = math.MaxInt32

// Entry is one inventory row.
type Entry struct {
	ID    string `json:"id"`
	Brand string `json:"brand"`
	Color string `json:"color"`
	Size  string `json:"size"`
	Count int    `json:"count"`
}

// RawEntry is an entry as found in persisted or imported JSON, before
// normalization. Fields hold whatever the JSON held: strings, numbers
// (float64), booleans, nil or nested values.
type RawEntry struct {
	ID    any `json:"id"`
	Brand any `json:"brand"`
	Color any `json:"color"`
	Size  any `json:"size"`
	Count any `json:"count"`
}

// Raw returns e as a RawEntry. Normalize(e.Raw()) == e for any normalized e.
func (e Entry) Raw() RawEntry {
	return RawEntry{ID: e.ID, Brand: e.Brand, Color: e.Color, Size: e.Size, Count: e.Count}
}

// MergeKey returns the case-insensitive identity of an entry's brand, color
// and size. Fields containing "|" can collide; no escaping is done.
func MergeKey(e Entry) string {
	return strings.ToLower(e.Brand) + "|" + strings.ToLower(e.Color) + "|" + strings.ToLower(e.Size)
}

// Normalize coerces raw into an Entry. Brand, color and size become trimmed
// strings; a missing or falsy id gets a fresh UUID; count becomes an integer
// of at least 1.
func Normalize(raw RawEntry) Entry {
	return normalize(raw, DefaultConfig().NewID)
}

func normalize(raw RawEntry, newID func() string) Entry {
	id := coerceString(raw.ID)
	if id == "" {
		id = newID()
	}
	return Entry{
		ID:    id,
		Brand: strings.TrimSpace(coerceString(raw.Brand)),
		Color: strings.TrimSpace(coerceString(raw.Color)),
		Size:  strings.TrimSpace(coerceString(raw.Size)),
		Count: coerceCount(raw.Count),
	}
}

// coerceString renders a JSON value as text. Falsy values (nil, false, 0,
// "") become the empty string; objects and arrays render as compact JSON.
func coerceString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return ""
	case float64:
		if x == 0 || math.IsNaN(x) {
			return ""
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		if x == 0 {
			return ""
		}
		return strconv.Itoa(x)
	case json.Number:
		if f, err := x.Float64(); err == nil && f == 0 {
			return ""
		}
		return x.String()
	default:
		// Objects and arrays keep their JSON text.
		data, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// coerceCount turns a JSON value into a count. Fractions truncate; anything
// below 1 or non-numeric becomes 1.
func coerceCount(v any) int {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 1
		}
		f = parsed
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 1
		}
		f = parsed
	case bool:
		return 1
	default:
		return 1
	}

	if math.IsNaN(f) {
		return 1
	}
	f = math.Trunc(f)
	if f < 1 {
		return 1
	}
	if f > maxCount {
		return maxCount
	}
	return int(f)
}
