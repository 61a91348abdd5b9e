package transfer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jacentio/shoetally/store"
)

// Format is an export file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatXLSX Format = "xlsx"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
)

// Formats lists the supported export formats.
var Formats = []Format{FormatJSON, FormatXLSX, FormatHTML, FormatPDF}

// ParseFormat converts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Snapshot is the data an export is rendered from.
type Snapshot struct {
	Entries []store.Entry
	Notes   string

	// GeneratedAt stamps reports. Zero means now.
	GeneratedAt time.Time
}

func (s Snapshot) notes() string { return strings.TrimSpace(s.Notes) }

func (s Snapshot) generatedAt() time.Time {
	if s.GeneratedAt.IsZero() {
		return time.Now()
	}
	return s.GeneratedAt
}

// Filename returns the conventional export file name for the day of t (UTC).
func Filename(f Format, t time.Time) string {
	return fmt.Sprintf("shoe-inventory-%s.%s", t.UTC().Format("2006-01-02"), f)
}

// Write renders snap in format f. An empty snapshot yields
// store.ErrNothingToExport and writes nothing.
func Write(w io.Writer, f Format, snap Snapshot) error {
	if len(snap.Entries) == 0 {
		return store.ErrNothingToExport
	}
	switch f {
	case FormatJSON:
		return WriteJSON(w, snap)
	case FormatXLSX:
		return WriteXLSX(w, snap)
	case FormatHTML:
		return WriteHTML(w, snap)
	case FormatPDF:
		return WritePDF(w, snap)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteJSON writes the entries as an indented JSON array, or as
// {"notes","data"} when there are notes.
func WriteJSON(w io.Writer, snap Snapshot) error {
	if len(snap.Entries) == 0 {
		return store.ErrNothingToExport
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if notes := snap.notes(); notes != "" {
		return enc.Encode(struct {
			Notes string        `json:"notes"`
			Data  []store.Entry `json:"data"`
		}{notes, snap.Entries})
	}
	return enc.Encode(snap.Entries)
}
