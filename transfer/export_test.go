package transfer_test

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jacentio/shoetally/store"
	"github.com/jacentio/shoetally/transfer"
)

var (
	exportTime    = time.Date(2024, 5, 1, 23, 30, 0, 0, time.FixedZone("PDT", -7*3600))
	exportEntries = []store.Entry{
		{ID: "1", Brand: "Nike", Color: "Red", Size: "9", Count: 2},
		{ID: "2", Brand: "Puma <Pro>", Color: "White & Gold", Size: "6/7", Count: 1},
	}
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "shoe-inventory-2024-05-02.json", transfer.Filename(transfer.FormatJSON, exportTime))
	assert.Equal(t, "shoe-inventory-2024-05-02.xlsx", transfer.Filename(transfer.FormatXLSX, exportTime))
}

func TestParseFormat(t *testing.T) {
	f, err := transfer.ParseFormat(" PDF ")
	require.NoError(t, err)
	assert.Equal(t, transfer.FormatPDF, f)

	_, err = transfer.ParseFormat("csv")
	assert.Error(t, err)
}

func TestWrite_Empty(t *testing.T) {
	for _, f := range transfer.Formats {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			err := transfer.Write(&buf, f, transfer.Snapshot{Notes: "x"})
			assert.ErrorIs(t, err, store.ErrNothingToExport)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, transfer.WriteJSON(&buf, transfer.Snapshot{Entries: exportEntries}))

	var rows []store.Entry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, exportEntries, rows)
	assert.Contains(t, buf.String(), "\n  {\n    \"id\": \"1\"")
	assert.Contains(t, buf.String(), "Puma <Pro>", "no HTML escaping")
}

func TestWriteJSON_WithNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, transfer.WriteJSON(&buf, transfer.Snapshot{Entries: exportEntries, Notes: "  restock soon \n"}))

	var doc struct {
		Notes string        `json:"notes"`
		Data  []store.Entry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "restock soon", doc.Notes)
	assert.Equal(t, exportEntries, doc.Data)

	imp, err := transfer.Decode(&buf)
	require.NoError(t, err, "exports import back")
	assert.Equal(t, "restock soon", imp.Notes)
	assert.Len(t, imp.Rows, 2)
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	snap := transfer.Snapshot{Entries: exportEntries, Notes: "restock soon"}
	require.NoError(t, transfer.Write(&buf, transfer.FormatXLSX, snap))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{transfer.SheetName}, f.GetSheetList())
	rows, err := f.GetRows(transfer.SheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 4)
	assert.Equal(t, []string{"Brand", "Color", "Size", "Count"}, rows[0])
	assert.Equal(t, []string{"Nike", "Red", "9", "2"}, rows[1])
	assert.Equal(t, []string{"Puma <Pro>", "White & Gold", "6/7", "1"}, rows[2])
	assert.Equal(t, []string{"Notes:", "restock soon"}, rows[len(rows)-1])

	cell, err := f.GetCellValue(transfer.SheetName, "A5")
	require.NoError(t, err)
	assert.Equal(t, "Notes:", cell, "notes follow one blank row")
}

func TestWriteXLSX_NoNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, transfer.WriteXLSX(&buf, transfer.Snapshot{Entries: exportEntries}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(transfer.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	snap := transfer.Snapshot{Entries: exportEntries, Notes: "<b>fragile</b>", GeneratedAt: exportTime}
	require.NoError(t, transfer.WriteHTML(&buf, snap))

	out := buf.String()
	assert.Contains(t, out, "<h1>"+transfer.ReportTitle+"</h1>")
	assert.Contains(t, out, "<td>Puma &lt;Pro&gt;</td>")
	assert.Contains(t, out, "White &amp; Gold")
	assert.Contains(t, out, "&lt;b&gt;fragile&lt;/b&gt;")
	assert.Contains(t, out, "Generated on: 2024-05-01 23:30:00")
	assert.Contains(t, out, "Total items: 3")
}

func TestWriteHTML_NoNotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, transfer.WriteHTML(&buf, transfer.Snapshot{Entries: exportEntries, Notes: "  "}))
	assert.NotContains(t, buf.String(), `class="notes"`)
}

func TestWritePDF(t *testing.T) {
	entries := make([]store.Entry, 0, 120)
	for i := 0; i < 120; i++ {
		entries = append(entries, store.Entry{ID: "x", Brand: "Adidas", Color: "Noir é", Size: "42", Count: 1})
	}

	var buf bytes.Buffer
	require.NoError(t, transfer.WritePDF(&buf, transfer.Snapshot{Entries: entries, Notes: "multi\nline notes", GeneratedAt: exportTime}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}
