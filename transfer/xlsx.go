package transfer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jacentio/shoetally/store"
)

// SheetName is the worksheet the spreadsheet export writes to.
const SheetName = "Shoe Inventory"

var tableHeader = []string{"Brand", "Color", "Size", "Count"}

// WriteXLSX writes a workbook with one row per entry under a
// Brand/Color/Size/Count header. Notes follow after a blank row.
func WriteXLSX(w io.Writer, snap Snapshot) error {
	if len(snap.Entries) == 0 {
		return store.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	header := make([]any, len(tableHeader))
	for i, h := range tableHeader {
		header[i] = h
	}
	if err := setRow(f, 1, header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "D1", bold); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}

	for i, e := range snap.Entries {
		if err := setRow(f, i+2, []any{e.Brand, e.Color, e.Size, e.Count}); err != nil {
			return err
		}
	}
	if notes := snap.notes(); notes != "" {
		if err := setRow(f, len(snap.Entries)+3, []any{"Notes:", notes}); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(SheetName, "A", "C", 18); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
		return fmt.Errorf("xlsx: row %d: %w", row, err)
	}
	return nil
}
