package transfer

import (
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/jacentio/shoetally/store"
)

// ReportTitle heads the printable reports.
const ReportTitle = "Shoe Tracker - Inventory Report"

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: Arial, sans-serif; color: #333; }
h1 { text-align: center; color: #2c3e50; }
table { width: 100%; border-collapse: collapse; margin-bottom: 20px; text-align: center; font-size: 0.9rem; }
th, td { border: 1px solid #999; padding: 6px; }
thead tr { background: #f0f0f0; }
.notes { padding: 10px; border-left: 4px solid #2980b9; background: #f9f9f9; margin-top: 20px; white-space: pre-wrap; }
.footer { margin-top: 30px; font-size: 0.85rem; text-align: center; color: #666; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr><th>Brand</th><th>Color</th><th>Size</th><th>Count</th></tr></thead>
<tbody>
{{- range .Entries}}
<tr><td>{{.Brand}}</td><td>{{.Color}}</td><td>{{.Size}}</td><td>{{.Count}}</td></tr>
{{- end}}
</tbody>
</table>
{{- if .Notes}}
<div class="notes"><strong>Notes:</strong><br>{{.Notes}}</div>
{{- end}}
<p class="footer">Generated on: {{.GeneratedAt}}<br>Total items: {{.Total}}</p>
</body>
</html>
`))

type reportData struct {
	Title       string
	Entries     []store.Entry
	Notes       string
	GeneratedAt string
	Total       int
}

func newReportData(snap Snapshot) reportData {
	return reportData{
		Title:       ReportTitle,
		Entries:     snap.Entries,
		Notes:       snap.notes(),
		GeneratedAt: snap.generatedAt().Format("2006-01-02 15:04:05"),
		Total:       store.TotalItems(snap.Entries),
	}
}

// WriteHTML writes a self-contained printable HTML report.
func WriteHTML(w io.Writer, snap Snapshot) error {
	if len(snap.Entries) == 0 {
		return store.ErrNothingToExport
	}
	if err := reportTemplate.Execute(w, newReportData(snap)); err != nil {
		return fmt.Errorf("html report: %w", err)
	}
	return nil
}

// WritePDF writes the report as a Letter-size PDF.
func WritePDF(w io.Writer, snap Snapshot) error {
	if len(snap.Entries) == 0 {
		return store.ErrNothingToExport
	}
	data := newReportData(snap)

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(12.7, 12.7, 12.7)
	pdf.SetAutoPageBreak(true, 12.7)
	pdf.SetTitle(data.Title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	widths := []float64{60, 60, 40, 30}

	header := func() {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(240, 240, 240)
		for i, h := range tableHeader {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(44, 62, 80)
	pdf.CellFormat(0, 12, tr(data.Title), "", 1, "C", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.Ln(2)
	header()

	for _, e := range data.Entries {
		cells := []string{tr(e.Brand), tr(e.Color), tr(e.Size), strconv.Itoa(e.Count)}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if data.Notes != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, "Notes:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(data.Notes), "L", "L", false)
	}

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 5, "Generated on: "+data.GeneratedAt, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 5, "Total items: "+strconv.Itoa(data.Total), "", 1, "C", false, 0, "")

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf report: %w", err)
	}
	return nil
}
