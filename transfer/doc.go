// Package transfer moves inventory data in and out of files.
//
// Imports accept a bare JSON array of entries, an object of the form
// {"notes": "...", "data": [...]}, or either of those wrapped as JavaScript
// source (see internal/jsonish). Exports are projections of a [Snapshot]:
// JSON, an XLSX spreadsheet, a printable HTML report and a PDF report.
package transfer
