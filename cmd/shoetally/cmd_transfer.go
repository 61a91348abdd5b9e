package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jacentio/shoetally/store"
	"github.com/jacentio/shoetally/transfer"
)

var (
	importReplace bool
	importDryRun  bool

	exportOutput string
)

var importCmd = &cobra.Command{
	Use:   "import [file.json]",
	Short: "Import inventory rows from a JSON file",
	Long: `Imports rows from a JSON file holding an array of rows or an object
with "notes" and "data". By default rows are merged into the inventory:
rows with an existing brand, color and size add their count to it.
With --replace the inventory is replaced by the file contents.

Notes in the file replace the stored notes.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export [json|xlsx|html|pdf]",
	Short: "Export the inventory",
	Long: `Writes the inventory as JSON, an XLSX spreadsheet, a printable HTML
report or a PDF report. The file is named shoe-inventory-YYYY-MM-DD.<ext>
unless --output is given; "-" writes to standard output.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "xlsx", "html", "pdf"},
	RunE:      runExport,
}

func init() {
	importCmd.Flags().BoolVar(&importReplace, "replace", false, "Replace the inventory instead of merging")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Show the changes without saving them")

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: shoe-inventory-<date>.<ext>)")
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	imp, err := transfer.ReadFile(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	existing, err := inventory.Entries(ctx)
	if err != nil {
		return err
	}

	if importDryRun {
		var after []store.Entry
		if importReplace {
			after = make([]store.Entry, len(imp.Rows))
			for i, r := range imp.Rows {
				after[i] = store.Normalize(r)
			}
		} else {
			after, _ = store.Merge(existing, imp.Rows)
		}
		printChanges(cmd, store.Diff(existing, after))
		return nil
	}

	if importReplace {
		entries, err := inventory.ReplaceAll(ctx, imp.Rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Replaced inventory with %d row(s)\n", len(entries))
	} else {
		res, err := inventory.MergeImport(ctx, imp.Rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Imported %d new row(s), merged %d row(s)\n", len(res.NewIDs), res.Merged)
	}

	if imp.Notes != "" {
		if err := inventory.SetNotes(ctx, imp.Notes); err != nil {
			return err
		}
		fmt.Fprintln(out, "Notes updated")
	}
	return nil
}

func printChanges(cmd *cobra.Command, changes []store.Change) {
	out := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(out, "No changes")
		return
	}
	for _, c := range changes {
		switch c.Kind {
		case store.ChangeAdded:
			fmt.Fprintf(out, "+ %s %s %s (%d)\n", c.Brand, c.Color, c.Size, c.After)
		case store.ChangeRemoved:
			fmt.Fprintf(out, "- %s %s %s (%d)\n", c.Brand, c.Color, c.Size, c.Before)
		default:
			fmt.Fprintf(out, "~ %s %s %s (%d -> %d)\n", c.Brand, c.Color, c.Size, c.Before, c.After)
		}
	}
	fmt.Fprintf(out, "%d change(s)\n", len(changes))
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	format, err := transfer.ParseFormat(args[0])
	if err != nil {
		return err
	}
	entries, err := inventory.Entries(ctx)
	if err != nil {
		return err
	}
	notes, err := inventory.Notes(ctx)
	if err != nil {
		return err
	}
	snap := transfer.Snapshot{Entries: entries, Notes: notes, GeneratedAt: time.Now()}
	if len(entries) == 0 {
		return store.ErrNothingToExport
	}

	if exportOutput == "-" {
		return transfer.Write(cmd.OutOrStdout(), format, snap)
	}

	path := exportOutput
	if path == "" {
		path = transfer.Filename(format, snap.GeneratedAt)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := transfer.Write(f, format, snap); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write export file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", len(entries), path)
	return nil
}
