package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jacentio/shoetally/sizeexpr"
	"github.com/jacentio/shoetally/store"
)

var (
	listSort   string
	listDesc   bool
	listFilter string

	decYes   bool
	clearYes bool
)

// addCmd adds sizes from an expression
var addCmd = &cobra.Command{
	Use:   "add [brand] [color] [sizes]",
	Short: "Add shoes of one brand and color from a size expression",
	Long: `Adds one unit per size the expression expands to. Rows that already
exist for the same brand, color and size have their count raised instead.

Examples:
  shoetally add Nike Red "38-40, 42*2"
  shoetally add "New Balance" Grey 6/7`,
	Args: cobra.ExactArgs(3),
	RunE: runAdd,
}

// expandCmd previews an expression without storing anything
var expandCmd = &cobra.Command{
	Use:   "expand [sizes]",
	Short: "Show the sizes a size expression expands to",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

// countCmd counts an expression without expanding it
var countCmd = &cobra.Command{
	Use:   "count [sizes]",
	Short: "Count the sizes a size expression expands to",
	Args:  cobra.ExactArgs(1),
	RunE:  runCount,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List inventory rows",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var incCmd = &cobra.Command{
	Use:   "inc [id]",
	Short: "Add one to a row's count",
	Args:  cobra.ExactArgs(1),
	RunE:  runInc,
}

var decCmd = &cobra.Command{
	Use:   "dec [id]",
	Short: "Subtract one from a row's count",
	Long: `Subtracts one from a row's count. A row with a count of one is only
removed when --yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runDec,
}

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Remove a row",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all rows and notes",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort by brand, color, size or count")
	listCmd.Flags().BoolVarP(&listDesc, "desc", "d", false, "Sort descending")
	listCmd.Flags().StringVarP(&listFilter, "filter", "f", "", "Only show rows whose brand, color or size contain this text")

	decCmd.Flags().BoolVarP(&decYes, "yes", "y", false, "Remove the row when its count is one")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Confirm removing everything")
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	res, err := inventory.AddExpression(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Added %d new row(s)", len(res.NewIDs))
	if res.Merged > 0 {
		fmt.Fprintf(out, ", merged %d size(s) into existing rows", res.Merged)
	}
	fmt.Fprintln(out)
	return nil
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	step, err := inventory.Step(ctx)
	if err != nil {
		return err
	}
	if n := sizeexpr.Count(args[0], step); n > inventory.Config().MaxSizesPerAdd {
		return fmt.Errorf("%w: %d sizes, limit is %d", store.ErrTooManySizes, n, inventory.Config().MaxSizesPerAdd)
	}
	sizes, err := sizeexpr.Parse(args[0], step)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(sizes, ", "))
	return nil
}

func runCount(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	step, err := inventory.Step(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), sizeexpr.Count(args[0], step))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	key, err := store.ParseSortKey(listSort)
	if err != nil {
		return err
	}
	entries, err := inventory.Entries(ctx)
	if err != nil {
		return err
	}
	rows := store.View(entries, store.ViewOptions{Sort: key, Descending: listDesc, Filter: listFilter})
	printEntries(cmd.OutOrStdout(), rows)
	return nil
}

func runInc(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	id, err := resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	e, err := inventory.Increment(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d\n", describe(e), e.Count)
	return nil
}

func runDec(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	id, err := resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	res, err := inventory.Decrement(ctx, id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !res.ConfirmDelete {
		fmt.Fprintf(out, "%s now has %d\n", describe(res.Entry), res.Entry.Count)
		return nil
	}
	if !decYes {
		fmt.Fprintf(out, "%s has a count of 1; run again with --yes to remove it\n", describe(res.Entry))
		return nil
	}
	removed, err := inventory.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %s\n", describe(removed))
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	id, err := resolveID(ctx, args[0])
	if err != nil {
		return err
	}
	removed, err := inventory.Delete(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", describe(removed))
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	if !clearYes {
		return errors.New("refusing to remove all data without --yes")
	}
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	if err := inventory.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "All data cleared")
	return nil
}

// resolveID accepts a full id or an unambiguous prefix of one.
func resolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", store.ErrNotFound
	}
	entries, err := inventory.Entries(ctx)
	if err != nil {
		return "", err
	}
	var match string
	for _, e := range entries {
		if e.ID == prefix {
			return e.ID, nil
		}
		if strings.HasPrefix(e.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = e.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("%w: %s", store.ErrNotFound, prefix)
	}
	return match, nil
}

func describe(e store.Entry) string {
	return fmt.Sprintf("%s %s size %s", e.Brand, e.Color, e.Size)
}

// shortID is the id prefix shown in listings.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func printEntries(w io.Writer, entries []store.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No shoes in inventory")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tBRAND\tCOLOR\tSIZE\tCOUNT")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n", shortID(e.ID), e.Brand, e.Color, e.Size, e.Count)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d row(s), %d item(s)\n", len(entries), store.TotalItems(entries))
}
