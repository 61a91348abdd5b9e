package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacentio/shoetally/catalog"
	"github.com/jacentio/shoetally/transfer"
)

var suggestLimit int

// catalogCmd manages the master catalog of brands and colors
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the master catalog of brands and colors",
}

var catalogLoadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Load a catalog file",
	Long: `Loads a catalog file mapping brand names to lists of colors, replacing
the stored catalog. The file may be plain JSON or a JavaScript declaration
such as:

  // brands
  const catalog = {"Nike": ["Red", "Black"]};`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogLoad,
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogShow,
}

var catalogClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored catalog",
	Args:  cobra.NoArgs,
	RunE:  runCatalogClear,
}

var catalogSuggestCmd = &cobra.Command{
	Use:   "suggest [brand|color] [query]",
	Short: "Suggest brands, or colors for a brand",
	Long: `Suggests known brands, or known colors for a brand, ranked by fuzzy
match against the query.

Examples:
  shoetally catalog suggest brand nk
  shoetally catalog suggest color Nike rd`,
	Args: cobra.RangeArgs(1, 3),
	RunE: runCatalogSuggest,
}

func init() {
	catalogSuggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", 10, "Maximum number of suggestions (0 for all)")

	catalogCmd.AddCommand(catalogLoadCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogClearCmd)
	catalogCmd.AddCommand(catalogSuggestCmd)
}

func runCatalogLoad(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, transfer.MaxImportSize+1))
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}
	if len(data) > transfer.MaxImportSize {
		return transfer.ErrTooLarge
	}

	st, err := catalogs.Import(ctx, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Catalog loaded: %d brand(s), %d color(s)\n", st.Brands, st.Colors)
	return nil
}

func runCatalogShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	c, err := catalogs.Load(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if len(c) == 0 {
		fmt.Fprintln(out, "No catalog loaded")
		return nil
	}
	for _, brand := range c.Brands() {
		fmt.Fprintf(out, "%s: %s\n", brand, strings.Join(c[brand], ", "))
	}
	st := c.Stats()
	fmt.Fprintf(out, "\n%d brand(s), %d color(s)\n", st.Brands, st.Colors)
	return nil
}

func runCatalogClear(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	if err := catalogs.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Catalog cleared")
	return nil
}

func runCatalogSuggest(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	c, err := catalogs.Load(ctx)
	if err != nil {
		return err
	}
	entries, err := inventory.Entries(ctx)
	if err != nil {
		return err
	}

	var candidates []string
	var query string
	switch args[0] {
	case "brand", "brands":
		candidates = catalog.Brands(c, entries)
		if len(args) > 1 {
			query = args[1]
		}
	case "color", "colors":
		if len(args) < 2 {
			return fmt.Errorf("color suggestions need a brand")
		}
		candidates = catalog.Colors(c, entries, args[1])
		if len(args) > 2 {
			query = args[2]
		}
	default:
		return fmt.Errorf("unknown suggestion kind %q, want brand or color", args[0])
	}

	for _, s := range catalog.Suggest(candidates, query, suggestLimit) {
		fmt.Fprintln(cmd.OutOrStdout(), s)
	}
	return nil
}
