package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jacentio/shoetally/kv/dynamokv"
)

var (
	notesClear  bool
	configForce bool
)

var notesCmd = &cobra.Command{
	Use:   "notes [text]",
	Short: "Show or replace the inventory notes",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runNotes,
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change preferences",
}

var prefsHalfSizesCmd = &cobra.Command{
	Use:   "half-sizes [true|false]",
	Short: "Show or set whether ranges include half sizes",
	Long: `When half sizes are on, a range such as 38-40 expands in steps of 0.5
(38, 38.5, 39, 39.5, 40) instead of whole sizes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrefsHalfSizes,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Write a configuration file with the current settings",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Print the effective configuration",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runConfigShow,
}

var configCreateTableCmd = &cobra.Command{
	Use:         "create-table",
	Short:       "Create the DynamoDB table for the dynamodb backend",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipSetup: "true"},
	RunE:        runConfigCreateTable,
}

func init() {
	notesCmd.Flags().BoolVar(&notesClear, "clear", false, "Remove the notes")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing file")

	prefsCmd.AddCommand(prefsHalfSizesCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCreateTableCmd)
}

func runNotes(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	switch {
	case notesClear:
		if err := inventory.SetNotes(ctx, ""); err != nil {
			return err
		}
		fmt.Fprintln(out, "Notes cleared")
	case len(args) == 1:
		if err := inventory.SetNotes(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintln(out, "Notes saved")
	default:
		notes, err := inventory.Notes(ctx)
		if err != nil {
			return err
		}
		if strings.TrimSpace(notes) == "" {
			fmt.Fprintln(out, "No notes")
			return nil
		}
		fmt.Fprintln(out, notes)
	}
	return nil
}

func runPrefsHalfSizes(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	if len(args) == 1 {
		v, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", args[0])
		}
		if err := inventory.SetIncludeHalfSizes(ctx, v); err != nil {
			return err
		}
	}
	half, err := inventory.IncludeHalfSizes(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "half-sizes: %t\n", half)
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(configPath); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config: %w", err)
	}
	if err := cfg.Save(configPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigCreateTable(cmd *cobra.Command, args []string) error {
	ctx, cancel := withTimeout(cmd)
	defer cancel()

	client, err := newDynamoClient(ctx, cfg.Storage.DynamoDB)
	if err != nil {
		return err
	}
	if err := dynamokv.EnsureTable(ctx, client, cfg.Storage.DynamoDB.Table, 2*time.Minute); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Table %s is ready\n", cfg.Storage.DynamoDB.Table)
	return nil
}
