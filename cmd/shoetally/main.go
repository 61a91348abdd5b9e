package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jacentio/shoetally/catalog"
	"github.com/jacentio/shoetally/internal/config"
	"github.com/jacentio/shoetally/internal/logging"
	"github.com/jacentio/shoetally/store"
)

var (
	// Global flags
	configPath string
	backend    string
	timeout    time.Duration

	// Set up by PersistentPreRunE
	cfg       *config.Config
	logger    *zap.Logger
	inventory *store.Store
	catalogs  *catalog.Store
	closeFn   func() error
)

// skipSetup marks commands that run without opening storage.
const skipSetup = "skip-setup"

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "shoetally",
	Short: "Track a shoe inventory by brand, color and size",
	Long: `shoetally keeps a tally of shoes by brand, color and size.

Sizes are entered as expressions: comma separated clauses where each clause
is a size (42), a range (38-40), a fraction (6/7) or any of those repeated
with a multiplier (42*3). Rows with the same brand, color and size are
merged and their counts added up.

Run "shoetally shell" for an interactive session with autosave.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.Storage.Backend = backend
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger, err = logging.New(cfg.Logging)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if cmd.Annotations[skipSetup] == "true" {
			return nil
		}
		return openStores(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		defer func() {
			if logger != nil {
				_ = logger.Sync()
			}
		}()
		if closeFn != nil {
			err := closeFn()
			closeFn = nil
			return err
		}
		return nil
	},
}

// openStores opens the configured backend and builds the inventory and
// catalog stores on top of it.
func openStores(ctx context.Context) error {
	slots, closer, err := openSlots(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	closeFn = closer

	storeCfg := store.DefaultConfig()
	storeCfg.MaxSizesPerAdd = cfg.Inventory.MaxSizesPerAdd
	inventory = store.New(slots, storeCfg, logger.Named("store"))
	catalogs = catalog.NewStore(slots, catalog.DefaultKey, logger.Named("catalog"))
	return nil
}

// withTimeout bounds a command by the --timeout flag.
func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Configuration file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Storage backend: file, sqlite, dynamodb or memory (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for a single command")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(expandCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(incCmd)
	rootCmd.AddCommand(decCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(notesCmd)
	rootCmd.AddCommand(prefsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
