// Package config loads the shoetally configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendDynamoDB = "dynamodb"
	BackendMemory   = "memory"
)

// ValidBackends lists the supported storage backends.
var ValidBackends = []string{BackendFile, BackendSQLite, BackendDynamoDB, BackendMemory}

// ValidLogLevels lists the accepted logging levels.
var ValidLogLevels = []string{"debug", "info", "warn", "error"}

// Config is the root configuration.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Inventory InventoryConfig `yaml:"inventory"`
	Autosave  AutosaveConfig  `yaml:"autosave"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// StorageConfig selects and configures the slot backend.
type StorageConfig struct {
	Backend    string         `yaml:"backend"`     // file, sqlite, dynamodb, memory
	DataDir    string         `yaml:"data_dir"`    // file backend directory
	SQLitePath string         `yaml:"sqlite_path"` // sqlite database file
	DynamoDB   DynamoDBConfig `yaml:"dynamodb"`
}

// DynamoDBConfig configures the dynamodb backend.
type DynamoDBConfig struct {
	Table     string `yaml:"table"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`   // e.g. http://localhost:8000 for DynamoDB Local
	KeyPrefix string `yaml:"key_prefix"` // namespaces slots, e.g. "alice#"
}

// InventoryConfig holds inventory limits.
type InventoryConfig struct {
	MaxSizesPerAdd int `yaml:"max_sizes_per_add"`
}

// AutosaveConfig configures the background flush in the interactive shell.
type AutosaveConfig struct {
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultDir returns the directory holding configuration and local data:
// $XDG_CONFIG_HOME/shoetally or the platform equivalent.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".shoetally"
	}
	return filepath.Join(dir, "shoetally")
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		Storage: StorageConfig{
			Backend:    BackendFile,
			DataDir:    filepath.Join(dir, "data"),
			SQLitePath: filepath.Join(dir, "shoetally.db"),
			DynamoDB: DynamoDBConfig{
				Table: "shoetally_slots",
			},
		},
		Inventory: InventoryConfig{
			MaxSizesPerAdd: 10000,
		},
		Autosave: AutosaveConfig{
			Interval: 20 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("SHOETALLY_BACKEND"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("SHOETALLY_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv("SHOETALLY_SQLITE_PATH"); v != "" {
		c.Storage.SQLitePath = v
	}
	if v := os.Getenv("SHOETALLY_DYNAMODB_TABLE"); v != "" {
		c.Storage.DynamoDB.Table = v
	}
	if v := os.Getenv("SHOETALLY_DYNAMODB_ENDPOINT"); v != "" {
		c.Storage.DynamoDB.Endpoint = v
	}
	if v := os.Getenv("SHOETALLY_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidBackends, c.Storage.Backend) {
		return fmt.Errorf("invalid storage backend: %q (valid: %v)", c.Storage.Backend, ValidBackends)
	}
	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the file backend")
		}
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("storage.sqlite_path is required for the sqlite backend")
		}
	case BackendDynamoDB:
		if c.Storage.DynamoDB.Table == "" {
			return fmt.Errorf("storage.dynamodb.table is required for the dynamodb backend")
		}
	}
	if c.Inventory.MaxSizesPerAdd < 1 {
		return fmt.Errorf("inventory.max_sizes_per_add must be positive, got %d", c.Inventory.MaxSizesPerAdd)
	}
	if c.Autosave.Interval <= 0 {
		return fmt.Errorf("autosave.interval must be positive, got %s", c.Autosave.Interval)
	}
	if !slices.Contains(ValidLogLevels, c.Logging.Level) {
		return fmt.Errorf("invalid logging level: %q (valid: %v)", c.Logging.Level, ValidLogLevels)
	}
	return nil
}
