// Package config loads asql configuration from defaults, the asql.yaml
// file, ASQL_ environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/leapstack-labs/asql/pkg/catalog"
)

// CatalogConfig selects and configures the schema catalog provider.
type CatalogConfig struct {
	Type    string        `koanf:"type"`    // builtin, file, sqlite, postgres
	Path    string        `koanf:"path"`    // schema file or sqlite database
	DSN     string        `koanf:"dsn"`     // database connection string
	Schema  string        `koanf:"schema"`  // postgres schema
	Timeout time.Duration `koanf:"timeout"` // catalog load timeout
}

// REPLConfig holds interactive shell settings.
type REPLConfig struct {
	Prompt      string `koanf:"prompt"`
	HistoryFile string `koanf:"history_file"`
}

// Config holds all configuration options.
type Config struct {
	Catalog        CatalogConfig `koanf:"catalog"`
	Output         string        `koanf:"output"`
	LogLevel       string        `koanf:"log_level"`
	FirstErrorOnly bool          `koanf:"first_error_only"`
	REPL           REPLConfig    `koanf:"repl"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Source returns the catalog source described by the configuration.
func (c *Config) Source() catalog.Source {
	return catalog.Source{
		Type:   strings.ToLower(c.Catalog.Type),
		Path:   c.Catalog.Path,
		DSN:    c.Catalog.DSN,
		Schema: c.Catalog.Schema,
	}
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Validate checks that enumerated options hold known values.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.Output) {
		return fmt.Errorf("invalid output %q (expected one of %s)", c.Output, strings.Join(OutputModes, ", "))
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Catalog.Timeout < 0 {
		return fmt.Errorf("catalog.timeout must not be negative")
	}
	src := c.Source()
	if _, ok := catalog.Get(src.Type); !ok {
		return &catalog.UnknownProviderError{Name: src.Type, Available: catalog.List()}
	}
	return nil
}
