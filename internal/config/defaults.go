package config

import (
	"os"
	"path/filepath"

	"github.com/leapstack-labs/asql/pkg/catalog"
)

// Default configuration values.
const (
	DefaultOutput         = "auto"
	DefaultLogLevel       = "warn"
	DefaultPrompt         = "asql> "
	DefaultCatalogTimeout = "10s"
	DefaultHistoryName    = ".asql_history"
)

// OutputModes lists the accepted values of the output option.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// defaults returns the lowest-priority configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"catalog.type":      catalog.ProviderBuiltin,
		"catalog.timeout":   DefaultCatalogTimeout,
		"output":            DefaultOutput,
		"log_level":         DefaultLogLevel,
		"first_error_only":  false,
		"repl.prompt":       DefaultPrompt,
		"repl.history_file": defaultHistoryFile(),
	}
}

// defaultHistoryFile returns ~/.asql_history, or an empty string (no
// history) when the home directory is unknown.
func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, DefaultHistoryName)
}
