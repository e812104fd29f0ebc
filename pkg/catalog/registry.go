package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/leapstack-labs/asql/pkg/core"

	// Database drivers for the sqlite and postgres providers.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Source describes where a catalog comes from.
type Source struct {
	Type   string // provider name
	Path   string // file or sqlite database path
	DSN    string // connection string for sqlite or postgres
	Schema string // postgres schema, defaults to public
}

// Loader builds a catalog from a source.
type Loader func(ctx context.Context, src Source, logger *slog.Logger) (core.CatalogLister, error)

// Built-in provider names.
const (
	ProviderBuiltin  = "builtin"
	ProviderFile     = "file"
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Loader)
)

func init() {
	Register(ProviderBuiltin, loadBuiltin)
	Register(ProviderFile, loadFile)
	Register(ProviderSQLite, loadSQLite)
	Register(ProviderPostgres, loadPostgres)
}

// Register adds a catalog provider to the registry, replacing any provider
// of the same name.
func Register(name string, loader Loader) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = loader
}

// Get retrieves a provider by name.
func Get(name string) (Loader, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	l, ok := registry[name]
	return l, ok
}

// List returns all registered provider names (sorted).
func List() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open loads a catalog with the provider named by src.Type. An empty type
// selects the built-in demo catalog. A nil logger discards output.
func Open(ctx context.Context, src Source, logger *slog.Logger) (core.CatalogLister, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if src.Type == "" {
		src.Type = ProviderBuiltin
	}

	loader, ok := Get(src.Type)
	if !ok {
		return nil, &UnknownProviderError{Name: src.Type, Available: List()}
	}

	cat, err := loader(ctx, src, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s catalog: %w", src.Type, err)
	}
	logger.Debug("catalog loaded", "provider", src.Type, "tables", len(cat.Tables()))
	return cat, nil
}

// UnknownProviderError is returned when an unknown catalog provider is requested.
type UnknownProviderError struct {
	Name      string
	Available []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown catalog type %q\nAvailable catalogs: %v\nHint: Check catalog.type in asql.yaml", e.Name, e.Available)
}

func loadBuiltin(_ context.Context, _ Source, _ *slog.Logger) (core.CatalogLister, error) {
	return Demo(), nil
}

func loadFile(_ context.Context, src Source, logger *slog.Logger) (core.CatalogLister, error) {
	if src.Path == "" {
		return nil, fmt.Errorf("catalog.path is required")
	}
	logger.Debug("reading catalog file", "path", src.Path)
	return LoadFile(src.Path)
}

func loadSQLite(ctx context.Context, src Source, logger *slog.Logger) (core.CatalogLister, error) {
	dsn := src.DSN
	if dsn == "" {
		if src.Path == "" {
			return nil, fmt.Errorf("catalog.path or catalog.dsn is required")
		}
		dsn = "file:" + src.Path + "?mode=ro"
	}
	return loadDatabase(ctx, "sqlite", dsn, FlavorSQLite, "", logger)
}

func loadPostgres(ctx context.Context, src Source, logger *slog.Logger) (core.CatalogLister, error) {
	if src.DSN == "" {
		return nil, fmt.Errorf("catalog.dsn is required")
	}
	return loadDatabase(ctx, "pgx", src.DSN, FlavorPostgres, src.Schema, logger)
}

func loadDatabase(ctx context.Context, driver, dsn string, flavor Flavor, schema string, logger *slog.Logger) (core.CatalogLister, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		logger.Debug("closing database connection")
		_ = db.Close()
	}()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return LoadSQL(ctx, db, flavor, schema)
}
