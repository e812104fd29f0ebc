package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/leapstack-labs/asql/pkg/core"
)

// Flavor selects the schema query used by LoadSQL.
type Flavor string

// Supported database flavors.
const (
	FlavorSQLite   Flavor = "sqlite"
	FlavorPostgres Flavor = "postgres"
)

const sqliteColumnsQuery = `SELECT m.name, p.name, p.type
FROM sqlite_master AS m
JOIN pragma_table_info(m.name) AS p
WHERE m.type IN ('table', 'view') AND m.name NOT LIKE 'sqlite_%'
ORDER BY m.name, p.cid`

const postgresColumnsQuery = `SELECT table_name, column_name, data_type
FROM information_schema.columns
WHERE table_schema = $1
ORDER BY table_name, ordinal_position`

// DefaultPostgresSchema is used when no schema is given for PostgreSQL.
const DefaultPostgresSchema = "public"

// LoadSQL snapshots the table and column layout of a live database. The
// schema argument applies to PostgreSQL only.
func LoadSQL(ctx context.Context, db *sql.DB, flavor Flavor, schema string) (*Static, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	var (
		query string
		args  []any
	)
	switch flavor {
	case FlavorSQLite:
		query = sqliteColumnsQuery
	case FlavorPostgres:
		if schema == "" {
			schema = DefaultPostgresSchema
		}
		query = postgresColumnsQuery
		args = append(args, schema)
	default:
		return nil, fmt.Errorf("unsupported database flavor %q", flavor)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schema: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make(map[string]map[string]core.ColumnType)
	for rows.Next() {
		var table, column, sqlType string
		if err := rows.Scan(&table, &column, &sqlType); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		cols, ok := tables[table]
		if !ok {
			cols = make(map[string]core.ColumnType)
			tables[table] = cols
		}
		cols[column] = MapSQLType(sqlType)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	return New(tables), nil
}

// MapSQLType maps a declared SQL column type to a catalog type, following
// SQLite's type affinity rules. Unrecognized types are treated as STRING.
func MapSQLType(sqlType string) core.ColumnType {
	t := strings.ToUpper(sqlType)
	switch {
	case strings.Contains(t, "INT"), strings.Contains(t, "SERIAL"):
		return core.TypeInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return core.TypeString
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"),
		strings.Contains(t, "NUMERIC"), strings.Contains(t, "DECIMAL"):
		return core.TypeFloat
	default:
		return core.TypeString
	}
}
