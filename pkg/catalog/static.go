// Package catalog provides schema catalogs for validation: a built-in demo
// schema, YAML schema files, and snapshots of live SQLite and PostgreSQL
// databases.
//
// Every catalog is an immutable *Static snapshot, safe to share between
// goroutines. Providers are selected by name through the registry (see
// Open).
package catalog

import (
	"slices"
	"strings"

	"github.com/leapstack-labs/asql/pkg/core"
)

// Static is an immutable in-memory catalog. Table and column names are
// stored upper-case.
type Static struct {
	tables map[string]map[string]core.ColumnType
}

var _ core.CatalogLister = (*Static)(nil)

// New builds a catalog from table name -> column name -> type. The input is
// copied and names are upper-cased.
func New(tables map[string]map[string]core.ColumnType) *Static {
	s := &Static{tables: make(map[string]map[string]core.ColumnType, len(tables))}
	for table, cols := range tables {
		dst := s.ensure(table)
		for col, typ := range cols {
			dst[normalize(col)] = typ
		}
	}
	return s
}

func (s *Static) ensure(table string) map[string]core.ColumnType {
	name := normalize(table)
	cols, ok := s.tables[name]
	if !ok {
		cols = make(map[string]core.ColumnType)
		s.tables[name] = cols
	}
	return cols
}

// TableExists implements core.Catalog.
func (s *Static) TableExists(name string) bool {
	_, ok := s.tables[normalize(name)]
	return ok
}

// ColumnType implements core.Catalog.
func (s *Static) ColumnType(table, column string) (core.ColumnType, bool) {
	cols, ok := s.tables[normalize(table)]
	if !ok {
		return 0, false
	}
	typ, ok := cols[normalize(column)]
	return typ, ok
}

// Tables returns all table names sorted.
func (s *Static) Tables() []string {
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Columns returns the columns of a table sorted by name, or nil for an
// unknown table.
func (s *Static) Columns(table string) []core.Column {
	cols, ok := s.tables[normalize(table)]
	if !ok {
		return nil
	}
	out := make([]core.Column, 0, len(cols))
	for name, typ := range cols {
		out = append(out, core.Column{Name: name, Type: typ})
	}
	slices.SortFunc(out, func(a, b core.Column) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// Len returns the number of tables.
func (s *Static) Len() int {
	return len(s.tables)
}

func normalize(name string) string {
	return core.NormalizeName(strings.TrimSpace(name))
}

// Demo returns the sample employee schema.
func Demo() *Static {
	return New(map[string]map[string]core.ColumnType{
		"EMPLOYEES": {
			"EMP_ID":      core.TypeInteger,
			"EMP_TYPE_ID": core.TypeInteger,
			"NAME":        core.TypeString,
			"WEIGHT_KG":   core.TypeFloat,
		},
		"HOURS": {
			"EMP_ID":     core.TypeInteger,
			"TIME_START": core.TypeInteger,
			"TIME_END":   core.TypeInteger,
		},
		"EMPLOYEE_TYPE": {
			"EMP_TYPE_ID": core.TypeInteger,
			"TYPE":        core.TypeString,
		},
	})
}
