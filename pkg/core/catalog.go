package core

import "strings"

// ColumnType is the storage type of a catalog column.
type ColumnType int

// ColumnType constants.
const (
	TypeInteger ColumnType = iota + 1
	TypeFloat
	TypeString
)

func (t ColumnType) String() string {
	switch t {
	case TypeInteger:
		return "INTEGER"
	case TypeFloat:
		return "FLOAT"
	case TypeString:
		return "STRING"
	default:
		return "UNKNOWN"
	}
}

// IsNumeric reports whether the type can take part in arithmetic.
func (t ColumnType) IsNumeric() bool {
	return t == TypeInteger || t == TypeFloat
}

// ParseColumnType parses a type tag such as "integer", "INT", "float" or
// "string". It returns false for anything else.
func ParseColumnType(s string) (ColumnType, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "INTEGER", "INT":
		return TypeInteger, true
	case "FLOAT":
		return TypeFloat, true
	case "STRING", "STR":
		return TypeString, true
	default:
		return 0, false
	}
}

// Catalog is the read-only schema lookup used during validation.
// Table and column names are upper-case.
type Catalog interface {
	// TableExists reports whether the table is known.
	TableExists(name string) bool
	// ColumnType returns the type of table.column, or false if either is unknown.
	ColumnType(table, column string) (ColumnType, bool)
}

// Column describes one catalog column.
type Column struct {
	Name string
	Type ColumnType
}

// CatalogLister is implemented by catalogs that can enumerate their contents.
type CatalogLister interface {
	Catalog
	// Tables returns all table names in sorted order.
	Tables() []string
	// Columns returns the columns of a table in sorted order.
	Columns(table string) []Column
}
