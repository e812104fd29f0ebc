package catalog

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/asql/pkg/core"
	"gopkg.in/yaml.v3"
)

// schemaFile is the on-disk layout of a YAML catalog:
//
//	tables:
//	  employees:
//	    emp_id: integer
//	    name: string
type schemaFile struct {
	Tables map[string]map[string]string `yaml:"tables"`
}

// LoadFile reads a YAML catalog from path.
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Static, error) {
	var f schemaFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Tables) == 0 {
		return nil, fmt.Errorf("catalog defines no tables")
	}

	tables := make(map[string]map[string]core.ColumnType, len(f.Tables))
	for table, cols := range f.Tables {
		if len(cols) == 0 {
			return nil, fmt.Errorf("table %q has no columns", table)
		}
		typed := make(map[string]core.ColumnType, len(cols))
		for col, tag := range cols {
			typ, ok := core.ParseColumnType(tag)
			if !ok {
				return nil, fmt.Errorf("column %s.%s: unknown type %q", table, col, tag)
			}
			typed[col] = typ
		}
		tables[table] = typed
	}
	return New(tables), nil
}

// Marshal encodes a catalog in the YAML layout read by Parse.
func Marshal(c core.CatalogLister) ([]byte, error) {
	f := schemaFile{Tables: make(map[string]map[string]string)}
	for _, table := range c.Tables() {
		cols := make(map[string]string)
		for _, col := range c.Columns(table) {
			cols[col.Name] = col.Type.String()
		}
		f.Tables[table] = cols
	}
	return yaml.Marshal(f)
}
