package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
		check   func(t *testing.T, s *Static)
	}{
		{
			name: "valid catalog",
			input: `
tables:
  employees:
    emp_id: integer
    name: string
    weight_kg: float
  hours:
    emp_id: INT
`,
			check: func(t *testing.T, s *Static) {
				assert.Equal(t, []string{"EMPLOYEES", "HOURS"}, s.Tables())
				typ, ok := s.ColumnType("EMPLOYEES", "WEIGHT_KG")
				require.True(t, ok)
				assert.Equal(t, core.TypeFloat, typ)
				typ, ok = s.ColumnType("HOURS", "EMP_ID")
				require.True(t, ok)
				assert.Equal(t, core.TypeInteger, typ)
			},
		},
		{
			name:    "unknown type",
			input:   "tables:\n  t:\n    a: blob\n",
			wantErr: `unknown type "blob"`,
		},
		{
			name:    "no tables",
			input:   "tables: {}\n",
			wantErr: "no tables",
		},
		{
			name:    "table without columns",
			input:   "tables:\n  t: {}\n",
			wantErr: "no columns",
		},
		{
			name:    "invalid yaml",
			input:   "tables: [",
			wantErr: "failed to parse catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tables:\n  t:\n    a: string\n"), 0o600))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, s.TableExists("T"))

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read catalog file")
}

func TestMarshal_RoundTrip(t *testing.T) {
	data, err := Marshal(Demo())
	require.NoError(t, err)

	s, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, Demo().Tables(), s.Tables())
	for _, table := range s.Tables() {
		assert.Equal(t, Demo().Columns(table), s.Columns(table), table)
	}
}
