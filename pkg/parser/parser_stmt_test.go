package parser

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseString_Select(t *testing.T) {
	stmt, err := ParseString("SELECT e.name, weight_kg * 2 AS double, 1 FROM employees e, hours WHERE e.emp_id = hours.emp_id, 1 = 1 LIMIT 10;")
	require.NoError(t, err)

	assert.Equal(t, []string{"E.NAME", "DOUBLE", "1"}, stmt.ColumnAliases())

	require.Len(t, stmt.From, 2)
	assert.Equal(t, "EMPLOYEES", stmt.From[0].Name)
	assert.Equal(t, "E", stmt.From[0].Alias)
	assert.Equal(t, "HOURS", stmt.From[1].Name)
	assert.Equal(t, "HOURS", stmt.From[1].Alias)

	require.Len(t, stmt.Where, 2)
	assert.Equal(t, core.CompareEqual, stmt.Where[0].Op)
	assert.Equal(t, "E.EMP_ID", core.String(stmt.Where[0].Left))
	assert.Equal(t, "HOURS.EMP_ID", core.String(stmt.Where[0].Right))

	require.True(t, stmt.HasLimit())
	assert.Equal(t, int64(10), *stmt.Limit)
}

func TestParseString_Clauses(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		columns []string
		tables  []string
		filters int
		limit   *int64
	}{
		{
			name:    "projection only",
			input:   "SELECT 1 + 2",
			columns: []string{"(1+2)"},
		},
		{
			name:    "duplicates are kept",
			input:   "SELECT a, a FROM t",
			columns: []string{"A", "A"},
			tables:  []string{"T"},
		},
		{
			name:    "limit zero is present",
			input:   "SELECT a FROM t LIMIT 0",
			columns: []string{"A"},
			tables:  []string{"T"},
			limit:   ptr(int64(0)),
		},
		{
			name:    "where without from",
			input:   "SELECT 1 WHERE 1 = 1",
			columns: []string{"1"},
			filters: 1,
		},
		{
			name:    "lower case keywords",
			input:   "select a from t where a = 1 limit 5",
			columns: []string{"A"},
			tables:  []string{"T"},
			filters: 1,
			limit:   ptr(int64(5)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := ParseString(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.columns, stmt.ColumnAliases())
			var tables []string
			for _, ref := range stmt.From {
				tables = append(tables, ref.Name)
			}
			assert.Equal(t, tt.tables, tables)
			assert.Len(t, stmt.Where, tt.filters)
			assert.Equal(t, tt.limit, stmt.Limit)
		})
	}
}

func TestParseString_Aliases(t *testing.T) {
	tests := []struct {
		name  string
		input string
		alias string
	}{
		{"default alias is canonical text", "SELECT (1 + 2) * 3", "((1+2)*3)"},
		{"explicit identifier", "SELECT (1 + 2) * 3 AS total", "TOTAL"},
		{"explicit string", "SELECT 1 AS 'Grand Total'", "Grand Total"},
		{"implicit identifier", "SELECT weight_kg kg FROM employees", "KG"},
		{"implicit string", `SELECT weight_kg "kg" FROM employees`, "kg"},
		{"qualified default", "SELECT e.name FROM employees e", "E.NAME"},
		{"double-quoted string keeps its lexeme", `SELECT "abc"`, `"abc"`},
		{"single-quoted string keeps its lexeme", "SELECT 'abc'", "'abc'"},
		{"string inside arithmetic", `SELECT "a" + 1`, `("a"+1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := ParseString(tt.input)
			require.NoError(t, err)
			require.Len(t, stmt.Columns, 1)
			assert.Equal(t, tt.alias, core.Alias(stmt.Columns[0]))
		})
	}
}

func TestParseString_TableAliases(t *testing.T) {
	stmt, err := ParseString("SELECT 1 FROM employees AS e, hours h, employee_type")
	require.NoError(t, err)

	require.Len(t, stmt.From, 3)
	assert.Equal(t, "E", stmt.From[0].Alias)
	assert.True(t, stmt.From[0].HasExplicitAlias())
	assert.Equal(t, "H", stmt.From[1].Alias)
	assert.Equal(t, "EMPLOYEE_TYPE", stmt.From[2].Alias)
	assert.False(t, stmt.From[2].HasExplicitAlias())
}

func TestParseString_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing projection", "SELECT FROM t"},
		{"trailing comma", "SELECT a, FROM t"},
		{"missing table", "SELECT a FROM"},
		{"table must be identifier", "SELECT a FROM 't'"},
		{"as without alias", "SELECT a AS FROM t"},
		{"where needs equals", "SELECT a FROM t WHERE a"},
		{"where rejects less than", "SELECT a FROM t WHERE a < 1"},
		{"where rejects greater than", "SELECT a FROM t WHERE a > 1"},
		{"limit needs integer", "SELECT a FROM t LIMIT x"},
		{"limit rejects float", "SELECT a FROM t LIMIT 1.5"},
		{"garbage after statement", "SELECT a FROM t )"},
		{"not a statement", "FROM t"},
		{"empty", "  ;\n"},
		{"two statements", "SELECT 1; SELECT 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := ParseString(tt.input)
			require.Error(t, err)
			assert.Nil(t, stmt)

			var pe *ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestParseStatement_Unsupported(t *testing.T) {
	for _, input := range []string{
		"INSERT INTO t VALUES (1)",
		"UPDATE t",
		"DELETE FROM t",
		"CREATE TABLE t",
	} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseString(input)
			require.ErrorIs(t, err, ErrUnsupportedStatement)
		})
	}
}

func TestParser_StatementStream(t *testing.T) {
	input := "SELECT 1;\n\nSELECT 2\n;;SELECT 3"
	p := New(strings.NewReader(input))

	var got []string
	for {
		stmt, err := p.ParseStatement()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, core.String(stmt.Columns[0]))
	}

	assert.Equal(t, []string{"1", "2", "3"}, got)
}

func TestParser_SkipStatementRecovers(t *testing.T) {
	input := "SELECT FROM t WHERE;\nSELECT 'bad\nSELECT 1 + ;\nSELECT ok FROM t\n"
	p := New(strings.NewReader(input))

	var (
		ok     []string
		failed int
	)
	for {
		stmt, err := p.ParseStatement()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			require.True(t, IsSyntaxError(err), "unexpected error %v", err)
			failed++
			p.SkipStatement()
			continue
		}
		ok = append(ok, core.Alias(stmt.Columns[0]))
	}

	assert.Equal(t, 3, failed)
	assert.Equal(t, []string{"OK"}, ok)
}

func TestParser_StatementPos(t *testing.T) {
	p := New(strings.NewReader("\n  SELECT 1"))
	_, err := p.ParseStatement()
	require.NoError(t, err)
	assert.Equal(t, 2, p.StatementPos().Line)
	assert.Equal(t, 3, p.StatementPos().Column)
}

// guardedReader serves its input and fails the test if read past the end,
// standing in for an interactive terminal that would block.
type guardedReader struct {
	t *testing.T
	r *strings.Reader
}

func (g *guardedReader) ReadRune() (rune, int, error) {
	if g.r.Len() == 0 {
		g.t.Errorf("parser read past the end of the statement")
		return 0, 0, io.EOF
	}
	return g.r.ReadRune()
}

func TestParser_DoesNotReadPastTerminator(t *testing.T) {
	for _, input := range []string{
		"SELECT a FROM t;",
		"SELECT a FROM t\n",
		"SELECT (1 + 2) AS x\n",
		"SELECT f(a)\n",
		"SELECT 'x'\n",
	} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			p := New(&guardedReader{t: t, r: strings.NewReader(input)})
			stmt, err := p.ParseStatement()
			require.NoError(t, err)
			assert.NotNil(t, stmt)
		})
	}
}

func TestParser_Reset(t *testing.T) {
	p := New(strings.NewReader("SELECT"))
	_, err := p.ParseStatement()
	require.Error(t, err)

	p.Reset(strings.NewReader("SELECT a"))
	stmt, err := p.ParseStatement()
	require.NoError(t, err)
	assert.Equal(t, "A", core.Alias(stmt.Columns[0]))
}

func ptr[T any](v T) *T { return &v }
