package validate

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/asql/internal/testutil"
	"github.com/leapstack-labs/asql/pkg/catalog"
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallCatalog is the two-table schema used by the resolution examples.
func smallCatalog() core.Catalog {
	return catalog.New(map[string]map[string]core.ColumnType{
		"EMPLOYEES": {"EMP_ID": core.TypeInteger, "NAME": core.TypeString},
		"HOURS":     {"EMP_ID": core.TypeInteger, "TIME_START": core.TypeInteger},
	})
}

func mustParse(t *testing.T, sql string) *core.SelectStatement {
	t.Helper()
	stmt, err := parser.ParseString(sql)
	require.NoError(t, err)
	return stmt
}

func TestValidate_Success(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		columns []string
		refs    map[string][]string
	}{
		{
			name:    "qualified column",
			sql:     "SELECT employees.emp_id FROM employees",
			columns: []string{"EMPLOYEES.EMP_ID"},
			refs:    map[string][]string{"EMPLOYEES": {"EMP_ID"}},
		},
		{
			name:    "unique unqualified column",
			sql:     "SELECT name, time_start FROM employees, hours",
			columns: []string{"NAME", "TIME_START"},
			refs: map[string][]string{
				"EMPLOYEES": {"NAME"},
				"HOURS":     {"TIME_START"},
			},
		},
		{
			name:    "aliases disambiguate",
			sql:     "SELECT e.emp_id AS id, h.emp_id FROM employees e, hours AS h",
			columns: []string{"ID", "H.EMP_ID"},
			refs: map[string][]string{
				"EMPLOYEES": {"EMP_ID"},
				"HOURS":     {"EMP_ID"},
			},
		},
		{
			name:    "references are deduplicated and sorted",
			sql:     "SELECT time_start + emp_id, time_start FROM hours",
			columns: []string{"(TIME_START+EMP_ID)", "TIME_START"},
			refs:    map[string][]string{"HOURS": {"EMP_ID", "TIME_START"}},
		},
		{
			name:    "where filters contribute references",
			sql:     "SELECT name FROM employees e, hours h WHERE e.emp_id = h.emp_id",
			columns: []string{"NAME"},
			refs: map[string][]string{
				"EMPLOYEES": {"EMP_ID", "NAME"},
				"HOURS":     {"EMP_ID"},
			},
		},
		{
			name:    "constants need no tables",
			sql:     "SELECT (1 + 2) * 3",
			columns: []string{"((1+2)*3)"},
			refs:    map[string][]string{},
		},
		{
			name:    "string column outside arithmetic",
			sql:     "SELECT name, 'x' FROM employees WHERE name = 'Bob'",
			columns: []string{"NAME", "'x'"},
			refs:    map[string][]string{"EMPLOYEES": {"NAME"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(mustParse(t, tt.sql), smallCatalog())
			require.NoError(t, err)
			assert.Equal(t, tt.columns, res.Columns)
			assert.Equal(t, tt.refs, res.References)
		})
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		errors []SemanticError
	}{
		{
			name: "ambiguous column",
			sql:  "SELECT emp_id FROM employees, hours",
			errors: []SemanticError{
				{Kind: KindAmbiguousColumn, Name: "EMP_ID", Candidates: []string{"EMPLOYEES", "HOURS"}},
			},
		},
		{
			name:   "unknown column",
			sql:    "SELECT foo FROM employees",
			errors: []SemanticError{{Kind: KindUnknownColumn, Name: "FOO"}},
		},
		{
			name:   "unknown table",
			sql:    "SELECT emp_id FROM ghost",
			errors: []SemanticError{{Kind: KindUnknownTable, Name: "GHOST"}},
		},
		{
			name:   "duplicate alias",
			sql:    "SELECT 1 FROM employees AS e, hours AS e",
			errors: []SemanticError{{Kind: KindDuplicateAlias, Name: "E"}},
		},
		{
			name:   "duplicate alias stops before columns",
			sql:    "SELECT foo FROM employees AS e, hours AS e",
			errors: []SemanticError{{Kind: KindDuplicateAlias, Name: "E"}},
		},
		{
			name:   "same table twice without alias",
			sql:    "SELECT 1 FROM hours, hours",
			errors: []SemanticError{{Kind: KindDuplicateAlias, Name: "HOURS"}},
		},
		{
			name:   "unknown qualifier",
			sql:    "SELECT x.emp_id FROM employees",
			errors: []SemanticError{{Kind: KindUnknownQualifier, Name: "X"}},
		},
		{
			name:   "table name hidden by alias",
			sql:    "SELECT employees.emp_id FROM employees e",
			errors: []SemanticError{{Kind: KindUnknownQualifier, Name: "EMPLOYEES"}},
		},
		{
			name:   "unknown column in qualified table",
			sql:    "SELECT h.name FROM hours h",
			errors: []SemanticError{{Kind: KindUnknownColumn, Name: "NAME", Table: "HOURS"}},
		},
		{
			name: "same table twice is ambiguous",
			sql:  "SELECT time_start FROM hours a, hours b",
			errors: []SemanticError{
				{Kind: KindAmbiguousColumn, Name: "TIME_START", Candidates: []string{"A", "B"}},
			},
		},
		{
			name: "all errors are collected",
			sql:  "SELECT foo, bar, x.y FROM employees WHERE baz = 1",
			errors: []SemanticError{
				{Kind: KindUnknownColumn, Name: "FOO"},
				{Kind: KindUnknownColumn, Name: "BAR"},
				{Kind: KindUnknownQualifier, Name: "X"},
				{Kind: KindUnknownColumn, Name: "BAZ"},
			},
		},
		{
			name: "all table errors are collected",
			sql:  "SELECT 1 FROM ghost g, phantom g",
			errors: []SemanticError{
				{Kind: KindUnknownTable, Name: "GHOST"},
				{Kind: KindUnknownTable, Name: "PHANTOM"},
				{Kind: KindDuplicateAlias, Name: "G"},
			},
		},
		{
			name:   "string column in arithmetic",
			sql:    "SELECT name + 1 FROM employees",
			errors: []SemanticError{{Kind: KindInvalidOperand, Name: "NAME"}},
		},
		{
			name:   "string literal in arithmetic",
			sql:    "SELECT emp_id * 'two' FROM employees",
			errors: []SemanticError{{Kind: KindInvalidOperand, Name: "'two'"}},
		},
		{
			name:   "string operand in filter",
			sql:    "SELECT 1 FROM employees WHERE emp_id = name - 1",
			errors: []SemanticError{{Kind: KindInvalidOperand, Name: "NAME"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Validate(mustParse(t, tt.sql), smallCatalog())
			require.Error(t, err)
			assert.Nil(t, res)

			var errs Errors
			require.True(t, errors.As(err, &errs))
			require.Len(t, errs, len(tt.errors))
			for i, want := range tt.errors {
				assert.Equal(t, want, *errs[i], "error %d", i)
			}
		})
	}
}

func TestValidate_FirstErrorOnly(t *testing.T) {
	v := New(smallCatalog(), WithFirstErrorOnly())

	_, err := v.Validate(mustParse(t, "SELECT foo, bar FROM employees"))
	var errs Errors
	require.ErrorAs(t, err, &errs)
	require.Len(t, errs, 1)
	assert.Equal(t, "FOO", errs[0].Name)

	_, err = v.Validate(mustParse(t, "SELECT 1 FROM ghost, phantom"))
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, []Kind{KindUnknownTable}, errs.Kinds())
}

func TestValidate_ErrorsUnwrap(t *testing.T) {
	_, err := Validate(mustParse(t, "SELECT emp_id FROM employees, hours"), smallCatalog())

	var semErr *SemanticError
	require.ErrorAs(t, err, &semErr)
	assert.Equal(t, KindAmbiguousColumn, semErr.Kind)
	assert.Contains(t, err.Error(), `ambiguous column reference "EMP_ID"`)
}

func TestValidate_Idempotent(t *testing.T) {
	v := New(catalog.Demo(), WithLogger(testutil.NewTestLogger(t)))

	for _, sql := range []string{
		"SELECT e.name, h.time_end - h.time_start AS worked FROM employees e, hours h WHERE e.emp_id = h.emp_id",
		"SELECT emp_id FROM employees, hours",
	} {
		stmt := mustParse(t, sql)

		res1, err1 := v.Validate(stmt)
		res2, err2 := v.Validate(stmt)
		assert.Equal(t, res1, res2)
		assert.Equal(t, err1, err2)
	}
}

func TestSemanticError_Messages(t *testing.T) {
	tests := []struct {
		err  *SemanticError
		want string
	}{
		{&SemanticError{Kind: KindUnknownTable, Name: "GHOST"}, `unknown table "GHOST"`},
		{&SemanticError{Kind: KindDuplicateAlias, Name: "E"}, `duplicate table alias "E"`},
		{&SemanticError{Kind: KindUnknownQualifier, Name: "X"}, `unknown table or alias "X"`},
		{&SemanticError{Kind: KindUnknownColumn, Name: "FOO"}, `unknown column "FOO"`},
		{&SemanticError{Kind: KindUnknownColumn, Name: "FOO", Table: "T"}, `unknown column "FOO" in table "T"`},
		{&SemanticError{Kind: KindInvalidOperand, Name: "NAME"}, "string operand NAME in arithmetic expression"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrors_Message(t *testing.T) {
	errs := Errors{
		{Kind: KindUnknownColumn, Name: "A"},
		{Kind: KindUnknownColumn, Name: "B"},
	}
	assert.Equal(t, `2 semantic errors: unknown column "A"; unknown column "B"`, errs.Error())
}

func TestValidate_NonASCIINames(t *testing.T) {
	cat := catalog.New(map[string]map[string]core.ColumnType{
		"maße": {"straße": core.TypeString, "höhe": core.TypeFloat},
	})

	res, err := Validate(mustParse(t, "SELECT straße, m.höhe * 2 FROM maße m"), cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"STRASSE", "(M.HÖHE*2)"}, res.Columns)
	assert.Equal(t, map[string][]string{"MASSE": {"HÖHE", "STRASSE"}}, res.References)
}
