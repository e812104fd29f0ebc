package core

import (
	"testing"

	"github.com/leapstack-labs/asql/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intLit(n int64, text string) *IntLiteral { return &IntLiteral{Value: n, Text: text} }

func TestString(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want string
	}{
		{"column", &Variable{Name: "EMP_ID"}, "EMP_ID"},
		{"qualified column", &Variable{Name: "NAME", Qualifier: "E"}, "E.NAME"},
		{"integer keeps lexeme", intLit(7, "007"), "007"},
		{"float keeps lexeme", &FloatLiteral{Value: 1.5, Text: "1.50"}, "1.50"},
		{"string", &StringLiteral{Value: "Bob"}, "'Bob'"},
		{"string keeps lexeme", &StringLiteral{Value: "Bob", Text: `"Bob"`}, `"Bob"`},
		{
			name: "nested binary",
			expr: NewBinaryOp(token.STAR, NewBinaryOp(token.PLUS, intLit(1, "1"), intLit(2, "2")), intLit(3, "3")),
			want: "((1+2)*3)",
		},
		{
			name: "function call",
			expr: &FunctionCall{Name: "MAX", Args: []Expr{&Variable{Name: "A"}, intLit(1, "1")}},
			want: "MAX(A,1)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.expr))
		})
	}
}

func TestAlias(t *testing.T) {
	e := NewBinaryOp(token.MINUS, intLit(8, "8"), intLit(4, "4"))
	assert.Equal(t, "(8-4)", Alias(e))
	assert.Empty(t, e.ExplicitAlias())

	e.SetAlias("DIFF")
	assert.Equal(t, "DIFF", Alias(e))
	assert.Equal(t, "(8-4)", String(e), "canonical text ignores the alias")
}

func TestVariables(t *testing.T) {
	a := &Variable{Name: "A"}
	b := &Variable{Name: "B", Qualifier: "T"}
	c := &Variable{Name: "C"}

	expr := NewBinaryOp(token.PLUS,
		NewBinaryOp(token.STAR, a, intLit(2, "2")),
		&FunctionCall{Name: "F", Args: []Expr{b, &StringLiteral{Value: "x"}, c}},
	)

	assert.Equal(t, []*Variable{a, b, c}, Variables(expr))
	assert.Empty(t, Variables(intLit(1, "1")))
	assert.Empty(t, Variables(&StringLiteral{Value: "s"}))
}

func TestWalk(t *testing.T) {
	expr := NewBinaryOp(token.PLUS,
		&FunctionCall{Name: "F", Args: []Expr{&Variable{Name: "A"}}},
		intLit(1, "1"),
	)

	var visited []string
	Walk(expr, func(e Expr) bool {
		visited = append(visited, String(e))
		return true
	})
	assert.Equal(t, []string{"(F(A)+1)", "F(A)", "A", "1"}, visited)

	visited = nil
	Walk(expr, func(e Expr) bool {
		visited = append(visited, String(e))
		_, isCall := e.(*FunctionCall)
		return !isCall
	})
	assert.Equal(t, []string{"(F(A)+1)", "F(A)", "1"}, visited)
}

func TestEval(t *testing.T) {
	// (1 + 2) * 3
	paren := NewBinaryOp(token.STAR, NewBinaryOp(token.PLUS, intLit(1, "1"), intLit(2, "2")), intLit(3, "3"))
	got, err := Eval(paren)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, got, 1e-9)

	// (8 - 4) - 2
	left := NewBinaryOp(token.MINUS, NewBinaryOp(token.MINUS, intLit(8, "8"), intLit(4, "4")), intLit(2, "2"))
	got, err = Eval(left)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 1e-9)

	got, err = Eval(NewBinaryOp(token.SLASH, &FloatLiteral{Value: 4.5, Text: "4.5"}, intLit(2, "2")))
	require.NoError(t, err)
	assert.InDelta(t, 2.25, got, 1e-9)
}

func TestEval_Errors(t *testing.T) {
	tests := []struct {
		name string
		expr Expr
		want error
	}{
		{"column", NewBinaryOp(token.PLUS, &Variable{Name: "A"}, intLit(1, "1")), ErrNotConstant},
		{"string", &StringLiteral{Value: "x"}, ErrNotConstant},
		{"function", &FunctionCall{Name: "NOW"}, ErrNotConstant},
		{"division by zero", NewBinaryOp(token.SLASH, intLit(1, "1"), intLit(0, "0")), ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Eval(tt.expr)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

// foreignExpr satisfies Expr only because it lives in this package.
type foreignExpr struct{ aliased }

func (*foreignExpr) exprNode() {}

func TestUnknownExprPanics(t *testing.T) {
	assert.Panics(t, func() { String(&foreignExpr{}) })
	assert.Panics(t, func() { Variables(&foreignExpr{}) })
	assert.Panics(t, func() { _, _ = Eval(&foreignExpr{}) })
}

func TestSelectStatement(t *testing.T) {
	limit := int64(0)
	col := &Variable{Name: "A"}
	col.SetAlias("X")
	stmt := &SelectStatement{
		Columns: []Expr{col, intLit(1, "1")},
		From:    []*TableRef{NewTableRef("T")},
		Limit:   &limit,
	}

	assert.Equal(t, []string{"X", "1"}, stmt.ColumnAliases())
	assert.True(t, stmt.HasLimit(), "LIMIT 0 is distinct from no limit")
	assert.False(t, (&SelectStatement{}).HasLimit())

	ref := stmt.From[0]
	assert.Equal(t, "T", ref.Alias)
	assert.False(t, ref.HasExplicitAlias())
	ref.Alias = "U"
	assert.True(t, ref.HasExplicitAlias())
}

func TestCompareOp_String(t *testing.T) {
	assert.Equal(t, "<", CompareLess.String())
	assert.Equal(t, "<=", CompareLessEqual.String())
	assert.Equal(t, "=", CompareEqual.String())
	assert.Equal(t, "<>", CompareNotEqual.String())
	assert.Equal(t, ">", CompareGreater.String())
	assert.Equal(t, ">=", CompareGreaterEqual.String())
	assert.Equal(t, "?", CompareOp(42).String())
}

func TestColumnType(t *testing.T) {
	tests := []struct {
		in   string
		want ColumnType
		ok   bool
	}{
		{"integer", TypeInteger, true},
		{"INT", TypeInteger, true},
		{" float ", TypeFloat, true},
		{"String", TypeString, true},
		{"blob", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColumnType(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	assert.Equal(t, "FLOAT", TypeFloat.String())
	assert.Equal(t, "UNKNOWN", ColumnType(0).String())
	assert.True(t, TypeInteger.IsNumeric())
	assert.False(t, TypeString.IsNumeric())
}

func TestNormalizeName(t *testing.T) {
	tests := map[string]string{
		"emp_id":  "EMP_ID",
		"Name":    "NAME",
		"straße":  "STRASSE",
		"größe_1": "GRÖSSE_1",
	}
	for in, want := range tests {
		assert.Equal(t, want, NormalizeName(in), in)
	}
}
