package core

import (
	"strings"

	"github.com/leapstack-labs/asql/pkg/token"
)

// ---------- Expression Types ----------

// Variable is a column reference, optionally qualified by a table alias.
type Variable struct {
	aliased
	Name      string // upper-case column name
	Qualifier string // table alias, set only for dotted references
}

func (*Variable) exprNode() {}

// IsQualified reports whether the reference used dotted notation.
func (v *Variable) IsQualified() bool { return v.Qualifier != "" }

// FunctionCall is a call of a named function.
type FunctionCall struct {
	aliased
	Name string
	Args []Expr
}

func (*FunctionCall) exprNode() {}

// StringLiteral is a quoted string.
type StringLiteral struct {
	aliased
	Value string // payload without quotes
	Text  string // lexeme as written, quotes included
}

func (*StringLiteral) exprNode() {}

// FloatLiteral is a decimal number such as 4.5.
type FloatLiteral struct {
	aliased
	Value float64
	Text  string // lexeme as written
}

func (*FloatLiteral) exprNode() {}

// IntLiteral is an integer number.
type IntLiteral struct {
	aliased
	Value int64
	Text  string // lexeme as written
}

func (*IntLiteral) exprNode() {}

// BinaryOp is an arithmetic expression. Left and Right are owned by the node.
type BinaryOp struct {
	aliased
	Op    token.TokenType // PLUS, MINUS, STAR or SLASH
	Left  Expr
	Right Expr
}

func (*BinaryOp) exprNode() {}

// NewBinaryOp builds a BinaryOp node.
func NewBinaryOp(op token.TokenType, left, right Expr) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right}
}

// ---------- Operations ----------

// String returns the canonical rendering of e. It is determined by the tree
// structure alone: literals keep their lexeme, binary operations are fully
// parenthesized without spaces, e.g. ((1+2)*3).
func String(e Expr) string {
	var sb strings.Builder
	writeExpr(&sb, e)
	return sb.String()
}

func writeExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Variable:
		if n.Qualifier != "" {
			sb.WriteString(n.Qualifier)
			sb.WriteByte('.')
		}
		sb.WriteString(n.Name)
	case *FunctionCall:
		sb.WriteString(n.Name)
		sb.WriteByte('(')
		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteByte(',')
			}
			writeExpr(sb, arg)
		}
		sb.WriteByte(')')
	case *StringLiteral:
		if n.Text != "" {
			sb.WriteString(n.Text)
			break
		}
		sb.WriteByte('\'')
		sb.WriteString(n.Value)
		sb.WriteByte('\'')
	case *FloatLiteral:
		sb.WriteString(n.Text)
	case *IntLiteral:
		sb.WriteString(n.Text)
	case *BinaryOp:
		sb.WriteByte('(')
		writeExpr(sb, n.Left)
		sb.WriteString(n.Op.String())
		writeExpr(sb, n.Right)
		sb.WriteByte(')')
	default:
		unknownExpr(e)
	}
}

// Variables returns the Variable leaves of e from left to right.
// Literals contribute none; a BinaryOp contributes the leaves of both
// operands and a FunctionCall those of its arguments.
func Variables(e Expr) []*Variable {
	return appendVariables(nil, e)
}

func appendVariables(dst []*Variable, e Expr) []*Variable {
	switch n := e.(type) {
	case *Variable:
		return append(dst, n)
	case *FunctionCall:
		for _, arg := range n.Args {
			dst = appendVariables(dst, arg)
		}
		return dst
	case *StringLiteral, *FloatLiteral, *IntLiteral:
		return dst
	case *BinaryOp:
		dst = appendVariables(dst, n.Left)
		return appendVariables(dst, n.Right)
	default:
		unknownExpr(e)
		return nil
	}
}

// Walk calls fn for e and every expression below it in depth-first order.
// Returning false from fn skips the children of that node.
func Walk(e Expr, fn func(Expr) bool) {
	if !fn(e) {
		return
	}
	switch n := e.(type) {
	case *FunctionCall:
		for _, arg := range n.Args {
			Walk(arg, fn)
		}
	case *BinaryOp:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Variable, *StringLiteral, *FloatLiteral, *IntLiteral:
	default:
		unknownExpr(e)
	}
}
