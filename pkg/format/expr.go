package format

import (
	"strings"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

// formatExpr prints an expression with the parentheses its tree shape
// requires and no more.
func (p *Printer) formatExpr(e core.Expr) {
	switch expr := e.(type) {
	case *core.Variable:
		if expr.Qualifier != "" {
			p.write(expr.Qualifier)
			p.write(".")
		}
		p.write(expr.Name)
	case *core.IntLiteral:
		p.write(expr.Text)
	case *core.FloatLiteral:
		p.write(expr.Text)
	case *core.StringLiteral:
		p.write(quote(expr.Value))
	case *core.FunctionCall:
		p.write(expr.Name)
		p.write("(")
		p.formatList(len(expr.Args), func(i int) {
			p.formatExpr(expr.Args[i])
		}, ",", false)
		p.write(")")
	case *core.BinaryOp:
		p.formatBinaryOp(expr)
	default:
		panic("format: unknown expression type")
	}
}

func (p *Printer) formatBinaryOp(expr *core.BinaryOp) {
	prec := precedence(expr.Op)

	// Operators of one level are left-associative, so a right operand of
	// the same level needs parentheses to keep its grouping.
	p.formatOperand(expr.Left, prec > precedenceOf(expr.Left))
	p.space()
	p.write(expr.Op.String())
	p.space()
	p.formatOperand(expr.Right, prec >= precedenceOf(expr.Right))
}

func (p *Printer) formatOperand(e core.Expr, parens bool) {
	if parens {
		p.write("(")
		p.formatExpr(e)
		p.write(")")
		return
	}
	p.formatExpr(e)
}

// precedenceOf returns the binding strength of e; leaves bind tightest.
func precedenceOf(e core.Expr) int {
	if bin, ok := e.(*core.BinaryOp); ok {
		return precedence(bin.Op)
	}
	return precedencePrimary
}

const (
	precedenceAddition = 10
	precedenceMultiply = 20
	precedencePrimary  = 100
)

func precedence(op token.TokenType) int {
	switch op {
	case token.STAR, token.SLASH:
		return precedenceMultiply
	default:
		return precedenceAddition
	}
}

// formatAlias prints " AS alias" with the alias quoted unless it reads back
// as the same identifier.
func (p *Printer) formatAlias(alias string) {
	p.space()
	p.kw(token.AS)
	p.space()
	p.write(aliasText(alias))
}

func aliasText(alias string) string {
	if isPlainIdent(alias) {
		return alias
	}
	return quote(alias)
}

// isPlainIdent reports whether s lexes back as an identifier with the same
// text: an upper-case letter followed by upper-case letters, digits or
// underscores, and not a keyword.
func isPlainIdent(s string) bool {
	if s == "" || token.LookupIdent(s) != token.IDENT {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case i > 0 && (r == '_' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}

// quote wraps s in single quotes, or double quotes when s contains a
// single quote. String literals have no escape syntax.
func quote(s string) string {
	if strings.ContainsRune(s, '\'') {
		return `"` + s + `"`
	}
	return "'" + s + "'"
}
