package core

import "fmt"

// Expr is the closed set of expression nodes.
//
// The unexported marker keeps the variant set fixed to the types in this
// package: *Variable, *FunctionCall, *StringLiteral, *FloatLiteral,
// *IntLiteral and *BinaryOp. Operations over expressions (String, Variables,
// Eval) are type switches that panic on anything else.
type Expr interface {
	exprNode()

	// SetAlias assigns an explicit display alias.
	SetAlias(alias string)
	// ExplicitAlias returns the alias assigned by SetAlias, or "".
	ExplicitAlias() string
}

// aliased holds the optional display alias shared by every expression.
type aliased struct {
	alias string
}

// SetAlias implements Expr.
func (a *aliased) SetAlias(alias string) { a.alias = alias }

// ExplicitAlias implements Expr.
func (a *aliased) ExplicitAlias() string { return a.alias }

// Alias returns the display alias of e: the explicit alias if one was
// assigned, otherwise the canonical rendering of e.
func Alias(e Expr) string {
	if a := e.ExplicitAlias(); a != "" {
		return a
	}
	return String(e)
}

// unknownExpr panics for an expression type outside the closed set.
func unknownExpr(e Expr) {
	panic(fmt.Sprintf("core: unknown expression type %T", e))
}
