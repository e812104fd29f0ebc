package format

import "github.com/leapstack-labs/asql/pkg/core"

// Statement renders stmt as canonical single-line SQL that parses back to
// an equivalent statement. Aliases appear only where they were given
// explicitly.
func Statement(stmt *core.SelectStatement) string {
	p := newPrinter(true)
	p.formatSelectStmt(stmt)
	return p.String()
}

// Pretty renders stmt with one clause per line and indented lists, for
// display.
func Pretty(stmt *core.SelectStatement) string {
	p := newPrinter(false)
	p.formatSelectStmt(stmt)
	return p.String()
}

// Expr renders a single expression without its alias.
func Expr(e core.Expr) string {
	p := newPrinter(true)
	p.formatExpr(e)
	return p.String()
}
