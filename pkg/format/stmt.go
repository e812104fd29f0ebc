package format

import (
	"strconv"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

func (p *Printer) formatSelectStmt(stmt *core.SelectStatement) {
	p.formatSelectList(stmt.Columns)
	p.formatFrom(stmt.From)
	p.formatWhere(stmt.Where)
	p.formatLimit(stmt.Limit)
}

func (p *Printer) formatSelectList(cols []core.Expr) {
	p.kw(token.SELECT)
	p.newline()
	p.indent()
	p.formatList(len(cols), func(i int) {
		p.formatExpr(cols[i])
		if alias := cols[i].ExplicitAlias(); alias != "" {
			p.formatAlias(alias)
		}
	}, ",", true)
	p.dedent()
}

func (p *Printer) formatFrom(tables []*core.TableRef) {
	if len(tables) == 0 {
		return
	}
	p.newline()
	p.kw(token.FROM)

	// A single table stays on the FROM line.
	multiline := len(tables) > 1
	if multiline {
		p.newline()
		p.indent()
	} else {
		p.space()
	}
	p.formatList(len(tables), func(i int) {
		p.write(tables[i].Name)
		if tables[i].HasExplicitAlias() {
			p.formatAlias(tables[i].Alias)
		}
	}, ",", multiline)
	if multiline {
		p.dedent()
	}
}

func (p *Printer) formatWhere(filters []*core.Filter) {
	if len(filters) == 0 {
		return
	}
	p.newline()
	p.kw(token.WHERE)
	p.newline()
	p.indent()
	p.formatList(len(filters), func(i int) {
		f := filters[i]
		p.formatExpr(f.Left)
		p.space()
		p.write(f.Op.String())
		p.space()
		p.formatExpr(f.Right)
	}, ",", true)
	p.dedent()
}

func (p *Printer) formatLimit(limit *int64) {
	if limit == nil {
		return
	}
	p.newline()
	p.kw(token.LIMIT)
	p.space()
	p.write(strconv.FormatInt(*limit, 10))
}
