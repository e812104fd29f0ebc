package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

// Statement parsing.
//
//	statement   → SELECT select_list [FROM table_list] [WHERE filter_list]
//	              [LIMIT INT] terminator
//
// A statement either parses completely or fails; no partial statement is
// returned. After a failure the caller resynchronizes with SkipStatement.

// ParseStatement parses the next statement. Empty statements (blank lines
// and bare `;`) are skipped. At end of input it returns io.EOF.
func (p *Parser) ParseStatement() (*core.SelectStatement, error) {
	for {
		tok := p.current()
		p.stmtPos = tok.Pos

		switch tok.Type {
		case token.SEMI, token.ENTER:
			p.advance()
		case token.EOF:
			if p.lexErr != nil {
				return nil, p.lexErr
			}
			return nil, io.EOF
		case token.SELECT:
			return p.parseSelect()
		case token.INSERT, token.UPDATE, token.DELETE, token.CREATE:
			return nil, &ParseError{
				Pos:     tok.Pos,
				Message: fmt.Sprintf("%s statements are not supported", tok.Type),
				Err:     ErrUnsupportedStatement,
			}
		default:
			return nil, p.errorf("malformed statement: unexpected %s", describe(tok))
		}
	}
}

// parseSelect parses a SELECT statement.
func (p *Parser) parseSelect() (*core.SelectStatement, error) {
	p.advance() // consume SELECT

	stmt := &core.SelectStatement{}

	cols, err := p.parseSelectList()
	if err != nil {
		return nil, err
	}
	stmt.Columns = cols

	if p.match(token.FROM) {
		if stmt.From, err = p.parseTableList(); err != nil {
			return nil, err
		}
	}

	if p.match(token.WHERE) {
		if stmt.Where, err = p.parseFilterList(); err != nil {
			return nil, err
		}
	}

	if p.match(token.LIMIT) {
		if stmt.Limit, err = p.parseLimit(); err != nil {
			return nil, err
		}
	}

	if err := p.expectTerminator(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// parseSelectList parses the projection list.
//
//	select_list → expr [alias] {"," expr [alias]}
func (p *Parser) parseSelectList() ([]core.Expr, error) {
	var cols []core.Expr
	for {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		alias, ok, err := p.maybeParseAlias()
		if err != nil {
			return nil, err
		}
		if ok {
			expr.SetAlias(alias)
		}

		cols = append(cols, expr)
		if !p.match(token.COMMA) {
			return cols, nil
		}
	}
}

// parseTableList parses the FROM clause.
//
//	table_list → IDENT [alias] {"," IDENT [alias]}
func (p *Parser) parseTableList() ([]*core.TableRef, error) {
	var refs []*core.TableRef
	for {
		tok := p.current()
		if tok.Type != token.IDENT {
			return nil, p.errorf(ErrUnexpectedToken, describe(tok), "table name")
		}
		p.advance()

		ref := core.NewTableRef(tok.Literal)
		alias, ok, err := p.maybeParseAlias()
		if err != nil {
			return nil, err
		}
		if ok {
			ref.Alias = alias
		}

		refs = append(refs, ref)
		if !p.match(token.COMMA) {
			return refs, nil
		}
	}
}

// parseFilterList parses the WHERE clause. Only equality is accepted.
//
//	filter_list → expr "=" expr {"," expr "=" expr}
func (p *Parser) parseFilterList() ([]*core.Filter, error) {
	var filters []*core.Filter
	for {
		left, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		switch tok := p.current(); tok.Type {
		case token.EQ:
			p.advance()
		case token.LT, token.GT, token.BANG:
			return nil, p.errorf("unsupported comparison operator %s, only = is allowed", tok.Literal)
		default:
			return nil, p.errorf(ErrUnexpectedToken, describe(tok), "=")
		}

		right, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		filters = append(filters, &core.Filter{Left: left, Op: core.CompareEqual, Right: right})
		if !p.match(token.COMMA) {
			return filters, nil
		}
	}
}

// parseLimit parses the row limit after LIMIT.
func (p *Parser) parseLimit() (*int64, error) {
	tok := p.current()
	if tok.Type != token.INT {
		return nil, p.errorf(ErrUnexpectedToken, describe(tok), "integer after LIMIT")
	}
	n, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("limit %s out of range", tok.Literal), Err: err}
	}
	p.advance()
	return &n, nil
}

// maybeParseAlias parses an optional alias after a projection or table.
// Both the explicit form (AS name) and the implicit form (a trailing
// identifier or string) are accepted.
//
//	alias → [AS] (IDENT | STRING)
func (p *Parser) maybeParseAlias() (string, bool, error) {
	explicit := p.match(token.AS)

	tok := p.current()
	switch tok.Type {
	case token.IDENT, token.STRING:
		p.advance()
		return tok.Literal, true, nil
	}

	if explicit {
		return "", false, p.errorf(ErrUnexpectedToken, describe(tok), "alias after AS")
	}
	return "", false, nil
}
