// Package parser turns a character stream into SELECT statements.
//
// # Usage
//
//	p := parser.New(bufio.NewReader(os.Stdin))
//	for {
//	    stmt, err := p.ParseStatement()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        p.SkipStatement()
//	        continue
//	    }
//	    // use stmt
//	}
//
// # Grammar Overview
//
//	statement   → SELECT select_list [FROM table_list] [WHERE filter_list]
//	              [LIMIT INT] terminator
//	select_list → expr [alias] {"," expr [alias]}
//	table_list  → IDENT [alias] {"," IDENT [alias]}
//	filter_list → expr "=" expr {"," expr "=" expr}
//	alias       → [AS] (IDENT | STRING)
//	terminator  → ";" | newline | end of input
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

// Parser parses statements from a character stream.
//
// It keeps one token of lookahead, read lazily: the lexer is not asked for
// a token until the parser inspects it. A statement terminator is therefore
// consumed without reading past it.
type Parser struct {
	lexer   *Lexer
	token   token.Token // current token, valid when loaded
	loaded  bool
	lexErr  error          // error reported with the current token
	stmtPos token.Position // first token of the last statement
}

// New creates a parser reading from r.
func New(r io.RuneReader) *Parser {
	return &Parser{lexer: NewLexer(r)}
}

// Reset discards parser and lexer state and starts reading from r.
func (p *Parser) Reset(r io.RuneReader) {
	p.lexer.Reset(r)
	p.loaded = false
	p.lexErr = nil
	p.stmtPos = token.Position{}
}

// ParseString parses exactly one statement from sql. Trailing terminators
// are allowed; anything else after the statement is an error.
func ParseString(sql string) (*core.SelectStatement, error) {
	p := New(strings.NewReader(sql))
	stmt, err := p.ParseStatement()
	if errors.Is(err, io.EOF) {
		return nil, &ParseError{Pos: p.current().Pos, Message: "empty statement"}
	}
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return stmt, nil
}

// ParseExpression parses a single expression from sql.
func ParseExpression(sql string) (core.Expr, error) {
	p := New(strings.NewReader(sql))
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expectEnd(); err != nil {
		return nil, err
	}
	return expr, nil
}

// StatementPos returns the position of the first token of the statement
// most recently passed to ParseStatement.
func (p *Parser) StatementPos() token.Position {
	return p.stmtPos
}

// ---------- Token Helpers ----------

// current returns the current token, reading it if necessary.
func (p *Parser) current() token.Token {
	if !p.loaded {
		p.token, p.lexErr = p.lexer.NextToken()
		p.loaded = true
	}
	return p.token
}

// advance consumes the current token without reading the next one.
func (p *Parser) advance() {
	p.loaded = false
	p.lexErr = nil
}

// check returns true if the current token is of the given type.
func (p *Parser) check(t token.TokenType) bool {
	return p.current().Type == t
}

// match consumes the current token if it matches and returns true.
func (p *Parser) match(t token.TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise returns an error.
func (p *Parser) expect(t token.TokenType) error {
	if p.match(t) {
		return nil
	}
	return p.errorf(ErrUnexpectedToken, describe(p.current()), t)
}

// errorf builds an error at the current token. A lexical error attached to
// that token takes priority, since it explains why the token is unusable.
func (p *Parser) errorf(format string, args ...any) error {
	tok := p.current()
	if p.lexErr != nil {
		return p.lexErr
	}
	return &ParseError{Pos: tok.Pos, Message: fmt.Sprintf(format, args...)}
}

// describe renders a token for error messages.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.ENTER:
		return "end of line"
	case token.IDENT, token.INT, token.FLOAT, token.CHAR, token.ILLEGAL:
		return fmt.Sprintf("%q", tok.Literal)
	case token.STRING:
		return fmt.Sprintf("'%s'", tok.Literal)
	default:
		return tok.Type.String()
	}
}

// ---------- Statement Boundaries ----------

// expectTerminator consumes the `;` or newline ending a statement. End of
// input also ends a statement but is left in place.
func (p *Parser) expectTerminator() error {
	tok := p.current()
	switch tok.Type {
	case token.SEMI, token.ENTER:
		p.advance()
		return nil
	case token.EOF:
		return p.lexErr
	default:
		return p.errorf("unexpected %s, expected end of statement", describe(tok))
	}
}

// expectEnd requires that only terminators remain in the input.
func (p *Parser) expectEnd() error {
	for {
		tok := p.current()
		switch tok.Type {
		case token.SEMI, token.ENTER:
			p.advance()
		case token.EOF:
			return p.lexErr
		default:
			return p.errorf("unexpected %s after end of statement", describe(tok))
		}
	}
}

// SkipStatement discards the remainder of the current statement: every
// token up to and including the next `;` or newline. It stops before end
// of input. Call it after ParseStatement fails to resynchronize.
func (p *Parser) SkipStatement() {
	for {
		switch p.current().Type {
		case token.EOF:
			return
		case token.SEMI, token.ENTER:
			p.advance()
			return
		}
		p.advance()
	}
}
