package parser

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

// Primary expression parsing.
//
//	primary → "(" expr ")"
//	        | INT | FLOAT | STRING
//	        | IDENT ["." IDENT]
//	        | IDENT "(" [expr {"," expr}] ")"

// parsePrimary parses a primary expression.
func (p *Parser) parsePrimary() (core.Expr, error) {
	tok := p.current()
	switch tok.Type {
	case token.LPAREN:
		return p.parseParenExpr()
	case token.INT:
		v, err := strconv.ParseInt(tok.Literal, 10, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("integer %s out of range", tok.Literal), Err: err}
		}
		p.advance()
		return &core.IntLiteral{Value: v, Text: tok.Literal}, nil
	case token.FLOAT:
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &ParseError{Pos: tok.Pos, Message: fmt.Sprintf("float %s out of range", tok.Literal), Err: err}
		}
		p.advance()
		return &core.FloatLiteral{Value: v, Text: tok.Literal}, nil
	case token.STRING:
		p.advance()
		return &core.StringLiteral{Value: tok.Literal, Text: string(tok.Quote) + tok.Literal + string(tok.Quote)}, nil
	case token.IDENT:
		return p.parseIdentExpr()
	default:
		return nil, p.errorf(ErrUnexpectedToken, describe(tok), "expression")
	}
}

// parseParenExpr parses a parenthesized expression.
func (p *Parser) parseParenExpr() (core.Expr, error) {
	p.advance() // consume (
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseIdentExpr parses a column reference or function call.
func (p *Parser) parseIdentExpr() (core.Expr, error) {
	name := p.current().Literal
	p.advance()

	switch p.current().Type {
	case token.DOT:
		p.advance()
		tok := p.current()
		if tok.Type != token.IDENT {
			return nil, p.errorf("expected column name after %s., found %s", name, describe(tok))
		}
		p.advance()
		return &core.Variable{Name: tok.Literal, Qualifier: name}, nil
	case token.LPAREN:
		return p.parseFuncCall(name)
	default:
		return &core.Variable{Name: name}, nil
	}
}

// parseFuncCall parses the argument list of a function call.
func (p *Parser) parseFuncCall(name string) (core.Expr, error) {
	p.advance() // consume (

	fn := &core.FunctionCall{Name: name}
	if p.match(token.RPAREN) {
		return fn, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		fn.Args = append(fn.Args, arg)
		if !p.match(token.COMMA) {
			break
		}
	}

	if err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	return fn, nil
}
