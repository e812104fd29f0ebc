package parser

import (
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

// Expression parsing using precedence climbing.
//
// Precedence levels:
//
//	+, -   10
//	*, /   20
//
// Any other token has precedence -1 and ends the expression.

// Binary operator precedence levels.
const (
	precNone     = -1
	precAddition = 10
	precMultiply = 20
)

// precedence returns the binary precedence of an operator token.
func precedence(t token.TokenType) int {
	switch t {
	case token.PLUS, token.MINUS:
		return precAddition
	case token.STAR, token.SLASH:
		return precMultiply
	default:
		return precNone
	}
}

// parseExpression parses a primary followed by any binary operators.
//
//	expr → primary {op primary}
func (p *Parser) parseExpression() (core.Expr, error) {
	lhs, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	return p.parseBinaryRHS(0, lhs)
}

// parseBinaryRHS folds operators binding tighter than minPrec into lhs.
//
// The loop runs while the current operator's precedence is strictly greater
// than minPrec. A right operand absorbs the following operators only while
// their precedence strictly increases, so operators of equal precedence
// associate to the left.
func (p *Parser) parseBinaryRHS(minPrec int, lhs core.Expr) (core.Expr, error) {
	for {
		op := p.current().Type
		prec := precedence(op)
		if prec <= minPrec {
			return lhs, nil
		}
		p.advance()

		rhs, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}

		if precedence(p.current().Type) > prec {
			rhs, err = p.parseBinaryRHS(prec, rhs)
			if err != nil {
				return nil, err
			}
		}

		lhs = core.NewBinaryOp(op, lhs, rhs)
	}
}
