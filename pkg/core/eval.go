package core

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/asql/pkg/token"
)

// Evaluation errors.
var (
	ErrNotConstant    = errors.New("expression is not a numeric constant")
	ErrDivisionByZero = errors.New("division by zero")
)

// Eval folds a constant numeric expression. Column references, strings and
// function calls have no value without row data and return ErrNotConstant.
func Eval(e Expr) (float64, error) {
	switch n := e.(type) {
	case *IntLiteral:
		return float64(n.Value), nil
	case *FloatLiteral:
		return n.Value, nil
	case *Variable, *StringLiteral, *FunctionCall:
		return 0, fmt.Errorf("%s: %w", String(e), ErrNotConstant)
	case *BinaryOp:
		l, err := Eval(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := Eval(n.Right)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case token.PLUS:
			return l + r, nil
		case token.MINUS:
			return l - r, nil
		case token.STAR:
			return l * r, nil
		case token.SLASH:
			if r == 0 {
				return 0, fmt.Errorf("%s: %w", String(e), ErrDivisionByZero)
			}
			return l / r, nil
		default:
			return 0, fmt.Errorf("unsupported operator %s", n.Op)
		}
	default:
		unknownExpr(e)
		return 0, nil
	}
}
