package parser

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/asql/pkg/token"
)

// ErrUnsupportedStatement is wrapped by the ParseError returned for
// statement kinds that are recognized but not handled (INSERT, UPDATE,
// DELETE, CREATE).
var ErrUnsupportedStatement = errors.New("unsupported statement")

// ParseError represents a parsing error with position information.
type ParseError struct {
	Pos     token.Position
	Message string
	Err     error // optional cause
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}

// IsSyntaxError reports whether err is a lexical or parse error, as opposed
// to an input failure.
func IsSyntaxError(err error) bool {
	var pe *ParseError
	var le *LexError
	return errors.As(err, &pe) || errors.As(err, &le)
}

// Common error messages
const (
	ErrUnexpectedToken    = "unexpected %s, expected %s"
	ErrUnterminatedString = "unterminated string literal"
	ErrMalformedNumber    = "malformed number %q"
)
