// Package token defines the lexical tokens of the asql query language.
package token

import "fmt"

// TokenType represents the type of a lexical token.
//
//nolint:revive // token.TokenType reads better at call sites than token.Type
type TokenType int

const (
	// Special tokens
	EOF     TokenType = iota // end of input
	ILLEGAL                  // lexical error
	SEMI                     // ; (end of statement)
	ENTER                    // newline (end of statement line)

	// Raw values
	IDENT  // EMP_ID
	INT    // 42
	FLOAT  // 4.2
	STRING // 'text' or "text"

	// Punctuation and operators
	COMMA  // ,
	LPAREN // (
	RPAREN // )
	EQ     // =
	DOT    // .
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	LT     // <
	GT     // >
	BANG   // !
	CHAR   // any other single character

	keywordBeg
	// Keywords (alphabetical)
	AS
	BY
	CREATE
	DELETE
	FROM
	GROUP
	INSERT
	INTO
	JOIN
	LIMIT
	ON
	ORDER
	SELECT
	TABLE
	UPDATE
	VALUES
	WHERE
	keywordEnd
)

var tokenNames = map[TokenType]string{
	EOF:     "EOF",
	ILLEGAL: "ILLEGAL",
	SEMI:    ";",
	ENTER:   "ENTER",

	IDENT:  "IDENT",
	INT:    "INT",
	FLOAT:  "FLOAT",
	STRING: "STRING",

	COMMA:  ",",
	LPAREN: "(",
	RPAREN: ")",
	EQ:     "=",
	DOT:    ".",
	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	LT:     "<",
	GT:     ">",
	BANG:   "!",
	CHAR:   "CHAR",

	AS:     "AS",
	BY:     "BY",
	CREATE: "CREATE",
	DELETE: "DELETE",
	FROM:   "FROM",
	GROUP:  "GROUP",
	INSERT: "INSERT",
	INTO:   "INTO",
	JOIN:   "JOIN",
	LIMIT:  "LIMIT",
	ON:     "ON",
	ORDER:  "ORDER",
	SELECT: "SELECT",
	TABLE:  "TABLE",
	UPDATE: "UPDATE",
	VALUES: "VALUES",
	WHERE:  "WHERE",
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", int(t))
}

// IsKeyword reports whether t is a reserved keyword.
func (t TokenType) IsKeyword() bool {
	return t > keywordBeg && t < keywordEnd
}

// IsLiteral reports whether t carries a raw value payload.
func (t TokenType) IsLiteral() bool {
	switch t {
	case IDENT, INT, FLOAT, STRING:
		return true
	}
	return false
}

// IsTerminator reports whether t ends a statement.
func (t TokenType) IsTerminator() bool {
	return t == SEMI || t == ENTER || t == EOF
}

// keywords maps upper-case keyword text to its token type.
var keywords = func() map[string]TokenType {
	m := make(map[string]TokenType, int(keywordEnd-keywordBeg))
	for t := keywordBeg + 1; t < keywordEnd; t++ {
		m[tokenNames[t]] = t
	}
	return m
}()

// LookupIdent returns the keyword token for an upper-case identifier,
// or IDENT if it is not a keyword.
func LookupIdent(ident string) TokenType {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Punctuation maps single characters to their token type.
// Characters not listed here lex as CHAR.
var Punctuation = map[rune]TokenType{
	',': COMMA,
	'(': LPAREN,
	')': RPAREN,
	'=': EQ,
	'.': DOT,
	'+': PLUS,
	'-': MINUS,
	'*': STAR,
	'/': SLASH,
	'<': LT,
	'>': GT,
	'!': BANG,
}

// Token is a single lexical unit.
type Token struct {
	Type    TokenType
	Literal string // identifier text, string payload, number lexeme or the raw character
	Quote   rune   // opening quote of a STRING token
	Pos     Position
}

// String renders the token for diagnostics.
func (t Token) String() string {
	switch {
	case t.Type.IsLiteral(), t.Type == CHAR, t.Type == ILLEGAL:
		return fmt.Sprintf("%s(%s)", t.Type, t.Literal)
	default:
		return t.Type.String()
	}
}
