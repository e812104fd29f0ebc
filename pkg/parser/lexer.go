package parser

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/token"
)

// Lookahead sentinels. Both sit outside the valid rune range.
const (
	startOfInput rune = -2 // behaves as whitespace
	endOfInput   rune = -1
)

// Lexer tokenizes a character stream one token at a time.
//
// The lexer holds a single rune of lookahead. After a terminator (`;` or a
// newline) and after single-character tokens the lookahead is reset to the
// start-of-input sentinel, so the next rune is not requested until the next
// call to NextToken.
type Lexer struct {
	r    io.RuneReader
	ch   rune           // current rune under examination
	pos  token.Position // position of ch
	next token.Position // position of the rune after ch
	err  error          // sticky reader error
}

// NewLexer creates a new Lexer reading from r.
func NewLexer(r io.RuneReader) *Lexer {
	l := &Lexer{}
	l.Reset(r)
	return l
}

// Reset discards all lexer state and starts reading from r.
func (l *Lexer) Reset(r io.RuneReader) {
	l.r = r
	l.ch = startOfInput
	l.pos = token.Position{}
	l.next = token.Position{Line: 1, Column: 1}
	l.err = nil
}

// readChar advances to the next rune.
func (l *Lexer) readChar() {
	l.pos = l.next
	if l.err != nil {
		l.ch = endOfInput
		return
	}

	ch, size, err := l.r.ReadRune()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			l.err = fmt.Errorf("read input: %w", err)
		}
		l.ch = endOfInput
		return
	}

	l.ch = ch
	l.next.Offset += size
	if ch == '\n' {
		l.next.Line++
		l.next.Column = 1
	} else {
		l.next.Column++
	}
}

// NextToken returns the next token. Lexical errors yield an ILLEGAL token
// together with a *LexError; reader failures yield EOF with the wrapped
// reader error.
func (l *Lexer) NextToken() (token.Token, error) {
	for {
		switch l.ch {
		case startOfInput, ' ', '\t':
			l.readChar()
			continue
		case '#':
			l.skipComment()
			continue
		}
		break
	}

	pos := l.pos

	switch ch := l.ch; {
	case ch == endOfInput:
		return token.Token{Type: token.EOF, Pos: pos}, l.err
	case ch == '\n' || ch == '\r':
		l.ch = startOfInput
		return token.Token{Type: token.ENTER, Literal: string(ch), Pos: pos}, nil
	case ch == ';':
		l.ch = startOfInput
		return token.Token{Type: token.SEMI, Literal: ";", Pos: pos}, nil
	case unicode.IsLetter(ch):
		return l.readIdentifier(pos), nil
	case ch == '"' || ch == '\'':
		return l.readString(pos)
	case isDigit(ch):
		return l.readNumber(pos)
	default:
		l.ch = startOfInput
		if typ, ok := token.Punctuation[ch]; ok {
			return token.Token{Type: typ, Literal: string(ch), Pos: pos}, nil
		}
		return token.Token{Type: token.CHAR, Literal: string(ch), Pos: pos}, nil
	}
}

// skipComment discards a # comment up to, not including, the line break.
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != '\r' && l.ch != endOfInput {
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword.
func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	var sb strings.Builder
	for unicode.IsLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	ident := core.NormalizeName(sb.String())
	return token.Token{Type: token.LookupIdent(ident), Literal: ident, Pos: pos}
}

// readString reads a string delimited by the quote under examination.
// The payload excludes the quotes.
func (l *Lexer) readString(pos token.Position) (token.Token, error) {
	quote := l.ch
	l.readChar() // skip opening quote

	var sb strings.Builder
	for {
		switch l.ch {
		case quote:
			l.ch = startOfInput
			return token.Token{Type: token.STRING, Literal: sb.String(), Quote: quote, Pos: pos}, nil
		case '\n', '\r', endOfInput:
			return l.illegal(pos, string(quote)+sb.String(), ErrUnterminatedString)
		}
		sb.WriteRune(l.ch)
		l.readChar()
	}
}

// readNumber reads an integer or float literal. A number must be followed
// by a character that cannot extend it.
func (l *Lexer) readNumber(pos token.Position) (token.Token, error) {
	var sb strings.Builder
	l.readDigits(&sb)

	typ := token.INT
	if l.ch == '.' {
		typ = token.FLOAT
		sb.WriteRune(l.ch)
		l.readChar()
		if !isDigit(l.ch) {
			return l.malformedNumber(pos, &sb)
		}
		l.readDigits(&sb)
	}

	if !isNumberTerminator(l.ch) {
		return l.malformedNumber(pos, &sb)
	}
	return token.Token{Type: typ, Literal: sb.String(), Pos: pos}, nil
}

func (l *Lexer) readDigits(sb *strings.Builder) {
	for isDigit(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
}

// malformedNumber swallows the rest of the bad literal so the error token
// covers all of it.
func (l *Lexer) malformedNumber(pos token.Position, sb *strings.Builder) (token.Token, error) {
	for l.ch != endOfInput && !isNumberTerminator(l.ch) {
		sb.WriteRune(l.ch)
		l.readChar()
	}
	return l.illegal(pos, sb.String(), fmt.Sprintf(ErrMalformedNumber, sb.String()))
}

func (l *Lexer) illegal(pos token.Position, literal, msg string) (token.Token, error) {
	return token.Token{Type: token.ILLEGAL, Literal: literal, Pos: pos},
		&LexError{Pos: pos, Message: msg}
}

// Tokenize lexes src to the end and returns every token including the
// final EOF. Lexical errors do not stop tokenization; they are joined in
// the returned error.
func Tokenize(src string) ([]token.Token, error) {
	l := NewLexer(strings.NewReader(src))

	var (
		toks []token.Token
		errs []error
	)
	for {
		tok, err := l.NextToken()
		if err != nil {
			errs = append(errs, err)
		}
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			return toks, errors.Join(errs...)
		}
	}
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isNumberTerminator(ch rune) bool {
	switch ch {
	case endOfInput, ' ', '\t', '\n', '\r',
		'+', '-', '*', '/', '=', '<', '>', '!', ';', ')', ',':
		return true
	}
	return false
}
