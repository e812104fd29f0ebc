// Package format renders parsed statements and expressions as SQL text.
package format

import (
	"bytes"
	"strings"

	"github.com/leapstack-labs/asql/pkg/token"
)

const indentSize = 2

// Printer accumulates formatted SQL. In compact mode clauses and list items
// are separated by single spaces and the output stays on one line, which
// the parser accepts back as one statement.
type Printer struct {
	output      *bytes.Buffer
	depth       int
	atLineStart bool
	compact     bool
}

func newPrinter(compact bool) *Printer {
	return &Printer{
		output:      &bytes.Buffer{},
		atLineStart: true,
		compact:     compact,
	}
}

// String returns the formatted output.
func (p *Printer) String() string {
	if p.compact {
		return strings.TrimSpace(p.output.String())
	}
	return strings.TrimRight(p.output.String(), "\n") + "\n"
}

func (p *Printer) write(s string) {
	if p.atLineStart && len(s) > 0 && s[0] != '\n' {
		p.writeIndent()
	}
	p.output.WriteString(s)
	p.atLineStart = false
}

// newline ends the current line, or writes a space in compact mode.
func (p *Printer) newline() {
	if p.compact {
		p.space()
		return
	}
	p.output.WriteByte('\n')
	p.atLineStart = true
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.depth*indentSize; i++ {
		p.output.WriteByte(' ')
	}
	p.atLineStart = false
}

func (p *Printer) indent() {
	p.depth++
}

func (p *Printer) dedent() {
	if p.depth > 0 {
		p.depth--
	}
}

func (p *Printer) space() {
	p.output.WriteByte(' ')
}

// kw prints keywords separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	for i, t := range tokens {
		if i > 0 {
			p.space()
		}
		p.write(t.String())
	}
}

// formatList prints count items separated by sep. Multiline lists put each
// item on its own line.
func (p *Printer) formatList(count int, format func(i int), sep string, multiline bool) {
	for i := 0; i < count; i++ {
		format(i)
		if i < count-1 {
			p.write(sep)
			if multiline {
				p.newline()
			} else {
				p.space()
			}
		}
	}
}
