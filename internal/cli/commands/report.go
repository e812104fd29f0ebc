package commands

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/internal/session"
	"github.com/leapstack-labs/asql/pkg/format"
	"github.com/leapstack-labs/asql/pkg/parser"
	"github.com/leapstack-labs/asql/pkg/validate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// kindSyntax labels parse and lex errors.
const kindSyntax = "syntax"

var titleCaser = cases.Title(language.English)

// kindLabel turns an error kind such as unknown-column into "Unknown Column".
func kindLabel(kind string) string {
	return titleCaser.String(strings.ReplaceAll(kind, "-", " "))
}

// statementOutput converts an outcome into its JSON form.
func statementOutput(o session.Outcome) output.StatementOutput {
	out := output.StatementOutput{
		Index:  o.Index,
		Line:   o.Pos.Line,
		Column: o.Pos.Column,
	}
	if o.Statement != nil {
		out.SQL = format.Statement(o.Statement)
	}
	if o.Result != nil {
		out.Columns = o.Result.Columns
		out.References = o.Result.References
	}
	out.Errors = errorOutputs(o.Err)
	return out
}

// errorOutputs flattens a syntax error or validate.Errors.
func errorOutputs(err error) []output.ErrorOutput {
	if err == nil {
		return nil
	}

	var semantic validate.Errors
	if errors.As(err, &semantic) {
		outs := make([]output.ErrorOutput, 0, len(semantic))
		for _, e := range semantic {
			outs = append(outs, output.ErrorOutput{Kind: e.Kind.String(), Message: e.Error()})
		}
		return outs
	}

	out := output.ErrorOutput{Kind: kindSyntax, Message: err.Error()}
	var pe *parser.ParseError
	var le *parser.LexError
	switch {
	case errors.As(err, &le):
		out.Message, out.Line, out.Column = le.Message, le.Pos.Line, le.Pos.Column
	case errors.As(err, &pe):
		out.Message, out.Line, out.Column = pe.Message, pe.Pos.Line, pe.Pos.Column
	}
	return []output.ErrorOutput{out}
}

// location formats the line:column of an error, falling back to the
// statement start.
func location(e output.ErrorOutput, s output.StatementOutput) string {
	if e.Line > 0 {
		return fmt.Sprintf("%d:%d", e.Line, e.Column)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// renderOutcome prints one statement outcome as the REPL shows it.
func renderOutcome(r *output.Renderer, o session.Outcome) error {
	s := statementOutput(o)

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(s)
	case output.ModeMarkdown:
		if o.OK() {
			r.Println(output.FormatCodeBlock("sql", s.SQL))
			r.Println(output.FormatKeyValue("Columns", strings.Join(s.Columns, ", ")))
			r.Println(output.FormatKeyValue("References", formatReferences(s.References)))
			r.Println("")
			return nil
		}
		for _, e := range s.Errors {
			r.Println(output.FormatKeyValue(kindLabel(e.Kind), fmt.Sprintf("%s (%s)", e.Message, location(e, s))))
		}
		r.Println("")
		return nil
	default:
		if o.OK() {
			r.Success(s.SQL)
			r.Muted("columns: " + strings.Join(s.Columns, ", "))
			return nil
		}
		for _, e := range s.Errors {
			r.Error(fmt.Sprintf("%s %s: %s", location(e, s), e.Kind, e.Message))
		}
		return nil
	}
}

// formatReferences renders TABLE(COL, COL) groups in table order.
func formatReferences(refs map[string][]string) string {
	if len(refs) == 0 {
		return "-"
	}
	tables := slices.Sorted(maps.Keys(refs))
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		parts = append(parts, fmt.Sprintf("%s(%s)", t, strings.Join(refs[t], ", ")))
	}
	return strings.Join(parts, " ")
}
