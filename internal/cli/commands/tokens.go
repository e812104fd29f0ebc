package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/pkg/parser"
	"github.com/leapstack-labs/asql/pkg/token"
	"github.com/spf13/cobra"
)

// NewTokensCommand creates the tokens command.
func NewTokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [SQL]",
		Short: "Show the tokens of the input",
		Long: `Run the lexer over the input and print every token with its position.

The input is taken from the arguments, or from standard input when none
are given. Lexical errors are reported after the token table.`,
		Example: `  # Tokenize a statement
  asql tokens "SELECT e.NAME AS who FROM EMPLOYEES e"

  # Tokenize a file
  asql tokens < query.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			return runTokens(GetCommandContext(cmd).Renderer, src)
		},
	}
}

// readSQL returns the arguments joined by spaces, or all of standard input.
func readSQL(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

// tokenClass groups token types for display.
func tokenClass(t token.TokenType) string {
	switch {
	case t.IsKeyword():
		return "keyword"
	case t.IsLiteral():
		return "literal"
	case t.IsTerminator():
		return "terminator"
	case t == token.ILLEGAL:
		return "illegal"
	default:
		return "punctuation"
	}
}

func runTokens(r *output.Renderer, src string) error {
	toks, lexErr := parser.Tokenize(src)

	if r.EffectiveMode() == output.ModeJSON {
		outs := make([]output.TokenOutput, 0, len(toks))
		for _, tok := range toks {
			outs = append(outs, output.TokenOutput{
				Type:    tok.Type.String(),
				Literal: tok.Literal,
				Line:    tok.Pos.Line,
				Column:  tok.Pos.Column,
			})
		}
		if err := r.JSON(outs); err != nil {
			return err
		}
	} else {
		rows := make([][]string, 0, len(toks))
		for _, tok := range toks {
			rows = append(rows, []string{
				tok.Pos.String(),
				kindLabel(tokenClass(tok.Type)),
				tok.Type.String(),
				tok.Literal,
			})
		}
		r.Header(1, fmt.Sprintf("Tokens (%d total)", len(toks)))
		r.Table([]string{"Pos", "Class", "Type", "Literal"}, rows)
	}

	if lexErr == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if errors.As(lexErr, &joined) {
		for _, err := range joined.Unwrap() {
			r.Error(err.Error())
		}
	}
	return fmt.Errorf("lexical errors found")
}
