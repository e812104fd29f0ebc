package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/format"
	"github.com/leapstack-labs/asql/pkg/parser"
	"github.com/leapstack-labs/asql/pkg/validate"
	"github.com/spf13/cobra"
)

// ParseOptions holds options for the parse command.
type ParseOptions struct {
	JSON         bool // Print the AST as JSON
	SkipValidate bool // Only parse
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}
	cmd := &cobra.Command{
		Use:   "parse [SQL]",
		Short: "Parse one statement and print its canonical form",
		Long: `Parse a single SELECT statement, validate it against the catalog and
print its canonical SQL, projection aliases and referenced columns.

The input is taken from the arguments, or from standard input when none
are given. Use --json to print the syntax tree.`,
		Example: `  # Canonical form of a statement
  asql parse "select e.name who, 1+2*3 from employees e"

  # Syntax tree as JSON
  asql parse --json "SELECT (1 + 2) * 3"

  # Parse without a catalog lookup
  asql parse --skip-validate "SELECT A FROM NOWHERE"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSQL(cmd, args)
			if err != nil {
				return err
			}
			cc := GetCommandContext(cmd)
			r := cc.Renderer
			if opts.JSON {
				r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeJSON)
			}

			var v *validate.Validator
			if !opts.SkipValidate {
				vopts := []validate.Option{validate.WithLogger(cc.Logger)}
				if cc.Cfg.FirstErrorOnly {
					vopts = append(vopts, validate.WithFirstErrorOnly())
				}
				v = validate.New(cc.Catalog, vopts...)
			}
			return runParse(r, v, src)
		},
	}

	cmd.Flags().BoolVar(&opts.JSON, "json", false, "Print the syntax tree as JSON")
	cmd.Flags().BoolVar(&opts.SkipValidate, "skip-validate", false, "Parse only, without resolving columns")

	return cmd
}

// runParse parses src and prints the result. A nil validator skips
// validation.
func runParse(r *output.Renderer, v *validate.Validator, src string) error {
	stmt, err := parser.ParseString(src)
	if err != nil {
		return err
	}

	out := parseOutput(stmt)
	var verr error
	if v != nil {
		res, err := v.Validate(stmt)
		if err != nil {
			verr = err
			out.Errors = errorOutputs(err)
		} else {
			out.References = res.References
		}
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		if err := r.JSON(out); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Statement"))
		r.Println("")
		r.Println(output.FormatCodeBlock("sql", format.Pretty(stmt)))
		r.Println("")
		r.Println(output.FormatKeyValue("Columns", strings.Join(out.Columns, ", ")))
		if len(out.Tables) > 0 {
			r.Println(output.FormatKeyValue("Tables", tableList(out.Tables)))
		}
		if out.References != nil {
			r.Println(output.FormatKeyValue("References", formatReferences(out.References)))
		}
	default:
		styles := r.Styles()
		r.Printf("%s\n", format.Pretty(stmt))
		r.Printf("%s %s\n", styles.Bold.Render("Columns:"), strings.Join(out.Columns, ", "))
		if len(out.Tables) > 0 {
			r.Printf("%s %s\n", styles.Bold.Render("Tables:"), tableList(out.Tables))
		}
		if out.References != nil {
			r.Printf("%s %s\n", styles.Bold.Render("References:"), formatReferences(out.References))
		}
	}

	if verr != nil {
		if r.EffectiveMode() != output.ModeJSON {
			for _, e := range out.Errors {
				r.Error(fmt.Sprintf("%s: %s", e.Kind, e.Message))
			}
		}
		return fmt.Errorf("statement is not valid")
	}
	return nil
}

func parseOutput(stmt *core.SelectStatement) output.ParseOutput {
	out := output.ParseOutput{
		SQL:     format.Statement(stmt),
		Columns: stmt.ColumnAliases(),
		Limit:   stmt.Limit,
		AST:     stmtTree(stmt),
	}
	for _, t := range stmt.From {
		out.Tables = append(out.Tables, output.TableRefOutput{Name: t.Name, Alias: t.Alias})
	}
	for _, f := range stmt.Where {
		out.Where = append(out.Where, output.FilterOutput{
			Left:  format.Expr(f.Left),
			Op:    f.Op.String(),
			Right: format.Expr(f.Right),
		})
	}
	return out
}

func tableList(tables []output.TableRefOutput) string {
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		if t.Alias != t.Name {
			parts = append(parts, t.Name+" "+t.Alias)
			continue
		}
		parts = append(parts, t.Name)
	}
	return strings.Join(parts, ", ")
}

// ---------- Syntax Tree ----------

func stmtTree(stmt *core.SelectStatement) map[string]any {
	cols := make([]any, 0, len(stmt.Columns))
	for _, c := range stmt.Columns {
		cols = append(cols, exprTree(c))
	}
	tree := map[string]any{"type": "select", "columns": cols}

	if len(stmt.Where) > 0 {
		filters := make([]any, 0, len(stmt.Where))
		for _, f := range stmt.Where {
			filters = append(filters, map[string]any{
				"op":    f.Op.String(),
				"left":  exprTree(f.Left),
				"right": exprTree(f.Right),
			})
		}
		tree["where"] = filters
	}
	return tree
}

// exprTree converts an expression into nested maps for JSON output.
func exprTree(e core.Expr) map[string]any {
	var node map[string]any
	switch e := e.(type) {
	case *core.Variable:
		node = map[string]any{"type": "column", "name": e.Name}
		if e.IsQualified() {
			node["qualifier"] = e.Qualifier
		}
	case *core.IntLiteral:
		node = map[string]any{"type": "integer", "value": e.Value}
	case *core.FloatLiteral:
		node = map[string]any{"type": "float", "value": e.Value}
	case *core.StringLiteral:
		node = map[string]any{"type": "string", "value": e.Value}
	case *core.FunctionCall:
		args := make([]any, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, exprTree(a))
		}
		node = map[string]any{"type": "call", "name": e.Name, "args": args}
	case *core.BinaryOp:
		node = map[string]any{
			"type":  "binary",
			"op":    e.Op.String(),
			"left":  exprTree(e.Left),
			"right": exprTree(e.Right),
		}
	default:
		panic(fmt.Sprintf("unexpected expression %T", e))
	}
	if alias := e.ExplicitAlias(); alias != "" {
		node["alias"] = alias
	}
	return node
}
