package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables [table]",
		Short: "List catalog tables and their columns",
		Long: `List the tables of the configured catalog, or the columns of one table.

Output adapts to environment:
  - Terminal: Styled table
  - Piped/Scripted: Markdown table
  - JSON: Machine-readable format`,
		Example: `  # List tables of the built-in catalog
  asql tables

  # Show the columns of one table
  asql tables employees

  # Tables of a schema file as JSON
  asql tables --catalog file --catalog-path schema.yaml -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := GetCommandContext(cmd)
			if len(args) == 1 {
				return renderSchema(cc.Renderer, cc.Catalog, args[0])
			}
			return renderTableList(cc.Renderer, cc.Catalog)
		},
	}
}

// tableOutput describes one catalog table.
func tableOutput(cat core.CatalogLister, name string) output.TableOutput {
	cols := cat.Columns(name)
	out := output.TableOutput{Name: name, Columns: make([]output.ColumnOutput, 0, len(cols))}
	for _, c := range cols {
		out.Columns = append(out.Columns, output.ColumnOutput{Name: c.Name, Type: c.Type.String()})
	}
	return out
}

// renderTableList prints every table of the catalog.
func renderTableList(r *output.Renderer, cat core.CatalogLister) error {
	tables := cat.Tables()

	if r.EffectiveMode() == output.ModeJSON {
		outs := make([]output.TableOutput, 0, len(tables))
		for _, name := range tables {
			outs = append(outs, tableOutput(cat, name))
		}
		return r.JSON(outs)
	}

	if len(tables) == 0 {
		r.Muted("No tables in catalog")
		return nil
	}

	rows := make([][]string, 0, len(tables))
	for _, name := range tables {
		cols := cat.Columns(name)
		names := make([]string, 0, len(cols))
		for _, c := range cols {
			names = append(names, c.Name)
		}
		rows = append(rows, []string{name, strconv.Itoa(len(cols)), strings.Join(names, ", ")})
	}

	r.Header(1, fmt.Sprintf("Tables (%d total)", len(tables)))
	r.Table([]string{"Table", "Columns", "Names"}, rows)
	return nil
}

// renderSchema prints the columns of one table.
func renderSchema(r *output.Renderer, cat core.CatalogLister, name string) error {
	name = core.NormalizeName(name)
	if !cat.TableExists(name) {
		return fmt.Errorf("unknown table %q", name)
	}

	t := tableOutput(cat, name)
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(t)
	}

	rows := make([][]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		rows = append(rows, []string{c.Name, c.Type})
	}

	r.Header(1, "Table "+name)
	r.Table([]string{"Column", "Type"}, rows)
	return nil
}
