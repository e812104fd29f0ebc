package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/leapstack-labs/asql/internal/cli/testutil"
	"github.com/leapstack-labs/asql/internal/config"
	"github.com/leapstack-labs/asql/internal/session"
	intutil "github.com/leapstack-labs/asql/internal/testutil"
	"github.com/leapstack-labs/asql/pkg/catalog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

// newTestContext returns a CommandContext on the demo catalog that renders
// into tr.
func newTestContext(t *testing.T, tr *testutil.TestRenderer) *CommandContext {
	t.Helper()
	logger := intutil.NewTestLogger(t)
	cat := catalog.Demo()
	return &CommandContext{
		Cfg: &config.Config{
			Catalog:  config.CatalogConfig{Type: catalog.ProviderBuiltin},
			Output:   config.DefaultOutput,
			LogLevel: config.DefaultLogLevel,
			REPL:     config.REPLConfig{Prompt: config.DefaultPrompt},
		},
		Logger:   logger,
		Catalog:  cat,
		Session:  session.New(cat, logger),
		Renderer: tr.Renderer,
	}
}

// execute runs cmd with args and stdin, rendering into tr. Usage and error
// printing are silenced as on the root command.
func execute(t *testing.T, cmd *cobra.Command, tr *testutil.TestRenderer, stdin string, args ...string) error {
	t.Helper()
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.SetContext(WithCommandContext(context.Background(), newTestContext(t, tr)))
	cmd.SetArgs(append([]string{}, args...))
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(tr.Out)
	cmd.SetErr(tr.ErrOut)
	return cmd.Execute()
}

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{NewREPLCommand(), "repl", nil},
		{NewCheckCommand(), "check [file...]", []string{"watch", "jobs"}},
		{NewParseCommand(), "parse [SQL]", []string{"json", "skip-validate"}},
		{NewTokensCommand(), "tokens [SQL]", nil},
		{NewTablesCommand(), "tables [table]", nil},
	}

	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestGetCommandContext_Defaults(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.SetContext(context.Background())

	cc := GetCommandContext(cmd)
	assert.NotNil(t, cc.Renderer)
	assert.NotNil(t, cc.Session)
	assert.True(t, cc.Catalog.TableExists("EMPLOYEES"))
	assert.Equal(t, catalog.ProviderBuiltin, cc.Cfg.Catalog.Type)
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Unknown Column", kindLabel("unknown-column"))
	assert.Equal(t, "Syntax", kindLabel("syntax"))
	assert.Equal(t, "Keyword", kindLabel("keyword"))
}
