package commands

import (
	"context"
	"log/slog"

	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/internal/config"
	"github.com/leapstack-labs/asql/internal/session"
	"github.com/leapstack-labs/asql/pkg/catalog"
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Catalog  core.CatalogLister
	Session  *session.Session
	Renderer *output.Renderer
}

// commandContextKey is used to store the CommandContext in a context.
type commandContextKey struct{}

// WithCommandContext returns a copy of ctx carrying cc.
func WithCommandContext(ctx context.Context, cc *CommandContext) context.Context {
	return context.WithValue(ctx, commandContextKey{}, cc)
}

// GetCommandContext returns the CommandContext stored by the root command.
// Without one, it returns defaults: the built-in catalog, a discarding
// logger, and a renderer on the command's writers.
func GetCommandContext(cmd *cobra.Command) *CommandContext {
	if cc, ok := cmd.Context().Value(commandContextKey{}).(*CommandContext); ok && cc != nil {
		return cc
	}

	logger := slog.New(slog.DiscardHandler)
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
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.ModeAuto),
	}
}
