// Package cli provides the command-line interface for asql.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/leapstack-labs/asql/internal/cli/commands"
	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/internal/config"
	"github.com/leapstack-labs/asql/internal/session"
	"github.com/leapstack-labs/asql/pkg/catalog"
	"github.com/spf13/cobra"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "asql",
		Short: "asql - parse and validate SELECT statements",
		Long: `asql is a front-end for a small SQL-like query language.

It tokenizes and parses SELECT statements, then resolves every column
reference against a schema catalog, reporting unknown and ambiguous
references. The catalog comes from a built-in demo schema, a YAML file,
or the live schema of a SQLite or PostgreSQL database.

Without a command, asql starts the interactive shell.`,
		Version: Version,
		Args:    cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			cc, err := newCommandContext(cmd, cfg)
			if err != nil {
				return err
			}
			cmd.SetContext(commands.WithCommandContext(cmd.Context(), cc))

			if cfg.ConfigFile != "" {
				cc.Logger.Debug("using config file", "path", cfg.ConfigFile)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.RunREPL(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: asql.yaml in the current or a parent directory)")
	flags.String("catalog", "", "Catalog type (builtin|file|sqlite|postgres)")
	flags.String("catalog-path", "", "Schema file or SQLite database path")
	flags.String("dsn", "", "Database connection string for the catalog")
	flags.String("schema", "", "PostgreSQL schema to read (default public)")
	flags.Duration("catalog-timeout", 0, "Timeout for loading the catalog")
	flags.StringP("output", "o", "", "Output format (auto|text|markdown|json)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.Bool("first-error-only", false, "Report only the first semantic error of a statement")
	flags.String("prompt", "", "Interactive shell prompt")
	flags.String("history-file", "", "Interactive shell history file")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.OutputModes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("catalog", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return catalog.List(), cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewTokensCommand())
	rootCmd.AddCommand(commands.NewTablesCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newCommandContext builds the logger, catalog, session and renderer
// described by cfg.
func newCommandContext(cmd *cobra.Command, cfg *config.Config) (*commands.CommandContext, error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	ctx := cmd.Context()
	if cfg.Catalog.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Catalog.Timeout)
		defer cancel()
	}
	cat, err := catalog.Open(ctx, cfg.Source(), logger)
	if err != nil {
		return nil, err
	}

	var opts []session.Option
	if cfg.FirstErrorOnly {
		opts = append(opts, session.WithFirstErrorOnly())
	}

	return &commands.CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Catalog:  cat,
		Session:  session.New(cat, logger, opts...),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output)),
	}, nil
}

// Execute runs the root command until it finishes or is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for asql.

To load completions:

Bash:
  $ source <(asql completion bash)

Zsh:
  $ asql completion zsh > "${fpath[1]}/_asql"

Fish:
  $ asql completion fish | source

PowerShell:
  PS> asql completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
