package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/internal/session"
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start the interactive statement shell",
		Long: `Read statements interactively, validating each one against the catalog.

Each line holds one or more statements separated by ';'. A statement that
fails to parse is discarded up to the next ';' or end of line, and the
shell carries on with the next one.

When standard input is not a terminal, lines are read from it without a
prompt. This is also what running asql without a command does.`,
		Example: `  # Start the shell with the built-in demo catalog
  asql repl

  # Validate against a SQLite database schema
  asql repl --catalog sqlite --catalog-path app.db

  # Pipe statements in
  echo "SELECT NAME FROM EMPLOYEES" | asql`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunREPL(cmd)
		},
	}
}

// RunREPL runs the shell on the command's input.
func RunREPL(cmd *cobra.Command) error {
	cc := GetCommandContext(cmd)
	sh := &shell{cc: cc, r: cc.Renderer}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // file descriptors fit in int
		return sh.runStream(cmd.Context(), in)
	}
	return sh.runInteractive(cmd)
}

// shell executes dot-commands and statement lines.
type shell struct {
	cc *CommandContext
	r  *output.Renderer
}

// runStream executes every line of in. Lines are not length-limited.
func (s *shell) runStream(ctx context.Context, in io.Reader) error {
	br := bufio.NewReader(in)
	for {
		line, err := br.ReadString('\n')
		if line != "" && s.execLine(ctx, line) {
			return nil
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	}
}

func (s *shell) runInteractive(cmd *cobra.Command) error {
	cfg := s.cc.Cfg
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cfg.REPL.Prompt,
		HistoryFile:     cfg.REPL.HistoryFile,
		AutoComplete:    newCompleter(s.cc.Catalog),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	catalogName := cfg.Catalog.Type
	if cfg.Catalog.Path != "" {
		catalogName += ": " + cfg.Catalog.Path
	}
	s.r.Printf("asql shell (catalog %s)\n", catalogName)
	s.r.Println("Type .help for commands, .quit to exit")
	s.r.Println("")

	ctx := cmd.Context()
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if s.execLine(ctx, line) {
			return nil
		}
	}
}

// execLine runs one input line and reports whether the shell should exit.
func (s *shell) execLine(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		return s.dotCommand(line)
	}

	err := s.cc.Session.Run(ctx, strings.NewReader(line), func(o session.Outcome) error {
		return renderOutcome(s.r, o)
	})
	if err != nil {
		s.r.Error(err.Error())
	}
	return false
}

// dotCommand handles shell commands and reports whether the shell should exit.
func (s *shell) dotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(s.r.Writer())

	case ".tables":
		if err := renderTableList(s.r, s.cc.Catalog); err != nil {
			s.r.Error(err.Error())
		}

	case ".schema":
		if len(parts) < 2 {
			s.r.Error("Usage: .schema <table>")
			return false
		}
		if err := renderSchema(s.r, s.cc.Catalog, parts[1]); err != nil {
			s.r.Error(err.Error())
		}

	default:
		s.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .tables         List catalog tables
  .schema <name>  Show the columns of a table
  .quit / .exit   Exit the shell

Tips:
  - A statement ends at ';' or at the end of the line
  - Use arrow keys to navigate history
  - Tab completion works for table names
`
	_, _ = fmt.Fprintln(w, help)
}

// newCompleter completes dot-commands, keywords and table names.
func newCompleter(cat core.CatalogLister) *readline.PrefixCompleter {
	tables := cat.Tables()

	schemaItems := make([]readline.PrefixCompleterInterface, 0, len(tables))
	items := make([]readline.PrefixCompleterInterface, 0, len(tables)+8)
	for _, name := range tables {
		schemaItems = append(schemaItems, readline.PcItem(name))
		items = append(items, readline.PcItem(name))
	}

	items = append(items,
		readline.PcItem("SELECT"),
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".schema", schemaItems...),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
	return readline.NewPrefixCompleter(items...)
}
