package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/leapstack-labs/asql/internal/cli/output"
	"github.com/leapstack-labs/asql/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// stdinName labels statements read from standard input.
const stdinName = "<stdin>"

// watchDebounce delays a re-check until a burst of file events settles.
const watchDebounce = 100 * time.Millisecond

// CheckOptions holds options for the check command.
type CheckOptions struct {
	Watch bool // Re-check when files change
	Jobs  int  // Files checked concurrently
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}
	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Validate the statements of files",
		Long: `Parse and validate every statement of the given files against the catalog.

Statements are read from standard input when no file is given. Files are
checked concurrently. A statement that fails to parse is skipped up to the
next ';' or end of line and checking continues with the next statement.

The command exits with a non-zero status when any statement fails.

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Check two files
  asql check reports.sql adhoc.sql

  # Check statements from a pipe
  cat *.sql | asql check

  # Re-check whenever a file changes
  asql check --watch reports.sql

  # Machine-readable results
  asql check -o json reports.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-check files when they change")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.GOMAXPROCS(0), "Number of files checked concurrently")

	return cmd
}

// fileResult holds the outcomes of one input.
type fileResult struct {
	Path     string
	Outcomes []session.Outcome
	Stats    session.Stats
}

func runCheck(cmd *cobra.Command, paths []string, opts *CheckOptions) error {
	cc := GetCommandContext(cmd)
	ctx := cmd.Context()

	if opts.Watch {
		if len(paths) == 0 {
			return fmt.Errorf("--watch requires at least one file")
		}
		return watchCheck(ctx, cc, paths, opts.Jobs)
	}

	var (
		results []fileResult
		err     error
	)
	if len(paths) == 0 {
		results, err = checkReader(ctx, cc.Session, stdinName, cmd.InOrStdin())
	} else {
		results, err = checkFiles(ctx, cc.Session, paths, opts.Jobs)
	}
	if err != nil {
		return err
	}

	summary := renderCheckResults(cc.Renderer, results)
	if failed := summary.SyntaxErrors + summary.SemanticErrors; failed > 0 {
		return fmt.Errorf("%d of %d statements failed", failed, summary.Statements)
	}
	return nil
}

func checkReader(ctx context.Context, sess *session.Session, name string, r io.Reader) ([]fileResult, error) {
	res := fileResult{Path: name}
	if err := sess.Run(ctx, r, res.add); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return []fileResult{res}, nil
}

// checkFiles checks every file concurrently with its own parser. Results
// keep the order of paths.
func checkFiles(ctx context.Context, sess *session.Session, paths []string, jobs int) ([]fileResult, error) {
	results := make([]fileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, path := range paths {
		g.Go(func() error {
			f, err := os.Open(path) //nolint:gosec // user-supplied input file
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			results[i].Path = path
			if err := sess.Run(gctx, f, results[i].add); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (res *fileResult) add(o session.Outcome) error {
	res.Outcomes = append(res.Outcomes, o)
	res.Stats.Add(o)
	return nil
}

// renderCheckResults prints the results and returns the totals.
func renderCheckResults(r *output.Renderer, results []fileResult) output.CheckSummary {
	summary := output.CheckSummary{Files: len(results)}
	for _, res := range results {
		summary.Statements += res.Stats.Statements
		summary.Valid += res.Stats.Valid
		summary.SyntaxErrors += res.Stats.SyntaxErrors
		summary.SemanticErrors += res.Stats.SemanticErrors
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		checkJSON(r, results, summary)
	case output.ModeMarkdown:
		checkMarkdown(r, results, summary)
	default:
		checkText(r, results, summary)
	}
	return summary
}

func checkJSON(r *output.Renderer, results []fileResult, summary output.CheckSummary) {
	out := output.CheckOutput{
		Files:   make([]output.CheckFileOutput, 0, len(results)),
		Summary: summary,
	}
	for _, res := range results {
		file := output.CheckFileOutput{
			Path:       res.Path,
			Statements: make([]output.StatementOutput, 0, len(res.Outcomes)),
		}
		for _, o := range res.Outcomes {
			file.Statements = append(file.Statements, statementOutput(o))
		}
		out.Files = append(out.Files, file)
	}
	_ = r.JSON(out)
}

func checkMarkdown(r *output.Renderer, results []fileResult, summary output.CheckSummary) {
	r.Println(output.FormatHeader(1, "Check Results"))
	r.Println("")

	var rows [][]string
	for _, res := range results {
		for _, o := range res.Outcomes {
			s := statementOutput(o)
			for _, e := range s.Errors {
				rows = append(rows, []string{res.Path, location(e, s), kindLabel(e.Kind), e.Message})
			}
		}
	}
	if len(rows) > 0 {
		r.Table([]string{"File", "Pos", "Kind", "Message"}, rows)
		r.Println("")
	}

	r.Println(output.FormatHeader(2, "Summary"))
	r.Println(output.FormatKeyValue("Files", fmt.Sprintf("%d", summary.Files)))
	r.Println(output.FormatKeyValue("Statements", fmt.Sprintf("%d", summary.Statements)))
	r.Println(output.FormatKeyValue("Valid", fmt.Sprintf("%d", summary.Valid)))
	r.Println(output.FormatKeyValue("Syntax Errors", fmt.Sprintf("%d", summary.SyntaxErrors)))
	r.Println(output.FormatKeyValue("Semantic Errors", fmt.Sprintf("%d", summary.SemanticErrors)))
}

func checkText(r *output.Renderer, results []fileResult, summary output.CheckSummary) {
	styles := r.Styles()

	for _, res := range results {
		if res.Stats.Failed() == 0 {
			continue
		}
		r.Println(styles.Bold.Render(res.Path))
		for _, o := range res.Outcomes {
			s := statementOutput(o)
			for _, e := range s.Errors {
				r.Printf("  %s  %s  %s\n",
					styles.Muted.Render(fmt.Sprintf("%-7s", location(e, s))),
					styles.Error.Render(fmt.Sprintf("%-17s", e.Kind)),
					e.Message,
				)
			}
		}
		r.Println("")
	}

	if summary.SyntaxErrors+summary.SemanticErrors == 0 {
		r.Success(fmt.Sprintf("%d statements valid in %d files", summary.Statements, summary.Files))
		return
	}
	r.Printf("Summary: %d statements, %d syntax errors, %d semantic errors in %d files\n",
		summary.Statements, summary.SyntaxErrors, summary.SemanticErrors, summary.Files)
}

// watchCheck checks paths, then re-checks them whenever one changes, until
// ctx is done.
func watchCheck(ctx context.Context, cc *CommandContext, paths []string, jobs int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch directories so editors that replace files keep triggering.
	watched := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	r := cc.Renderer
	check := func() {
		results, err := checkFiles(ctx, cc.Session, paths, jobs)
		if err != nil {
			r.Error(err.Error())
			return
		}
		renderCheckResults(r, results)
	}
	check()

	trigger := make(chan struct{}, 1)
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if abs, err := filepath.Abs(event.Name); err != nil || !watched[abs] {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})

		case <-trigger:
			cc.Logger.Debug("file changed, re-checking")
			r.Muted(fmt.Sprintf("--- %s ---", time.Now().Format(time.TimeOnly)))
			check()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cc.Logger.Error("watcher error", "error", err)
		}
	}
}
