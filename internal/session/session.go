// Package session drives the parse, validate and recover loop over a
// stream of statements.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/leapstack-labs/asql/pkg/core"
	"github.com/leapstack-labs/asql/pkg/parser"
	"github.com/leapstack-labs/asql/pkg/token"
	"github.com/leapstack-labs/asql/pkg/validate"
)

// Outcome is the result of one statement.
type Outcome struct {
	// Index is the 1-based number of the statement within the run.
	Index int
	// Pos is where the statement starts.
	Pos token.Position
	// Statement is nil when parsing failed.
	Statement *core.SelectStatement
	// Result is set when the statement parsed and validated.
	Result *validate.Result
	// Err is a syntax error or validate.Errors.
	Err error
}

// OK reports whether the statement parsed and validated.
func (o Outcome) OK() bool { return o.Err == nil }

// SyntaxError reports whether the statement failed to parse.
func (o Outcome) SyntaxError() bool {
	return o.Err != nil && o.Statement == nil
}

// SemanticErrors returns the validation errors of the statement, if any.
func (o Outcome) SemanticErrors() validate.Errors {
	var errs validate.Errors
	if errors.As(o.Err, &errs) {
		return errs
	}
	return nil
}

// Handler receives each outcome. Returning an error stops the run.
type Handler func(Outcome) error

// Option configures a Session.
type Option func(*Session)

// WithFirstErrorOnly reports only the first semantic error of a statement.
func WithFirstErrorOnly() Option {
	return func(s *Session) {
		s.validateOpts = append(s.validateOpts, validate.WithFirstErrorOnly())
	}
}

// Session validates statements against one catalog. A Session may run
// several streams concurrently; each run has its own parser.
type Session struct {
	catalog      core.Catalog
	logger       *slog.Logger
	validateOpts []validate.Option
	validator    *validate.Validator
}

// New creates a session. A nil logger discards log output.
func New(cat core.Catalog, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Session{catalog: cat, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.validator = validate.New(cat, append(s.validateOpts, validate.WithLogger(logger))...)
	return s
}

// Catalog returns the catalog statements are validated against.
func (s *Session) Catalog() core.Catalog { return s.catalog }

// Run parses statements from r until end of input, validating each and
// passing its outcome to fn. A syntax error discards the rest of the
// failing statement and parsing resumes with the next one. Semantic errors
// never affect later statements. Read errors and errors returned by fn end
// the run. The context is checked between statements.
func (s *Session) Run(ctx context.Context, r io.Reader, fn Handler) error {
	runID := uuid.New().String()
	logger := s.logger.With("run_id", runID)
	logger.Debug("starting run")

	rr, ok := r.(io.RuneReader)
	if !ok {
		rr = bufio.NewReader(r)
	}
	p := parser.New(rr)

	var failed int
	for i := 1; ; i++ {
		if err := ctx.Err(); err != nil {
			logger.Debug("run cancelled", "statements", i-1)
			return err
		}

		stmt, err := p.ParseStatement()
		if errors.Is(err, io.EOF) {
			logger.Debug("run completed", "statements", i-1, "failed", failed)
			return nil
		}

		out := Outcome{Index: i, Pos: p.StatementPos(), Statement: stmt}
		switch {
		case err == nil:
			out.Result, out.Err = s.validator.Validate(stmt)
		case parser.IsSyntaxError(err):
			out.Err = err
			p.SkipStatement()
		default:
			logger.Error("run failed", "statement", i, "error", err)
			return fmt.Errorf("statement %d: %w", i, err)
		}

		if out.Err != nil {
			failed++
			logger.Debug("statement failed", "statement", i, "line", out.Pos.Line, "error", out.Err.Error())
		}
		if err := fn(out); err != nil {
			return err
		}
	}
}

// Exec runs every statement in sql and returns their outcomes.
func (s *Session) Exec(ctx context.Context, sql string) ([]Outcome, error) {
	var outcomes []Outcome
	err := s.Run(ctx, strings.NewReader(sql), func(o Outcome) error {
		outcomes = append(outcomes, o)
		return nil
	})
	return outcomes, err
}

// Stats counts outcomes by kind.
type Stats struct {
	Statements     int `json:"statements"`
	Valid          int `json:"valid"`
	SyntaxErrors   int `json:"syntax_errors"`
	SemanticErrors int `json:"semantic_errors"`
}

// Add records one outcome.
func (st *Stats) Add(o Outcome) {
	st.Statements++
	switch {
	case o.OK():
		st.Valid++
	case o.SyntaxError():
		st.SyntaxErrors++
	default:
		st.SemanticErrors++
	}
}

// Failed returns the number of statements with errors.
func (st Stats) Failed() int { return st.SyntaxErrors + st.SemanticErrors }
