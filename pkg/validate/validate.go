// Package validate resolves the column references of parsed statements
// against a schema catalog.
//
// Validation runs in two phases. Table references are checked first; any
// unknown table or repeated alias ends validation before columns are
// looked at. Column references of the projection list and then of the
// WHERE filters are resolved next, and arithmetic operands are checked to
// be numeric.
//
// By default every semantic error in a statement is reported. Use
// WithFirstErrorOnly to stop at the first one.
package validate

import (
	"log/slog"

	"github.com/leapstack-labs/asql/pkg/core"
)

// Result is the outcome of a successful validation.
type Result struct {
	// Columns holds the display alias of every projection in order.
	Columns []string
	// References maps each table name to the sorted names of its columns
	// that the statement reads.
	References map[string][]string
}

// Option configures a Validator.
type Option func(*Validator)

// WithFirstErrorOnly stops validation at the first semantic error.
func WithFirstErrorOnly() Option {
	return func(v *Validator) {
		v.firstErrorOnly = true
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// Validator checks statements against a catalog. It holds no per-statement
// state and may be shared between goroutines if the catalog may.
type Validator struct {
	catalog        core.Catalog
	firstErrorOnly bool
	logger         *slog.Logger
}

// New creates a Validator for the given catalog.
func New(cat core.Catalog, opts ...Option) *Validator {
	v := &Validator{
		catalog: cat,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate checks stmt against the catalog with default options.
func Validate(stmt *core.SelectStatement, cat core.Catalog) (*Result, error) {
	return New(cat).Validate(stmt)
}

// Validate resolves every column reference of stmt. On failure it returns
// Errors holding one *SemanticError per problem.
func (v *Validator) Validate(stmt *core.SelectStatement) (*Result, error) {
	c := &collector{firstOnly: v.firstErrorOnly}
	s := newScope(v.catalog)

	v.checkTables(s, stmt.From, c)
	if len(c.errs) > 0 {
		v.logger.Debug("table resolution failed", "errors", len(c.errs))
		return nil, c.errs
	}

	refs := make(references)
	for _, expr := range stmt.Columns {
		if c.full() {
			break
		}
		v.checkExpr(s, expr, refs, c)
	}
	for _, f := range stmt.Where {
		for _, expr := range f.Operands() {
			if c.full() {
				break
			}
			v.checkExpr(s, expr, refs, c)
		}
	}

	if len(c.errs) > 0 {
		v.logger.Debug("column resolution failed", "errors", len(c.errs))
		return nil, c.errs
	}

	res := &Result{
		Columns:    stmt.ColumnAliases(),
		References: refs.sorted(),
	}
	v.logger.Debug("statement validated",
		"tables", len(stmt.From),
		"columns", len(res.Columns),
		"filters", len(stmt.Where),
	)
	return res, nil
}

// checkTables declares every FROM entry, reporting unknown tables and
// repeated aliases.
func (v *Validator) checkTables(s *scope, tables []*core.TableRef, c *collector) {
	for _, ref := range tables {
		if c.full() {
			return
		}
		if !v.catalog.TableExists(ref.Name) {
			c.add(&SemanticError{Kind: KindUnknownTable, Name: ref.Name})
		}
		if s.declare(ref) {
			c.add(&SemanticError{Kind: KindDuplicateAlias, Name: ref.Alias})
		}
	}
}

// checkExpr resolves the column references of expr, then checks that
// arithmetic operands are numeric.
func (v *Validator) checkExpr(s *scope, expr core.Expr, refs references, c *collector) {
	types := make(map[*core.Variable]core.ColumnType)
	for _, ref := range core.Variables(expr) {
		b, err := s.resolve(ref)
		if err != nil {
			c.add(err)
			if c.full() {
				return
			}
			continue
		}
		types[ref] = b.typ
		refs.add(b.table, ref.Name)
	}

	core.Walk(expr, func(e core.Expr) bool {
		bin, ok := e.(*core.BinaryOp)
		if !ok || c.full() {
			return !c.full()
		}
		for _, operand := range []core.Expr{bin.Left, bin.Right} {
			if isStringOperand(operand, types) {
				c.add(&SemanticError{Kind: KindInvalidOperand, Name: core.String(operand)})
			}
		}
		return true
	})
}

// isStringOperand reports whether e is a string literal or a column
// resolved to a non-numeric type.
func isStringOperand(e core.Expr, types map[*core.Variable]core.ColumnType) bool {
	switch n := e.(type) {
	case *core.StringLiteral:
		return true
	case *core.Variable:
		typ, ok := types[n]
		return ok && !typ.IsNumeric()
	default:
		return false
	}
}

// collector gathers semantic errors.
type collector struct {
	firstOnly bool
	errs      Errors
}

func (c *collector) add(err *SemanticError) {
	if c.full() {
		return
	}
	c.errs = append(c.errs, err)
}

// full reports whether no more errors should be collected.
func (c *collector) full() bool {
	return c.firstOnly && len(c.errs) > 0
}
