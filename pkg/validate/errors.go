package validate

import (
	"fmt"
	"strings"
)

// Kind classifies a semantic error.
type Kind int

// Semantic error kinds.
const (
	KindUnknownTable Kind = iota + 1
	KindDuplicateAlias
	KindUnknownQualifier
	KindUnknownColumn
	KindAmbiguousColumn
	KindInvalidOperand
)

var kindNames = map[Kind]string{
	KindUnknownTable:     "unknown-table",
	KindDuplicateAlias:   "duplicate-alias",
	KindUnknownQualifier: "unknown-qualifier",
	KindUnknownColumn:    "unknown-column",
	KindAmbiguousColumn:  "ambiguous-column",
	KindInvalidOperand:   "invalid-operand",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// SemanticError reports a statement that parses but cannot be resolved
// against the catalog.
type SemanticError struct {
	Kind Kind
	Name string // offending identifier or expression text
	// Table is the resolved table for KindUnknownColumn on a qualified
	// reference. It is empty otherwise.
	Table string
	// Candidates lists the tables that all define the column for
	// KindAmbiguousColumn.
	Candidates []string
}

func (e *SemanticError) Error() string {
	switch e.Kind {
	case KindUnknownTable:
		return fmt.Sprintf("unknown table %q", e.Name)
	case KindDuplicateAlias:
		return fmt.Sprintf("duplicate table alias %q", e.Name)
	case KindUnknownQualifier:
		return fmt.Sprintf("unknown table or alias %q", e.Name)
	case KindUnknownColumn:
		if e.Table != "" {
			return fmt.Sprintf("unknown column %q in table %q", e.Name, e.Table)
		}
		return fmt.Sprintf("unknown column %q", e.Name)
	case KindAmbiguousColumn:
		return fmt.Sprintf("ambiguous column reference %q (defined in %s)", e.Name, strings.Join(e.Candidates, ", "))
	case KindInvalidOperand:
		return fmt.Sprintf("string operand %s in arithmetic expression", e.Name)
	default:
		return fmt.Sprintf("%s: %s", e.Kind, e.Name)
	}
}

// Errors is the list of semantic errors found in one statement, in the
// order they were detected.
type Errors []*SemanticError

func (e Errors) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d semantic errors: %s", len(e), strings.Join(msgs, "; "))
}

// Unwrap returns the individual errors for errors.Is and errors.As.
func (e Errors) Unwrap() []error {
	errs := make([]error, len(e))
	for i, err := range e {
		errs[i] = err
	}
	return errs
}

// Kinds returns the kind of every error in order.
func (e Errors) Kinds() []Kind {
	kinds := make([]Kind, len(e))
	for i, err := range e {
		kinds[i] = err.Kind
	}
	return kinds
}
