package validate

import (
	"slices"

	"github.com/leapstack-labs/asql/pkg/core"
)

// scope tracks the tables declared in one statement's FROM clause.
// A scope lives for a single Validate call.
type scope struct {
	cat     core.Catalog
	tables  []*core.TableRef          // declaration order
	aliases map[string]*core.TableRef // alias -> table reference
}

func newScope(cat core.Catalog) *scope {
	return &scope{
		cat:     cat,
		aliases: make(map[string]*core.TableRef),
	}
}

// declare registers a table reference. It reports whether the alias was
// already taken.
func (s *scope) declare(ref *core.TableRef) (duplicate bool) {
	if _, ok := s.aliases[ref.Alias]; ok {
		return true
	}
	s.aliases[ref.Alias] = ref
	s.tables = append(s.tables, ref)
	return false
}

// binding is a resolved column reference.
type binding struct {
	table string
	typ   core.ColumnType
}

// resolve binds a column reference to a declared table.
func (s *scope) resolve(v *core.Variable) (binding, *SemanticError) {
	if v.IsQualified() {
		ref, ok := s.aliases[v.Qualifier]
		if !ok {
			return binding{}, &SemanticError{Kind: KindUnknownQualifier, Name: v.Qualifier}
		}
		typ, ok := s.cat.ColumnType(ref.Name, v.Name)
		if !ok {
			return binding{}, &SemanticError{Kind: KindUnknownColumn, Name: v.Name, Table: ref.Name}
		}
		return binding{table: ref.Name, typ: typ}, nil
	}

	// Any name collision across declared tables is ambiguous, even when the
	// same table is declared twice under different aliases.
	var (
		matches    []binding
		candidates []string
	)
	for _, ref := range s.tables {
		if typ, ok := s.cat.ColumnType(ref.Name, v.Name); ok {
			matches = append(matches, binding{table: ref.Name, typ: typ})
			candidates = append(candidates, ref.Alias)
		}
	}

	switch len(matches) {
	case 0:
		return binding{}, &SemanticError{Kind: KindUnknownColumn, Name: v.Name}
	case 1:
		return matches[0], nil
	default:
		return binding{}, &SemanticError{Kind: KindAmbiguousColumn, Name: v.Name, Candidates: candidates}
	}
}

// references accumulates the referenced columns per table.
type references map[string]map[string]struct{}

func (r references) add(table, column string) {
	cols, ok := r[table]
	if !ok {
		cols = make(map[string]struct{})
		r[table] = cols
	}
	cols[column] = struct{}{}
}

// sorted returns the table -> sorted column names view.
func (r references) sorted() map[string][]string {
	out := make(map[string][]string, len(r))
	for table, cols := range r {
		names := make([]string, 0, len(cols))
		for c := range cols {
			names = append(names, c)
		}
		slices.Sort(names)
		out[table] = names
	}
	return out
}
