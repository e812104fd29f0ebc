package core

// ---------- Statement Types ----------

// TableRef is a table named in a FROM clause.
type TableRef struct {
	Name  string
	Alias string // defaults to Name
}

// NewTableRef returns a reference whose alias defaults to the table name.
func NewTableRef(name string) *TableRef {
	return &TableRef{Name: name, Alias: name}
}

// HasExplicitAlias reports whether the alias differs from the table name.
func (t *TableRef) HasExplicitAlias() bool {
	return t.Alias != "" && t.Alias != t.Name
}

// CompareOp is a comparison operator of a Filter.
type CompareOp int

// CompareOp constants in their natural order.
const (
	CompareLess CompareOp = iota
	CompareLessEqual
	CompareEqual
	CompareNotEqual
	CompareGreater
	CompareGreaterEqual
)

var compareOpNames = [...]string{
	CompareLess:         "<",
	CompareLessEqual:    "<=",
	CompareEqual:        "=",
	CompareNotEqual:     "<>",
	CompareGreater:      ">",
	CompareGreaterEqual: ">=",
}

func (op CompareOp) String() string {
	if op >= 0 && int(op) < len(compareOpNames) {
		return compareOpNames[op]
	}
	return "?"
}

// Filter is a single WHERE predicate.
type Filter struct {
	Left  Expr
	Op    CompareOp
	Right Expr
}

// Operands returns the left and right expressions.
func (f *Filter) Operands() []Expr {
	return []Expr{f.Left, f.Right}
}

// SelectStatement is a parsed SELECT.
//
// Columns keeps projection order and duplicates. From keeps declaration
// order (left-to-right cross join). Where filters are conjunctive.
// Limit is nil when no LIMIT clause was given.
type SelectStatement struct {
	Columns []Expr
	From    []*TableRef
	Where   []*Filter
	Limit   *int64
}

// HasLimit reports whether a LIMIT clause was present.
func (s *SelectStatement) HasLimit() bool {
	return s.Limit != nil
}

// ColumnAliases returns the display alias of every projection in order.
func (s *SelectStatement) ColumnAliases() []string {
	aliases := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		aliases[i] = Alias(c)
	}
	return aliases
}
