package output

// JSON output types. Field names are part of the CLI contract.

// ErrorOutput is one syntax or semantic error.
type ErrorOutput struct {
	Kind    string `json:"kind"` // syntax or a semantic error kind
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// StatementOutput is the outcome of one statement.
type StatementOutput struct {
	Index      int                 `json:"index"`
	Line       int                 `json:"line"`
	Column     int                 `json:"column"`
	SQL        string              `json:"sql,omitempty"`
	Columns    []string            `json:"columns,omitempty"`
	References map[string][]string `json:"references,omitempty"`
	Errors     []ErrorOutput       `json:"errors,omitempty"`
}

// CheckSummary counts statements across all checked inputs.
type CheckSummary struct {
	Files          int `json:"files"`
	Statements     int `json:"statements"`
	Valid          int `json:"valid"`
	SyntaxErrors   int `json:"syntax_errors"`
	SemanticErrors int `json:"semantic_errors"`
}

// CheckFileOutput is the outcome of one checked input.
type CheckFileOutput struct {
	Path       string            `json:"path"`
	Statements []StatementOutput `json:"statements"`
}

// CheckOutput is the JSON output of the check command.
type CheckOutput struct {
	Files   []CheckFileOutput `json:"files"`
	Summary CheckSummary      `json:"summary"`
}

// ParseOutput is the JSON output of the parse command.
type ParseOutput struct {
	SQL        string              `json:"sql"`
	Columns    []string            `json:"columns"`
	Tables     []TableRefOutput    `json:"tables,omitempty"`
	Where      []FilterOutput      `json:"where,omitempty"`
	Limit      *int64              `json:"limit,omitempty"`
	References map[string][]string `json:"references,omitempty"`
	Errors     []ErrorOutput       `json:"errors,omitempty"`
	AST        any                 `json:"ast"`
}

// TableRefOutput is a FROM entry.
type TableRefOutput struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

// FilterOutput is a WHERE comparison.
type FilterOutput struct {
	Left  string `json:"left"`
	Op    string `json:"op"`
	Right string `json:"right"`
}

// TokenOutput is one lexical token.
type TokenOutput struct {
	Type    string `json:"type"`
	Literal string `json:"literal,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// ColumnOutput is a catalog column.
type ColumnOutput struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// TableOutput is a catalog table.
type TableOutput struct {
	Name    string         `json:"name"`
	Columns []ColumnOutput `json:"columns"`
}
