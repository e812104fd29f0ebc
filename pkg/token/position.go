package token

import "fmt"

// Position represents a location in the input stream.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
	Offset int // 0-based rune offset
}

// IsValid returns true if the position is valid (line > 0).
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
