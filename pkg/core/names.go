package core

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeName returns the upper-case form under which table and column
// names are compared. The lexer and every catalog use it, so identifiers and
// schema names agree on non-ASCII input such as "straße".
func NormalizeName(name string) string {
	// A Caser is stateful; one per call keeps this safe for concurrent use.
	return cases.Upper(language.Und).String(name)
}
