package token

import "fmt"

// Position is the 1-based line and column of a token. The line number is
// the one the caller passed to NewLexer (one Lexer instance per line).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
