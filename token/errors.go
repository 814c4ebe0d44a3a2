package token

import "fmt"

// NumberError reports why ParseNumber failed to parse a literal.
type NumberError struct {
	Pos     Position
	Message string
}

func (e *NumberError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// LexError reports a malformed token.
type LexError struct {
	Pos     Position
	Message string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
