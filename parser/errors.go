package parser

import (
	"fmt"

	"github.com/lookbusy1344/gpusim/token"
)

// Error is a single parse failure with its source position.
type Error struct {
	Pos     token.Position
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}
