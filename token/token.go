package token

import (
	"fmt"

	"github.com/lookbusy1344/gpusim/ast"
)

// Kind is the tag of the Token sum type.
type Kind int

const (
	EOF Kind = iota
	Mnemonic
	RegisterTok
	Immediate
	LabelDef
	LabelRef
	Comma
	LParen
	RParen
	BlocksDirective
	WarpsDirective
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Mnemonic:
		return "mnemonic"
	case RegisterTok:
		return "register"
	case Immediate:
		return "immediate"
	case LabelDef:
		return "label definition"
	case LabelRef:
		return "label reference"
	case Comma:
		return "','"
	case LParen:
		return "'('"
	case RParen:
		return "')'"
	case BlocksDirective:
		return ".blocks"
	case WarpsDirective:
		return ".warps"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is one lexical unit, tagged by Kind with only the matching payload
// field populated.
type Token struct {
	Kind Kind
	Pos  Position

	// Mnemonic / Mnemonic-is-scalar (placeholder -- see DESIGN.md)
	MnemonicName ast.MnemonicName
	IsScalar     bool

	// RegisterTok
	Register ast.Register

	// Immediate
	Value int32

	// LabelDef / LabelRef
	Label string
}

func (t Token) String() string {
	switch t.Kind {
	case Mnemonic:
		return fmt.Sprintf("%s(%s)", t.Kind, t.MnemonicName)
	case RegisterTok:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Register)
	case Immediate:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Value)
	case LabelDef, LabelRef:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Label)
	default:
		return t.Kind.String()
	}
}
