// Package parser turns one line's tokens into an ast.Line, enforcing the
// register-type rules the lexer cannot: it has no notion of operand shape.
package parser

import (
	"fmt"

	"github.com/lookbusy1344/gpusim/ast"
	"github.com/lookbusy1344/gpusim/token"
)

type parser struct {
	tokens []token.Token
	pos    int
	errs   []*Error
}

// ParseLine parses the tokens of a single source line (as produced by
// token.Lexer.TokenizeAll, including its trailing EOF) into a Line.
//
// A blank line (just EOF) yields (nil, nil): no line, no error. Any other
// error drops the line entirely -- ParseLine never returns a partially
// built Line alongside errors.
func ParseLine(tokens []token.Token) (ast.Line, []*Error) {
	if len(tokens) == 0 {
		tokens = []token.Token{{Kind: token.EOF}}
	}
	p := &parser{tokens: tokens}
	line := p.parseLine()
	if len(p.errs) > 0 {
		return nil, p.errs
	}
	return line, nil
}

func (p *parser) peek() token.Token { return p.tokens[p.pos] }

func (p *parser) advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) atEOF() bool { return p.peek().Kind == token.EOF }

func (p *parser) errorf(pos token.Position, format string, args ...any) {
	p.errs = append(p.errs, &Error{Pos: pos, Message: fmt.Sprintf(format, args...)})
}

// expect consumes the next token if it matches kind, else records an error
// and, when the offending token isn't EOF, skips past it so later expect
// calls see fresh tokens rather than repeating against the same one.
func (p *parser) expect(kind token.Kind) (token.Token, bool) {
	t := p.peek()
	if t.Kind == kind {
		p.advance()
		return t, true
	}
	if t.Kind == token.EOF {
		p.errorf(t.Pos, "unexpected end of stream, expected %s", kind)
		return t, false
	}
	p.errorf(t.Pos, "unexpected token, expected %s, got %s", kind, t)
	p.advance()
	return t, false
}

func (p *parser) expectRegister() ast.Register {
	t, ok := p.expect(token.RegisterTok)
	if !ok {
		return ast.Register{}
	}
	return t.Register
}

func (p *parser) expectImmediate() int32 {
	t, ok := p.expect(token.Immediate)
	if !ok {
		return 0
	}
	return t.Value
}

func (p *parser) expectComma()  { p.expect(token.Comma) }
func (p *parser) expectLParen() { p.expect(token.LParen) }
func (p *parser) expectRParen() { p.expect(token.RParen) }

// parseLine ::= directive | label_only | [label_def] instruction
func (p *parser) parseLine() ast.Line {
	tok := p.peek()
	switch tok.Kind {
	case token.BlocksDirective:
		p.advance()
		return p.parseDirective(tok, true)
	case token.WarpsDirective:
		p.advance()
		return p.parseDirective(tok, false)
	case token.LabelDef:
		p.advance()
		label := tok.Label
		if p.atEOF() {
			return ast.JustLabel{Label: label}
		}
		return p.parseInstruction(&label)
	case token.Mnemonic:
		return p.parseInstruction(nil)
	case token.EOF:
		return nil
	default:
		p.errorf(tok.Pos, "unexpected token, expected a label, directive, or mnemonic, got %s", tok)
		return nil
	}
}

func (p *parser) parseDirective(tok token.Token, isBlocks bool) ast.Line {
	name := ".warps"
	if isBlocks {
		name = ".blocks"
	}
	immTok, ok := p.expect(token.Immediate)
	if !ok {
		return nil
	}
	if immTok.Value < 1 {
		p.errorf(immTok.Pos, "%s requires a value >= 1, got %d", name, immTok.Value)
	}
	if !p.atEOF() {
		t := p.peek()
		p.errorf(t.Pos, "unexpected token after %s value: %s", name, t)
	}
	if len(p.errs) > 0 {
		return nil
	}
	if isBlocks {
		return ast.BlocksDirective{Number: uint32(immTok.Value)}
	}
	return ast.WarpsDirective{Number: uint32(immTok.Value)}
}

func (p *parser) parseInstruction(label *string) ast.Line {
	mnemTok := p.peek()
	if mnemTok.Kind != token.Mnemonic {
		if mnemTok.Kind == token.LabelRef {
			p.errorf(mnemTok.Pos, "unknown mnemonic %q", mnemTok.Label)
			p.advance()
		} else {
			p.expect(token.Mnemonic)
		}
		return nil
	}
	p.advance()
	m := mnemTok.MnemonicName

	var operands ast.Operands
	switch m.Class() {
	case ast.ClassNone:
		operands = ast.NoOperands{}
	case ast.ClassItype:
		operands = p.parseItypeArith()
	case ast.ClassLtype:
		operands = p.parseLtype()
	case ast.ClassRtype:
		operands = p.parseRtype()
	case ast.ClassStype:
		operands = p.parseStype()
	}

	if !p.atEOF() {
		t := p.peek()
		p.errorf(t.Pos, "unexpected operand after %s: %s", m, t)
	}

	isScalar := p.resolveScalar(m, operands, mnemTok.Pos)

	if len(p.errs) > 0 {
		return nil
	}
	return ast.Instruction{Label: label, Mnemonic: m, IsScalar: isScalar, Operands: operands}
}

// parseItypeArith ::= rd ',' rs1 ',' imm12
func (p *parser) parseItypeArith() ast.Itype {
	rd := p.expectRegister()
	p.expectComma()
	rs1 := p.expectRegister()
	p.expectComma()
	imm := p.expectImmediate()
	return ast.Itype{Rd: rd, Rs1: rs1, Imm12: imm}
}

// parseLtype ::= rd ',' imm12 '(' rs1 ')'
func (p *parser) parseLtype() ast.Itype {
	rd := p.expectRegister()
	p.expectComma()
	imm := p.expectImmediate()
	p.expectLParen()
	rs1 := p.expectRegister()
	p.expectRParen()
	return ast.Itype{Rd: rd, Rs1: rs1, Imm12: imm}
}

// parseRtype ::= rd ',' rs1 ',' rs2
func (p *parser) parseRtype() ast.Rtype {
	rd := p.expectRegister()
	p.expectComma()
	rs1 := p.expectRegister()
	p.expectComma()
	rs2 := p.expectRegister()
	return ast.Rtype{Rd: rd, Rs1: rs1, Rs2: rs2}
}

// parseStype ::= rs2 ',' imm12 '(' rs1 ')'
func (p *parser) parseStype() ast.Stype {
	rs2 := p.expectRegister()
	p.expectComma()
	imm := p.expectImmediate()
	p.expectLParen()
	rs1 := p.expectRegister()
	p.expectRParen()
	return ast.Stype{Rs1: rs1, Rs2: rs2, Imm12: imm}
}

// readOnlyReason reports why a register cannot be a write destination, or
// "" if writing to it is fine. pc is read-only by nature; vector registers
// 0-3 are reserved (zero, thread-id, block-id, block-size).
func readOnlyReason(r ast.Register) string {
	switch {
	case r.Kind == ast.PC:
		return "pc is read-only"
	case r.Kind == ast.Vector && r.Number < 4:
		return "reserved register"
	default:
		return ""
	}
}

// resolveScalar applies the register-type rule and returns the resolved
// is_scalar bit: for cross-width mnemonics it is always true (the result is
// scalar); otherwise every operand register must share one kind, and that
// shared kind is the result.
func (p *parser) resolveScalar(m ast.MnemonicName, ops ast.Operands, pos token.Position) bool {
	switch o := ops.(type) {
	case ast.NoOperands:
		return false
	case ast.Itype:
		if m.CrossWidth() {
			p.checkCross(m, o.Rd, []ast.Register{o.Rs1}, pos)
			return true
		}
		return p.checkUniform(m, []ast.Register{o.Rd, o.Rs1}, &o.Rd, pos)
	case ast.Rtype:
		if m.CrossWidth() {
			p.checkCross(m, o.Rd, []ast.Register{o.Rs1, o.Rs2}, pos)
			return true
		}
		return p.checkUniform(m, []ast.Register{o.Rd, o.Rs1, o.Rs2}, &o.Rd, pos)
	case ast.Stype:
		return p.checkUniform(m, []ast.Register{o.Rs1, o.Rs2}, nil, pos)
	default:
		return false
	}
}

func (p *parser) checkCross(m ast.MnemonicName, rd ast.Register, sources []ast.Register, pos token.Position) {
	if rd.Kind != ast.Scalar {
		p.errorf(pos, "%s requires a scalar destination register, got %s", m, rd)
	} else if reason := readOnlyReason(rd); reason != "" {
		p.errorf(pos, "%s: cannot write to %s (%s)", m, rd, reason)
	}
	for _, s := range sources {
		if s.Kind != ast.Vector {
			p.errorf(pos, "%s requires vector source registers, got %s", m, s)
		}
	}
}

func (p *parser) checkUniform(m ast.MnemonicName, regs []ast.Register, rd *ast.Register, pos token.Position) bool {
	var kind ast.RegisterKind
	kindSet := false
	for _, r := range regs {
		if r.Kind == ast.PC {
			p.errorf(pos, "%s: pc cannot be used as an operand here", m)
			continue
		}
		if !kindSet {
			kind, kindSet = r.Kind, true
			continue
		}
		if r.Kind != kind {
			p.errorf(pos, "%s: expected %s register, got %s", m, kind, r)
		}
	}
	if rd != nil {
		if reason := readOnlyReason(*rd); reason != "" {
			p.errorf(pos, "%s: cannot write to %s (%s)", m, *rd, reason)
		}
	}
	return kind == ast.Scalar
}
