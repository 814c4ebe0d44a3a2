package ast

// Line is the closed sum type produced by the line parser: a directive, a
// bare label, or an instruction. The unexported marker method keeps the set
// closed to this package the way the teacher's typed enums keep their kind
// sets closed.
type Line interface {
	isLine()
}

// JustLabel is a line consisting of only a label definition.
type JustLabel struct {
	Label string
}

func (JustLabel) isLine() {}

// BlocksDirective sets the kernel's block count (".blocks N", N >= 1).
type BlocksDirective struct {
	Number uint32
}

func (BlocksDirective) isLine() {}

// WarpsDirective sets the kernel's warps-per-block count (".warps N", N >= 1).
type WarpsDirective struct {
	Number uint32
}

func (WarpsDirective) isLine() {}

// Operands is the closed sum type of operand shapes an Instruction carries.
type Operands interface {
	isOperands()
}

// NoOperands is HALT's (empty) operand list.
type NoOperands struct{}

func (NoOperands) isOperands() {}

// Itype is "rd, rs1, imm12" -- I-type arithmetic and loads ("rd, imm(rs1)").
type Itype struct {
	Rd    Register
	Rs1   Register
	Imm12 int32
}

func (Itype) isOperands() {}

// Rtype is "rd, rs1, rs2".
type Rtype struct {
	Rd  Register
	Rs1 Register
	Rs2 Register
}

func (Rtype) isOperands() {}

// Stype is a store: "rs2, imm12(rs1)" -- rs1 is the base address register,
// rs2 is the register holding the value being stored.
type Stype struct {
	Rs1   Register
	Rs2   Register
	Imm12 int32
}

func (Stype) isOperands() {}

// Instruction is a (possibly labeled) mnemonic with its operands. IsScalar
// is the resolved scalar-mask bit: the lexer cannot determine it from the
// mnemonic text alone, so the parser computes it from the operand register
// kinds (see DESIGN.md, "Scalar-mask bit origin").
type Instruction struct {
	Label    *string
	Mnemonic MnemonicName
	IsScalar bool
	Operands Operands
}

func (Instruction) isLine() {}
