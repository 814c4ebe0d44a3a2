package dut

import "github.com/lookbusy1344/gpusim/ast"

const (
	opcodeMask = 0x3F
	scalarBit  = uint32(1) << 6

	rdShift = 7
	rdMask  = 0x1F

	rs1Shift = 12
	rs1Mask  = 0x1F

	rs2RShift = 17
	rs2RMask  = 0x1F

	imm12Shift = 17
	imm12Mask  = 0xFFF
)

// decoded is a 32-bit instruction word pulled apart into its fields, the
// mirror image of encoder.encodeInstruction's packing.
type decoded struct {
	mnemonic ast.MnemonicName
	isScalar bool
	rd       uint32 // also doubles as the store's value-register field
	rs1      uint32
	rs2      uint32
	imm12    int32
}

var opcodeToMnemonic map[uint32]ast.MnemonicName

func init() {
	opcodeToMnemonic = make(map[uint32]ast.MnemonicName, int(ast.HALT)+1)
	for m := ast.ADDI; m <= ast.HALT; m++ {
		opcodeToMnemonic[m.Opcode()] = m
	}
}

func decodeWord(word uint32) (decoded, bool) {
	m, ok := opcodeToMnemonic[word&opcodeMask]
	if !ok {
		return decoded{}, false
	}
	d := decoded{
		mnemonic: m,
		isScalar: word&scalarBit != 0,
		rd:       (word >> rdShift) & rdMask,
		rs1:      (word >> rs1Shift) & rs1Mask,
	}
	switch m.Class() {
	case ast.ClassRtype:
		d.rs2 = (word >> rs2RShift) & rs2RMask
	case ast.ClassItype, ast.ClassLtype, ast.ClassStype:
		d.imm12 = signExtend12((word >> imm12Shift) & imm12Mask)
	}
	return d, true
}

func signExtend12(raw uint32) int32 {
	if raw&0x800 != 0 {
		return int32(raw) - 0x1000
	}
	return int32(raw)
}
