// Package encoder lowers a sequence of ast.Line into a flat 32-bit
// instruction word stream plus the kernel config the directives describe.
package encoder

import (
	"fmt"

	"github.com/lookbusy1344/gpusim/ast"
)

// KernelConfig is the directive-derived launch configuration: number of
// blocks, warps per block, and the base addresses instruction/data memory
// are loaded at.
type KernelConfig struct {
	NumBlocks            uint32
	NumWarpsPerBlock     uint32
	BaseInstructionsAddr uint32
	BaseDataAddr         uint32
}

// Program is the encoder's output: the flat word stream, the resolved
// kernel config, and the label -> PC table built along the way (unused by
// this ISA's own encoding, since it has no branch/jump class, but retained
// for callers such as trace output that want to render addresses as names).
type Program struct {
	Words  []uint32
	Config KernelConfig
	Labels map[string]uint32
}

const (
	opcodeMask = 0x3F
	scalarBit  = uint32(1) << 6

	rdShift = 7
	rdMask  = 0x1F

	rs1Shift = 12
	rs1Mask  = 0x1F

	rs2RShift = 17 // R-type rs2 only; I/S/L-type reuse [28:17] for imm12
	rs2RMask  = 0x1F

	imm12Shift = 17
	imm12Mask  = 0xFFF

	immMin = -2048
	immMax = 2047
)

// Encode runs the two-pass lowering described by the spec: a first pass
// assigning a PC to every non-label, non-directive line and collecting
// label -> PC and directive values, then a second pass encoding each
// instruction. It fails fast on the first error encountered, in either
// pass.
func Encode(lines []ast.Line) (Program, error) {
	sym := newSymtab()
	var pc uint32
	var cfg KernelConfig
	sawBlocks, sawWarps, sawInstruction := false, false, false

	for _, line := range lines {
		switch v := line.(type) {
		case ast.JustLabel:
			if err := sym.define(v.Label, pc); err != nil {
				return Program{}, err
			}
		case ast.BlocksDirective:
			if sawInstruction {
				return Program{}, fmt.Errorf(".blocks must precede the first instruction")
			}
			if sawBlocks {
				return Program{}, fmt.Errorf("duplicate .blocks directive")
			}
			cfg.NumBlocks = v.Number
			sawBlocks = true
		case ast.WarpsDirective:
			if sawInstruction {
				return Program{}, fmt.Errorf(".warps must precede the first instruction")
			}
			if sawWarps {
				return Program{}, fmt.Errorf("duplicate .warps directive")
			}
			cfg.NumWarpsPerBlock = v.Number
			sawWarps = true
		case ast.Instruction:
			if v.Label != nil {
				if err := sym.define(*v.Label, pc); err != nil {
					return Program{}, err
				}
			}
			sawInstruction = true
			pc++
		default:
			return Program{}, fmt.Errorf("unrecognized line type %T", line)
		}
	}

	words := make([]uint32, 0, pc)
	for _, line := range lines {
		inst, ok := line.(ast.Instruction)
		if !ok {
			continue
		}
		word, err := encodeInstruction(inst)
		if err != nil {
			return Program{}, err
		}
		words = append(words, word)
	}

	return Program{Words: words, Config: cfg, Labels: sym.labels}, nil
}

func encodeInstruction(inst ast.Instruction) (uint32, error) {
	m := inst.Mnemonic
	word := m.Opcode() & opcodeMask
	if inst.IsScalar {
		word |= scalarBit
	}

	switch ops := inst.Operands.(type) {
	case ast.NoOperands:
		// opcode + scalar bit only (HALT)
	case ast.Itype:
		if err := checkImmRange(m, ops.Imm12); err != nil {
			return 0, err
		}
		word |= uint32(ops.Rd.Number&rdMask) << rdShift
		word |= uint32(ops.Rs1.Number&rs1Mask) << rs1Shift
		word |= (uint32(ops.Imm12) & imm12Mask) << imm12Shift
	case ast.Rtype:
		word |= uint32(ops.Rd.Number&rdMask) << rdShift
		word |= uint32(ops.Rs1.Number&rs1Mask) << rs1Shift
		word |= uint32(ops.Rs2.Number&rs2RMask) << rs2RShift
	case ast.Stype:
		if err := checkImmRange(m, ops.Imm12); err != nil {
			return 0, err
		}
		// Stores have no destination register; the value register shares
		// the rd field's physical offset.
		word |= uint32(ops.Rs2.Number&rdMask) << rdShift
		word |= uint32(ops.Rs1.Number&rs1Mask) << rs1Shift
		word |= (uint32(ops.Imm12) & imm12Mask) << imm12Shift
	default:
		return 0, fmt.Errorf("%s: unrecognized operand shape %T", m, ops)
	}
	return word, nil
}

func checkImmRange(m ast.MnemonicName, imm int32) error {
	if imm < immMin || imm > immMax {
		return fmt.Errorf("%s: immediate %d out of range [%d,%d]", m, imm, immMin, immMax)
	}
	return nil
}
