package dut

import "github.com/lookbusy1344/gpusim/ast"

// dispatch routes a freshly decoded instruction to HALT handling, ALU
// execution (which completes within this same settle, needing no memory
// round trip), or a load/store, which parks the warp in phaseMem until the
// memory model services its request.
func (g *GPU) dispatch(w *warp, d decoded) {
	if d.mnemonic == ast.HALT {
		g.haltWarp(w)
		return
	}
	switch d.mnemonic.Class() {
	case ast.ClassLtype:
		g.beginLoad(w, d)
	case ast.ClassStype:
		g.beginStore(w, d)
	default:
		g.executeALU(w, d)
		w.pc++
		w.phase = phaseFetch
	}
}

func aluCompute(m ast.MnemonicName, a, b uint32) uint32 {
	switch m {
	case ast.ADDI, ast.ADD:
		return a + b
	case ast.SUB:
		return a - b
	case ast.SLTI, ast.SLT:
		if int32(a) < int32(b) {
			return 1
		}
		return 0
	case ast.XORI, ast.XOR:
		return a ^ b
	case ast.ORI, ast.OR:
		return a | b
	case ast.ANDI, ast.AND:
		return a & b
	case ast.SLLI, ast.SLL:
		return a << (b & 0x1F)
	case ast.SRLI, ast.SRL:
		return a >> (b & 0x1F)
	case ast.SRAI, ast.SRA:
		return uint32(int32(a) >> (b & 0x1F))
	default:
		return 0
	}
}

func (g *GPU) executeALU(w *warp, d decoded) {
	if d.mnemonic.CrossWidth() {
		g.executeCrossWidth(w, d)
		return
	}
	isItype := d.mnemonic.Class() == ast.ClassItype
	if d.isScalar {
		b := w.scalar[d.rs2]
		if isItype {
			b = uint32(d.imm12)
		}
		w.scalar[d.rd] = aluCompute(d.mnemonic, w.scalar[d.rs1], b)
		return
	}
	for lane := uint32(0); lane < LanesPerWarp; lane++ {
		b := w.vector[d.rs2][lane]
		if isItype {
			b = uint32(d.imm12)
		}
		res := aluCompute(d.mnemonic, w.vector[d.rs1][lane], b)
		if writableVector(d.rd) {
			w.vector[d.rd][lane] = res
		}
	}
}

// executeCrossWidth reduces a per-lane signed comparison to one scalar
// result: 1 if every lane's comparison holds, else 0.
func (g *GPU) executeCrossWidth(w *warp, d decoded) {
	allTrue := true
	for lane := uint32(0); lane < LanesPerWarp; lane++ {
		a := int32(w.vector[d.rs1][lane])
		b := d.imm12
		if d.mnemonic == ast.SX_SLT {
			b = int32(w.vector[d.rs2][lane])
		}
		if !(a < b) {
			allTrue = false
			break
		}
	}
	var res uint32
	if allTrue {
		res = 1
	}
	w.scalar[d.rd] = res
}

func (g *GPU) beginLoad(w *warp, d decoded) {
	op := memOp{isStore: false, isScalar: d.isScalar, rd: d.rd}
	if d.isScalar {
		op.addr[0] = w.scalar[d.rs1] + uint32(d.imm12)
	} else {
		for lane := uint32(0); lane < LanesPerWarp; lane++ {
			op.addr[lane] = w.vector[d.rs1][lane] + uint32(d.imm12)
		}
	}
	w.pending = op
	w.phase = phaseMem
}

func (g *GPU) beginStore(w *warp, d decoded) {
	// d.rd doubles as the store's value-register field (see decode.go).
	op := memOp{isStore: true, isScalar: d.isScalar}
	if d.isScalar {
		op.addr[0] = w.scalar[d.rs1] + uint32(d.imm12)
		op.value[0] = w.scalar[d.rd]
	} else {
		for lane := uint32(0); lane < LanesPerWarp; lane++ {
			op.addr[lane] = w.vector[d.rs1][lane] + uint32(d.imm12)
			op.value[lane] = w.vector[d.rd][lane]
		}
	}
	w.pending = op
	w.phase = phaseMem
}

func (g *GPU) issueMemRequest(w *warp) {
	op := w.pending
	n := LanesPerWarp
	if op.isScalar {
		n = 1
	}
	for lane := 0; lane < n; lane++ {
		addr := op.addr[lane]
		if op.isStore {
			g.dataWriteValid[lane] = true
			g.dataWriteAddr[lane] = addr
			g.dataWriteData[lane] = op.value[lane]
		} else {
			g.dataReadValid[lane] = true
			g.dataReadAddr[lane] = addr
		}
	}
}

func (g *GPU) memResponseReady(w *warp) bool {
	n := LanesPerWarp
	if w.pending.isScalar {
		n = 1
	}
	for lane := 0; lane < n; lane++ {
		if w.pending.isStore {
			if !g.dataWriteReady[lane] {
				return false
			}
		} else if !g.dataReadReady[lane] {
			return false
		}
	}
	return true
}

func (g *GPU) completeMem(w *warp) {
	if !w.pending.isStore {
		rd := w.pending.rd
		if w.pending.isScalar {
			w.scalar[rd] = g.dataReadData[0]
		} else if writableVector(rd) {
			for lane := uint32(0); lane < LanesPerWarp; lane++ {
				w.vector[rd][lane] = g.dataReadData[lane]
			}
		}
	}
	w.pc++
	w.phase = phaseFetch
}
