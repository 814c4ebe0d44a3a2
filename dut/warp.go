package dut

import "github.com/lookbusy1344/gpusim/ast"

// LanesPerWarp is the fixed SIMT width: every warp steps 32 lanes in
// lockstep, matching the vector register file's "32 threads/warp" shape.
const LanesPerWarp = 32

// phase tracks where a warp is in its fetch/execute/memory cycle.
type phase int

const (
	phaseFetch phase = iota
	phaseMem
	phaseHalted
)

// memOp describes a pending load/store, computed at decode time (address
// arithmetic costs no cycles) and consumed once the memory model has
// serviced the request.
type memOp struct {
	isStore  bool
	isScalar bool
	rd       uint32 // destination for a load
	addr     [LanesPerWarp]uint32
	value    [LanesPerWarp]uint32 // store data (unused for a load)
}

// warp holds one warp's architectural state: a vector register file (32
// registers x 32 lanes) and a scalar register file (32 registers, shared
// across lanes), plus its PC and fetch/execute phase.
type warp struct {
	blockID uint32
	warpID  uint32
	pc      uint32
	phase   phase

	vector [ast.MaxRegisterNumber][LanesPerWarp]uint32
	scalar [ast.MaxRegisterNumber]uint32

	pending memOp
}

func newWarp(blockID, warpID, threadsPerBlock uint32) *warp {
	w := &warp{blockID: blockID, warpID: warpID}
	base := (blockID*threadsPerBlock + warpID*LanesPerWarp)
	for lane := uint32(0); lane < LanesPerWarp; lane++ {
		w.vector[0][lane] = 0                // zero
		w.vector[1][lane] = base + lane      // thread-id (global)
		w.vector[2][lane] = blockID          // block-id
		w.vector[3][lane] = threadsPerBlock  // block-size
	}
	return w
}

// writableVector reports whether register n of the vector bank may be
// written: 0-3 are reserved (zero, thread-id, block-id, block-size).
func writableVector(n uint32) bool { return n >= 4 }
