// Package dut is the opaque GPU model: a warp-parallel lane-stepper that
// satisfies the kernel-config bus, instruction/data memory port, and
// execution-start/done signal contract the simulation driver speaks to.
// Its internal fetch/decode/dispatch/ALU/LSU pipeline is not part of that
// contract -- only the signals below are.
package dut

import "fmt"

// GPU is the DUT: a handful of warps, each 32 lanes wide, stepped one warp
// at a time through fetch -> execute -> (memory) -> writeback. Only one
// warp is ever mid-flight, which keeps the instruction/data memory channel
// counts fixed regardless of how many warps or blocks a kernel launches.
type GPU struct {
	configSlots [4]uint32
	cfg         kernelConfig
	started     bool
	done        bool

	warps  []*warp
	active int

	awaitingResponse bool

	instReqValid  bool
	instReqAddr   uint32
	instRespData  uint32
	instRespReady bool

	dataReadValid  [LanesPerWarp]bool
	dataReadAddr   [LanesPerWarp]uint32
	dataReadData   [LanesPerWarp]uint32
	dataReadReady  [LanesPerWarp]bool
	dataWriteValid [LanesPerWarp]bool
	dataWriteAddr  [LanesPerWarp]uint32
	dataWriteData  [LanesPerWarp]uint32
	dataWriteReady [LanesPerWarp]bool

	violations []string
	retired    map[string]uint64
}

type kernelConfig struct {
	BaseInstructionsAddr uint32
	BaseDataAddr         uint32
	NumBlocks            uint32
	NumWarpsPerBlock     uint32
}

// New creates an idle GPU. Call WriteConfigSlot then StartExecution to
// launch a kernel.
func New() *GPU {
	return &GPU{active: -1, retired: make(map[string]uint64)}
}

// WriteConfigSlot latches one slot of the 4x32-bit kernel-config bus:
// slots [3,2,1,0] carry [base_inst, base_data, num_blocks, num_warps].
func (g *GPU) WriteConfigSlot(slot int, value uint32) {
	g.configSlots[slot] = value
}

// StartExecution reads the latched config bus and begins the kernel: one
// warp object per (block, warp-in-block) pair, each seeded with its
// reserved registers (zero, thread-id, block-id, block-size).
func (g *GPU) StartExecution() {
	g.cfg = kernelConfig{
		BaseInstructionsAddr: g.configSlots[3],
		BaseDataAddr:         g.configSlots[2],
		NumBlocks:            g.configSlots[1],
		NumWarpsPerBlock:     g.configSlots[0],
	}
	threadsPerBlock := g.cfg.NumWarpsPerBlock * LanesPerWarp

	g.warps = g.warps[:0]
	for b := uint32(0); b < g.cfg.NumBlocks; b++ {
		for w := uint32(0); w < g.cfg.NumWarpsPerBlock; w++ {
			g.warps = append(g.warps, newWarp(b, w, threadsPerBlock))
		}
	}
	g.started = true
	g.done = len(g.warps) == 0
	g.active = 0
	if g.done {
		g.active = -1
	}
}

// ExecutionStart reports whether a kernel has been launched.
func (g *GPU) ExecutionStart() bool { return g.started }

// ExecutionDone reports whether every warp has reached HALT.
func (g *GPU) ExecutionDone() bool { return g.done }

// Violations returns logged memory/decode misbehavior, most recent last.
func (g *GPU) Violations() []string { return g.violations }

// RetiredInstructions returns a count of decoded instructions dispatched so
// far, keyed by mnemonic. Exposed for statistics collection only.
func (g *GPU) RetiredInstructions() map[string]uint64 { return g.retired }

// VectorRegister reads lane `lane` of vector register `reg` in warp
// (block, warpInBlock). Exposed for tests and trace inspection only.
func (g *GPU) VectorRegister(block, warpInBlock, reg, lane uint32) uint32 {
	w := g.findWarp(block, warpInBlock)
	return w.vector[reg][lane]
}

// ScalarRegister reads scalar register `reg` in warp (block, warpInBlock).
func (g *GPU) ScalarRegister(block, warpInBlock, reg uint32) uint32 {
	w := g.findWarp(block, warpInBlock)
	return w.scalar[reg]
}

func (g *GPU) findWarp(block, warpInBlock uint32) *warp {
	for _, w := range g.warps {
		if w.blockID == block && w.warpID == warpInBlock {
			return w
		}
	}
	panic(fmt.Sprintf("dut: no such warp (block=%d, warp=%d)", block, warpInBlock))
}

// Settle evaluates one half-step of combinational logic. Called twice per
// cycle by the simulation driver: once before the memory models service
// requests (to issue them) and once after (to consume their responses).
func (g *GPU) Settle() {
	if g.done || g.active < 0 {
		g.clearRequests()
		return
	}
	w := g.warps[g.active]

	if !g.awaitingResponse {
		g.clearRequests()
		switch w.phase {
		case phaseFetch:
			g.instReqValid = true
			g.instReqAddr = g.cfg.BaseInstructionsAddr + w.pc
		case phaseMem:
			g.issueMemRequest(w)
		}
		g.awaitingResponse = true
		return
	}

	switch w.phase {
	case phaseFetch:
		if g.instRespReady {
			g.consumeFetch(w)
		}
	case phaseMem:
		if g.memResponseReady(w) {
			g.completeMem(w)
		}
	}
	g.awaitingResponse = false
}

func (g *GPU) clearRequests() {
	g.instReqValid = false
	for i := 0; i < LanesPerWarp; i++ {
		g.dataReadValid[i] = false
		g.dataWriteValid[i] = false
	}
}

func (g *GPU) consumeFetch(w *warp) {
	d, ok := decodeWord(g.instRespData)
	if !ok {
		g.violations = append(g.violations, fmt.Sprintf(
			"warp (block=%d,warp=%d): undecodable instruction word 0x%08X at pc %d", w.blockID, w.warpID, g.instRespData, w.pc))
		g.haltWarp(w)
		return
	}
	g.retired[d.mnemonic.String()]++
	g.dispatch(w, d)
}

func (g *GPU) haltWarp(w *warp) {
	w.phase = phaseHalted
	for i := 0; i < len(g.warps); i++ {
		idx := (g.active + i) % len(g.warps)
		if g.warps[idx].phase != phaseHalted {
			g.active = idx
			return
		}
	}
	g.done = true
	g.active = -1
}
