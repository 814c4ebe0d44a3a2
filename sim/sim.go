// Package sim drives the cycle-by-cycle co-simulation loop: settle the
// DUT's combinational outputs, check for completion, service the
// instruction/data memory models, and settle again. The DUT model has no
// clock input; its state advances inside Settle, so no clock pulse is
// driven.
package sim

import (
	"context"
	"fmt"

	"github.com/lookbusy1344/gpusim/dut"
	"github.com/lookbusy1344/gpusim/memory"
	"github.com/lookbusy1344/gpusim/trace"
)

// SetKernelConfig drives the 4-slot kernel-config bus (slots [3,2,1,0] =
// [base_inst, base_data, num_blocks, num_warps], an ordering the DUT
// depends on and that must not change) and launches the kernel.
func SetKernelConfig(d *dut.GPU, baseInst, baseData, numBlocks, numWarps uint32) {
	d.WriteConfigSlot(3, baseInst)
	d.WriteConfigSlot(2, baseData)
	d.WriteConfigSlot(1, numBlocks)
	d.WriteConfigSlot(0, numWarps)
	d.StartExecution()
}

// Simulate runs the cycle loop until the DUT reports done or maxCycles is
// exhausted. It returns (true, nil) on a clean halt within budget, (false,
// nil) if the cycle budget ran out first, and a non-nil error only for
// caller misuse or context cancellation.
//
// stats and log are optional (nil is fine). log receives violation
// messages (from the DUT and both memory models) in the cycle they occur.
// stats receives the cycle count, instruction-retirement and memory-traffic
// counters, and the violation count once the run ends; a cancelled run
// leaves them unset.
func Simulate(ctx context.Context, d *dut.GPU, instMem *memory.InstructionMemory, dataMem *memory.DataMemory, maxCycles uint64, stats *trace.RunStatistics, log *trace.ExecutionLog) (bool, error) {
	if !d.ExecutionStart() {
		return false, fmt.Errorf("sim: kernel not started -- call SetKernelConfig first")
	}
	if stats != nil {
		stats.Start()
	}

	var cycle uint64
	finish := func(ok bool) (bool, error) {
		if stats != nil {
			stats.CyclesRun = cycle
			for mnemonic, count := range d.RetiredInstructions() {
				stats.InstructionCounts[mnemonic] = count
			}
			stats.MemoryReads = dataMem.ReadCount
			stats.MemoryWrites = dataMem.WriteCount
			stats.Violations = uint64(len(d.Violations()) + len(instMem.Violations) + len(dataMem.Violations))
			stats.Finalize()
		}
		return ok, nil
	}

	for ; cycle < maxCycles; cycle++ {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		default:
		}

		violationsBefore := len(d.Violations())
		instViolationsBefore := len(instMem.Violations)
		dataViolationsBefore := len(dataMem.Violations)
		d.Settle()
		if d.ExecutionDone() {
			return finish(true)
		}

		instMem.Service(d)
		dataMem.Service(d)

		d.Settle()

		if log != nil {
			for _, v := range d.Violations()[violationsBefore:] {
				log.Record(cycle, "violation", v)
			}
			for _, v := range instMem.Violations[instViolationsBefore:] {
				log.Record(cycle, "violation", v)
			}
			for _, v := range dataMem.Violations[dataViolationsBefore:] {
				log.Record(cycle, "violation", v)
			}
		}
	}
	return finish(d.ExecutionDone())
}
