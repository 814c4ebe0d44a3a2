package sim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gpusim/ast"
	"github.com/lookbusy1344/gpusim/dut"
	"github.com/lookbusy1344/gpusim/encoder"
	"github.com/lookbusy1344/gpusim/memory"
	"github.com/lookbusy1344/gpusim/parser"
	"github.com/lookbusy1344/gpusim/sim"
	"github.com/lookbusy1344/gpusim/token"
	"github.com/lookbusy1344/gpusim/trace"
)

func assemble(t *testing.T, srcLines ...string) encoder.Program {
	t.Helper()
	var lines []ast.Line
	for i, src := range srcLines {
		lx := token.NewLexer(src, i+1)
		toks := lx.TokenizeAll()
		require.Empty(t, lx.Errors(), "lex error in %q", src)
		line, errs := parser.ParseLine(toks)
		require.Empty(t, errs, "parse error in %q", src)
		if line != nil {
			lines = append(lines, line)
		}
	}
	prog, err := encoder.Encode(lines)
	require.NoError(t, err)
	return prog
}

// addi x5, x1, 0 ; sw x5, 0(x1) ; halt -- every lane copies its thread-id
// into data[thread-id].
func TestSimulateThreadIDScatter(t *testing.T) {
	prog := assemble(t, "addi x5, x1, 0", "sw x5, 0(x1)", "halt")

	instMem := memory.NewInstructionMemory(1024)
	instMem.Load(prog.Words)
	dataMem := memory.NewDataMemory(1024)

	g := dut.New()
	sim.SetKernelConfig(g, 0, 0, 1, 1)

	ok, err := sim.Simulate(context.Background(), g, instMem, dataMem, 1000, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)

	for lane := uint32(0); lane < dut.LanesPerWarp; lane++ {
		assert.Equal(t, lane, dataMem.Model.Read(lane))
	}
	assert.Empty(t, g.Violations())
}

func TestSimulateHaltImmediately(t *testing.T) {
	prog := assemble(t, "halt")
	instMem := memory.NewInstructionMemory(16)
	instMem.Load(prog.Words)
	dataMem := memory.NewDataMemory(16)

	g := dut.New()
	sim.SetKernelConfig(g, 0, 0, 1, 1)

	ok, err := sim.Simulate(context.Background(), g, instMem, dataMem, 100, nil, nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSimulateCycleBudgetExhausted(t *testing.T) {
	// The program does end in HALT, but a budget of one cycle only covers
	// the first ADDI, so the HALT is never reached.
	prog := assemble(t, "addi x5, x1, 0", "addi x5, x1, 0", "halt")
	instMem := memory.NewInstructionMemory(16)
	instMem.Load(prog.Words)
	dataMem := memory.NewDataMemory(16)

	g := dut.New()
	sim.SetKernelConfig(g, 0, 0, 1, 1)

	ok, err := sim.Simulate(context.Background(), g, instMem, dataMem, 1, nil, nil)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSimulateCrossWidthReduction(t *testing.T) {
	// sx_slti s1, x1, 5 -- scalar result is 1 only if every lane's
	// thread-id is < 5, which is false for a full 32-lane warp.
	prog := assemble(t, "sx_slti s1, x1, 5", "halt")
	instMem := memory.NewInstructionMemory(16)
	instMem.Load(prog.Words)
	dataMem := memory.NewDataMemory(16)

	g := dut.New()
	sim.SetKernelConfig(g, 0, 0, 1, 1)

	ok, err := sim.Simulate(context.Background(), g, instMem, dataMem, 1000, nil, nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(0), g.ScalarRegister(0, 0, 1))
}

func TestSimulatePopulatesStatsWithLogEnabled(t *testing.T) {
	prog := assemble(t, "addi x5, x1, 0", "sw x5, 0(x1)", "halt")
	instMem := memory.NewInstructionMemory(1024)
	instMem.Load(prog.Words)
	dataMem := memory.NewDataMemory(1024)

	g := dut.New()
	sim.SetKernelConfig(g, 0, 0, 1, 1)

	stats := trace.NewRunStatistics()
	log := trace.NewExecutionLog()
	log.Enabled = true

	ok, err := sim.Simulate(context.Background(), g, instMem, dataMem, 1000, stats, log)
	require.NoError(t, err)
	require.True(t, ok)

	assert.Greater(t, stats.CyclesRun, uint64(0))
	assert.Equal(t, uint64(1), stats.InstructionCounts["addi"])
	assert.Equal(t, uint64(1), stats.InstructionCounts["halt"])
	assert.Equal(t, uint64(dut.LanesPerWarp), stats.MemoryWrites)
}
