package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lookbusy1344/gpusim/ast"
	"github.com/lookbusy1344/gpusim/encoder"
	"github.com/lookbusy1344/gpusim/parser"
	"github.com/lookbusy1344/gpusim/token"
)

func parseLines(t *testing.T, srcs ...string) []ast.Line {
	t.Helper()
	var lines []ast.Line
	for i, src := range srcs {
		lx := token.NewLexer(src, i+1)
		toks := lx.TokenizeAll()
		require.Empty(t, lx.Errors(), "lex error in %q", src)
		line, errs := parser.ParseLine(toks)
		require.Empty(t, errs, "parse error in %q", src)
		if line != nil {
			lines = append(lines, line)
		}
	}
	return lines
}

func TestEncodeHaltOpcode(t *testing.T) {
	lines := parseLines(t, "halt")
	prog, err := encoder.Encode(lines)
	require.NoError(t, err)
	require.Len(t, prog.Words, 1)
	assert.Equal(t, ast.HALT.Opcode(), prog.Words[0]&0x3F)
}

func TestEncodeIsDeterministic(t *testing.T) {
	lines := parseLines(t, "addi x5, x2, 5")
	p1, err := encoder.Encode(lines)
	require.NoError(t, err)
	p2, err := encoder.Encode(lines)
	require.NoError(t, err)
	assert.Equal(t, p1.Words, p2.Words)
}

func TestEncodeItypeFieldPacking(t *testing.T) {
	lines := parseLines(t, "addi x5, x7, -1")
	prog, err := encoder.Encode(lines)
	require.NoError(t, err)
	word := prog.Words[0]
	assert.Equal(t, ast.ADDI.Opcode(), word&0x3F)
	assert.Equal(t, uint32(0), word&(1<<6), "vector operands clear the scalar bit")
	assert.Equal(t, uint32(5), (word>>7)&0x1F, "rd")
	assert.Equal(t, uint32(7), (word>>12)&0x1F, "rs1")
	assert.Equal(t, uint32(0xFFF), (word>>17)&0xFFF, "imm12 = -1 as twelve bits")
}

func TestEncodeImmediateOutOfRangeFails(t *testing.T) {
	lines := parseLines(t, "addi x5, x2, 4096")
	_, err := encoder.Encode(lines)
	require.Error(t, err)
}

func TestEncodeDuplicateLabelFails(t *testing.T) {
	lines := parseLines(t, "top:", "top:")
	_, err := encoder.Encode(lines)
	require.Error(t, err)
}

func TestEncodeDirectivesBeforeFirstInstruction(t *testing.T) {
	lines := parseLines(t, "halt", ".blocks 2")
	_, err := encoder.Encode(lines)
	require.Error(t, err)
}

func TestEncodeKernelConfig(t *testing.T) {
	lines := parseLines(t, ".blocks 4", ".warps 8", "halt")
	prog, err := encoder.Encode(lines)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), prog.Config.NumBlocks)
	assert.Equal(t, uint32(8), prog.Config.NumWarpsPerBlock)
}

func TestEncodeLabelRecordsPC(t *testing.T) {
	lines := parseLines(t, "halt", "top: add x5, x2, x6")
	prog, err := encoder.Encode(lines)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), prog.Labels["top"])
}
