// Package loader turns an assembly source file into an encoded Program and
// places it into a fresh instruction memory, ready for the simulation
// driver to launch.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lookbusy1344/gpusim/ast"
	"github.com/lookbusy1344/gpusim/encoder"
	"github.com/lookbusy1344/gpusim/memory"
	"github.com/lookbusy1344/gpusim/parser"
	"github.com/lookbusy1344/gpusim/token"
)

// AssembleError reports every lex/parse failure collected across a source
// file, so a user sees all of them at once instead of one-at-a-time.
type AssembleError struct {
	Messages []string
}

func (e *AssembleError) Error() string {
	if len(e.Messages) == 1 {
		return e.Messages[0]
	}
	return fmt.Sprintf("%d assembly errors, first: %s", len(e.Messages), e.Messages[0])
}

// AssembleSource lexes and parses every line of src, collecting every
// error found rather than stopping at the first. A non-nil *AssembleError
// is returned if any line failed.
func AssembleSource(src io.Reader) ([]ast.Line, error) {
	var lines []ast.Line
	var msgs []string

	scanner := bufio.NewScanner(src)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()

		lx := token.NewLexer(text, lineNo)
		toks := lx.TokenizeAll()
		for _, lerr := range lx.Errors() {
			msgs = append(msgs, lerr.Error())
		}
		if len(lx.Errors()) > 0 {
			continue
		}

		line, perrs := parser.ParseLine(toks)
		for _, perr := range perrs {
			msgs = append(msgs, perr.Error())
		}
		if len(perrs) > 0 {
			continue
		}
		if line != nil {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("loader: reading source: %w", err)
	}
	if len(msgs) > 0 {
		return nil, &AssembleError{Messages: msgs}
	}
	return lines, nil
}

// AssembleFile is AssembleSource reading from a named file.
func AssembleFile(path string) ([]ast.Line, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied assembly source path
	if err != nil {
		return nil, fmt.Errorf("loader: opening %s: %w", path, err)
	}
	defer f.Close()
	return AssembleSource(f)
}

// Loaded is a fully assembled and placed program: its encoded words already
// live in an instruction memory, and its launch geometry is resolved (file
// directives override the supplied defaults).
type Loaded struct {
	Program     encoder.Program
	Instruction *memory.InstructionMemory
	NumBlocks   uint32
	NumWarps    uint32
}

// Load assembles src, encodes it, and places the resulting words at address
// 0 of a freshly created instruction memory sized instMemSize words.
// defaultNumBlocks/defaultNumWarps are used when the source has no
// .blocks/.warps directive.
func Load(src io.Reader, instMemSize, defaultNumBlocks, defaultNumWarps uint32) (*Loaded, error) {
	lines, err := AssembleSource(src)
	if err != nil {
		return nil, err
	}

	prog, err := encoder.Encode(lines)
	if err != nil {
		return nil, fmt.Errorf("loader: encoding: %w", err)
	}

	numBlocks := defaultNumBlocks
	if prog.Config.NumBlocks != 0 {
		numBlocks = prog.Config.NumBlocks
	}
	numWarps := defaultNumWarps
	if prog.Config.NumWarpsPerBlock != 0 {
		numWarps = prog.Config.NumWarpsPerBlock
	}

	instMem := memory.NewInstructionMemory(instMemSize)
	instMem.Load(prog.Words)

	return &Loaded{
		Program:     prog,
		Instruction: instMem,
		NumBlocks:   numBlocks,
		NumWarps:    numWarps,
	}, nil
}

// LoadFile is Load reading assembly source from a named file.
func LoadFile(path string, instMemSize, defaultNumBlocks, defaultNumWarps uint32) (*Loaded, error) {
	f, err := os.Open(path) // #nosec G304 -- user-supplied assembly source path
	if err != nil {
		return nil, fmt.Errorf("loader: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f, instMemSize, defaultNumBlocks, defaultNumWarps)
}
