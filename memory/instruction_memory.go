package memory

import "fmt"

// InstructionMemory services a DUT's instruction-fetch channels once per
// cycle: read only, ready mirrors valid, out-of-range reads return 0 and
// are logged rather than aborting the run.
type InstructionMemory struct {
	Model      *Model
	Violations []string
}

// NewInstructionMemory creates an instruction memory of the given
// address-space size.
func NewInstructionMemory(size uint32) *InstructionMemory {
	return &InstructionMemory{Model: NewModel(size)}
}

// Load places words starting at address 0, as produced by encoder.Encode.
func (im *InstructionMemory) Load(words []uint32) {
	for i, w := range words {
		im.Model.Write(uint32(i), w)
	}
}

// Service drains one cycle's worth of read requests from port.
func (im *InstructionMemory) Service(port InstructionPort) {
	n := port.NumInstructionChannels()
	for i := 0; i < n; i++ {
		valid := port.InstReadValid(i)
		if !valid {
			port.SetInstReadReady(i, false)
			continue
		}
		addr := port.InstReadAddress(i)
		if im.Model.InRange(addr) {
			port.SetInstReadData(i, im.Model.Read(addr))
		} else {
			port.SetInstReadData(i, 0)
			im.Violations = append(im.Violations, fmt.Sprintf("instruction memory: out-of-range read at 0x%08X", addr))
		}
		port.SetInstReadReady(i, true)
	}
}
