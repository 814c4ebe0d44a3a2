package memory

// InstructionPort is the narrow signal contract instruction memory reads
// from and drives: the DUT's read-request channels. A typed accessor
// interface, never a raw pointer into DUT state.
type InstructionPort interface {
	NumInstructionChannels() int
	InstReadValid(channel int) bool
	InstReadAddress(channel int) uint32
	SetInstReadData(channel int, value uint32)
	SetInstReadReady(channel int, ready bool)
}

// DataPort is the equivalent contract for data memory: read channels plus
// a write side serviced before reads in the same cycle.
type DataPort interface {
	NumDataChannels() int

	DataReadValid(channel int) bool
	DataReadAddress(channel int) uint32
	SetDataReadData(channel int, value uint32)
	SetDataReadReady(channel int, ready bool)

	DataWriteValid(channel int) bool
	DataWriteAddress(channel int) uint32
	DataWriteData(channel int) uint32
	SetDataWriteReady(channel int, ready bool)
}
