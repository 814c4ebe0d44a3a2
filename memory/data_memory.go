package memory

import "fmt"

// DataMemory services a DUT's data-memory channels once per cycle. Writes
// are serviced before reads in the same cycle, so a read from the address
// just written in this same cycle observes the new value.
type DataMemory struct {
	Model      *Model
	Violations []string

	// ReadCount and WriteCount tally serviced channel requests (valid ==
	// true), in-range or not, for statistics reporting.
	ReadCount  uint64
	WriteCount uint64
}

// NewDataMemory creates a data memory of the given address-space size.
func NewDataMemory(size uint32) *DataMemory {
	return &DataMemory{Model: NewModel(size)}
}

// Service drains one cycle's worth of write and then read requests from
// port, write-first.
func (dm *DataMemory) Service(port DataPort) {
	n := port.NumDataChannels()

	for i := 0; i < n; i++ {
		valid := port.DataWriteValid(i)
		if !valid {
			port.SetDataWriteReady(i, false)
			continue
		}
		dm.WriteCount++
		addr := port.DataWriteAddress(i)
		if dm.Model.InRange(addr) {
			dm.Model.Write(addr, port.DataWriteData(i))
		} else {
			dm.Violations = append(dm.Violations, fmt.Sprintf("data memory: out-of-range write at 0x%08X", addr))
		}
		port.SetDataWriteReady(i, true)
	}

	for i := 0; i < n; i++ {
		valid := port.DataReadValid(i)
		if !valid {
			port.SetDataReadReady(i, false)
			continue
		}
		dm.ReadCount++
		addr := port.DataReadAddress(i)
		if dm.Model.InRange(addr) {
			port.SetDataReadData(i, dm.Model.Read(addr))
		} else {
			port.SetDataReadData(i, 0)
			dm.Violations = append(dm.Violations, fmt.Sprintf("data memory: out-of-range read at 0x%08X", addr))
		}
		port.SetDataReadReady(i, true)
	}
}
