// Package memory implements the instruction- and data-memory models that
// service the DUT's per-channel read/write signals once per cycle.
package memory

// Model is a sparse word-addressed memory: an address->word map plus a
// monotonic PushPtr. PushPtr advances only through Push -- direct indexed
// writes via Write never touch it, which keeps test-data loading ("push a
// run of words") independent from arbitrary addressed pokes.
type Model struct {
	Size  uint32 // addresses [0, Size) are in range; 0 means unbounded
	cells map[uint32]uint32

	PushPtr uint32
}

// NewModel creates a memory of the given address-space size. A size of 0
// means every address is considered in range.
func NewModel(size uint32) *Model {
	return &Model{Size: size, cells: make(map[uint32]uint32)}
}

// InRange reports whether addr falls within this memory's declared size.
func (m *Model) InRange(addr uint32) bool {
	return m.Size == 0 || addr < m.Size
}

// Read returns the word at addr, defaulting to 0 for a never-written cell.
func (m *Model) Read(addr uint32) uint32 { return m.cells[addr] }

// Write stores val at addr directly, without touching PushPtr.
func (m *Model) Write(addr, val uint32) { m.cells[addr] = val }

// Push appends val at the current PushPtr and advances it, returning the
// address written. This is the only way PushPtr moves.
func (m *Model) Push(val uint32) uint32 {
	addr := m.PushPtr
	m.cells[addr] = val
	m.PushPtr++
	return addr
}
