package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lookbusy1344/gpusim/memory"
)

type fakeInstPort struct {
	n        int
	valid    []bool
	addr     []uint32
	gotData  []uint32
	gotReady []bool
}

func newFakeInstPort(n int) *fakeInstPort {
	return &fakeInstPort{n: n, valid: make([]bool, n), addr: make([]uint32, n), gotData: make([]uint32, n), gotReady: make([]bool, n)}
}

func (f *fakeInstPort) NumInstructionChannels() int            { return f.n }
func (f *fakeInstPort) InstReadValid(i int) bool                { return f.valid[i] }
func (f *fakeInstPort) InstReadAddress(i int) uint32             { return f.addr[i] }
func (f *fakeInstPort) SetInstReadData(i int, v uint32)          { f.gotData[i] = v }
func (f *fakeInstPort) SetInstReadReady(i int, ready bool)       { f.gotReady[i] = ready }

func TestInstructionMemoryServicesValidChannel(t *testing.T) {
	im := memory.NewInstructionMemory(16)
	im.Load([]uint32{0xAA, 0xBB, 0xCC})

	port := newFakeInstPort(2)
	port.valid[0] = true
	port.addr[0] = 1

	im.Service(port)

	assert.Equal(t, uint32(0xBB), port.gotData[0])
	assert.True(t, port.gotReady[0])
	assert.False(t, port.gotReady[1], "ready mirrors valid")
	assert.Empty(t, im.Violations)
}

func TestInstructionMemoryOutOfRangeLogsViolation(t *testing.T) {
	im := memory.NewInstructionMemory(4)
	port := newFakeInstPort(1)
	port.valid[0] = true
	port.addr[0] = 100

	im.Service(port)

	assert.Equal(t, uint32(0), port.gotData[0])
	assert.True(t, port.gotReady[0])
	assert.Len(t, im.Violations, 1)
}

type fakeDataPort struct {
	n             int
	rValid, wValid []bool
	rAddr, wAddr   []uint32
	wData          []uint32
	gotReadData    []uint32
	gotReadReady   []bool
	gotWriteReady  []bool
}

func newFakeDataPort(n int) *fakeDataPort {
	return &fakeDataPort{
		n: n,
		rValid: make([]bool, n), wValid: make([]bool, n),
		rAddr: make([]uint32, n), wAddr: make([]uint32, n),
		wData: make([]uint32, n),
		gotReadData: make([]uint32, n), gotReadReady: make([]bool, n), gotWriteReady: make([]bool, n),
	}
}

func (f *fakeDataPort) NumDataChannels() int { return f.n }

func (f *fakeDataPort) DataReadValid(i int) bool        { return f.rValid[i] }
func (f *fakeDataPort) DataReadAddress(i int) uint32    { return f.rAddr[i] }
func (f *fakeDataPort) SetDataReadData(i int, v uint32) { f.gotReadData[i] = v }
func (f *fakeDataPort) SetDataReadReady(i int, r bool)  { f.gotReadReady[i] = r }

func (f *fakeDataPort) DataWriteValid(i int) bool      { return f.wValid[i] }
func (f *fakeDataPort) DataWriteAddress(i int) uint32  { return f.wAddr[i] }
func (f *fakeDataPort) DataWriteData(i int) uint32     { return f.wData[i] }
func (f *fakeDataPort) SetDataWriteReady(i int, r bool) { f.gotWriteReady[i] = r }

func TestDataMemoryWriteBeforeReadSameCycle(t *testing.T) {
	dm := memory.NewDataMemory(16)
	port := newFakeDataPort(2)

	port.wValid[0] = true
	port.wAddr[0] = 5
	port.wData[0] = 42

	port.rValid[1] = true
	port.rAddr[1] = 5

	dm.Service(port)

	assert.Equal(t, uint32(42), port.gotReadData[1], "same-cycle read observes the write")
	assert.True(t, port.gotWriteReady[0])
	assert.True(t, port.gotReadReady[1])
}

func TestDataMemoryOutOfRangeWriteLogsViolation(t *testing.T) {
	dm := memory.NewDataMemory(4)
	port := newFakeDataPort(1)
	port.wValid[0] = true
	port.wAddr[0] = 999
	port.wData[0] = 1

	dm.Service(port)

	assert.Len(t, dm.Violations, 1)
}

func TestDataMemoryCountsServicedChannels(t *testing.T) {
	dm := memory.NewDataMemory(16)
	port := newFakeDataPort(2)
	port.wValid[0] = true
	port.wAddr[0] = 1
	port.rValid[1] = true
	port.rAddr[1] = 1

	dm.Service(port)

	assert.Equal(t, uint64(1), dm.WriteCount)
	assert.Equal(t, uint64(1), dm.ReadCount)
}

func TestModelPushAdvancesPointerOnly(t *testing.T) {
	m := memory.NewModel(0)
	m.Write(100, 7) // direct write must never move PushPtr
	assert.Equal(t, uint32(0), m.PushPtr)

	addr := m.Push(1)
	assert.Equal(t, uint32(0), addr)
	assert.Equal(t, uint32(1), m.PushPtr)
	m.Push(2)
	assert.Equal(t, uint32(2), m.PushPtr)
	assert.Equal(t, uint32(1), m.Read(0))
	assert.Equal(t, uint32(2), m.Read(1))
}
