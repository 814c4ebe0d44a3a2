package dut

// The methods below satisfy memory.InstructionPort and memory.DataPort,
// the narrow signal contracts the instruction/data memory models drive.

func (g *GPU) NumInstructionChannels() int           { return 1 }
func (g *GPU) InstReadValid(_ int) bool              { return g.instReqValid }
func (g *GPU) InstReadAddress(_ int) uint32           { return g.instReqAddr }
func (g *GPU) SetInstReadData(_ int, v uint32)        { g.instRespData = v }
func (g *GPU) SetInstReadReady(_ int, ready bool)     { g.instRespReady = ready }

func (g *GPU) NumDataChannels() int { return LanesPerWarp }

func (g *GPU) DataReadValid(i int) bool         { return g.dataReadValid[i] }
func (g *GPU) DataReadAddress(i int) uint32     { return g.dataReadAddr[i] }
func (g *GPU) SetDataReadData(i int, v uint32)  { g.dataReadData[i] = v }
func (g *GPU) SetDataReadReady(i int, r bool)   { g.dataReadReady[i] = r }

func (g *GPU) DataWriteValid(i int) bool        { return g.dataWriteValid[i] }
func (g *GPU) DataWriteAddress(i int) uint32    { return g.dataWriteAddr[i] }
func (g *GPU) DataWriteData(i int) uint32       { return g.dataWriteData[i] }
func (g *GPU) SetDataWriteReady(i int, r bool)  { g.dataWriteReady[i] = r }
