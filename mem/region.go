package mem

// RDRAMRegion adapts RDRAM to the Bus' ByteRegion interface for the
// 0x00000000-0x03EFFFFF window of the physical memory map.
type RDRAMRegion struct{ RAM *RDRAM }

func (r RDRAMRegion) Read32(addr uint32) uint32    { return r.RAM.ReadWord(addr) }
func (r RDRAMRegion) Write32(addr uint32, v uint32) { r.RAM.WriteWord(addr, v) }
func (r RDRAMRegion) Read16(addr uint32) uint16     { return r.RAM.ReadHalf(addr) }
func (r RDRAMRegion) Write16(addr uint32, v uint16) { r.RAM.WriteHalf(addr, v) }
func (r RDRAMRegion) Read8(addr uint32) uint8       { return r.RAM.ReadByte(addr) }
func (r RDRAMRegion) Write8(addr uint32, v uint8)   { r.RAM.WriteByte(addr, v) }
