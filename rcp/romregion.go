package rcp

// ROMRegion adapts PI's charged ROM read path to the bus dispatch table for
// the cart ROM window (0x10000000-0x1FBFFFFF); writes to cart ROM are
// dropped, matching real hardware where the window is read-only from the
// CPU side (PI DMA is the only way bytes move into RDRAM from it).
type ROMRegion struct{ PI *PI }

func (r ROMRegion) Read32(addr uint32) uint32     { return r.PI.ROMFull(addr) }
func (r ROMRegion) Write32(addr uint32, v uint32) {}
