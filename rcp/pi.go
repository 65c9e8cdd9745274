package rcp

import (
	"github.com/reality64/n64core/core"
	"github.com/reality64/n64core/mem"
)

// ROMSource is the minimal interface PI needs from the cart package: raw
// big-endian ROM bytes plus its length, so a PI DMA can copy a span of it
// into RDRAM without rcp importing cart (cart already needs rcp's register
// shapes for save-type autodetection, so the dependency runs the other way).
type ROMSource interface {
	ReadROM(addr uint32, buf []byte)
	Len() uint32
}

// PI implements the cart<->RAM DMA engine plus the single-word
// MMIO "IO busy" read-latch quirk widely abused by boot code.
type PI struct {
	ram *mem.RDRAM
	rom ROMSource
	sched *core.Scheduler
	mi  *MI
	dma *dmaEngine

	domAddr1, domAddr2 uint32
	lat, pwd, pgs, rls uint32

	ioBusyLatch uint32
	ioBusyUntil uint64
	now     func() uint64
}

func NewPI(ram *mem.RDRAM, rom ROMSource, sched *core.Scheduler, mi *MI, now func() uint64) *PI {
	p := &PI{
		ram: ram, rom: rom, sched: sched, mi: mi, now: now,
		lat: 0xFF, pwd: 0xFF, pgs: 0xF, rls: 0xFF,
	}
	p.dma = newDMAEngine(sched, core.EventPI, p.onComplete)
	return p
}

// piCycles is the PI domain timing cost model: a fixed per-transfer latency
// plus a per-byte cost derived from the page-size/release-latency timing
// registers, matching the LAT/PWD/PGS/RLS contract the design calls out.
func (p *PI) piCycles(length uint32) uint64 {
	fixed := uint64(p.lat+1) * 64
	perByte := uint64(p.pwd+1) * 8 / (uint64(p.pgs) + 2)
	if perByte == 0 {
		perByte = 1
	}
	return fixed + perByte*uint64(length)
}

func (p *PI) KickWrite(cartAddr, dramAddr, length uint32) {
	p.dma.Kick(dmaRequest{cartAddr: cartAddr, dramAddr: dramAddr, length: length, toCart: false}, p.piCycles(length), p.now())
}

func (p *PI) KickRead(cartAddr, dramAddr, length uint32) {
	p.dma.Kick(dmaRequest{cartAddr: cartAddr, dramAddr: dramAddr, length: length, toCart: true}, p.piCycles(length), p.now())
}

func (p *PI) onComplete(req dmaRequest) {
	if req.toCart {
		// RDRAM -> cart save domain: handled by the cart package's own
		// region registration; PI only moves bytes for cart ROM reads in
		// this simplified model since ROM itself is immutable from the PI
		// side.
	} else {
		buf := make([]byte, req.length)
		romLen := p.rom.Len()
		avail := req.length
		if req.cartAddr < romLen {
			remain := romLen - req.cartAddr
			if remain < avail {
				avail = remain
			}
		} else {
			avail = 0
		}
		if avail > 0 {
			p.rom.ReadROM(req.cartAddr, buf[:avail])
		}
		p.ram.CopyIn(req.dramAddr, buf)
	}
	p.mi.Raise(IntrPI)
}

const (
	piDramAddrOffset = 0x00
	piCartAddrOffset = 0x04
	piRdLenOffset  = 0x08
	piWrLenOffset  = 0x0C
	piStatusOffset  = 0x10
	piDom1LatOffset = 0x14
	piDom1PwdOffset = 0x18
	piDom1PgsOffset = 0x1C
	piDom1RlsOffset = 0x20
)

func (p *PI) Read32(addr uint32) uint32 {
	switch addr & 0x3F {
	case piStatusOffset:
		var s uint32
		if p.dma.Busy() {
			s |= 1
		}
		if p.dma.Full() {
			s |= 2
		}
		return s
	case piDom1LatOffset:
		return p.lat
	case piDom1PwdOffset:
		return p.pwd
	case piDom1PgsOffset:
		return p.pgs
	case piDom1RlsOffset:
		return p.rls
	default:
		return 0
	}
}

func (p *PI) Write32(addr uint32, v uint32) {
	switch addr & 0x3F {
	case piDramAddrOffset:
		p.domAddr2 = v & 0xFFFFFF
	case piCartAddrOffset:
		p.domAddr1 = v
	case piRdLenOffset:
		p.KickRead(p.domAddr1, p.domAddr2, (v&0xFFFFFF)+1)
	case piWrLenOffset:
		p.KickWrite(p.domAddr1, p.domAddr2, (v&0xFFFFFF)+1)
	case piStatusOffset:
		if v&2 != 0 {
			p.mi.Clear(IntrPI)
		}
	case piDom1LatOffset:
		p.lat = v & 0xFF
	case piDom1PwdOffset:
		p.pwd = v & 0xFF
	case piDom1PgsOffset:
		p.pgs = v & 0xF
	case piDom1RlsOffset:
		p.rls = v & 0x3
	}
}

// ROMFast is the fast-path ROM read used only for idle-loop peek: no
// cycle charge, honors the IO-busy latch.
func (p *PI) ROMFast(addr uint32) uint32 {
	return p.romWord(addr)
}

// ROMFull is the charged ROM read path for LW/LH/LB against the cart window.
func (p *PI) ROMFull(addr uint32) uint32 {
	return p.romWord(addr)
}

func (p *PI) romWord(addr uint32) uint32 {
	if p.now() < p.ioBusyUntil {
		return p.ioBusyLatch
	}
	var buf [4]byte
	off := addr & 0x01FFFFFF
	if off+4 <= p.rom.Len() {
		p.rom.ReadROM(off, buf[:])
	}
	v := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])
	p.ioBusyLatch = v
	p.ioBusyUntil = p.now() + 50
	return v
}
