package rcp

import "github.com/reality64/n64core/core"

// PIFMailbox is the minimal interface SI needs from the pif package: a
// 64-byte RAM window SI DMAs RDRAM in and out of, and a hook to run the
// command byte at offset 0x3F once a write-to-PIF DMA lands.
type PIFMailbox interface {
	CopyIn(data []byte)
	CopyOut() []byte
	RunCommand()
}

// SI implements the PIF<->RAM DMA engine: SI_PIF_ADDR_WR64B
// triggers RDRAM->PIF RAM then runs the command byte; SI_PIF_ADDR_RD64B
// inverts the flow.
type SI struct {
	ram  ramAccess
	pif  PIFMailbox
	sched *core.Scheduler
	mi  *MI
	dma  *dmaEngine
	now  func() uint64

	dramAddr uint32
	toPIF  bool
}

type ramAccess interface {
	CopyIn(addr uint32, src []byte)
	CopyOut(addr uint32, length int) []byte
}

const siDMACycles = 4000 // fixed-latency approximation of the 64-byte serial transfer

func NewSI(ram ramAccess, pif PIFMailbox, sched *core.Scheduler, mi *MI, now func() uint64) *SI {
	s := &SI{ram: ram, pif: pif, sched: sched, mi: mi, now: now}
	s.dma = newDMAEngine(sched, core.EventSI, s.onComplete)
	return s
}

func (s *SI) onComplete(req dmaRequest) {
	if s.toPIF {
		data := s.ram.CopyOut(req.dramAddr, 64)
		s.pif.CopyIn(data)
		s.pif.RunCommand()
	} else {
		s.ram.CopyIn(req.dramAddr, s.pif.CopyOut())
	}
	s.mi.Raise(IntrSI)
}

const (
	siDramAddrOffset  = 0x00
	siPifAddrRd64Offset = 0x04
	siPifAddrWr64Offset = 0x10
	siStatusOffset   = 0x18
)

func (s *SI) Read32(addr uint32) uint32 {
	if addr&0x1F == siStatusOffset {
		var v uint32
		if s.dma.Busy() {
			v |= 1
		}
		return v
	}
	return 0
}

func (s *SI) Write32(addr uint32, v uint32) {
	switch addr & 0x1F {
	case siDramAddrOffset:
		s.dramAddr = v & 0xFFFFFF
	case siPifAddrWr64Offset:
		s.toPIF = true
		s.dma.Kick(dmaRequest{dramAddr: s.dramAddr, length: 64}, siDMACycles, s.now())
	case siPifAddrRd64Offset:
		s.toPIF = false
		s.dma.Kick(dmaRequest{dramAddr: s.dramAddr, length: 64}, siDMACycles, s.now())
	case siStatusOffset:
		s.mi.Clear(IntrSI)
	}
}
