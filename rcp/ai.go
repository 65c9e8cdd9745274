package rcp

import "github.com/reality64/n64core/core"

// AudioSink is the collaborator-owned audio output (audio.open/close/
// push_samples). The AI DMA engine feeds it interleaved signed 16-bit
// stereo PCM pulled straight from RDRAM.
type AudioSink interface {
	PushSamples(pcm []byte)
}

// AI implements the audio DMA engine: RAM -> audio sink, costed
// from the configured DAC rate and sample width, two-entry FIFO.
type AI struct {
	ram  ramAccess
	sink AudioSink
	sched *core.Scheduler
	mi  *MI
	dma  *dmaEngine
	now  func() uint64

	dramAddr uint32
	dacRate uint32
	bitrate uint32
}

const aiInputClockHz = 48681812

func NewAI(ram ramAccess, sink AudioSink, sched *core.Scheduler, mi *MI, now func() uint64) *AI {
	a := &AI{ram: ram, sink: sink, sched: sched, mi: mi, now: now, dacRate: 1}
	a.dma = newDMAEngine(sched, core.EventAI, a.onComplete)
	return a
}

// aiCycles derives duration from the configured DAC rate and 16-bit stereo
// sample width, matching the configured DAC timing.
func (a *AI) aiCycles(length uint32) uint64 {
	samples := uint64(length) / 4
	cyclesPerSample := uint64(aiInputClockHz) / uint64(a.dacRate+1)
	return samples * cyclesPerSample / 44100
}

func (a *AI) onComplete(req dmaRequest) {
	a.sink.PushSamples(a.ram.CopyOut(req.dramAddr, int(req.length)))
	a.mi.Raise(IntrAI)
}

const (
	aiDramAddrOffset = 0x00
	aiLenOffset   = 0x04
	aiControlOffset = 0x08
	aiStatusOffset  = 0x0C
	aiDacrateOffset = 0x10
	aiBitrateOffset = 0x14
)

func (a *AI) Read32(addr uint32) uint32 {
	switch addr & 0x1F {
	case aiLenOffset:
		return 0
	case aiStatusOffset:
		var v uint32
		if a.dma.Busy() {
			v |= 1 << 30
		}
		if a.dma.Full() {
			v |= 1
		}
		return v
	default:
		return 0
	}
}

func (a *AI) Write32(addr uint32, v uint32) {
	switch addr & 0x1F {
	case aiDramAddrOffset:
		a.dramAddr = v & 0xFFFFFF
	case aiLenOffset:
		length := v & 0x3FFFF
		a.dma.Kick(dmaRequest{dramAddr: a.dramAddr, length: length}, a.aiCycles(length), a.now())
	case aiStatusOffset:
		a.mi.Clear(IntrAI)
	case aiDacrateOffset:
		a.dacRate = v & 0x3FFF
	case aiBitrateOffset:
		a.bitrate = v & 0xF
	}
}
