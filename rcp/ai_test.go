package rcp

import (
	"testing"

	"github.com/reality64/n64core/core"
	"github.com/reality64/n64core/mem"
)

type fakeAudioSink struct{ pushed []byte }

func (f *fakeAudioSink) PushSamples(pcm []byte) { f.pushed = append([]byte(nil), pcm...) }

func TestAIDMAPushesSamplesAndRaisesInterrupt(t *testing.T) {
	ram := mem.New()
	ram.WriteWord(0x4000, 0x11223344)
	sink := &fakeAudioSink{}
	sched := core.NewScheduler()
	mi := NewMI(&fakeSink{})
	mi.SetMask(IntrAI)

	var now uint64
	ai := NewAI(ram, sink, sched, mi, func() uint64 { return now })

	ai.Write32(aiDramAddrOffset, 0x4000)
	ai.Write32(aiLenOffset, 4)

	if !ai.dma.Busy() {
		t.Fatal("AI DMA not busy immediately after kick")
	}

	now = ai.aiCycles(4)
	sched.Tick(now)

	if ai.dma.Busy() {
		t.Fatal("AI DMA still busy after completion deadline")
	}
	if len(sink.pushed) != 4 || sink.pushed[0] != 0x11 {
		t.Fatalf("pushed samples = %v, want the 4 RDRAM bytes at 0x4000", sink.pushed)
	}
	if mi.Intr()&IntrAI == 0 {
		t.Fatal("MI.AI not asserted after AI DMA completion")
	}
}

func TestAIStatusReportsBusyAndFull(t *testing.T) {
	ram := mem.New()
	sink := &fakeAudioSink{}
	sched := core.NewScheduler()
	mi := NewMI(&fakeSink{})

	var now uint64
	ai := NewAI(ram, sink, sched, mi, func() uint64 { return now })

	ai.Write32(aiDramAddrOffset, 0)
	ai.Write32(aiLenOffset, 4)
	if ai.Read32(aiStatusOffset)&(1<<30) == 0 {
		t.Fatal("status does not report busy after a kick")
	}

	ai.Write32(aiLenOffset, 4) // second kick while busy: queues and sets full
	if ai.Read32(aiStatusOffset)&1 == 0 {
		t.Fatal("status does not report full after a second kick while busy")
	}
}

func TestAIDacrateAffectsCycleCost(t *testing.T) {
	ram := mem.New()
	sink := &fakeAudioSink{}
	sched := core.NewScheduler()
	mi := NewMI(&fakeSink{})

	var now uint64
	ai := NewAI(ram, sink, sched, mi, func() uint64 { return now })
	base := ai.aiCycles(4)

	ai.Write32(aiDacrateOffset, 1000)
	faster := ai.aiCycles(4)
	if faster >= base {
		t.Fatalf("higher DAC rate divisor should shorten playback: base=%d faster=%d", base, faster)
	}
}
