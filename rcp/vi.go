package rcp

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/reality64/n64core/core"
	"github.com/reality64/n64core/mem"
)

// VideoSink receives a scaled RGBA frame once per field
// (video.update_screen, video.set_vi_register for register-shadow
// debugging). Ownership of pacing to the real 50/60 Hz field rate lives in
// the collaborator, not here.
type VideoSink interface {
	UpdateScreen(frame *image.RGBA) (stillOpen bool)
}

// VI implements the scanout register file and drives the horizontal/vertical
// scaling the real VI performs between the framebuffer and chosen output
// resolution (the x/image/draw scaling kernel).
type VI struct {
	ram  *mem.RDRAM
	sink VideoSink
	sched *core.Scheduler
	mi  *MI
	now  func() uint64

	origin  uint32
	width   uint32
	ctrl   uint32
	vCurrent uint32
	vIntr   uint32
	hStart, hEnd uint32
	vStart, vEnd uint32

	fieldCycles uint64
}

const viFieldCyclesNTSC = 1562500 // approx CPU cycles per 60Hz field at 93.75MHz

func NewVI(ram *mem.RDRAM, sink VideoSink, sched *core.Scheduler, mi *MI, now func() uint64) *VI {
	v := &VI{ram: ram, sink: sink, sched: sched, mi: mi, now: now, fieldCycles: viFieldCyclesNTSC, width: 320}
	v.armNextField()
	return v
}

func (v *VI) armNextField() {
	v.sched.Schedule(core.EventVI, v.now()+v.fieldCycles, func(cycle uint64) {
		v.onField()
	})
}

func (v *VI) onField() {
	v.mi.Raise(IntrVI)
	frame := v.renderFrame()
	v.sink.UpdateScreen(frame)
	v.armNextField()
}

// renderFrame reads the 16bpp/32bpp framebuffer named by VI_ORIGIN/VI_WIDTH
// out of RDRAM and scales it with x/image/draw into a fixed 640x480 output
// canvas, standing in for the real VI's analog bilinear scaler.
func (v *VI) renderFrame() *image.RGBA {
	width := int(v.width)
	if width <= 0 {
		width = 320
	}
	height := width * 3 / 4
	src := image.NewRGBA(image.Rect(0, 0, width, height))
	is32 := v.ctrl&0x3 == 3
	base := v.origin
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, b uint8
			if is32 {
				w := v.ram.ReadWord(base + uint32((y*width+x)*4))
				r, g, b = uint8(w>>24), uint8(w>>16), uint8(w>>8)
			} else {
				h := v.ram.ReadHalf(base + uint32((y*width+x)*2))
				r = uint8((h >> 11) & 0x1F << 3)
				g = uint8((h >> 6) & 0x1F << 3)
				b = uint8((h >> 1) & 0x1F << 3)
			}
			src.SetRGBA(x, y, color.RGBA{R: r, G: g, B: b, A: 0xFF})
		}
	}
	dst := image.NewRGBA(image.Rect(0, 0, 640, 480))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

const (
	viCtrlOffset  = 0x00
	viOriginOffset = 0x04
	viWidthOffset  = 0x08
	viIntrOffset  = 0x0C
	viCurrentOffset = 0x10
	viHStartOffset = 0x24
	viVStartOffset = 0x28
)

func (v *VI) Read32(addr uint32) uint32 {
	switch addr & 0x3F {
	case viCtrlOffset:
		return v.ctrl
	case viOriginOffset:
		return v.origin
	case viWidthOffset:
		return v.width
	case viIntrOffset:
		return v.vIntr
	case viCurrentOffset:
		return v.vCurrent
	default:
		return 0
	}
}

func (v *VI) Write32(addr uint32, val uint32) {
	switch addr & 0x3F {
	case viCtrlOffset:
		v.ctrl = val
	case viOriginOffset:
		v.origin = val & 0xFFFFFF
	case viWidthOffset:
		v.width = val & 0xFFF
	case viIntrOffset:
		v.vIntr = val & 0x3FF
	case viCurrentOffset:
		v.mi.Clear(IntrVI)
	case viHStartOffset:
		v.hStart, v.hEnd = val>>16, val&0xFFFF
	case viVStartOffset:
		v.vStart, v.vEnd = val>>16, val&0xFFFF
	}
}
