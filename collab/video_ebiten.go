//go:build !headless

// video_ebiten.go implements the default Video collaborator over Ebiten,
// adapted from video_backend_ebiten.go's EbitenOutput: that struct ran
// ebiten.RunGame in a goroutine and handed back control to its caller via
// a buffered vsyncChan signalled from Draw. This keeps that exact
// run-goroutine-then-wait-on-channel startup shape, but drops the
// keyboard-to-MMIO clipboard/escape-sequence plumbing (owned here by the
// separate ebitenInput collaborator) and instead just blits whatever RGBA
// frame the VI component already produced.
package collab

import (
	"fmt"
	"image"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
)

type EbitenVideo struct {
	running    bool
	fullscreen bool
	window     *ebiten.Image

	mu    sync.RWMutex
	frame *image.RGBA

	vsyncChan chan struct{}
}

func NewEbitenVideo() *EbitenVideo {
	return &EbitenVideo{vsyncChan: make(chan struct{}, 1)}
}

func (ev *EbitenVideo) Init(fullscreenHint bool) error {
	if ev.running {
		return nil
	}
	ev.running = true
	ev.fullscreen = fullscreenHint
	ebiten.SetWindowSize(640, 480)
	ebiten.SetWindowTitle("reality64")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if ev.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		if err := ebiten.RunGame(ev); err != nil {
			fmt.Printf("ebiten error: %v\n", err)
		}
	}()

	<-ev.vsyncChan
	return nil
}

func (ev *EbitenVideo) Close() error {
	ev.running = false
	return nil
}

// SetVIRegister is currently a no-op hook: the VI component already
// resolves timing/resolution itself and only ever hands UpdateScreen a
// fully scaled frame. Kept to satisfy the Video contract and as the seam
// a future overlay (OSD, frame counter) would hang off.
func (ev *EbitenVideo) SetVIRegister(index int, value uint32) {}

func (ev *EbitenVideo) UpdateScreen(frame *image.RGBA) bool {
	ev.mu.Lock()
	ev.frame = frame
	ev.mu.Unlock()
	return ev.running
}

func (ev *EbitenVideo) Update() error {
	if ebiten.IsWindowBeingClosed() || !ev.running {
		return ebiten.Termination
	}
	return nil
}

func (ev *EbitenVideo) Draw(screen *ebiten.Image) {
	ev.mu.RLock()
	f := ev.frame
	ev.mu.RUnlock()
	if f == nil {
		return
	}
	b := f.Bounds()
	if ev.window == nil || ev.window.Bounds().Dx() != b.Dx() || ev.window.Bounds().Dy() != b.Dy() {
		ev.window = ebiten.NewImage(b.Dx(), b.Dy())
	}
	ev.window.WritePixels(f.Pix)
	screen.DrawImage(ev.window, nil)

	select {
	case ev.vsyncChan <- struct{}{}:
	default:
	}
}

func (ev *EbitenVideo) Layout(outsideWidth, outsideHeight int) (int, int) {
	ev.mu.RLock()
	f := ev.frame
	ev.mu.RUnlock()
	if f == nil {
		return 640, 480
	}
	return f.Bounds().Dx(), f.Bounds().Dy()
}
