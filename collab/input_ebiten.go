//go:build !headless

// input_ebiten.go implements the default Input collaborator over Ebiten's
// keyboard polling, adapted from video_backend_ebiten.go's
// handleKeyboardInput key-state scanning (that file translated keypresses
// into host terminal escape sequences; this translates them into the N64
// controller's packed button/axis word instead).
package collab

import "github.com/hajimehoshi/ebiten/v2"

// N64 controller status-word bit layout, high 16 bits, per spec.md §6.
const (
	btnA = 1 << (31 - 0)
	btnB = 1 << (31 - 1)
	btnZ = 1 << (31 - 2)
	btnStart = 1 << (31 - 3)
	btnDUp    = 1 << (31 - 4)
	btnDDown  = 1 << (31 - 5)
	btnDLeft  = 1 << (31 - 6)
	btnDRight = 1 << (31 - 7)
	btnL = 1 << (31 - 10)
	btnR = 1 << (31 - 11)
	btnCUp    = 1 << (31 - 12)
	btnCDown  = 1 << (31 - 13)
	btnCLeft  = 1 << (31 - 14)
	btnCRight = 1 << (31 - 15)
)

// EbitenInput binds controller port 0 to the host keyboard; ports 1-3 have
// no host binding and report a neutral, unpressed state.
type EbitenInput struct{}

func NewEbitenInput() *EbitenInput { return &EbitenInput{} }

func (EbitenInput) Poll(port int) uint32 {
	if port != 0 {
		return 0
	}
	var word uint32
	press := func(key ebiten.Key, bit uint32) {
		if ebiten.IsKeyPressed(key) {
			word |= bit
		}
	}
	press(ebiten.KeyK, btnA)
	press(ebiten.KeyL, btnB)
	press(ebiten.KeyZ, btnZ)
	press(ebiten.KeyEnter, btnStart)
	press(ebiten.KeyArrowUp, btnDUp)
	press(ebiten.KeyArrowDown, btnDDown)
	press(ebiten.KeyArrowLeft, btnDLeft)
	press(ebiten.KeyArrowRight, btnDRight)
	press(ebiten.KeyQ, btnL)
	press(ebiten.KeyE, btnR)
	press(ebiten.KeyI, btnCUp)
	press(ebiten.KeyJ, btnCDown)
	press(ebiten.KeyU, btnCLeft)
	press(ebiten.KeyO, btnCRight)

	var x, y int8
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyA):
		x = -80
	case ebiten.IsKeyPressed(ebiten.KeyD):
		x = 80
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW):
		y = 80
	case ebiten.IsKeyPressed(ebiten.KeyS):
		y = -80
	}
	word |= uint32(uint8(y))<<8 | uint32(uint8(x))
	return word
}
