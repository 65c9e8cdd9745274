// Package collab implements the §6 external-interface collaborators the
// core calls through but never owns: audio playback, video output,
// controller input and save-file persistence. Every implementation here is
// swappable — the core only ever depends on the narrower per-subsystem
// interfaces in rcp/pif, not on this package directly.
package collab

import "image"

// Audio is the host audio sink: audio.open/close/push_samples per spec.md
// §6. Samples are interleaved signed 16-bit stereo.
type Audio interface {
	Open(sampleRate int) error
	Close() error
	// PushSamples enqueues interleaved PCM bytes; QueuedBytes reports how
	// much is still buffered so the core can size a silence pad on
	// underrun, per spec.md §6.
	PushSamples(pcm []byte)
	QueuedBytes() int
}

// Video is the host window/video backend: video.init/close/
// set_vi_register/update_screen per spec.md §6. The RDP rasterizer itself
// stays a black box (§1); Video only ever receives a scaled RGBA frame the
// VI component has already produced.
type Video interface {
	Init(fullscreenHint bool) error
	Close() error
	SetVIRegister(index int, value uint32)
	// UpdateScreen presents frame and polls window events, returning false
	// once the window has been closed.
	UpdateScreen(frame *image.RGBA) (stillOpen bool)
}

// Input is the host controller-polling collaborator: input.poll(port) per
// spec.md §6, returning a packed 32-bit button/axis word.
type Input interface {
	Poll(port int) uint32
}

// SaveKind is opaque at this layer — storage.load/save is generic over
// whatever byte blob the caller hands it (cart EEPROM/SRAM/FLASH image,
// MemPak image, TransferPak cart RAM).
type SaveKind string

const (
	SaveEEPROM     SaveKind = "eeprom"
	SaveSRAM       SaveKind = "sram"
	SaveFlash      SaveKind = "flash"
	SaveMemPak     SaveKind = "mempak"
	SaveTransferPak SaveKind = "transferpak"
)

// Storage is the save-file persistence collaborator: storage.load/save per
// spec.md §6.
type Storage interface {
	Load(kind SaveKind, path string) ([]byte, error)
	Save(kind SaveKind, path string, data []byte) error
}
