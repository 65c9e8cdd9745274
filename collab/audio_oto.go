//go:build !headless

// audio_oto.go implements the default Audio collaborator over OTO v3,
// adapted from audio_backend_oto.go's atomic-pointer-plus-ring-read
// player shape: that file fed a synthesized SoundChip's float32 ring
// through an oto.Player's pull-based Read; this adapts the same player
// lifecycle (NewContext, lazy player creation, Start/Stop/Close) to pull
// from a byte ring fed by AI DMA's interleaved 16-bit stereo PCM instead.
package collab

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

// OtoAudio is the default Audio collaborator: a ring buffer the AI DMA
// engine's PushSamples fills and oto's pull-based player drains.
type OtoAudio struct {
	ctx    *oto.Context
	player *oto.Player

	mu   sync.Mutex
	ring []byte
	// ringLimit bounds the buffer against a stalled host sink; beyond it
	// PushSamples drops the oldest queued audio rather than growing
	// without bound, matching the documented "drop policy if the sink is
	// overcommitted" in spec.md §5.
	ringLimit int
}

const otoChannels = 2
const otoRingLimitBytes = 64 * 1024

func NewOtoAudio() *OtoAudio {
	return &OtoAudio{ringLimit: otoRingLimitBytes}
}

func (a *OtoAudio) Open(sampleRate int) error {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: otoChannels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   4096,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return err
	}
	<-ready
	a.ctx = ctx
	a.player = ctx.NewPlayer(a)
	a.player.Play()
	return nil
}

func (a *OtoAudio) Close() error {
	if a.player != nil {
		return a.player.Close()
	}
	return nil
}

// PushSamples appends freshly-DMA'd PCM to the ring, dropping the oldest
// bytes first if the host sink hasn't drained fast enough.
func (a *OtoAudio) PushSamples(pcm []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.ring = append(a.ring, pcm...)
	if over := len(a.ring) - a.ringLimit; over > 0 {
		a.ring = a.ring[over:]
	}
}

func (a *OtoAudio) QueuedBytes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.ring)
}

// Read implements io.Reader for oto's pull model: drains the ring, padding
// with silence on underrun so the output stream never stalls.
func (a *OtoAudio) Read(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := copy(p, a.ring)
	a.ring = a.ring[n:]
	for i := n; i < len(p); i++ {
		p[i] = 0
	}
	return len(p), nil
}
