// Package mem implements the backing RDRAM store and the physical-address
// dispatch table that routes CPU/RSP/DMA accesses to the right device.
//
// Grounded on memory_bus.go / machine_bus.go: a contiguous []byte backing
// store plus a page-indexed table of device handlers, protected by a single
// RWMutex (no lock-free tricks beyond the one carried elsewhere in this
// codebase for a video-status fast path, which RDRAM has no equivalent need
// for). RDRAM is the only multi-writer resource; no extra locking beyond
// what serial scheduling already guarantees is required for correctness —
// the mutex here exists for host-thread safety against collaborator
// goroutines, not for guest-visible ordering.
package mem

import (
	"encoding/binary"
	"sync"
)

// Size is the size of the emulated RDRAM backing store. Real hardware ships
// with 4MB or 8MB depending on the Expansion Pak; the core always models the
// expanded 8MB so software that detects and uses it behaves identically to
// real 8MB hardware.
const Size = 8 * 1024 * 1024

// RDRAM is the cartridge-independent backing memory of the machine. The N64
// bus is big-endian regardless of host architecture; storing the backing
// array in bus (big-endian) order means every access, whatever its width,
// round-trips correctly without a manual per-byte XOR swap — the
// host-native XOR-3/XOR-0 trick real N64 software toolchains use is a
// SIMD-friendliness optimisation, not an observable behaviour, so Go's
// encoding/binary.BigEndian reproduces the same guest-visible semantics.
type RDRAM struct {
	mu   sync.RWMutex
	data [Size]byte
}

// New allocates a zeroed RDRAM backing store.
func New() *RDRAM {
	return &RDRAM{}
}

func (r *RDRAM) ReadByte(addr uint32) byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data[addr%Size]
}

func (r *RDRAM) WriteByte(addr uint32, v byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[addr%Size] = v
}

func (r *RDRAM) ReadHalf(addr uint32) uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a := addr % Size
	return binary.BigEndian.Uint16(r.data[a : a+2])
}

func (r *RDRAM) WriteHalf(addr uint32, v uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := addr % Size
	binary.BigEndian.PutUint16(r.data[a:a+2], v)
}

func (r *RDRAM) ReadWord(addr uint32) uint32 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a := addr % Size
	return binary.BigEndian.Uint32(r.data[a : a+4])
}

func (r *RDRAM) WriteWord(addr uint32, v uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := addr % Size
	binary.BigEndian.PutUint32(r.data[a:a+4], v)
}

func (r *RDRAM) ReadDword(addr uint32) uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a := addr % Size
	return binary.BigEndian.Uint64(r.data[a : a+8])
}

func (r *RDRAM) WriteDword(addr uint32, v uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := addr % Size
	binary.BigEndian.PutUint64(r.data[a:a+8], v)
}

// CopyIn bulk-copies src into RDRAM starting at addr, used by DMA engines.
func (r *RDRAM) CopyIn(addr uint32, src []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := int(addr % Size)
	n := copy(r.data[a:], src)
	for n < len(src) {
		r.data[n-len(r.data[a:])] = src[n]
		n++
	}
}

// CopyOut bulk-copies length bytes from RDRAM starting at addr, used by DMA
// engines reading RDRAM as their source.
func (r *RDRAM) CopyOut(addr uint32, length int) []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]byte, length)
	a := int(addr % Size)
	n := copy(out, r.data[a:])
	for n < length {
		out[n] = r.data[n-(Size-a)]
		n++
	}
	return out
}

// Raw exposes the backing slice directly for the video collaborator's
// framebuffer scanout path (video.init's rdram_ptr/rdram_size handshake).
func (r *RDRAM) Raw() []byte { return r.data[:] }
