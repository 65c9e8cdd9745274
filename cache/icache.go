// Package cache implements the MIPS instruction and data caches: a
// direct-mapped I-cache with pre-decoded instruction slots and a
// write-back, write-allocate D-cache.
//
// Grounded on the fixed-size indexed-state shape used elsewhere in this
// codebase for page tables and vector tables, applied here to direct-mapped
// cache line arrays.
package cache

import "github.com/reality64/n64core/mem"

const (
	iLines     = 512
	iLineBytes = 32
	iLineWords = iLineBytes / 4
	iIndexMask = iLines - 1
	iOffMask   = iLineBytes - 1
)

// DecodedOp is a pre-decoded instruction handler pointer's "8
// decoded_ops" field. The CPU package supplies the concrete decode function;
// cache only stores and returns what it is given.
type DecodedOp = func()

// ICacheLine is one direct-mapped line: valid flag, tag and the eight raw
// words plus their pre-decoded handlers. The index is the line's position
// in the cache, not a stored field.
type ICacheLine struct {
	Valid bool
	Tag   uint32
	Words [iLineWords]uint32
	Ops   [iLineWords]DecodedOp
}

// ICache is the 16KiB direct-mapped instruction cache (512 lines x 32
// bytes).
type ICache struct {
	lines [iLines]ICacheLine
}

func NewICache() *ICache { return &ICache{} }

// Lookup returns the line covering phys and whether it was already valid
// with a matching tag (a hit). On miss the caller must Fill it.
func (c *ICache) Lookup(phys uint32) (*ICacheLine, bool) {
	index := (phys >> 5) & iIndexMask
	tag := phys &^ uint32(iOffMask|((iLines-1)<<5))
	line := &c.lines[index]
	hit := line.Valid && line.Tag == tag
	return line, hit
}

// Fill installs word contents and their pre-decoded ops into the line
// covering phys: eight word reads, each decoded into a handler pointer.
// Callers charge the ~41-cycle fill latency themselves.
func (c *ICache) Fill(phys uint32, words [iLineWords]uint32, ops [iLineWords]DecodedOp) *ICacheLine {
	index := (phys >> 5) & iIndexMask
	tag := phys &^ uint32(iOffMask|((iLines-1)<<5))
	line := &c.lines[index]
	line.Valid = true
	line.Tag = tag
	line.Words = words
	line.Ops = ops
	return line
}

// Invalidate clears the line covering phys, used by the CACHE instruction's
// index/hit-invalidate variants.
func (c *ICache) Invalidate(phys uint32) {
	index := (phys >> 5) & iIndexMask
	c.lines[index] = ICacheLine{}
}

// InvalidateIndex clears the line at a raw cache index (CACHE
// index-invalidate, which addresses the cache array directly rather than by
// tag match).
func (c *ICache) InvalidateIndex(index uint32) {
	c.lines[index&iIndexMask] = ICacheLine{}
}

// LineBytes/LineWords/Lines expose the cache geometry for diagnostics and
// tests without leaking the line array itself.
func LineBytes() int { return iLineBytes }
func LineWords() int { return iLineWords }
func Lines() int     { return iLines }

// FillFromBusI performs the eight sequential word reads for an I-cache
// miss, returning the raw words for the caller to decode into
// handler pointers (decoding is CPU-opcode-table specific, so it stays out
// of this package).
func FillFromBusI(bus mem.Bus, lineBase uint32) [iLineWords]uint32 {
	var words [iLineWords]uint32
	for i := 0; i < iLineWords; i++ {
		words[i] = bus.Read32(lineBase + uint32(i*4))
	}
	return words
}
