// dcache.go implements the 8KiB write-back, write-allocate data cache,
// including the CACHE instruction's line state transitions.
package cache

import "github.com/reality64/n64core/mem"

const (
	dLines     = 512
	dLineBytes = 16
	dLineWords = dLineBytes / 4
	dIndexMask = dLines - 1
)

// DCacheLine is one write-back line: valid, dirty, tag and four words. The
// index is the line's position in the cache, not a stored field.
type DCacheLine struct {
	Valid bool
	Dirty bool
	Tag   uint32
	Words [dLineWords]uint32
}

// DCache is the write-back, write-allocate data cache.
type DCache struct {
	lines [dLines]DCacheLine
}

func NewDCache() *DCache { return &DCache{} }

func lineOf(phys uint32) (index, tag uint32) {
	index = (phys >> 4) & dIndexMask
	tag = phys &^ uint32(dLineBytes-1|((dLines-1)<<4))
	return
}

// Lookup returns the line covering phys and whether it is a hit.
func (c *DCache) Lookup(phys uint32) (*DCacheLine, bool) {
	index, tag := lineOf(phys)
	line := &c.lines[index]
	return line, line.Valid && line.Tag == tag
}

// Fill installs freshly-read words into the line covering phys, clearing
// dirty (the caller is responsible for writing back a dirty victim first —
// see Evict).
func (c *DCache) Fill(phys uint32, words [dLineWords]uint32) *DCacheLine {
	index, tag := lineOf(phys)
	line := &c.lines[index]
	line.Valid = true
	line.Dirty = false
	line.Tag = tag
	line.Words = words
	return line
}

// MarkDirty flags the line covering phys as written (write-back semantics:
// the value only reaches RDRAM on eviction or an explicit writeback CACHE
// op).
func (c *DCache) MarkDirty(phys uint32) {
	index, _ := lineOf(phys)
	c.lines[index].Dirty = true
}

// Evict returns the current occupant of the line that phys will map to
// (before any Fill), so the caller can flush it to RDRAM first if dirty.
func (c *DCache) Evict(phys uint32) (victim DCacheLine, wasDirty bool) {
	index, _ := lineOf(phys)
	v := c.lines[index]
	return v, v.Valid && v.Dirty
}

// WriteWord updates one word of the line covering phys in place (the hit
// path of a CPU store) and marks the line dirty.
func (c *DCache) WriteWord(phys uint32, value uint32) {
	index, _ := lineOf(phys)
	line := &c.lines[index]
	line.Words[(phys>>2)&(dLineWords-1)] = value
	line.Dirty = true
}

// Invalidate clears the line covering phys without writing it back — used
// by CACHE hit-invalidate (dirty data is discarded, per the MIPS
// architecture manual).
func (c *DCache) Invalidate(phys uint32) {
	index, _ := lineOf(phys)
	c.lines[index] = DCacheLine{}
}

// InvalidateIndex clears the line at a raw cache index (CACHE
// index-invalidate/index-store-tag variants).
func (c *DCache) InvalidateIndex(index uint32) {
	c.lines[index&dIndexMask] = DCacheLine{}
}

// CreateDirtyExclusive implements the "D-cache create dirty exclusive" CACHE
// op: allocate the line without reading its old contents from RDRAM at all
// (the instruction is used when software is about to overwrite the entire
// line, e.g. zeroing a buffer) and mark it dirty immediately.
func (c *DCache) CreateDirtyExclusive(phys uint32) *DCacheLine {
	index, tag := lineOf(phys)
	line := &c.lines[index]
	line.Valid = true
	line.Dirty = true
	line.Tag = tag
	return line
}

// WriteBack flushes a dirty line's four words to RDRAM at the line's
// current tag-derived base address, used by CACHE hit-writeback(-invalidate).
func (c *DCache) WriteBack(bus mem.Bus, index uint32) (wrote bool) {
	line := &c.lines[index&dIndexMask]
	if !line.Valid || !line.Dirty {
		return false
	}
	base := line.Tag | (index&dIndexMask)<<4
	for i, w := range line.Words {
		bus.Write32(base+uint32(i*4), w)
	}
	line.Dirty = false
	return true
}

// FillFromBusD performs the four sequential word reads a D-cache miss
// requires.
func FillFromBusD(bus mem.Bus, lineBase uint32) [dLineWords]uint32 {
	var words [dLineWords]uint32
	for i := 0; i < dLineWords; i++ {
		words[i] = bus.Read32(lineBase + uint32(i*4))
	}
	return words
}
