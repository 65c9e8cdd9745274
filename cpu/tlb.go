// tlb.go implements address translation: the KSEG0/1 direct-mapped fast
// path and the 32-entry fully-associative TLB backed by two 1Mi-entry
// forward lookup tables (read/write)
//
// Grounded on cpu_m68k.go's GetEffectiveAddress family (a pure function that
// maps a logical address through a small fixed set of cases before falling
// back to a table) and on cache/icache.go's lazy-fill-then-index idiom,
// generalised here to a forward LUT instead of a direct-mapped cache line.
package cpu

const (
	kuseg = 0x00000000
	kseg0 = 0x80000000
	kseg1 = 0xA0000000
	kseg2 = 0xC0000000

	pageShift = 12
	lutSize   = 1 << 20 // VPN range for a 32-bit virtual address space
)

// Access distinguishes the kind of translation being requested, since a
// read and a write to the same page can fault differently (TLBMod).
type Access int

const (
	AccessRead Access = iota
	AccessWrite
	AccessExec
)

// FaultCode mirrors the COP0 ExcCode values relevant to translation.
type FaultCode int

const (
	NoFault FaultCode = iota
	FaultTLBRefill
	FaultTLBInvalid
	FaultTLBMod
)

// lutEntry packs a forward-mapped physical page with its cached-bit flag.
type lutEntry struct {
	present bool
	cached  bool
	phys    uint32 // page-aligned (low 12 bits zero)
}

// TLBEntry is one of the 32 fully-associative entries, carrying both the
// even/odd page halves and the precomputed (start,end,phys) ranges the design
// calls for so a write can unmap its old range before installing the new
// one.
type TLBEntry struct {
	Mask uint32 // page mask as held in PageMask; 0 selects 4KiB pages
	VPN2 uint32
	ASID uint8
	G    bool

	PFNEven uint32
	VEven   bool
	DEven   bool
	CEven   uint8

	PFNOdd uint32
	VOdd   bool
	DOdd   bool
	COdd   uint8

	startEven, endEven, physEven uint32
	startOdd, endOdd, physOdd    uint32
}

// TLB owns the 32 entries and the two forward LUTs (read, write).
type TLB struct {
	Entries [32]TLBEntry

	readLUT  [lutSize]lutEntry
	writeLUT [lutSize]lutEntry
}

// NewTLB returns an empty TLB with both forward LUTs cleared.
func NewTLB() *TLB {
	return &TLB{}
}

// unmapRange clears LUT entries across [start,end] inclusive, page by page.
func (t *TLB) unmapRange(lut *[lutSize]lutEntry, start, end uint32) {
	for vpn := start >> pageShift; vpn <= end>>pageShift && int(vpn) < lutSize; vpn++ {
		lut[vpn] = lutEntry{}
	}
}

func (t *TLB) mapRange(lut *[lutSize]lutEntry, start, end uint32, cached bool, phys uint32) {
	pageSize := uint32(1) << pageShift
	for vpn := start >> pageShift; vpn <= end>>pageShift && int(vpn) < lutSize; vpn++ {
		lut[vpn] = lutEntry{present: true, cached: cached, phys: phys}
		phys += pageSize
	}
}

// WriteEntry installs e at index, first unmapping whatever virtual range the
// previous occupant of that index covered: a write that disturbs a
// previously mapped entry must unmap the old virtual range before installing
// the new one.
func (t *TLB) WriteEntry(index int, e TLBEntry) {
	old := t.Entries[index]
	if old.VEven {
		t.unmapRange(&t.readLUT, old.startEven, old.endEven)
		t.unmapRange(&t.writeLUT, old.startEven, old.endEven)
	}
	if old.VOdd {
		t.unmapRange(&t.readLUT, old.startOdd, old.endOdd)
		t.unmapRange(&t.writeLUT, old.startOdd, old.endOdd)
	}

	pageSize := (e.Mask | 0xFFF) + 1
	vpnBase := e.VPN2 &^ (e.Mask | 0xFFF)
	e.startEven = vpnBase
	e.endEven = vpnBase + pageSize - 1
	e.startOdd = vpnBase + pageSize
	e.endOdd = vpnBase + 2*pageSize - 1
	e.physEven = e.PFNEven << pageShift
	e.physOdd = e.PFNOdd << pageShift

	t.Entries[index] = e

	if e.VEven {
		t.mapRange(&t.readLUT, e.startEven, e.endEven, e.CEven != 2, e.physEven)
		if e.DEven {
			t.mapRange(&t.writeLUT, e.startEven, e.endEven, e.CEven != 2, e.physEven)
		}
	}
	if e.VOdd {
		t.mapRange(&t.readLUT, e.startOdd, e.endOdd, e.COdd != 2, e.physOdd)
		if e.DOdd {
			t.mapRange(&t.writeLUT, e.startOdd, e.endOdd, e.COdd != 2, e.physOdd)
		}
	}
}

// Probe performs the architectural associative scan (TLBP instruction): it
// returns the index of the entry whose VPN2/ASID (or global bit) matches, or
// -1.
func (t *TLB) Probe(vpn2 uint32, asid uint8) int {
	for i, e := range t.Entries {
		mask := e.Mask | 0xFFF
		if (e.VPN2&^mask) == (vpn2&^mask) && (e.G || e.ASID == asid) {
			return i
		}
	}
	return -1
}

// Translate maps a virtual address to a physical one: the KSEG0/1 fast path is
// taken first; everything else goes through the TLB forward LUT indexed by
// virtual_addr>>12.
func (t *TLB) Translate(vaddr uint32, access Access) (phys uint32, cached bool, fault FaultCode) {
	if vaddr&0xC0000000 == 0x80000000 {
		return vaddr & 0x1FFFFFFF, vaddr&0x20000000 == 0, NoFault
	}

	lut := &t.readLUT
	if access == AccessWrite {
		lut = &t.writeLUT
	}
	vpn := vaddr >> pageShift
	if int(vpn) >= lutSize {
		return 0, false, FaultTLBRefill
	}
	e := lut[vpn]
	if !e.present {
		return 0, false, FaultTLBRefill
	}

	// A present LUT entry was only populated when its page was valid (and,
	// for the write LUT, dirty); a present-but-stale write-without-dirty
	// case is therefore represented by the entry being absent from the
	// write LUT even though it is present in the read LUT — the caller
	// distinguishes TLBMod from TLBInvalid by re-checking the read LUT.
	return e.phys | (vaddr & 0xFFF), e.cached, NoFault
}

// ClassifyWriteFault distinguishes TLBMod (page mapped and valid, but not
// dirty) from TLBInvalid (page not valid at all) for a failed write
// translation.
func (t *TLB) ClassifyWriteFault(vaddr uint32) FaultCode {
	vpn := vaddr >> pageShift
	if int(vpn) >= lutSize {
		return FaultTLBRefill
	}
	if t.readLUT[vpn].present {
		return FaultTLBMod
	}
	return FaultTLBInvalid
}
