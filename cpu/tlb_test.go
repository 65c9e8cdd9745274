package cpu

import "testing"

func TestTranslateKSEG0Fast(t *testing.T) {
	tlb := NewTLB()
	phys, cached, fault := tlb.Translate(0x80100000, AccessRead)
	if fault != NoFault {
		t.Fatalf("KSEG0 translate faulted: %v", fault)
	}
	if phys != 0x00100000 {
		t.Fatalf("phys = 0x%X, want 0x00100000", phys)
	}
	if !cached {
		t.Fatalf("KSEG0 must be cached")
	}
}

func TestTranslateKSEG1Uncached(t *testing.T) {
	tlb := NewTLB()
	phys, cached, fault := tlb.Translate(0xA0100000, AccessRead)
	if fault != NoFault {
		t.Fatalf("KSEG1 translate faulted: %v", fault)
	}
	if phys != 0x00100000 {
		t.Fatalf("phys = 0x%X, want 0x00100000", phys)
	}
	if cached {
		t.Fatalf("KSEG1 must be uncached")
	}
}

// TLB round-trip scenario from spec.md §8 scenario 1: EntryHi=0x00002000,
// EntryLo0={PFN=0x100,V=1,D=1,C=3}, PageMask=0.
func TestTLBRoundTrip(t *testing.T) {
	tlb := NewTLB()
	tlb.WriteEntry(0, TLBEntry{
		Mask: 0,
		VPN2: 0x00002000,
		PFNEven: 0x100, VEven: true, DEven: true, CEven: 3,
	})

	phys, cached, fault := tlb.Translate(0x00002000, AccessRead)
	if fault != NoFault {
		t.Fatalf("mapped read faulted: %v", fault)
	}
	if phys != 0x00100000 {
		t.Fatalf("phys = 0x%X, want 0x00100000", phys)
	}
	if !cached {
		t.Fatalf("C=3 (cacheable) must translate to cached=true")
	}
}

func TestTLBUnmappedPageMisses(t *testing.T) {
	tlb := NewTLB()
	_, _, fault := tlb.Translate(0x12345000, AccessRead)
	if fault != FaultTLBRefill {
		t.Fatalf("fault = %v, want FaultTLBRefill", fault)
	}
}

// "if d_flag=0, translate(v, Write) raises TLBMod rather than TLBStore."
func TestTLBWriteToCleanPageIsClassifiedAsMod(t *testing.T) {
	tlb := NewTLB()
	tlb.WriteEntry(0, TLBEntry{
		Mask: 0,
		VPN2: 0x00003000,
		PFNEven: 0x200, VEven: true, DEven: false, CEven: 2, // clean, uncached
	})

	if _, _, fault := tlb.Translate(0x00003000, AccessRead); fault != NoFault {
		t.Fatalf("read of a valid-but-clean page should not fault")
	}

	_, _, fault := tlb.Translate(0x00003000, AccessWrite)
	if fault != FaultTLBRefill {
		t.Fatalf("write-LUT miss classification precondition not met: %v", fault)
	}
	if got := tlb.ClassifyWriteFault(0x00003000); got != FaultTLBMod {
		t.Fatalf("ClassifyWriteFault = %v, want FaultTLBMod", got)
	}
}

func TestTLBWriteToUnmappedPageIsClassifiedAsInvalid(t *testing.T) {
	tlb := NewTLB()
	if got := tlb.ClassifyWriteFault(0x77770000); got != FaultTLBInvalid {
		t.Fatalf("ClassifyWriteFault = %v, want FaultTLBInvalid", got)
	}
}

// A write that disturbs a previously mapped entry must unmap the old
// virtual range before installing the new one.
func TestTLBWriteEntryUnmapsPreviousOccupant(t *testing.T) {
	tlb := NewTLB()
	tlb.WriteEntry(0, TLBEntry{
		Mask: 0, VPN2: 0x00004000,
		PFNEven: 0x300, VEven: true, DEven: true, CEven: 3,
	})
	if _, _, fault := tlb.Translate(0x00004000, AccessRead); fault != NoFault {
		t.Fatalf("initial mapping should translate cleanly")
	}

	tlb.WriteEntry(0, TLBEntry{
		Mask: 0, VPN2: 0x00005000,
		PFNEven: 0x400, VEven: true, DEven: true, CEven: 3,
	})

	if _, _, fault := tlb.Translate(0x00004000, AccessRead); fault != FaultTLBRefill {
		t.Fatalf("old mapping should have been unmapped, fault = %v", fault)
	}
	phys, _, fault := tlb.Translate(0x00005000, AccessRead)
	if fault != NoFault || phys != 0x00400000 {
		t.Fatalf("new mapping: phys=0x%X fault=%v, want 0x00400000/NoFault", phys, fault)
	}
}

func TestTLBProbeMatchesByVPN2AndASID(t *testing.T) {
	tlb := NewTLB()
	tlb.WriteEntry(5, TLBEntry{Mask: 0, VPN2: 0x00006000, ASID: 7})
	if idx := tlb.Probe(0x00006000, 7); idx != 5 {
		t.Fatalf("Probe matching ASID = %d, want 5", idx)
	}
	if idx := tlb.Probe(0x00006000, 9); idx != -1 {
		t.Fatalf("Probe with mismatched ASID and G=false = %d, want -1", idx)
	}
}
