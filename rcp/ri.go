package rcp

// RI models the RDRAM interface's configuration register block. Real
// hardware uses it to train RDRAM timing at boot; guest software only reads
// back the values IPL3 wrote, so a plain register file with no scheduled
// behaviour is faithful.
type RI struct {
	mode, config, currentLoad, select_, refresh, latency, rerror uint32
}

func NewRI() *RI { return &RI{} }

const (
	riModeOffset    = 0x00
	riConfigOffset  = 0x04
	riLoadOffset    = 0x08
	riSelectOffset  = 0x0C
	riRefreshOffset = 0x10
	riLatencyOffset = 0x14
	riErrorOffset   = 0x18
)

func (r *RI) Read32(addr uint32) uint32 {
	switch addr & 0x1F {
	case riModeOffset:
		return r.mode
	case riConfigOffset:
		return r.config
	case riSelectOffset:
		return r.select_
	case riRefreshOffset:
		return r.refresh
	case riLatencyOffset:
		return r.latency
	case riErrorOffset:
		return r.rerror
	default:
		return 0
	}
}

func (r *RI) Write32(addr uint32, v uint32) {
	switch addr & 0x1F {
	case riModeOffset:
		r.mode = v
	case riConfigOffset:
		r.config = v
	case riLoadOffset:
		r.currentLoad = v
	case riSelectOffset:
		r.select_ = v
	case riRefreshOffset:
		r.refresh = v
	case riLatencyOffset:
		r.latency = v & 0xFF
	}
}
