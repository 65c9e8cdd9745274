// Package machine is the composition root: it owns every subsystem package
// instance and wires them together across the physical memory map in
// spec.md §3, the same role machine_bus.go/coprocessor_manager.go played in
// the teacher for its own IE32/M68K machines (construct every chip, map its
// registers, hand the assembled bus to the CPU).
package machine

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"os"

	"github.com/reality64/n64core/cart"
	"github.com/reality64/n64core/collab"
	"github.com/reality64/n64core/core"
	"github.com/reality64/n64core/cpu"
	"github.com/reality64/n64core/mem"
	"github.com/reality64/n64core/pak"
	"github.com/reality64/n64core/pif"
	"github.com/reality64/n64core/rcp"
	"github.com/reality64/n64core/rsp"
)

// Config gathers the host-side choices main.go's flag parsing resolves into
// a single options struct, grounded on gui_frontend.go's GUIConfig idiom.
type Config struct {
	ROMPath      string
	BootROMPath  string // 2 KiB PIF IPL2 image, host-supplied per spec.md §1 scope
	SaveDir      string
	Fullscreen   bool
	CICSeedHex   string // overrides the ROM-digest-derived seed lookup, if set
	CheatCodes   []string
}

// Machine is the fully wired N64-class console: every subsystem from
// spec.md §3/§4 plus the §6 collaborators, constructed once and driven by
// Run.
type Machine struct {
	sched *core.Scheduler
	ram   *mem.RDRAM
	bus   *mem.Dispatcher

	cpu        *cpu.CPU
	sp         *rsp.SP
	supervisor *rsp.Supervisor

	mi  *rcp.MI
	pi  *rcp.PI
	vi  *rcp.VI
	ai  *rcp.AI
	si  *rcp.SI
	ri  *rcp.RI
	rdp *rcp.RDP

	pifDev      *pif.PIF
	controllers []*pif.Controller
	rom         *cart.ROM
	save   cart.SaveDevice
	eeprom *cart.EEPROM
	sc64   *cart.SC64

	audio   collab.Audio
	video   *videoTracker
	input   collab.Input
	storage collab.Storage

	cheats *core.CheatList

	saveKind   cart.SaveKind
	savePath   string
	fullscreen bool
}

// videoTracker wraps a collab.Video so the field-rate callback's
// stillOpen bool (otherwise discarded by rcp.VI.onField) is observable from
// the Run loop.
type videoTracker struct {
	collab.Video
	open bool
}

func (v *videoTracker) UpdateScreen(frame *image.RGBA) bool {
	v.open = v.Video.UpdateScreen(frame)
	return v.open
}

// cheatFieldSink is rcp.VI's VideoSink: it applies the active cheat list
// once per field, the same cadence original_source's ui layer drove
// cheats.rs's decoded list at, before handing the frame on to the real
// video collaborator.
type cheatFieldSink struct {
	video  rcp.VideoSink
	cheats *core.CheatList
	ram    *mem.RDRAM
}

func (s cheatFieldSink) UpdateScreen(frame *image.RGBA) bool {
	s.cheats.Apply(s.ram)
	return s.video.UpdateScreen(frame)
}

// nullRDP is the black-box rasterizer sink: spec.md §1 scopes actual pixel
// rasterization out, so the RDP component only ever needs somewhere to
// deliver its command-list trigger to.
type nullRDP struct{}

func (nullRDP) ProcessCommandList(start, end uint32) {}

// miSPSink adapts *rcp.MI's own interrupt source bit onto rsp.InterruptSink,
// keeping the rsp package free of an rcp import.
type miSPSink struct{ mi *rcp.MI }

func (s miSPSink) RaiseSP() { s.mi.Raise(rcp.IntrSP) }

// New constructs and fully wires a Machine from cfg, loading the cart ROM,
// boot ROM and any prior save data from disk.
func New(cfg Config) (*Machine, error) {
	raw, err := os.ReadFile(cfg.ROMPath)
	if err != nil {
		return nil, &core.CollaboratorError{Op: "load ROM", Err: err}
	}
	bootROM, err := os.ReadFile(cfg.BootROMPath)
	if err != nil {
		return nil, &core.CollaboratorError{Op: "load boot ROM", Err: err}
	}

	m := &Machine{
		sched:   core.NewScheduler(),
		ram:     mem.New(),
		bus:     mem.NewBus(),
		storage:    collab.NewFileStorage(),
		cheats:     core.NewCheatList(),
		savePath:   cfg.SaveDir,
		fullscreen: cfg.Fullscreen,
	}

	normalized := cart.Normalize(raw)
	m.rom = cart.NewROM(normalized)
	m.saveKind = cart.DetectSaveKind(m.rom)

	m.cpu = cpu.New(m.bus, m.sched)
	cop0 := m.cpu.COP0()

	m.mi = rcp.NewMI(cop0)
	now := m.cpu.COP0().WideCount

	m.sp = rsp.New(m.ram, miSPSink{mi: m.mi})
	m.supervisor = rsp.NewSupervisor(m.sp)
	m.cpu.AttachCOP2(m.sp)

	m.video = &videoTracker{Video: collab.NewEbitenVideo(), open: true}
	m.input = collab.NewEbitenInput()
	m.audio = collab.NewOtoAudio()

	m.vi = rcp.NewVI(m.ram, cheatFieldSink{video: m.video, cheats: m.cheats, ram: m.ram}, m.sched, m.mi, now)
	m.ai = rcp.NewAI(m.ram, m.audio, m.sched, m.mi, now)
	m.ri = rcp.NewRI()
	m.rdp = rcp.NewRDP(m.sched, m.mi, nullRDP{}, now)
	m.pi = rcp.NewPI(m.ram, m.rom, m.sched, m.mi, now)

	// The CIC digest is taken over the cart's 4032-byte IPL3 boot block.
	ipl3 := normalized
	if len(ipl3) >= 0x1000 {
		ipl3 = ipl3[0x40:0x1000]
	}
	seed := resolveCICSeed(cfg.CICSeedHex, ipl3)

	devices := [5]pif.ChannelDevice{}
	controllers := make([]*pif.Controller, 4)
	for port := 0; port < 4; port++ {
		controllers[port] = pif.NewController(port, m.input, pak.None{})
		devices[port] = controllers[port]
	}
	m.controllers = controllers
	if m.saveKind == cart.SaveEEPROM4K || m.saveKind == cart.SaveEEPROM16K {
		size := 512
		if m.saveKind == cart.SaveEEPROM16K {
			size = 2048
		}
		initial, _ := m.storage.Load(collab.SaveEEPROM, m.savePathFor(collab.SaveEEPROM))
		m.eeprom = cart.NewEEPROM(size, initial)
		devices[4] = m.eeprom
	}

	m.pifDev = pif.New(bootROM, devices, seed, func() {
		// Boot acknowledged: real hardware's IPL2 stub has already copied
		// itself out of the way by the time this fires, nothing further
		// to do here.
	})

	m.si = rcp.NewSI(m.ram, m.pifDev, m.sched, m.mi, now)

	if m.saveKind == cart.SaveSRAM32K || m.saveKind == cart.SaveFlash128K {
		initial, _ := m.storage.Load(collab.SaveSRAM, m.savePathFor(collab.SaveSRAM))
		m.save = cart.NewSaveDevice(m.saveKind, initial)
	}
	m.sc64 = cart.NewSC64(m.saveKind)

	for _, code := range cfg.CheatCodes {
		parsed, err := core.ParseCode(code)
		if err != nil {
			return nil, fmt.Errorf("cheat list: %w", err)
		}
		m.cheats.Add(parsed)
	}

	m.mapBus()
	return m, nil
}

func resolveCICSeed(override string, bootROM []byte) byte {
	if override != "" {
		var v int
		fmt.Sscanf(override, "%x", &v)
		return byte(v)
	}
	digest := sha256.Sum256(bootROM)
	return pif.SeedFor(hex.EncodeToString(digest[:]))
}

func (m *Machine) savePathFor(kind collab.SaveKind) string {
	return m.savePath + "/" + string(m.rom.ID()[:]) + "." + string(kind)
}

// mapBus plants every physical-memory-map entry from spec.md §3 into the
// dispatch table.
func (m *Machine) mapBus() {
	m.bus.Map(0x00000000, 0x03EFFFFF, mem.RDRAMRegion{RAM: m.ram})
	m.bus.Map(0x04000000, 0x0403FFFF, rsp.NewDMEMRegion(m.sp))
	m.bus.Map(0x04040000, 0x0404FFFF, rsp.NewRegsRegion(m.sp))
	m.bus.Map(0x04080000, 0x0408FFFF, rsp.NewPCRegion(m.sp))
	m.bus.Map(0x04100000, 0x041FFFFF, m.rdp)
	m.bus.Map(0x04300000, 0x043FFFFF, rcp.NewMIRegs(m.mi))
	m.bus.Map(0x04400000, 0x044FFFFF, m.vi)
	m.bus.Map(0x04500000, 0x045FFFFF, m.ai)
	m.bus.Map(0x04600000, 0x046FFFFF, m.pi)
	m.bus.Map(0x04700000, 0x047FFFFF, m.ri)
	m.bus.Map(0x04800000, 0x048FFFFF, m.si)
	if m.save != nil {
		m.bus.Map(0x08000000, 0x0801FFFF, m.save)
	}
	m.bus.Map(0x10000000, 0x1FBFFFFF, rcp.ROMRegion{PI: m.pi})
	m.bus.Map(0x1FC00000, 0x1FC0FFFF, pif.NewRegion(m.pifDev))
}

// Run drives the machine until the video collaborator's window closes.
// Each pass retires one CPU instruction (which internally services the
// scheduler and raises interrupts as their deadlines are hit) and, if the
// RSP has been kicked and is still running a task, lets it run to
// completion before the next CPU instruction — matching spec.md §5's "RSP
// and CPU never interleave" concurrency model.
func (m *Machine) Run(ctx context.Context) error {
	if err := m.audio.Open(44100); err != nil {
		return &core.CollaboratorError{Op: "open audio", Err: err}
	}
	defer m.audio.Close()
	if err := m.video.Init(m.fullscreen); err != nil {
		return &core.CollaboratorError{Op: "open video", Err: err}
	}
	defer m.video.Close()

	m.cpu.SetRunning(true)
	for m.cpu.Running() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		m.cpu.Step()
		if !m.sp.Halted() {
			if _, err := m.supervisor.Kick(ctx); err != nil {
				return &core.CollaboratorError{Op: "RSP task", Err: err}
			}
		}
		if !m.video.open {
			m.cpu.SetRunning(false)
		}
	}
	return nil
}

// SetPak plugs device into the given controller port (0-3), matching the
// joybus pak hot-swap real hardware allows between poll commands.
func (m *Machine) SetPak(port int, device pak.Device) {
	if port < 0 || port >= len(m.controllers) {
		return
	}
	m.controllers[port].SetPak(device)
}

// SavePointSafe reports whether the RDP is between full-sync events, so a
// collaborator can tell whether now is a coherent moment to snapshot state,
// per spec.md §6.
func (m *Machine) SavePointSafe() bool { return m.rdp.SavePointSafe() }

// SaveAll persists every live save backend through the storage collaborator.
func (m *Machine) SaveAll() error {
	if m.save != nil {
		if err := m.storage.Save(collab.SaveSRAM, m.savePathFor(collab.SaveSRAM), m.save.Bytes()); err != nil {
			return err
		}
	}
	if m.eeprom != nil {
		if err := m.storage.Save(collab.SaveEEPROM, m.savePathFor(collab.SaveEEPROM), m.eeprom.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
