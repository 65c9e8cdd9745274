// Package debug implements the ambient developer-facing tooling SPEC_FULL.md
// calls for: an interactive stop/step/inspect monitor and the IS-Viewer
// print-buffer device. Both are adapted from the teacher's own debugger
// shape (debug_monitor.go's command-driven CPU inspector, terminal_host.go's
// raw-stdin reader) rather than invented fresh.
package debug

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/reality64/n64core/cpu"
)

// Target is the minimal CPU surface the console drives, matching the
// register/step/run accessors cpu.CPU already exposes.
type Target interface {
	Running() bool
	SetRunning(bool)
	Step()
	PC() uint64
	SetPC(uint64)
	GPR(i int) uint64
	SetGPR(i int, v uint64)
	InstructionCount() uint64
}

var _ Target = (*cpu.CPU)(nil)

// Console is a line-oriented debugger monitor, grounded on
// debug_monitor.go's command dispatch loop but flattened: no scrollback
// buffer, history ring or hex-edit mode, just the commands a bring-up
// session actually needs (step/continue/break/regs/quit).
type Console struct {
	mu          sync.Mutex
	target      Target
	breakpoints map[uint64]bool
	out         *bufio.Writer
}

func NewConsole(target Target) *Console {
	return &Console{
		target:      target,
		breakpoints: make(map[uint64]bool),
		out:         bufio.NewWriter(os.Stdout),
	}
}

// Run reads commands from r until EOF or a "quit" command. Intended to be
// driven from a raw-mode stdin reader (see RawStdin) or, in tests, any
// io.Reader fixture.
func (c *Console) Run(r *bufio.Scanner) {
	for r.Scan() {
		if !c.dispatch(strings.TrimSpace(r.Text())) {
			return
		}
	}
}

func (c *Console) dispatch(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}
	switch fields[0] {
	case "s", "step":
		n := 1
		if len(fields) > 1 {
			if v, err := strconv.Atoi(fields[1]); err == nil {
				n = v
			}
		}
		for i := 0; i < n; i++ {
			c.target.Step()
		}
		c.printPC()
	case "c", "continue":
		c.target.SetRunning(true)
		for c.target.Running() {
			c.target.Step()
			if c.breakpoints[c.target.PC()] {
				fmt.Fprintf(c.out, "breakpoint hit at %#010x\n", c.target.PC())
				break
			}
		}
		c.out.Flush()
	case "b", "break":
		if len(fields) < 2 {
			break
		}
		addr, err := strconv.ParseUint(strings.TrimPrefix(fields[1], "0x"), 16, 64)
		if err == nil {
			c.breakpoints[addr] = true
		}
	case "regs":
		c.printRegs()
	case "pc":
		c.printPC()
	case "q", "quit":
		return false
	default:
		fmt.Fprintf(c.out, "unknown command %q\n", fields[0])
	}
	c.out.Flush()
	return true
}

func (c *Console) printPC() {
	fmt.Fprintf(c.out, "pc=%#010x instret=%d\n", c.target.PC(), c.target.InstructionCount())
}

func (c *Console) printRegs() {
	for i := 0; i < 32; i += 4 {
		fmt.Fprintf(c.out, "r%-2d=%#016x r%-2d=%#016x r%-2d=%#016x r%-2d=%#016x\n",
			i, c.target.GPR(i), i+1, c.target.GPR(i+1), i+2, c.target.GPR(i+2), i+3, c.target.GPR(i+3))
	}
}

// RawStdin puts the terminal into raw mode for the duration of fn, restoring
// it on return, matching terminal_host.go's MakeRaw/Restore bracketing.
func RawStdin(fn func()) error {
	fd := int(os.Stdin.Fd())
	old, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, old)
	fn()
	return nil
}
