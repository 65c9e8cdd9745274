package core

import (
	"fmt"
	"strconv"
	"strings"
)

// CodeType is the GameShark-style cheat code's leading byte, taken from
// original_source's cheats.rs ((first_part >> 24) as u8). Only the two
// unconditional writers are applied every frame; conditional/incrementing
// code types parse but never match, matching spec.md's "apply a static
// patch list, no scripting engine" scope for this supplemented feature.
type CodeType byte

const (
	CodeWriteByte CodeType = 0x80
	CodeWriteHalf CodeType = 0x81
)

// Code is one decoded two-word cheat entry: "AATTTTTT DDDD" where AA is the
// code type, TTTTTT the 24-bit RDRAM-relative address and DDDD the patch
// value, per original_source's DecodedCheat.
type Code struct {
	Type    CodeType
	Address uint32
	Data    uint16
}

// ParseCode decodes one "XXXXXXXX YYYY" GameShark-style line.
func ParseCode(line string) (Code, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Code{}, fmt.Errorf("cheat code %q: want two hex fields", line)
	}
	word, err := strconv.ParseUint(fields[0], 16, 32)
	if err != nil {
		return Code{}, fmt.Errorf("cheat code %q: %w", line, err)
	}
	data, err := strconv.ParseUint(fields[1], 16, 16)
	if err != nil {
		return Code{}, fmt.Errorf("cheat code %q: %w", line, err)
	}
	return Code{
		Type:    CodeType(word >> 24),
		Address: uint32(word) & 0x00FFFFFF,
		Data:    uint16(data),
	}, nil
}

// Memory is the narrow RDRAM write surface cheats patch against; satisfied
// by *mem.RDRAM without this package importing mem.
type Memory interface {
	WriteByte(addr uint32, v byte)
	WriteHalf(addr uint32, v uint16)
}

// CheatList holds the active patch set for the running title and re-applies
// it once per VI frame, the same cadence original_source's ui layer drives
// cheats.rs's decoded list at.
type CheatList struct {
	codes []Code
}

func NewCheatList() *CheatList { return &CheatList{} }

func (c *CheatList) Add(code Code) { c.codes = append(c.codes, code) }

// Apply writes every enabled code's patch value, skipping code types this
// implementation doesn't model (conditional/incrementing variants).
func (c *CheatList) Apply(mem Memory) {
	for _, code := range c.codes {
		switch code.Type {
		case CodeWriteByte:
			mem.WriteByte(code.Address, byte(code.Data))
		case CodeWriteHalf:
			mem.WriteHalf(code.Address, code.Data)
		}
	}
}
