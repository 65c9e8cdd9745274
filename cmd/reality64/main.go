// Command reality64 is the CLI entry point: a ROM path plus a handful of
// flags, adapted from main.go's positional-argument CLI (mode flag +
// filename) but generalised to the flag package per SPEC_FULL.md's
// ambient-stack configuration convention.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/reality64/n64core/machine"
)

func main() {
	bootROM := flag.String("boot-rom", "", "path to the 2KiB PIF IPL2 boot ROM image")
	saveDir := flag.String("save-dir", ".", "directory to read/write cart save files from")
	fullscreen := flag.Bool("fullscreen", false, "start the video output in fullscreen")
	cicSeed := flag.String("cic-seed", "", "override the CIC seed byte (hex), bypassing digest lookup")
	cheats := flag.String("cheats", "", "comma-separated GameShark-style cheat codes, e.g. \"8011A5D0 0001,...\"")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: reality64 [flags] <rom-path>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *bootROM == "" {
		fmt.Fprintln(os.Stderr, "reality64: -boot-rom is required (no boot ROM is distributed with this repository)")
		os.Exit(1)
	}

	var cheatCodes []string
	if *cheats != "" {
		cheatCodes = strings.Split(*cheats, ",")
	}

	m, err := machine.New(machine.Config{
		ROMPath:     flag.Arg(0),
		BootROMPath: *bootROM,
		SaveDir:     *saveDir,
		Fullscreen:  *fullscreen,
		CICSeedHex:  *cicSeed,
		CheatCodes:  cheatCodes,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "reality64: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runErr := m.Run(ctx)
	if saveErr := m.SaveAll(); saveErr != nil {
		fmt.Fprintf(os.Stderr, "reality64: save on exit failed: %v\n", saveErr)
	}
	if runErr != nil && runErr != context.Canceled {
		fmt.Fprintf(os.Stderr, "reality64: %v\n", runErr)
		os.Exit(1)
	}
}
