// Package logx is the core's minimal logging helper.
//
// Diagnostics go straight through fmt.Fprintf to stdout/stderr with a level
// prefix, matching the plain-fmt logging idiom used throughout this
// codebase's main.go, coprocessor_manager.go, and debug console rather than
// bolting on a structured logging library.
package logx

import (
	"fmt"
	"os"
)

// Level distinguishes informational console output from conditions serious
// enough to abort the emulation (see core.Abort for kind-2 guest errors).
type Level int

const (
	Info Level = iota
	Warn
	Fatal
)

func (l Level) prefix() string {
	switch l {
	case Warn:
		return "WARN"
	case Fatal:
		return "FATAL"
	default:
		return "INFO"
	}
}

// Printf writes a single formatted line to stderr with a level prefix.
func Printf(level Level, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "["+level.prefix()+"] "+format+"\n", args...)
}

// Infof logs an informational line.
func Infof(format string, args ...any) { Printf(Info, format, args...) }

// Warnf logs a recoverable warning.
func Warnf(format string, args ...any) { Printf(Warn, format, args...) }
