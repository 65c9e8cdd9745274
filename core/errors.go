// errors.go implements the three-kind error model: fatal aborts for
// guest-unimplemented behaviour, and a wrapped error type for host/
// collaborator failures that callers may choose to recover from.
package core

import (
	"fmt"
	"os"

	"github.com/reality64/n64core/logx"
)

// Abort terminates the process for a "guest-unimplemented" error: an unknown
// value written to a peripheral command register. These are fatal —
// recovering would silently produce wrong behaviour downstream — mirroring
// the conventional main.go idiom of printing a diagnostic and calling
// os.Exit(1) on unrecoverable setup failures.
func Abort(register string, value uint32, guestPC uint64) {
	logx.Printf(logx.Fatal, "unimplemented write to %s = 0x%08X at PC=0x%016X", register, value, guestPC)
	os.Exit(1)
}

// CollaboratorError wraps a host/collaborator failure (ROM unreadable, audio
// device open failed, save write failed) so callers can decide whether to
// continue or abort: these errors bubble up through the collaborator
// interface and the core never partially applies a failed operation.
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
