package comet

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned by Load when the first four bytes of an
	// object file are not the ASCII tag "CASL".
	ErrBadMagic = errors.New("bad magic: not a CASL object file")
	// ErrOutOfMemory is returned by Load when the payload would write
	// past STACK_TOP.
	ErrOutOfMemory = errors.New("object file exceeds available memory")
	// ErrInvalidArgument is returned by debugger commands that received
	// an argument they could not parse or that was out of range.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrExit is returned by Step/Run when the program executed the EXIT
	// syscall. The REPL treats it as a controlled stop, not a fault.
	ErrExit = errors.New("program exited")
)

// IllegalInstructionError reports an opcode with no entry in the opcode
// table, fetched at a PC that is not one of the syscall magic addresses.
// Memory and registers are left exactly as they were before the faulting
// step, since the executor only commits state after a successful decode.
type IllegalInstructionError struct {
	PC Word
}

func (e *IllegalInstructionError) Error() string {
	return fmt.Sprintf("illegal instruction at #%04X", uint16(e.PC))
}

// BreakpointHit is returned by Run (never by Step) when the post-step PC
// lands on a breakpoint address. It is not an error condition; Index is
// the breakpoint's stable 1-based position so the REPL can report
// "Breakpoint N" instead of a bare address.
type BreakpointHit struct {
	PC    Word
	Index int
}

func (b *BreakpointHit) Error() string {
	return fmt.Sprintf("breakpoint %d at #%04X", b.Index, uint16(b.PC))
}
