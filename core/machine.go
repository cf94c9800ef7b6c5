package comet

import (
	"bufio"
	"io"
)

// Machine bundles the memory, register file and console streams that a
// running COMET program needs. It is the unit the loader fills, the
// executor steps, and the debugger inspects — analogous to the teacher's
// VM struct, split here along the spec's component boundaries (Memory,
// CPU) instead of one flat struct.
type Machine struct {
	Mem *Memory
	CPU CPU

	in  *bufio.Reader
	out *bufio.Writer
}

// NewMachine creates a cold-booted machine reading IN from in and
// writing OUT to out.
func NewMachine(in io.Reader, out io.Writer) *Machine {
	m := &Machine{
		Mem: &Memory{},
		in:  bufio.NewReader(in),
		out: bufio.NewWriter(out),
	}
	m.CPU.Reset()
	return m
}

// Flush drains any buffered OUT output. OUT already flushes itself after
// every write; callers that tear down a Machine call this once more as a
// final safety net.
func (m *Machine) Flush() {
	m.out.Flush()
}
