package comet

// Run steps the machine until it stops for one of three reasons: an
// illegal instruction, the EXIT syscall, or the post-step PC landing on
// a breakpoint address (spec.md §4.E "Post-step breakpoint check" — the
// executor, not the debugger, owns this check). Run never mutates BP; it
// only compares the PC left behind by each Step against it.
func (m *Machine) Run() error {
	for {
		if err := m.Step(); err != nil {
			return err
		}
		if idx := m.CPU.IndexOfBreakpoint(m.CPU.PC); idx != 0 {
			return &BreakpointHit{PC: m.CPU.PC, Index: idx}
		}
	}
}
