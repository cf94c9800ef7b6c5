package comet

import "testing"

func TestCPUResetColdBootState(t *testing.T) {
	cpu := &CPU{}
	cpu.PC = 5
	cpu.FR = FlagMinus
	cpu.GR[0] = 9
	cpu.AddBreakpoint(0x10)

	cpu.Reset()

	assert(t, cpu.PC == 0, "PC after Reset = %#04x, want 0", uint16(cpu.PC))
	assert(t, cpu.FR == FlagZero, "FR after Reset = %s, want ZERO", cpu.FR)
	for i := 0; i < NumGeneralRegisters; i++ {
		assert(t, cpu.GR[i] == 0, "GR%d after Reset = %d, want 0", i, cpu.GR[i])
	}
	assert(t, cpu.SP() == StackTop, "GR4 after Reset = %#04x, want StackTop", uint16(cpu.SP()))
	assert(t, len(cpu.BP) == 1, "Reset should not touch breakpoints")
}

func TestBreakpointLifecycle(t *testing.T) {
	cpu := &CPU{}
	cpu.AddBreakpoint(0x10)
	cpu.AddBreakpoint(0x20)
	cpu.AddBreakpoint(0x10) // duplicates are allowed

	assert(t, cpu.IndexOfBreakpoint(0x10) == 1, "first match for 0x10 should be index 1")
	assert(t, cpu.IndexOfBreakpoint(0x30) == 0, "unset address should report index 0")

	assert(t, cpu.DeleteBreakpoint(1), "DeleteBreakpoint(1) should succeed")
	assert(t, cpu.IndexOfBreakpoint(0x10) == 2, "after deleting index 1, remaining 0x10 should now be index 2")

	assert(t, !cpu.DeleteBreakpoint(99), "DeleteBreakpoint(99) should report out of range")

	cpu.ClearBreakpoints()
	assert(t, len(cpu.BP) == 0, "ClearBreakpoints should empty BP")
}

func TestMemoryZeroDefaultAndReset(t *testing.T) {
	mem := &Memory{}
	assert(t, mem.Read(0x1234) == 0, "unwritten address should read as 0")

	mem.Write(0x1234, 0xBEEF)
	assert(t, mem.Read(0x1234) == 0xBEEF, "write/read round trip failed")

	mem.Reset()
	assert(t, mem.Read(0x1234) == 0, "Reset should zero every cell")
}
