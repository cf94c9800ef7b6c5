package comet

// effectiveAddress applies indexing: eadr = adr, or (adr + GRxr) mod 2^16
// when 1 <= xr <= 4. xr == 0 means "no index".
func effectiveAddress(cpu *CPU, adr, xr Word) Word {
	if xr >= 1 && xr <= 4 {
		return adr + cpu.GR[xr]
	}
	return adr
}

// Step executes exactly one instruction: the syscall trap is checked
// first (spec.md §4.F), then an ordinary fetch-decode-execute. Every
// handler below validates its opcode and operands before writing
// anything to cpu/mem, so a step either completes in full or — on
// ErrExit or an IllegalInstructionError — leaves the machine exactly as
// it was found; there is no partial-effect state to roll back.
//
// Step never consults or mutates the breakpoint set; that is purely a
// debugger-level concern layered on top (see spec.md §4.E "Post-step
// breakpoint check").
func (m *Machine) Step() error {
	cpu := &m.CPU
	pc := cpu.PC

	switch pc {
	case SyscallIn:
		return m.syscallIn()
	case SyscallOut:
		return m.syscallOut()
	case SyscallExit:
		return ErrExit
	}

	word1 := m.Mem.Read(pc)
	opcode := byte(word1 >> 8)
	gr := (word1 >> 4) & 0xF
	xr := word1 & 0xF

	info, ok := opcodeTable[opcode]
	if !ok {
		return &IllegalInstructionError{PC: pc}
	}

	adr := m.Mem.Read(pc + 1)
	eadr := effectiveAddress(cpu, adr, xr)
	size := Word(info.enc.sizeOf())

	switch opcode {
	case opLD:
		cpu.GR[gr] = m.Mem.Read(eadr)
		cpu.PC = pc + size
	case opST:
		m.Mem.Write(eadr, cpu.GR[gr])
		cpu.PC = pc + size
	case opLEA:
		cpu.GR[gr] = eadr
		cpu.FR = flagOf(cpu.GR[gr])
		cpu.PC = pc + size
	case opADD:
		result := cpu.GR[gr] + m.Mem.Read(eadr)
		cpu.GR[gr] = result
		cpu.FR = flagOf(result)
		cpu.PC = pc + size
	case opSUB:
		result := cpu.GR[gr] - m.Mem.Read(eadr)
		cpu.GR[gr] = result
		cpu.FR = flagOf(result)
		cpu.PC = pc + size
	case opAND:
		result := cpu.GR[gr] & m.Mem.Read(eadr)
		cpu.GR[gr] = result
		cpu.FR = flagOf(result)
		cpu.PC = pc + size
	case opOR:
		result := cpu.GR[gr] | m.Mem.Read(eadr)
		cpu.GR[gr] = result
		cpu.FR = flagOf(result)
		cpu.PC = pc + size
	case opEOR:
		result := cpu.GR[gr] ^ m.Mem.Read(eadr)
		cpu.GR[gr] = result
		cpu.FR = flagOf(result)
		cpu.PC = pc + size
	case opCPA:
		diff := int64(signed(cpu.GR[gr])) - int64(signed(m.Mem.Read(eadr)))
		cpu.FR = flagOf(sat16(diff))
		cpu.PC = pc + size
	case opCPL:
		diff := int64(cpu.GR[gr]) - int64(m.Mem.Read(eadr))
		cpu.FR = flagOf(sat16(diff))
		cpu.PC = pc + size
	case opSLA:
		cpu.GR[gr] = shiftArithmeticLeft(cpu.GR[gr], eadr)
		cpu.FR = flagOf(cpu.GR[gr])
		cpu.PC = pc + size
	case opSRA:
		cpu.GR[gr] = shiftArithmeticRight(cpu.GR[gr], eadr)
		cpu.FR = flagOf(cpu.GR[gr])
		cpu.PC = pc + size
	case opSLL:
		cpu.GR[gr] = cpu.GR[gr] << eadr
		cpu.FR = flagOf(cpu.GR[gr])
		cpu.PC = pc + size
	case opSRL:
		cpu.GR[gr] = cpu.GR[gr] >> eadr
		cpu.FR = flagOf(cpu.GR[gr])
		cpu.PC = pc + size
	case opJPZ:
		if cpu.FR != FlagMinus {
			cpu.PC = eadr
		} else {
			cpu.PC = pc + size
		}
	case opJMI:
		if cpu.FR == FlagMinus {
			cpu.PC = eadr
		} else {
			cpu.PC = pc + size
		}
	case opJNZ:
		if cpu.FR != FlagZero {
			cpu.PC = eadr
		} else {
			cpu.PC = pc + size
		}
	case opJZE:
		if cpu.FR == FlagZero {
			cpu.PC = eadr
		} else {
			cpu.PC = pc + size
		}
	case opJMP:
		cpu.PC = eadr
	case opPUSH:
		cpu.SetSP(cpu.SP() - 1)
		m.Mem.Write(cpu.SP(), eadr)
		cpu.PC = pc + size
	case opPOP:
		cpu.GR[gr] = m.Mem.Read(cpu.SP())
		cpu.SetSP(cpu.SP() + 1)
		cpu.PC = pc + size
	case opCALL:
		cpu.SetSP(cpu.SP() - 1)
		m.Mem.Write(cpu.SP(), pc+size)
		cpu.PC = eadr
	case opRET:
		cpu.PC = m.Mem.Read(cpu.SP())
		cpu.SetSP(cpu.SP() + 1)
	}

	return nil
}

// shiftArithmeticLeft shifts left by n, preserving the original sign bit
// of v and ORing it back in after the shift (spec.md §4.E "Shift
// semantics"). The low bits that would otherwise have encoded the sign
// are shifted like ordinary data.
func shiftArithmeticLeft(v, n Word) Word {
	sign := v & 0x8000
	result := (v << n) | sign
	return result
}

// shiftArithmeticRight clears the sign bit, shifts the remaining
// magnitude right by n, then ORs in a sign-extension mask when the
// original sign bit was set.
func shiftArithmeticRight(v, n Word) Word {
	signSet := v&0x8000 != 0
	magnitude := (v &^ 0x8000) >> n
	if signSet {
		mask := (Word(0x7FFF) >> n) ^ 0xFFFF
		magnitude |= mask
	}
	return magnitude
}
