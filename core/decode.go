package comet

import "fmt"

// Decoded is the parsed form of a single instruction at some address:
// its mnemonic, formatted operand text, and size in words. Decode never
// mutates memory or CPU state — it is referentially transparent, so
// disassembling the same address twice always yields the same result.
type Decoded struct {
	Mnemonic string
	Operand  string
	Size     int
}

// Decode parses the instruction at pc without side effects. If pc is one
// of the three syscall magic addresses, the mnemonic/operand are
// overridden to IN/OUT/EXIT regardless of what bytes happen to sit
// there, per spec.md §4.D step 4. If the opcode at pc has no table
// entry, Decode falls back to a "DC" (define-constant) rendering of the
// raw word so that disassembling data sections never errors.
func Decode(mem *Memory, pc Word) Decoded {
	word1 := mem.Read(pc)
	opcode := byte(word1 >> 8)
	gr := (word1 >> 4) & 0xF
	xr := word1 & 0xF
	adr := mem.Read(pc + 1)

	info, ok := opcodeTable[opcode]
	if !ok {
		d := Decoded{
			Mnemonic: "DC",
			Operand:  fmt.Sprintf("#%04x", uint16(word1)),
			Size:     1,
		}
		return overrideForSyscall(pc, d)
	}

	var operand string
	switch info.enc {
	case encOp1:
		operand = fmt.Sprintf("GR%d, #%04X", gr, uint16(adr))
		if xr >= 1 && xr <= 4 {
			operand += fmt.Sprintf(", GR%d", xr)
		}
	case encOp2:
		operand = fmt.Sprintf("#%04X", uint16(adr))
		if xr >= 1 && xr <= 4 {
			operand += fmt.Sprintf(", GR%d", xr)
		}
	case encOp3:
		operand = fmt.Sprintf("GR%d", gr)
	case encOp4:
		operand = ""
	}

	d := Decoded{Mnemonic: info.mnemonic, Operand: operand, Size: info.enc.sizeOf()}
	return overrideForSyscall(pc, d)
}

// overrideForSyscall implements spec.md §4.D step 4: the three magic
// addresses always disassemble as IN/OUT/EXIT, overriding whatever the
// opcode table (or the DC fallback) produced.
func overrideForSyscall(pc Word, d Decoded) Decoded {
	switch pc {
	case SyscallIn:
		return Decoded{Mnemonic: "IN", Operand: "", Size: 2}
	case SyscallOut:
		return Decoded{Mnemonic: "OUT", Operand: "", Size: 2}
	case SyscallExit:
		return Decoded{Mnemonic: "EXIT", Operand: "", Size: 2}
	default:
		return d
	}
}

// String renders a Decoded instruction as "MNEM operand", matching the
// teacher's Instruction.String() convention for disassembly listings.
func (d Decoded) String() string {
	if d.Operand == "" {
		return d.Mnemonic
	}
	return d.Mnemonic + " " + d.Operand
}
