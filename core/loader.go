package comet

import (
	"encoding/binary"
	"io"
)

// objectHeaderSize is the 16-byte header every object file carries:
// bytes 0..3 are the ASCII tag "CASL", bytes 4..15 are reserved.
const objectHeaderSize = 16

var objectMagic = [4]byte{'C', 'A', 'S', 'L'}

// Load reads a CASL object image from r and replaces the machine's
// memory and registers with it. The payload is read into a scratch
// buffer first and only swapped in on success, so a failed load (bad
// magic, or a payload that would overrun STACK_TOP) never leaves memory
// in a partially-written state — spec.md §7 calls this out explicitly.
//
// On success: memory holds the payload at address 0 upward (everything
// else zero), PC is 0, GR0..GR3 and GR4 are at their cold-boot values,
// and BP is cleared.
func (m *Machine) Load(r io.Reader) error {
	header := make([]byte, objectHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return ErrBadMagic
	}
	if [4]byte(header[:4]) != objectMagic {
		return ErrBadMagic
	}

	var scratch [MemorySize]Word
	addr := 0
	buf := make([]byte, 2)
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return ErrBadMagic
		}
		if addr >= int(StackTop) {
			return ErrOutOfMemory
		}
		scratch[addr] = Word(binary.BigEndian.Uint16(buf))
		addr++
	}

	m.Mem.words = scratch
	m.CPU.Reset()
	m.CPU.ClearBreakpoints()
	return nil
}
