package debugger

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"comet/core"
)

// Debugger is the REPL session: one machine, one input/output pair, and
// the last command line (so empty input repeats it).
type Debugger struct {
	Machine *comet.Machine

	in      *bufio.Reader
	out     io.Writer
	lastCmd string
}

// New creates a debugger session over machine, reading commands from in
// and writing prompts/output to out.
func New(machine *comet.Machine, in io.Reader, out io.Writer) *Debugger {
	return &Debugger{
		Machine: machine,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run reads and dispatches commands until "quit" or the input stream
// closes.
func (d *Debugger) Run() {
	for {
		fmt.Fprint(d.out, "comet> ")
		line, err := d.in.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			line = d.lastCmd
		}
		if line == "" {
			continue
		}
		d.lastCmd = line

		fields := strings.Fields(line)
		name, args := fields[0], fields[1:]

		cmd, ok := d.resolve(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown command: %s\n", name)
			continue
		}
		if cmd.Long == "quit" {
			return
		}

		if err := cmd.Run(d, args); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
		}
		if cmd.List {
			d.cmdPrint(nil)
		}
	}
}

// parseNumber accepts decimal (with optional leading sign) or
// "#"-prefixed hexadecimal, masking the result to 16 bits per spec.md
// §4.H.
func parseNumber(s string) (comet.Word, error) {
	if strings.HasPrefix(s, "#") {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return 0, comet.ErrInvalidArgument
		}
		return comet.Word(v), nil
	}

	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, comet.ErrInvalidArgument
	}
	return comet.Word(uint32(int32(v))), nil
}

func (d *Debugger) cmdRun(_ []string) error {
	err := d.Machine.Run()
	var hit *comet.BreakpointHit
	if errors.As(err, &hit) {
		fmt.Fprintf(d.out, "Breakpoint %d\n", hit.Index)
		return nil
	}
	return reportStop(d, err)
}

func (d *Debugger) cmdStep(args []string) error {
	n := 1
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v < 1 {
			return comet.ErrInvalidArgument
		}
		n = v
	}
	for i := 0; i < n; i++ {
		if err := d.Machine.Step(); err != nil {
			return reportStop(d, err)
		}
	}
	return nil
}

// reportStop turns a Step error into REPL output. ErrExit ends the
// running program without being a fault; an illegal instruction is
// reported with the PC it occurred at.
func reportStop(d *Debugger, err error) error {
	if err == comet.ErrExit {
		fmt.Fprintln(d.out, "program exited")
		return nil
	}
	fmt.Fprintf(os.Stderr, "%s\n", err)
	return nil
}

func (d *Debugger) cmdBreak(args []string) error {
	if len(args) < 1 {
		return comet.ErrInvalidArgument
	}
	addr, err := parseNumber(args[0])
	if err != nil {
		return err
	}
	d.Machine.CPU.AddBreakpoint(addr)
	return nil
}

func (d *Debugger) cmdDel(args []string) error {
	if len(args) >= 1 {
		i, err := strconv.Atoi(args[0])
		if err != nil {
			return comet.ErrInvalidArgument
		}
		if !d.Machine.CPU.DeleteBreakpoint(i) {
			return comet.ErrInvalidArgument
		}
		return nil
	}

	fmt.Fprint(d.out, "Delete all breakpoints? (y or n) ")
	line, _ := d.in.ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "y" || line == "Y" {
		d.Machine.CPU.ClearBreakpoints()
	}
	return nil
}

func (d *Debugger) cmdInfo(_ []string) error {
	if len(d.Machine.CPU.BP) == 0 {
		fmt.Fprintln(d.out, "no breakpoints set")
		return nil
	}
	for i, addr := range d.Machine.CPU.BP {
		fmt.Fprintf(d.out, "%d: #%04X\n", i+1, uint16(addr))
	}
	return nil
}

func (d *Debugger) cmdPrint(_ []string) error {
	cpu := &d.Machine.CPU
	dec := comet.Decode(d.Machine.Mem, cpu.PC)
	fmt.Fprintf(d.out, "PC   #%04X: %s\n", uint16(cpu.PC), dec.String())
	for i := 0; i <= 4; i++ {
		v := cpu.GR[i]
		fmt.Fprintf(d.out, "GR%d  #%04X %6d\n", i, uint16(v), int16(v))
	}
	fmt.Fprintf(d.out, "FR   %s\n", cpu.FR)
	return nil
}

func (d *Debugger) cmdDump(args []string) error {
	addr := d.Machine.CPU.PC
	if len(args) > 0 {
		v, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		addr = v
	}

	for row := 0; row < 16; row++ {
		rowAddr := addr + Word16(row*8)
		fmt.Fprintf(d.out, "#%04X:", uint16(rowAddr))
		var gutter strings.Builder
		for col := 0; col < 8; col++ {
			w := d.Machine.Mem.Read(rowAddr + Word16(col))
			fmt.Fprintf(d.out, " %04X", uint16(w))
			gutter.WriteByte(printableByte(byte(w >> 8)))
			gutter.WriteByte(printableByte(byte(w)))
		}
		fmt.Fprintf(d.out, "  %s\n", gutter.String())
	}
	return nil
}

func (d *Debugger) cmdStack(_ []string) error {
	return d.cmdDump([]string{"#" + strconv.FormatUint(uint64(uint16(d.Machine.CPU.SP())), 16)})
}

func (d *Debugger) cmdFile(args []string) error {
	if len(args) < 1 {
		return comet.ErrInvalidArgument
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	return d.Machine.Load(f)
}

func (d *Debugger) cmdJump(args []string) error {
	if len(args) < 1 {
		return comet.ErrInvalidArgument
	}
	addr, err := parseNumber(args[0])
	if err != nil {
		return err
	}
	d.Machine.CPU.PC = addr
	return nil
}

func (d *Debugger) cmdMemory(args []string) error {
	if len(args) < 2 {
		return comet.ErrInvalidArgument
	}
	addr, err := parseNumber(args[0])
	if err != nil {
		return err
	}
	val, err := parseNumber(args[1])
	if err != nil {
		return err
	}
	d.Machine.Mem.Write(addr, val)
	return nil
}

func (d *Debugger) cmdDisasm(args []string) error {
	addr := d.Machine.CPU.PC
	if len(args) > 0 {
		v, err := parseNumber(args[0])
		if err != nil {
			return err
		}
		addr = v
	}

	for i := 0; i < 16; i++ {
		dec := comet.Decode(d.Machine.Mem, addr)
		fmt.Fprintf(d.out, "#%04X: %s\n", uint16(addr), dec.String())
		addr += Word16(dec.Size)
	}
	return nil
}

func (d *Debugger) cmdHelp(_ []string) error {
	fmt.Fprintln(d.out, "commands (short/long):")
	for _, c := range d.commandTable() {
		fmt.Fprintf(d.out, "  %s / %s\n", c.Short, c.Long)
	}
	return nil
}

// Word16 converts a plain int to comet.Word, used for small REPL-local
// arithmetic (row/column offsets) that should wrap like any other
// address computation.
func Word16(v int) comet.Word {
	return comet.Word(uint16(v))
}

func printableByte(b byte) byte {
	if b >= 0x20 && b <= 0x7F {
		return b
	}
	return '.'
}
