package debugger

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"testing"

	"comet/core"
)

func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(fmt.Sprintf("%v %s", cond, format), args...)
	}
}

func newTestDebugger(input string) (*Debugger, *bytes.Buffer) {
	var out bytes.Buffer
	machine := comet.NewMachine(strings.NewReader(""), &bytes.Buffer{})
	return New(machine, strings.NewReader(input), &out), &out
}

// captureStderr runs f with os.Stderr redirected to a pipe and returns
// everything written to it. Diagnostics (unknown commands, command usage
// errors, illegal instructions) go to stderr per spec.md §6, never to the
// REPL's own output stream.
func captureStderr(f func()) string {
	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	saved := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = saved }()

	f()

	w.Close()
	captured, _ := io.ReadAll(r)
	return string(captured)
}

func TestResolveShortAliasWinsOverPrefix(t *testing.T) {
	d, _ := newTestDebugger("")
	cmd, ok := d.resolve("st")
	assert(t, ok, "expected \"st\" to resolve")
	assert(t, cmd.Long == "stack", "\"st\" resolved to %q, want \"stack\"", cmd.Long)
}

func TestResolveUnambiguousPrefix(t *testing.T) {
	d, _ := newTestDebugger("")
	cmd, ok := d.resolve("ju")
	assert(t, ok, "expected \"ju\" to resolve")
	assert(t, cmd.Long == "jump", "\"ju\" resolved to %q, want \"jump\"", cmd.Long)
}

func TestResolveAmbiguousPrefixFails(t *testing.T) {
	d, _ := newTestDebugger("")
	_, ok := d.resolve("d")
	assert(t, !ok, "\"d\" is a prefix of both \"del\" and \"disasm\" and should not resolve")
}

func TestResolveUnknownCommand(t *testing.T) {
	d, _ := newTestDebugger("")
	_, ok := d.resolve("zzz")
	assert(t, !ok, "unknown command should not resolve")
}

func TestParseNumberDecimalAndHex(t *testing.T) {
	v, err := parseNumber("42")
	assert(t, err == nil && v == 42, "parseNumber(\"42\") = %v, %v", v, err)

	v, err = parseNumber("-1")
	assert(t, err == nil && v == 0xFFFF, "parseNumber(\"-1\") = %#04x, %v", uint16(v), err)

	v, err = parseNumber("#ff00")
	assert(t, err == nil && v == 0xFF00, "parseNumber(\"#ff00\") = %#04x, %v", uint16(v), err)

	_, err = parseNumber("not-a-number")
	assert(t, err == comet.ErrInvalidArgument, "expected ErrInvalidArgument, got %v", err)
}

func TestCmdBreakAndDelByIndex(t *testing.T) {
	d, _ := newTestDebugger("")
	assert(t, d.cmdBreak([]string{"#0010"}) == nil, "cmdBreak failed")
	assert(t, len(d.Machine.CPU.BP) == 1, "expected one breakpoint")

	assert(t, d.cmdDel([]string{"1"}) == nil, "cmdDel failed")
	assert(t, len(d.Machine.CPU.BP) == 0, "expected breakpoint removed")
}

func TestCmdBreakRequiresArgument(t *testing.T) {
	d, _ := newTestDebugger("")
	err := d.cmdBreak(nil)
	assert(t, err == comet.ErrInvalidArgument, "cmdBreak with no args = %v, want ErrInvalidArgument", err)
}

func TestCmdJumpAndMemory(t *testing.T) {
	d, _ := newTestDebugger("")
	assert(t, d.cmdJump([]string{"#0100"}) == nil, "cmdJump failed")
	assert(t, d.Machine.CPU.PC == 0x0100, "PC = %#04x, want 0x0100", uint16(d.Machine.CPU.PC))

	assert(t, d.cmdMemory([]string{"#0200", "#ABCD"}) == nil, "cmdMemory failed")
	assert(t, d.Machine.Mem.Read(0x0200) == 0xABCD, "mem[0x0200] = %#04x, want 0xABCD", uint16(d.Machine.Mem.Read(0x0200)))
}

func TestCmdPrintShowsAllFiveRegisters(t *testing.T) {
	d, out := newTestDebugger("")
	d.Machine.CPU.GR[0] = 1
	d.Machine.CPU.GR[1] = 2
	d.Machine.CPU.GR[2] = 3
	d.Machine.CPU.GR[3] = 4

	assert(t, d.cmdPrint(nil) == nil, "cmdPrint failed")
	text := out.String()
	for i := 0; i <= 4; i++ {
		label := fmt.Sprintf("GR%d", i)
		assert(t, strings.Contains(text, label), "print output missing %s:\n%s", label, text)
	}
}

func TestCmdDisasmLeavesPCUnchanged(t *testing.T) {
	d, _ := newTestDebugger("")
	pc0 := d.Machine.CPU.PC
	assert(t, d.cmdDisasm(nil) == nil, "cmdDisasm failed")
	assert(t, d.Machine.CPU.PC == pc0, "disasm must not mutate PC")
}

func TestRunLoopQuitsOnQuit(t *testing.T) {
	d, out := newTestDebugger("quit\n")
	d.Run()
	assert(t, strings.Contains(out.String(), "comet> "), "expected at least one prompt before quit")
}

func TestRunLoopRepeatsLastCommandOnEmptyInput(t *testing.T) {
	d, out := newTestDebugger("jump #0100\n\nquit\n")
	d.Run()
	// "jump #0100" runs twice (once explicitly, once via the repeated
	// empty line) and each "list" command prints state afterward.
	assert(t, strings.Count(out.String(), "PC   #0100") == 2, "expected the repeated jump to print state twice:\n%s", out.String())
}

func TestRunLoopQuitsOnUnambiguousQuitPrefix(t *testing.T) {
	d, _ := newTestDebugger("qu\n")
	d.Run() // must not panic on the nil Run handler in the quit table entry
}

func TestRunLoopReportsUnknownCommand(t *testing.T) {
	d, out := newTestDebugger("bogus\nquit\n")
	stderr := captureStderr(d.Run)
	assert(t, strings.Contains(stderr, "unknown command: bogus"), "expected an unknown command diagnostic on stderr:\n%s", stderr)
	assert(t, !strings.Contains(out.String(), "unknown command"), "unknown command diagnostic should not go to the REPL's own output stream:\n%s", out.String())
}

// spec.md §6: "command usage" errors (invalid arguments) are diagnostics
// and must go to stderr, not the REPL's output stream.
func TestRunLoopReportsCommandUsageErrorsOnStderr(t *testing.T) {
	d, out := newTestDebugger("break\nquit\n")
	stderr := captureStderr(d.Run)
	assert(t, strings.Contains(stderr, comet.ErrInvalidArgument.Error()), "expected the usage error on stderr:\n%s", stderr)
	assert(t, !strings.Contains(out.String(), comet.ErrInvalidArgument.Error()), "usage error should not go to the REPL's own output stream:\n%s", out.String())
}
