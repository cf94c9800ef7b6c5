// Package debugger implements the COMET REPL: a prefix-matched command
// dispatcher over a comet.Machine offering run/step/break/dump/print/
// memory/jump/disasm/help, in the style of the teacher's
// RunProgramDebugMode but generalized to the full command set spec.md
// §4.H calls for.
package debugger

import "strings"

// command is one entry in the fixed dispatch table. Short is the
// canonical abbreviated form spec.md §4.H pairs with the long name (e.g.
// "r"/"run", "de"/"del"); both are accepted, and any unambiguous prefix
// of Long is accepted too. List marks commands that print CPU state
// (as "print" does) after they run.
type command struct {
	Short string
	Long  string
	List  bool
	Run   func(d *Debugger, args []string) error
}

func (d *Debugger) commandTable() []command {
	return []command{
		{"r", "run", true, (*Debugger).cmdRun},
		{"s", "step", true, (*Debugger).cmdStep},
		{"b", "break", true, (*Debugger).cmdBreak},
		{"de", "del", true, (*Debugger).cmdDel},
		{"i", "info", false, (*Debugger).cmdInfo},
		{"p", "print", false, (*Debugger).cmdPrint},
		{"du", "dump", false, (*Debugger).cmdDump},
		{"st", "stack", false, (*Debugger).cmdStack},
		{"f", "file", true, (*Debugger).cmdFile},
		{"j", "jump", true, (*Debugger).cmdJump},
		{"m", "memory", true, (*Debugger).cmdMemory},
		{"di", "disasm", false, (*Debugger).cmdDisasm},
		{"h", "help", false, (*Debugger).cmdHelp},
		{"q", "quit", false, nil},
	}
}

// resolve finds the command named by token. An exact match against a
// Short alias wins first (this is what lets "st" mean "stack" even
// though "st" is also a textual prefix of "step"); failing that, an
// exact match against a Long name; failing that, an unambiguous prefix
// of exactly one Long name.
func (d *Debugger) resolve(token string) (command, bool) {
	token = strings.ToLower(token)
	table := d.commandTable()

	for _, c := range table {
		if token == c.Short {
			return c, true
		}
	}
	for _, c := range table {
		if token == c.Long {
			return c, true
		}
	}

	var match command
	found := false
	ambiguous := false
	for _, c := range table {
		if strings.HasPrefix(c.Long, token) {
			if found {
				ambiguous = true
			}
			match = c
			found = true
		}
	}
	if found && !ambiguous {
		return match, true
	}
	return command{}, false
}
