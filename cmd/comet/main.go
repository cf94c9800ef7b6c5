// Command comet is the COMET emulator/debugger entry point:
// `comet [-q] [image-file]`. It loads an optional object image and then
// drops into the debugger REPL, mirroring run68's flag-driven load-then-
// execute shape but handing off to an interactive session instead of
// running straight through.
package main

import (
	"fmt"
	"os"

	"comet/core"
	"comet/debugger"

	cli "gopkg.in/urfave/cli.v2"
)

func main() {
	app := &cli.App{
		Name:  "comet",
		Usage: "COMET 16-bit machine emulator and debugger",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "suppress the startup banner",
			},
		},
		ArgsUsage: "[image-file]",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if !c.Bool("quiet") {
		fmt.Println("comet — COMET 16-bit machine debugger")
	}

	machine := comet.NewMachine(os.Stdin, os.Stdout)
	dbg := debugger.New(machine, os.Stdin, os.Stdout)

	if path := c.Args().First(); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(fmt.Sprintf("could not open %s: %s", path, err), 1)
		}
		err = machine.Load(f)
		f.Close()
		if err != nil {
			return cli.Exit(fmt.Sprintf("could not load %s: %s", path, err), 1)
		}
	}

	dbg.Run()
	machine.Flush()
	return nil
}
