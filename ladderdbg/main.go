// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command ladderdbg launches an interactive single-rung stepping
// debugger against a small demonstration program, built from package
// tag/cond/instr/rung the same way a host application would build its
// own. There is no on-disk ladder-program file format in scope (tags
// alone round-trip via package dialect's CSV nicknames); ladderdbg is
// meant to be linked into a host program that supplies its own
// registry and rung.Program to (&ladderdbg.REPL{Runner: r, ...}).Run,
// the way benchcmd wraps an arbitrary exec.Command rather than one
// fixed target.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/ladderdbg"
	"github.com/aclements/go-ladder/rung"
	"github.com/aclements/go-ladder/runner"
	"github.com/aclements/go-ladder/tag"
)

// demoProgram builds a two-rung program: a plain coil driven by an
// input, and a counter incremented while that coil is energized.
func demoProgram() (*rung.Program, *tag.Registry) {
	r := tag.NewRegistry()
	start := r.Input(r.Bool("START", false, false), false)
	run := r.Bool("RUN", false, false)
	done := r.Bool("CYCLE_DONE", false, false)
	acc := r.Dint("CYCLE_COUNT", 0, true)

	prog := &rung.Program{
		Main: []rung.Rung{
			{
				ID:    "R0",
				Power: cond.Direct{Tag: start},
				Items: []rung.Item{
					rung.InstrItem{Inst: instr.Out{Target: run, Loc: "R0:0"}},
				},
			},
			{
				ID:    "R1",
				Power: cond.All{},
				Items: []rung.Item{
					rung.InstrItem{Inst: instr.Counter{
						Mode:   instr.CountUp,
						Done:   done,
						Acc:    acc,
						Preset: 1 << 30,
						Reset:  cond.Negated{Tag: start},
					}},
				},
			},
		},
	}
	return prog, r
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [-dt seconds]\n", os.Args[0])
		flag.PrintDefaults()
	}
	dt := flag.Float64("dt", 0.1, "fixed scan interval in seconds")
	flag.Parse()

	prog, reg := demoProgram()
	r := runner.New(prog, reg, runner.WithTimeMode(runner.FixedStep, *dt))
	r.Start()

	repl := &ladderdbg.REPL{
		Runner: r,
		In:     os.Stdin,
		Out:    os.Stdout,
		InFD:   int(os.Stdin.Fd()),
	}
	if err := repl.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
