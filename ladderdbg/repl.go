// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ladderdbg implements an interactive single-rung stepping
// debugger over package runner's StepCursor (spec.md 4.9, 9: "scan
//_steps yields at every top-level rung boundary"). Grounded on
// rtcheck/debug.go's DebugTree, which captures a hierarchical
// execution trace for later inspection; here the trace is a flat
// per-rung power list printed live to a terminal rather than rendered
// to a dot graph. Raw single-keystroke input uses
// golang.org/x/term, the teacher's own (indirect) dependency.
package ladderdbg

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/aclements/go-ladder/runner"
)

// REPL drives one Runner through repeated debug-stepped scans,
// reading single-keystroke commands from In and writing trace output
// to Out.
type REPL struct {
	Runner *runner.Runner
	In     io.Reader
	Out    io.Writer

	// InFD is the file descriptor backing In, put into raw mode for
	// the REPL's duration if it refers to a terminal (Fd returns -1
	// to skip raw mode, e.g. when In is not a *os.File).
	InFD int
}

const helpText = `commands:
  s    step to the next rung boundary
  c    run the rest of the current scan, printing each rung
  n    commit the current scan and begin the next one
  q    quit
  h    show this help
`

// Run executes the REPL loop until the user quits or In is exhausted.
func (d *REPL) Run() error {
	restore, err := d.enterRaw()
	if err != nil {
		return err
	}
	defer restore()

	fmt.Fprint(d.Out, helpText)
	br := bufio.NewReader(d.In)

	cur := d.Runner.ScanStepsDebug()
	defer cur.Close()

	for {
		b, err := br.ReadByte()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch b {
		case 'q':
			fmt.Fprintln(d.Out, "\r\nquit")
			return nil
		case 'h':
			fmt.Fprint(d.Out, helpText)
		case 's':
			cur = d.step(cur)
		case 'c':
			for {
				ev := cur.Next()
				d.printEvent(ev)
				if ev.Done {
					cur = d.Runner.ScanStepsDebug()
					break
				}
			}
		case 'n':
			for !cur.Next().Done {
			}
			cur = d.Runner.ScanStepsDebug()
			fmt.Fprintln(d.Out, "\r\nscan committed")
		}
	}
}

func (d *REPL) step(cur *runner.StepCursor) *runner.StepCursor {
	ev := cur.Next()
	d.printEvent(ev)
	if ev.Done {
		return d.Runner.ScanStepsDebug()
	}
	return cur
}

func (d *REPL) printEvent(ev runner.StepEvent) {
	if ev.Done {
		fmt.Fprintln(d.Out, "\r\nscan committed")
		return
	}
	last := ev.Trace[len(ev.Trace)-1]
	fmt.Fprintf(d.Out, "\r\nrung[%d] %s power=%v\r\n", ev.RungIndex, last.RungID, last.Power)
}

// enterRaw puts InFD into raw mode when it's a terminal, returning a
// restore func that is always safe to call (a no-op when raw mode was
// never entered).
func (d *REPL) enterRaw() (func(), error) {
	if d.InFD < 0 || !term.IsTerminal(d.InFD) {
		return func() {}, nil
	}
	old, err := term.MakeRaw(d.InFD)
	if err != nil {
		return nil, fmt.Errorf("ladderdbg: enter raw mode: %w", err)
	}
	return func() { term.Restore(d.InFD, old) }, nil
}
