// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ladderdbg

import (
	"strings"
	"testing"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/rung"
	"github.com/aclements/go-ladder/runner"
	"github.com/aclements/go-ladder/tag"
)

func twoRungProgram() (*rung.Program, *tag.Registry) {
	r := tag.NewRegistry()
	a := r.Bool("A", true, false)
	b := r.Bool("B", false, false)
	prog := &rung.Program{
		Main: []rung.Rung{
			{ID: "R0", Power: cond.Direct{Tag: a}, Items: []rung.Item{
				rung.InstrItem{Inst: instr.Out{Target: b, Loc: "R0:0"}},
			}},
			{ID: "R1", Power: cond.All{}, Items: nil},
		},
	}
	return prog, r
}

// newFixture returns a REPL with InFD -1 so Run never attempts raw
// mode, letting tests drive it over plain strings.Reader/Builder.
func newFixture(t *testing.T, commands string) (*REPL, *strings.Builder) {
	t.Helper()
	prog, reg := twoRungProgram()
	r := runner.New(prog, reg)
	r.Start()
	var out strings.Builder
	return &REPL{
		Runner: r,
		In:     strings.NewReader(commands),
		Out:    &out,
		InFD:   -1,
	}, &out
}

func TestREPLStepPrintsEachRungThenCommits(t *testing.T) {
	repl, out := newFixture(t, "sssq")
	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	for _, want := range []string{"rung[0] R0", "rung[1] R1", "scan committed", "quit"} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q:\n%s", want, s)
		}
	}
}

func TestREPLRunToCompletion(t *testing.T) {
	repl, out := newFixture(t, "cq")
	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "scan committed") {
		t.Errorf("expected a committed scan after 'c':\n%s", s)
	}
}

func TestREPLNextCommitsWithoutPerRungOutput(t *testing.T) {
	repl, out := newFixture(t, "nq")
	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := out.String()
	if strings.Contains(s, "rung[0]") {
		t.Errorf("'n' should not print per-rung trace lines:\n%s", s)
	}
	if !strings.Contains(s, "scan committed") {
		t.Errorf("expected a committed-scan line after 'n':\n%s", s)
	}
}

func TestREPLHelpCommand(t *testing.T) {
	repl, out := newFixture(t, "hq")
	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Count(out.String(), "commands:") < 2 {
		t.Errorf("expected help text printed at startup and again on 'h':\n%s", out.String())
	}
}

func TestREPLEOFReturnsCleanly(t *testing.T) {
	repl, _ := newFixture(t, "")
	if err := repl.Run(); err != nil {
		t.Fatalf("Run on empty input should return nil, got %v", err)
	}
}
