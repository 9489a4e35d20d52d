// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"testing"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/rung"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// TestTransientFaultVisibleToLaterRung verifies SPEC_FULL.md 9's
// resolution of spec.md's Open Question: a transient fault raised by
// an earlier rung in a scan is visible to a later rung in the same
// scan, and is only cleared at the *next* scan's start.
func TestTransientFaultVisibleToLaterRung(t *testing.T) {
	r := tag.NewRegistry()
	latch := r.Bool("Latch", false, false)
	junk := r.Real("Junk", 0, false)
	// Stands in for a rung condition compiled against the
	// fault.division_error system point (dialect/codegen binding is
	// out of scope here; the tag name is what Context keys on).
	faultAlias := r.Bool(sysfunc.FaultDivisionError, false, false)

	div := expr.Binary{Op: expr.Div, L: expr.Literal{Value: value.NewReal(1)}, R: expr.Literal{Value: value.NewReal(0)}}
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Calc{Source: div, Target: junk}},
		}},
		{ID: "r1", Power: cond.Direct{Tag: faultAlias}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Out{Target: latch}},
		}},
	}}

	run := New(prog, r, WithTimeMode(FixedStep, 1))
	s := run.Step()
	if !s.GetTag("Latch", value.NewBool(false)).AsBool() {
		t.Errorf("Latch = false, want true: fault.division_error from rung r0 should gate rung r1 within the same scan")
	}

	prog.Main[0].Items[0] = rung.InstrItem{Inst: instr.Calc{Source: expr.Literal{Value: value.NewReal(1)}, Target: junk}}
	s = run.Step()
	if s.GetTag("Latch", value.NewBool(false)).AsBool() {
		t.Errorf("Latch = true, want false: fault.division_error should have cleared at the new scan's start")
	}
}

func TestStepPerformsImplicitStopRunTransition(t *testing.T) {
	r := tag.NewRegistry()
	lamp := r.Bool("Lamp", false, false)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Out{Target: lamp}},
		}},
	}}
	run := New(prog, r)
	if run.Running() {
		t.Fatal("Running() = true before the first Step, want false")
	}
	run.Step()
	if !run.Running() {
		t.Errorf("Running() = false after Step, want true (implicit Stop->Run transition)")
	}
}

func TestRetentiveTagSurvivesStopRun(t *testing.T) {
	r := tag.NewRegistry()
	acc := r.Int("Acc", 0, true) // retentive
	scratch := r.Int("Scratch", 0, false)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Copy{Source: expr.Literal{Value: value.NewInt(7)}, Target: acc}},
			rung.InstrItem{Inst: instr.Copy{Source: expr.Literal{Value: value.NewInt(9)}, Target: scratch}},
		}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	run.Step()
	run.Stop()
	run.Start()

	s := run.State()
	if got := s.GetTag("Acc", value.Value{}).AsInt(); got != 7 {
		t.Errorf("retentive Acc = %d after Stop->Run, want 7 (preserved)", got)
	}
	if got := s.GetTag("Scratch", value.Value{}).AsInt(); got != 0 {
		t.Errorf("non-retentive Scratch = %d after Stop->Run, want 0 (reset)", got)
	}
}

func TestRebootWithoutBatteryResetsEveryTag(t *testing.T) {
	r := tag.NewRegistry()
	acc := r.Int("Acc", 0, true) // retentive, but battery is absent on Reboot
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Copy{Source: expr.Literal{Value: value.NewInt(42)}, Target: acc}},
		}},
	}}
	run := New(prog, r, WithBatteryPresent(false))
	run.Step()
	run.Reboot()
	if got := run.State().GetTag("Acc", value.Value{}).AsInt(); got != 0 {
		t.Errorf("retentive Acc = %d after battery-less Reboot, want 0 (reset)", got)
	}
}

func TestRebootWithBatteryPreservesEveryTag(t *testing.T) {
	r := tag.NewRegistry()
	scratch := r.Int("Scratch", 0, false) // non-retentive, but battery is present
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Copy{Source: expr.Literal{Value: value.NewInt(13)}, Target: scratch}},
		}},
	}}
	run := New(prog, r, WithBatteryPresent(true))
	run.Step()
	run.Reboot()
	if got := run.State().GetTag("Scratch", value.Value{}).AsInt(); got != 13 {
		t.Errorf("Scratch = %d after battery-backed Reboot, want 13 (preserved)", got)
	}
}

func TestMathFaultLatchesAndForcesStop(t *testing.T) {
	r := tag.NewRegistry()
	dst := r.Real("DS1", 0, false)
	overflow := expr.Binary{Op: expr.Mul, L: expr.Literal{Value: value.NewReal(3.4e38)}, R: expr.Literal{Value: value.NewReal(10)}}
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Copy{Source: overflow, Target: dst}},
		}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	run.Step()
	if run.Running() {
		t.Errorf("Running() = true after a math fault, want false (latched fault forces Stop)")
	}
	if !run.State().GetTag(sysfunc.FaultMathOperationError, value.NewBool(false)).AsBool() {
		t.Errorf("fault.math_operation_error not set")
	}

	// Swap in a harmless instruction so the next scan doesn't
	// immediately re-raise the fault it's trying to observe clearing.
	prog.Main[0].Items[0] = rung.InstrItem{Inst: instr.Copy{Source: expr.Literal{Value: value.NewReal(1)}, Target: dst}}
	run.Step() // implicit Stop->Run transition clears the latched fault
	if run.State().GetTag(sysfunc.FaultMathOperationError, value.NewBool(false)).AsBool() {
		t.Errorf("fault.math_operation_error still set after Stop->Run")
	}
}

func TestForceOverridesRungWrite(t *testing.T) {
	r := tag.NewRegistry()
	lamp := r.Bool("Lamp", false, false)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Out{Target: lamp}},
		}},
	}}
	run := New(prog, r)
	if err := run.AddForce("Lamp", value.NewBool(false)); err != nil {
		t.Fatal(err)
	}
	s := run.Step()
	if s.GetTag("Lamp", value.NewBool(true)).AsBool() {
		t.Errorf("Lamp = true, want false: force should override the rung's own Out write")
	}
}

func TestPatchIsOneShot(t *testing.T) {
	r := tag.NewRegistry()
	r.Int("Acc", 0, false)
	prog := &rung.Program{Main: []rung.Rung{}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	if err := run.Patch(map[string]value.Value{"Acc": value.NewInt(5)}); err != nil {
		t.Fatal(err)
	}
	s := run.Step()
	if got := s.GetTag("Acc", value.Value{}).AsInt(); got != 5 {
		t.Errorf("Acc = %d after patched step, want 5", got)
	}
	if len(run.patches) != 0 {
		t.Errorf("patches not cleared after one step")
	}
}

func TestRunUntilStopsWhenPredicateMatches(t *testing.T) {
	r := tag.NewRegistry()
	acc := r.Int("Acc", 0, true)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Calc{Source: expr.Binary{Op: expr.Add, L: expr.TagRef{Tag: acc}, R: expr.Literal{Value: value.NewInt(1)}}, Target: acc}},
		}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	run.RunUntil(func(s *scanctx.State) bool { return s.GetTag("Acc", value.Value{}).AsInt() >= 2 }, 0)
	if got := run.State().GetTag("Acc", value.Value{}).AsInt(); got != 2 {
		t.Errorf("Acc = %d after RunUntil(>=2), want 2", got)
	}
}

func TestRunHaltsAtBreakpoint(t *testing.T) {
	r := tag.NewRegistry()
	acc := r.Int("Acc", 0, true)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Calc{Source: expr.Binary{Op: expr.Add, L: expr.TagRef{Tag: acc}, R: expr.Literal{Value: value.NewInt(1)}}, Target: acc}},
		}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	run.History().When(func(s *scanctx.State) bool { return s.GetTag("Acc", value.Value{}).AsInt() >= 3 }).Pause()
	n := run.Run(10)
	if n != 3 {
		t.Errorf("Run(10) executed %d cycles, want 3 (halted at breakpoint)", n)
	}
	if run.LastPause() == nil {
		t.Errorf("LastPause() = nil, want a recorded breakpoint")
	}
}

func TestForkSeedsIndependentRunner(t *testing.T) {
	r := tag.NewRegistry()
	acc := r.Int("Acc", 0, true)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{
			rung.InstrItem{Inst: instr.Copy{Source: expr.Literal{Value: value.NewInt(1)}, Target: acc}},
		}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	s1 := run.Step()

	forked, err := run.Fork(s1.ScanID)
	if err != nil {
		t.Fatal(err)
	}
	forked.Step()
	if run.State().ScanID != s1.ScanID {
		t.Errorf("original Runner's ScanID changed after stepping its fork")
	}
}

func TestScanStepsYieldsAtEachRungBoundary(t *testing.T) {
	r := tag.NewRegistry()
	a := r.Bool("A", false, false)
	b := r.Bool("B", false, false)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{rung.InstrItem{Inst: instr.Out{Target: a}}}},
		{ID: "r1", Power: cond.All{}, Items: []rung.Item{rung.InstrItem{Inst: instr.Out{Target: b}}}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	cur := run.ScanSteps()

	ev := cur.Next()
	if ev.Done || ev.RungID != "r0" {
		t.Fatalf("first yield = %+v, want rung r0", ev)
	}
	ev = cur.Next()
	if ev.Done || ev.RungID != "r1" {
		t.Fatalf("second yield = %+v, want rung r1", ev)
	}
	ev = cur.Next()
	if !ev.Done {
		t.Fatalf("third event = %+v, want Done", ev)
	}
	if !run.State().GetTag("A", value.NewBool(false)).AsBool() || !run.State().GetTag("B", value.NewBool(false)).AsBool() {
		t.Errorf("commit after cursor exhaustion did not apply both rungs' writes")
	}
}

func TestScanStepsDebugRetainsTrace(t *testing.T) {
	r := tag.NewRegistry()
	a := r.Bool("A", false, false)
	prog := &rung.Program{Main: []rung.Rung{
		{ID: "r0", Power: cond.All{}, Items: []rung.Item{rung.InstrItem{Inst: instr.Out{Target: a}}}},
	}}
	run := New(prog, r, WithTimeMode(FixedStep, 1))
	cur := run.ScanStepsDebug()
	ev := cur.Next()
	if len(ev.Trace) != 1 || ev.Trace[0].RungID != "r0" || !ev.Trace[0].Power {
		t.Fatalf("Trace = %+v, want one entry for r0 with power true", ev.Trace)
	}
	cur.Next() // Done
}
