// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rung

import (
	"testing"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

func newCtx(tags map[string]value.Value) *scanctx.Context {
	return scanctx.New(scanctx.NewState(tags), nil)
}

func TestRungFalseSkipsCopyButDrivesOutDefault(t *testing.T) {
	r := tag.NewRegistry()
	button := r.Bool("Button", false, false)
	lamp := r.Bool("Lamp", false, false)
	acc := r.Int("Acc", 5, false)

	prog := Program{Main: []Rung{
		{
			ID:    "r0",
			Power: cond.Direct{Tag: button},
			Items: []Item{
				InstrItem{Inst: instr.Out{Target: lamp}},
				InstrItem{Inst: instr.Copy{Source: constExpr{value.NewInt(99)}, Target: acc}},
			},
		},
	}}

	ctx := newCtx(map[string]value.Value{"Button": value.NewBool(false), "Lamp": value.NewBool(true), "Acc": value.NewInt(5)})
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.GetTag("Lamp", value.Value{}).AsBool() {
		t.Errorf("Lamp = true, want false (Out drives default on rung-false)")
	}
	if got := ctx.GetTag("Acc", value.Value{}).AsInt(); got != 5 {
		t.Errorf("Acc = %d, want 5 (Copy skipped on rung-false)", got)
	}
}

func TestBranchPowerANDsWithParent(t *testing.T) {
	r := tag.NewRegistry()
	main := r.Bool("Main", true, false)
	branchCond := r.Bool("BranchCond", false, false)
	lamp := r.Bool("Lamp", false, false)

	prog := Program{Main: []Rung{
		{
			ID:    "r0",
			Power: cond.Direct{Tag: main},
			Items: []Item{
				BranchItem{Branch: &Branch{
					Power: cond.Direct{Tag: branchCond},
					Items: []Item{InstrItem{Inst: instr.Out{Target: lamp}}},
				}},
			},
		},
	}}

	ctx := newCtx(map[string]value.Value{"Main": value.NewBool(true), "BranchCond": value.NewBool(false)})
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if ctx.GetTag("Lamp", value.Value{}).AsBool() {
		t.Errorf("Lamp = true, want false (branch power false)")
	}
}

func TestCallRunsSubroutineAndReturnStopsIt(t *testing.T) {
	r := tag.NewRegistry()
	always := r.Bool("Always", true, false)
	lampA := r.Bool("LampA", false, false)
	lampB := r.Bool("LampB", false, false)

	prog := Program{
		Main: []Rung{
			{ID: "r0", Power: cond.Direct{Tag: always}, Items: []Item{InstrItem{Inst: instr.Call{Name: "Sub"}}}},
		},
		Subroutines: map[string][]Rung{
			"Sub": {
				{ID: "s0", Power: cond.Direct{Tag: always}, Items: []Item{
					InstrItem{Inst: instr.Out{Target: lampA}},
					InstrItem{Inst: instr.Return{}},
				}},
				{ID: "s1", Power: cond.Direct{Tag: always}, Items: []Item{InstrItem{Inst: instr.Out{Target: lampB}}}},
			},
		},
	}

	ctx := newCtx(map[string]value.Value{"Always": value.NewBool(true)})
	ctx.Subroutines = &prog
	if err := prog.Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !ctx.GetTag("LampA", value.Value{}).AsBool() {
		t.Errorf("LampA = false, want true")
	}
	if ctx.GetTag("LampB", value.Value{}).AsBool() {
		t.Errorf("LampB = true, want false (Return should have stopped the subroutine)")
	}
}

type constExpr struct{ v value.Value }

func (c constExpr) Eval(ctx *scanctx.Context) (value.Value, error) { return c.v, nil }
