// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rung implements Rung/Branch/Subroutine/Program composition
// and the rung evaluation protocol (spec.md 3.6, 4.4): compute
// rung-power, precompute branch power, execute items in source order.
// Grounded on rtcheck/main.go's function/block graph traversal shape
// for Program/Subroutine structure, and go-weave/weave's thread/id
// bookkeeping style for giving each rung a stable source-location id.
package rung

import (
	"fmt"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/scanctx"
)

// Item is one element of a rung or branch's execution list: either an
// instruction or a nested parallel branch.
type Item interface {
	isItem()
}

// InstrItem wraps a single instruction as an Item.
type InstrItem struct{ Inst instr.Instruction }

func (InstrItem) isItem() {}

// BranchItem wraps a nested Branch as an Item. A branch models a
// parallel path within a rung: its own Power condition combines with
// the enclosing rung (or branch)'s power by AND before gating the
// branch's own items (spec.md 3.6).
type BranchItem struct{ Branch *Branch }

func (BranchItem) isItem() {}

type Branch struct {
	ID    string
	Power cond.Cond // nil means the branch carries no condition of its own
	Items []Item
}

// Rung is one top-level rung: a power condition and an ordered
// execution list.
type Rung struct {
	ID    string
	Power cond.Cond
	Items []Item
}

// Program is a complete ladder program: a main rung list plus zero or
// more named subroutines, each its own rung list (spec.md 4.3.9:
// subroutine nesting depth is exactly one — a subroutine's rungs may
// not themselves contain a Call).
type Program struct {
	Main        []Rung
	Subroutines map[string][]Rung
}

var _ scanctx.SubroutineRunner = (*Program)(nil)

// Run executes the program's main rung list for one scan.
func (p *Program) Run(ctx *scanctx.Context) error {
	return runRungList(ctx, p.Main)
}

// RunMainStepped runs the program's main rung list one top-level rung
// at a time, invoking onRung after each rung commits its writes to
// ctx's pending buffer, before the next rung runs (spec.md 4.9:
// "scan_steps() yields at every top-level rung boundary within a scan,
// sharing one Scan Context"). A non-nil error from onRung aborts the
// remaining rungs and is returned to the caller.
func (p *Program) RunMainStepped(ctx *scanctx.Context, onRung func(idx int, rg Rung) error) error {
	for i, rg := range p.Main {
		if err := runRung(ctx, rg); err != nil {
			if err == instr.ErrReturn {
				return nil
			}
			return err
		}
		if onRung != nil {
			if err := onRung(i, rg); err != nil {
				return err
			}
		}
	}
	return nil
}

// RunSubroutine implements scanctx.SubroutineRunner for instr.Call.
func (p *Program) RunSubroutine(ctx *scanctx.Context, name string) error {
	rungs, ok := p.Subroutines[name]
	if !ok {
		return fmt.Errorf("rung: unknown subroutine %q", name)
	}
	return runRungList(ctx, rungs)
}

// runRungList runs rungs in order, stopping early (without error) if
// a Return instruction fires anywhere within them (spec.md 4.3.9).
func runRungList(ctx *scanctx.Context, rungs []Rung) error {
	for _, rg := range rungs {
		if err := runRung(ctx, rg); err != nil {
			if err == instr.ErrReturn {
				return nil
			}
			return err
		}
	}
	return nil
}

func runRung(ctx *scanctx.Context, rg Rung) error {
	power, err := rg.Power.Eval(ctx)
	if err != nil {
		return err
	}
	return runItems(ctx, rg.Items, power)
}

func runItems(ctx *scanctx.Context, items []Item, power bool) error {
	for _, it := range items {
		switch v := it.(type) {
		case InstrItem:
			if err := dispatch(ctx, v.Inst, power); err != nil {
				return err
			}
		case BranchItem:
			branchPower := power
			if v.Branch.Power != nil {
				bp, err := v.Branch.Power.Eval(ctx)
				if err != nil {
					return err
				}
				branchPower = power && bp
			}
			if err := runItems(ctx, v.Branch.Items, branchPower); err != nil {
				return err
			}
		default:
			panic(fmt.Sprintf("rung: unknown Item type %T", it))
		}
	}
	return nil
}

// dispatch applies spec.md 4.4's execution contract for a single
// instruction: rung-gated instructions only run Execute while enabled,
// but still get their one-shot latch cleared when it goes false;
// always-execute instructions (RungGated() == false) always run,
// receiving enabled as an input they interpret themselves.
func dispatch(ctx *scanctx.Context, inst instr.Instruction, enabled bool) error {
	if inst.RungGated() {
		if enabled {
			return inst.Execute(ctx, true)
		}
		if oa, ok := inst.(instr.OneshotAware); ok {
			oa.ClearOneshot(ctx)
		}
		return nil
	}
	return inst.Execute(ctx, enabled)
}
