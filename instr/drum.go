// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// DrumKind selects event-driven or time-driven step progression
// (spec.md 4.3.8).
type DrumKind int

const (
	EventDrum DrumKind = iota
	TimeDrum
)

// DrumStep is one step of a drum sequence: the outputs it holds while
// active, and the condition that governs automatic progression past
// it. Advance is used in EventDrum mode; Dwell is used in TimeDrum
// mode (ticks in the drum's Unit before auto-advancing).
type DrumStep struct {
	Outputs []scanctx.Write
	Advance cond.Cond
	Dwell   int16
}

// Drum is a sequencer stepping through Steps, holding the active
// step's Outputs every scan. Four triggers can change the active
// step, applied in the precedence order spec.md 4.3.8 specifies:
// auto-progression first, then the level Reset, then an edge JumpCond
// (to JumpTarget's value), then an edge JogCond (advance by one).
// Only the highest-precedence trigger that fires in a given scan
// takes effect, except that a Reset firing while already at step 1
// only clears Done and lets Jump and Jog still be evaluated. Drum is
// always-execute: Execute holds the current step's outputs even on a
// disabled scan, but all four triggers (auto-progression, Reset, Jump
// and Jog) are evaluated only while enabled. Done sets when
// auto-progression wraps past the final step and clears only when
// Reset fires.
type Drum struct {
	Kind       DrumKind
	Step       tag.Tag // INT, 1-based current step
	Steps      []DrumStep
	Acc        tag.Tag // INT, TimeDrum's per-step dwell accumulator
	Unit       string
	Done       tag.Tag // BOOL, sequence-complete flag
	Reset      cond.Cond
	JumpTarget tag.Tag
	JumpCond   cond.Cond
	JogCond    cond.Cond
	Loc        string
}

func (d Drum) RungGated() bool { return false }

func (d Drum) currentStep(ctx *scanctx.Context) int {
	step := int(ctx.GetTag(d.Step.Name(), d.Step.Default()).AsInt())
	if step < 1 || step > len(d.Steps) {
		return 1
	}
	return step
}

func (d Drum) enterStep(ctx *scanctx.Context, n int) error {
	if err := ctx.SetTag(d.Step.Name(), value.NewInt(int16(n))); err != nil {
		return err
	}
	if d.Kind == TimeDrum {
		if err := ctx.SetTag(d.Acc.Name(), value.NewInt(0)); err != nil {
			return err
		}
		ctx.SetMemory(fracKey(d.Acc.Name()), 0.0)
	}
	return d.holdOutputs(ctx, n)
}

func (d Drum) holdOutputs(ctx *scanctx.Context, n int) error {
	for _, w := range d.Steps[n-1].Outputs {
		if err := ctx.SetTag(w.Name, w.Value); err != nil {
			return err
		}
	}
	return nil
}

// advance moves auto-progression from step `from` to step `to`,
// setting Done when the sequence wraps past its final step.
func (d Drum) advance(ctx *scanctx.Context, from, to int) error {
	if from == len(d.Steps) {
		if err := ctx.SetTag(d.Done.Name(), value.NewBool(true)); err != nil {
			return err
		}
	}
	return d.enterStep(ctx, to)
}

func (d Drum) Execute(ctx *scanctx.Context, enabled bool) error {
	if len(d.Steps) == 0 {
		return nil
	}
	step := d.currentStep(ctx)
	if err := d.holdOutputs(ctx, step); err != nil {
		return err
	}
	if !enabled {
		return nil
	}
	cur := d.Steps[step-1]

	// 1. auto-progression.
	if d.Kind == EventDrum {
		if cur.Advance != nil {
			ok, err := cur.Advance.Eval(ctx)
			if err != nil {
				return err
			}
			if ok {
				return d.advance(ctx, step, d.nextStep(step))
			}
		}
	} else {
		newAcc := accumulateUnit(ctx, d.Acc, d.Unit)
		if err := ctx.SetTag(d.Acc.Name(), value.NewInt(newAcc)); err != nil {
			return err
		}
		if newAcc >= cur.Dwell {
			return d.advance(ctx, step, d.nextStep(step))
		}
	}

	// 2. level reset.
	if d.Reset != nil {
		ok, err := d.Reset.Eval(ctx)
		if err != nil {
			return err
		}
		if ok {
			if err := ctx.SetTag(d.Done.Name(), value.NewBool(false)); err != nil {
				return err
			}
			if step != 1 {
				return d.enterStep(ctx, 1)
			}
		}
	}

	// 3. edge jump.
	if d.JumpCond != nil {
		ok, err := d.JumpCond.Eval(ctx)
		if err != nil {
			return err
		}
		if risingCondEdge(ctx, "_edge:"+d.Loc+":jump", ok) {
			target := int(ctx.GetTag(d.JumpTarget.Name(), d.JumpTarget.Default()).AsInt())
			if target >= 1 && target <= len(d.Steps) {
				return d.enterStep(ctx, target)
			}
		}
	}

	// 4. edge jog.
	if d.JogCond != nil {
		ok, err := d.JogCond.Eval(ctx)
		if err != nil {
			return err
		}
		if risingCondEdge(ctx, "_edge:"+d.Loc+":jog", ok) {
			return d.enterStep(ctx, d.nextStep(step))
		}
	}

	return nil
}

func (d Drum) nextStep(step int) int {
	n := step + 1
	if n > len(d.Steps) {
		return 1
	}
	return n
}
