// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"math"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// TimerKind selects between an on-delay and off-delay timer
// (spec.md 4.3.2).
type TimerKind int

const (
	OnDelay TimerKind = iota
	OffDelay
)

func fracKey(acc string) string { return "_frac:" + acc }

// Timer implements TON/RTON (OnDelay) and TOF (OffDelay). Timers are
// always-execute: a level-triggered PLC timer must keep resetting or
// accumulating on every scan regardless of rung power, so RungGated
// reports false and Execute implements both branches of the contract
// itself (spec.md 4.3.2).
//
// A non-nil Reset turns an OnDelay timer into RTON: the accumulator
// holds (rather than resets) across a disabled scan, and only Reset
// going true clears it. A nil Reset is the plain TON contract: going
// disabled clears the accumulator immediately.
type Timer struct {
	Kind   TimerKind
	Done   tag.Tag // BOOL
	Acc    tag.Tag // INT
	Preset int16
	Unit   string // one of value.UnitScale's units
	Reset  cond.Cond
}

func (t Timer) RungGated() bool { return false }

func (t Timer) clear(ctx *scanctx.Context) error {
	if err := ctx.SetTag(t.Acc.Name(), value.NewInt(0)); err != nil {
		return err
	}
	ctx.SetMemory(fracKey(t.Acc.Name()), 0.0)
	return ctx.SetTag(t.Done.Name(), value.NewBool(false))
}

// accumulate advances the timer's accumulator by this scan's dt and
// returns the new (saturated) accumulator value. The fractional
// remainder below one whole unit is carried in memory so repeated
// sub-unit scan times still converge (spec.md 4.3.2: unit_scale).
func (t Timer) accumulate(ctx *scanctx.Context) int16 {
	return accumulateUnit(ctx, t.Acc, t.Unit)
}

// accumulateUnit is the shared dwell-accumulator step used by Timer
// and the TimeDrum sequencer (package instr): it advances acc by this
// scan's dt converted into unit, carrying the sub-unit remainder in
// memory so repeated short scan times still converge.
func accumulateUnit(ctx *scanctx.Context, acc tag.Tag, unit string) int16 {
	dt := scanDt(ctx)
	key := fracKey(acc.Name())
	frac, _ := ctx.GetMemory(key, 0.0).(float64)
	add := value.UnitScale(dt, unit) + frac
	whole := math.Floor(add)
	ctx.SetMemory(key, add-whole)

	cur := ctx.GetTag(acc.Name(), value.NewInt(0)).AsInt()
	newAcc, _ := value.SaturateInt16(int64(cur) + int64(whole))
	return newAcc
}

func (t Timer) Execute(ctx *scanctx.Context, enabled bool) error {
	if t.Kind == OnDelay {
		if t.Reset != nil {
			resetOk, err := t.Reset.Eval(ctx)
			if err != nil {
				return err
			}
			if resetOk {
				return t.clear(ctx)
			}
			if !enabled {
				return nil // RTON holds until Reset fires.
			}
		} else if !enabled {
			return t.clear(ctx)
		}
		newAcc := t.accumulate(ctx)
		if err := ctx.SetTag(t.Acc.Name(), value.NewInt(newAcc)); err != nil {
			return err
		}
		return ctx.SetTag(t.Done.Name(), value.NewBool(newAcc >= t.Preset))
	}

	// OffDelay (TOF): enabled holds Done true and the accumulator at
	// zero; disabled accumulates until Preset, at which point Done
	// goes false.
	if enabled {
		return t.clear2Done(ctx)
	}
	newAcc := t.accumulate(ctx)
	if err := ctx.SetTag(t.Acc.Name(), value.NewInt(newAcc)); err != nil {
		return err
	}
	return ctx.SetTag(t.Done.Name(), value.NewBool(newAcc < t.Preset))
}

// clear2Done is TOF's enabled-branch reset: accumulator to zero, but
// Done held true (unlike OnDelay.clear, which drives Done false).
func (t Timer) clear2Done(ctx *scanctx.Context) error {
	if err := ctx.SetTag(t.Acc.Name(), value.NewInt(0)); err != nil {
		return err
	}
	ctx.SetMemory(fracKey(t.Acc.Name()), 0.0)
	return ctx.SetTag(t.Done.Name(), value.NewBool(true))
}
