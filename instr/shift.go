// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// ShiftDir selects which end of the register the shift moves toward
// (spec.md 4.3.7).
type ShiftDir int

const (
	ShiftRight ShiftDir = iota
	ShiftLeft
)

// risingCondEdge is the generic rising-edge detector instructions use
// for an arbitrary cond.Cond trigger (as opposed to cond.RisingEdge,
// which is keyed to a single tag). State is kept under a
// caller-chosen memory key so several edge triggers on the same
// instruction (e.g. ShiftRegister's clock, Drum's jump and jog) don't
// collide.
func risingCondEdge(ctx *scanctx.Context, key string, cur bool) bool {
	prev, _ := ctx.GetMemory(key, false).(bool)
	ctx.SetMemory(key, cur)
	return cur && !prev
}

// ShiftRegister is a bit shift register clocked by a rising edge on
// Clock, with the rung-power bit shifted in at the vacated end. Reset
// is a level condition that takes precedence over Clock: while Reset
// is true, every element is driven to its type default and the clock
// is ignored (spec.md 4.3.7). Always-execute, so Reset and the clock
// edge detector keep running while the rung is false.
type ShiftRegister struct {
	Range     RangeSource
	Clock     cond.Cond
	Reset     cond.Cond
	Direction ShiftDir
	Loc       string
}

func (s ShiftRegister) RungGated() bool { return false }

func (s ShiftRegister) Execute(ctx *scanctx.Context, enabled bool) error {
	rr, err := s.Range.Resolve(ctx)
	if err != nil {
		return err
	}
	tags := rr.Tags()
	if len(tags) == 0 {
		return nil
	}

	if s.Reset != nil {
		resetOk, err := s.Reset.Eval(ctx)
		if err != nil {
			return err
		}
		if resetOk {
			for _, t := range tags {
				if err := ctx.SetTag(t.Name(), value.Default(t.Kind())); err != nil {
					return err
				}
			}
			return nil
		}
	}

	clockCur, err := s.Clock.Eval(ctx)
	if err != nil {
		return err
	}
	if !risingCondEdge(ctx, "_edge:"+s.Loc+":clock", clockCur) {
		return nil
	}

	n := len(tags)
	switch s.Direction {
	case ShiftRight:
		for i := n - 1; i > 0; i-- {
			v := ctx.GetTag(tags[i-1].Name(), tags[i-1].Default())
			if err := ctx.SetTag(tags[i].Name(), v); err != nil {
				return err
			}
		}
		return ctx.SetTag(tags[0].Name(), value.NewBool(enabled))
	default: // ShiftLeft
		for i := 0; i < n-1; i++ {
			v := ctx.GetTag(tags[i+1].Name(), tags[i+1].Default())
			if err := ctx.SetTag(tags[i].Name(), v); err != nil {
				return err
			}
		}
		return ctx.SetTag(tags[n-1].Name(), value.NewBool(enabled))
	}
}
