// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package instr implements the Instruction Layer (spec.md 4.3):
// coils, timers, counters, Copy/Calc, block operations, search, shift
// register, drum sequencers, subroutine call/return, for-loop, and the
// function-call escape hatches. Grounded on rtcheck/handlers.go's
// per-opcode dispatch-table style, generalized from a
// map[string]handlerFunc keyed by call name to a closed Instruction
// interface per spec.md 9's tagged-enum dispatch design note.
package instr

import (
	"github.com/aclements/go-ladder/scanctx"
)

// Instruction is one item in a rung's execution list. Execute is
// called by the rung evaluator (package rung) once per scan; enabled
// carries the item's rung-power (spec.md 4.4).
//
// RungGated reports the instruction's nominal dispatch category from
// spec.md 4.3's preamble: true means the instruction's side effects
// only happen when enabled is true (a false scan is a pure no-op from
// the evaluator's point of view); false means Execute always runs and
// the instruction itself implements whatever the enabled/disabled
// contract requires (timers, counters, Out coils, shift registers,
// drums, for-loops and RunEnabledFunction all fall in this category,
// since each has scan-every-cycle behavior on the disabled path too).
type Instruction interface {
	Execute(ctx *scanctx.Context, enabled bool) error
	RungGated() bool
}

// OneshotAware is implemented by rung-gated instructions that declare
// oneshot=true (spec.md 4.3 preamble: "body runs on rising rung edge
// only"). The rung evaluator calls ClearOneshot instead of Execute
// when such an instruction's rung goes false, so the latch does not
// wrongly remember an edge that never re-armed.
type OneshotAware interface {
	ClearOneshot(ctx *scanctx.Context)
}

// oneshotKey is the engine-private memory key backing one-shot state
// for the instruction at loc (spec.md 3.3: "_oneshot:<loc>").
func oneshotKey(loc string) string { return "_oneshot:" + loc }

// oneshotGate implements the "rising rung edge" semantics shared by
// every instruction that declares oneshot=true: body fires only on
// the scan where enabled transitions false->true, and the previous
// enabled state is always refreshed so the next scan sees this one.
func oneshotGate(ctx *scanctx.Context, loc string, enabled bool) bool {
	key := oneshotKey(loc)
	prev, _ := ctx.GetMemory(key, false).(bool)
	ctx.SetMemory(key, enabled)
	return enabled && !prev
}

func clearOneshot(ctx *scanctx.Context, loc string) {
	ctx.SetMemory(oneshotKey(loc), false)
}

// dtKey is the engine-private memory key the runner populates with
// this scan's timedelta (seconds) before any rung evaluates, so timer
// instructions can read it without breaking the pure f(state)->state'
// contract (spec.md 9's design note on dt injection).
const dtKey = "_dt"

func scanDt(ctx *scanctx.Context) float64 {
	dt, _ := ctx.GetMemory(dtKey, 0.0).(float64)
	return dt
}
