// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"time"

	"github.com/aclements/go-ladder/history"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/value"
)

// Step executes exactly one scan cycle and returns the newly committed
// snapshot. If the Runner is in Stop mode, it performs a Stop->Run
// transition first (spec.md 4.5: "any execution call ... performs an
// implicit Stop->Run transition").
func (r *Runner) Step() *scanctx.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stepLocked()
}

func (r *Runner) stepLocked() *scanctx.State {
	if !r.running {
		r.startLocked()
	}

	var wallStart time.Time
	if r.cfg.TimeMode == Realtime {
		wallStart = time.Now()
	}

	dt := r.cfg.Dt
	clockBase := r.state.Timestamp + dt
	if r.cfg.TimeMode == Realtime {
		now := time.Now()
		if r.lastTip.IsZero() {
			dt = 0
		} else {
			dt = now.Sub(r.lastTip).Seconds()
		}
		clockBase = float64(now.UnixNano()) / 1e9
	}

	scanID := r.state.ScanID + 1
	timestamp := r.state.Timestamp + dt

	ctx := scanctx.New(r.state, r.guard)
	r.sys.OnScanStart(ctx, scanID, timestamp, clockBase, r.running, r.cfg.BatteryPresent)

	for _, w := range r.patches {
		ctx.SetTag(w.Name, w.Value)
	}
	r.patches = nil
	r.applyForcesLocked(ctx)

	ctx.Subroutines = r.program
	if err := r.program.Run(ctx); err != nil {
		r.cfg.Logger.Printf("runner: scan %d aborted: %v", scanID, err)
		return r.state
	}

	r.applyForcesLocked(ctx)

	var jitterMs *float64
	if r.cfg.TimeMode == Realtime {
		ms := time.Since(wallStart).Seconds() * 1000
		jitterMs = &ms
	}
	r.sys.OnScanEnd(ctx, jitterMs)

	newState := ctx.Commit(dt)
	r.state = newState
	if r.cfg.TimeMode == Realtime {
		r.lastTip = time.Now()
	}

	if newState.GetTag(sysfunc.FaultMathOperationError, value.NewBool(false)).AsBool() {
		// Latched fault forces a Stop (spec.md 7); the next execution
		// call will perform the Stop->Run transition that clears it.
		r.running = false
	}

	r.pending = r.hist.Append(newState)
	return newState
}

// Run executes cycles scan cycles, halting early if a breakpoint
// pauses execution. It returns the number of cycles actually executed.
func (r *Runner) Run(cycles int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for i := 0; i < cycles; i++ {
		r.stepLocked()
		n++
		if r.pending != nil {
			break
		}
	}
	return n
}

// RunFor executes scan cycles until at least seconds of simulated (or,
// in Realtime mode, measured) time have elapsed since the call began,
// halting early on a breakpoint pause.
func (r *Runner) RunFor(seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	start := r.state.Timestamp
	for r.state.Timestamp-start < seconds {
		r.stepLocked()
		if r.pending != nil {
			break
		}
	}
}

// RunUntil executes scan cycles until pred reports true for the newly
// committed snapshot, or a breakpoint pauses execution first, or the
// step budget is exhausted (maxSteps <= 0 means unbounded).
func (r *Runner) RunUntil(pred func(*scanctx.State) bool, maxSteps int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	steps := 0
	for maxSteps <= 0 || steps < maxSteps {
		s := r.stepLocked()
		steps++
		if r.pending != nil || pred(s) {
			break
		}
	}
}

// LastPause returns the breakpoint that halted the most recent
// Run/RunFor/RunUntil call, or nil if none did.
func (r *Runner) LastPause() *history.Pause {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending
}
