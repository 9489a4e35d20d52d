// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"errors"
	"time"

	"github.com/aclements/go-ladder/rung"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/value"
)

// RungTrace is one rung's evaluated power within a debug-stepped scan.
type RungTrace struct {
	RungID string
	Power  bool
}

// StepEvent is what StepCursor.Next returns at each suspension point
// (spec.md 4.9, 9: scan_steps yields at every top-level rung boundary).
type StepEvent struct {
	// Done is true once the scan has fully committed; RungIndex/RungID
	// are meaningless on this event.
	Done bool

	RungIndex int
	RungID    string

	// Trace accumulates every rung evaluated so far this scan, in
	// order. Only populated by ScanStepsDebug cursors.
	Trace []RungTrace
}

var errStepCursorClosed = errors.New("runner: step cursor closed before scan completed")

// StepCursor realizes spec.md 9's reentrant generator (scan_steps /
// scan_steps_debug) as an explicit state machine, per spec.md 340's own
// suggested fallback for languages without first-class generators: a
// goroutine runs the scan one rung at a time, handing control back to
// Next's caller at every top-level rung boundary, all sharing the one
// scanctx.Context the spec requires. The owning Runner's step mutex is
// held for the cursor's entire lifetime, so no other Step/Run/... call
// can interleave with a debug-stepped scan.
type StepCursor struct {
	r     *Runner
	debug bool

	started  bool
	finished bool

	events  chan StepEvent
	resume  chan struct{}
	abort   chan struct{}
	done    chan struct{}
}

// ScanSteps begins a step-by-step scan, yielding at each top-level rung
// boundary. The Runner's mutex is held until the cursor is exhausted or
// Close is called.
func (r *Runner) ScanSteps() *StepCursor { return r.newStepCursor(false) }

// ScanStepsDebug is like ScanSteps but additionally retains a
// per-rung trace of evaluated rung power, surfaced on every StepEvent.
func (r *Runner) ScanStepsDebug() *StepCursor { return r.newStepCursor(true) }

func (r *Runner) newStepCursor(debug bool) *StepCursor {
	r.mu.Lock()
	if !r.running {
		r.startLocked()
	}
	sc := &StepCursor{
		r:      r,
		debug:  debug,
		events: make(chan StepEvent),
		resume: make(chan struct{}),
		abort:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	go sc.run()
	return sc
}

func (sc *StepCursor) run() {
	defer close(sc.done)
	r := sc.r

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

	var trace []RungTrace
	err := r.program.RunMainStepped(ctx, func(idx int, rg rung.Rung) error {
		ev := StepEvent{RungIndex: idx, RungID: rg.ID}
		if sc.debug {
			power, _ := rg.Power.Eval(ctx)
			trace = append(trace, RungTrace{RungID: rg.ID, Power: power})
			ev.Trace = append([]RungTrace(nil), trace...)
		}
		select {
		case sc.events <- ev:
		case <-sc.abort:
			return errStepCursorClosed
		}
		select {
		case <-sc.resume:
			return nil
		case <-sc.abort:
			return errStepCursorClosed
		}
	})

	if err != nil {
		if err != errStepCursorClosed {
			r.cfg.Logger.Printf("runner: scan %d aborted mid-step: %v", scanID, err)
		}
		sc.events <- StepEvent{Done: true}
		return
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
		r.running = false
	}
	r.pending = r.hist.Append(newState)

	sc.events <- StepEvent{Done: true}
}

// Next blocks until the scan reaches its next rung boundary or
// completes. Calling Next again after a Done event panics.
func (sc *StepCursor) Next() StepEvent {
	if sc.finished {
		panic("runner: StepCursor.Next called after scan completed")
	}
	if sc.started {
		sc.resume <- struct{}{}
	}
	sc.started = true
	ev := <-sc.events
	if ev.Done {
		sc.finished = true
		sc.r.mu.Unlock()
	}
	return ev
}

// Close abandons a cursor before exhaustion, discarding the in-progress
// scan without committing any of its writes and releasing the Runner's
// step mutex. A no-op if the cursor already ran to completion.
func (sc *StepCursor) Close() {
	if sc.finished {
		return
	}
	close(sc.abort)
	// Drain any event the goroutine is (or becomes) blocked sending —
	// a program with no rungs left to yield from still sends a final
	// Done event unconditionally once it reaches commit.
	for {
		select {
		case <-sc.done:
			sc.finished = true
			sc.r.mu.Unlock()
			return
		case <-sc.events:
		}
	}
}
