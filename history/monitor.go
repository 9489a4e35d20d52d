// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import (
	"sync/atomic"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// monitor fires cb(current, previous) after each commit iff the named
// tag's value changed (spec.md 4.6).
type monitor struct {
	id  int
	tag string
	cb  func(current, previous value.Value)

	// disabled is accessed via atomic so Disable/Enable can be called
	// concurrently with Append's read without a full mutex round trip.
	disabled int32
}

func (m *monitor) enabled() bool { return atomic.LoadInt32(&m.disabled) == 0 }

// Monitor registers cb to fire after every commit where tag's value
// changed from the previous commit (spec.md 4.6).
func (h *History) Monitor(tag string, cb func(current, previous value.Value)) *MonitorHandle {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextMonitorID++
	m := &monitor{id: h.nextMonitorID, tag: tag, cb: cb}
	h.monitors = append(h.monitors, m)
	return &MonitorHandle{h: h, m: m}
}

// MonitorHandle lets a caller manage a registered monitor.
type MonitorHandle struct {
	h *History
	m *monitor
}

// ID returns the handle's stable identifier.
func (h *MonitorHandle) ID() int { return h.m.id }

// Remove unregisters the monitor; it will not fire again.
func (h *MonitorHandle) Remove() {
	h.h.mu.Lock()
	defer h.h.mu.Unlock()
	for i, m := range h.h.monitors {
		if m == h.m {
			h.h.monitors = append(h.h.monitors[:i], h.h.monitors[i+1:]...)
			return
		}
	}
}

// Enable resumes firing for a previously disabled monitor.
func (h *MonitorHandle) Enable() { atomic.StoreInt32(&h.m.disabled, 0) }

// Disable suspends firing without unregistering the monitor.
func (h *MonitorHandle) Disable() { atomic.StoreInt32(&h.m.disabled, 1) }

// breakpoint is a registered predicate under When(pred); Pause()
// and/or Snapshot(label) configure what happens when pred matches.
type breakpoint struct {
	pred  func(*scanctx.State) bool
	pause bool
	label string
}

// PredicateBuilder configures a breakpoint registered via When.
type PredicateBuilder struct {
	h    *History
	pred func(*scanctx.State) bool
}

// When begins registering a predicate breakpoint (spec.md 4.6).
func (h *History) When(pred func(*scanctx.State) bool) *PredicateBuilder {
	return &PredicateBuilder{h: h, pred: pred}
}

// Pause registers the predicate to halt run/run_for/run_until at the
// first post-commit snapshot where it returns true.
func (b *PredicateBuilder) Pause() *breakpoint {
	bp := &breakpoint{pred: b.pred, pause: true}
	b.h.mu.Lock()
	b.h.breakpoints = append(b.h.breakpoints, bp)
	b.h.mu.Unlock()
	return bp
}

// Snapshot registers the predicate to tag matching snapshots with
// label (deduped per scan_id), queryable via Find/FindAll, without
// pausing execution.
func (b *PredicateBuilder) Snapshot(label string) *breakpoint {
	bp := &breakpoint{pred: b.pred, label: label}
	b.h.mu.Lock()
	b.h.breakpoints = append(b.h.breakpoints, bp)
	b.h.mu.Unlock()
	return bp
}
