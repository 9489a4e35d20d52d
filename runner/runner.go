// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/aclements/go-ladder/history"
	"github.com/aclements/go-ladder/rung"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Runner drives a ladder program's scan cycle (spec.md 4, 5). Only one
// step may execute at a time; Step/Run/... serialize on mu the same
// way weave.Scheduler.Run refuses to let two schedulers be active
// together ("only one weave.Scheduler can be active at a time").
type Runner struct {
	mu sync.Mutex

	cfg      Config
	program  *rung.Program
	registry *tag.Registry
	sys      *sysfunc.Runtime
	hist     *history.History
	guard    scanctx.WriteGuard

	state   *scanctx.State
	running bool
	lastTip time.Time // wall clock of the previous step, Realtime mode only
	pending *history.Pause

	patches []scanctx.Write
	forces  map[string]value.Value
}

// New builds a Runner for program, using registry to look up each
// tag's default value and retentive flag on a mode transition. The
// Runner starts in Stop mode with a freshly reset snapshot.
func New(program *rung.Program, registry *tag.Registry, opts ...Option) *Runner {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	r := &Runner{
		cfg:      cfg,
		program:  program,
		registry: registry,
		sys:      sysfunc.NewRuntime(cfg.Identity),
		guard:    sysfunc.WriteGuard(),
		forces:   make(map[string]value.Value),
	}
	r.state = r.resetSnapshot(nil, retentiveOnly)
	r.hist = history.New(cfg.HistoryLimit, r.state)
	return r
}

// retentiveOnly is the Stop->Run keep predicate (spec.md 4.5): only a
// tag marked Retentive survives, every other tag resets to default.
func retentiveOnly(t tag.Tag) bool { return t.Retentive() }

// resetSnapshot builds a fresh State from the registry's defaults,
// preserving each tag for which keep(tag) reports true from cur's
// current value (or its default if cur is nil). Stop->Run uses
// retentiveOnly; Reboot uses a predicate keyed on BatteryPresent alone
// (spec.md 4.5: a power loss has no per-tag retentive carve-out).
func (r *Runner) resetSnapshot(cur *scanctx.State, keep func(tag.Tag) bool) *scanctx.State {
	tags := make(map[string]value.Value)
	for _, name := range r.registry.Names() {
		t, _ := r.registry.Lookup(name)
		if cur != nil && keep(t) {
			tags[name] = cur.GetTag(name, t.Default())
		} else {
			tags[name] = t.Default()
		}
	}
	return scanctx.NewState(tags)
}

// History returns the Runner's History & Debug Engine handle, safe for
// concurrent read access from inspection consumers (spec.md 5).
func (r *Runner) History() *history.History { return r.hist }

// State returns the most recently committed snapshot.
func (r *Runner) State() *scanctx.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Running reports whether the Runner is currently in Run mode.
func (r *Runner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// Start performs a Stop->Run transition: non-retentive tags reset to
// default, retentive tags preserve their current value, and history,
// pending patches, forces, and debug-trace caches all clear (spec.md
// 4.5). A no-op if already running. Any execution call (Step/Run/...)
// performs this automatically, so callers rarely need to call it
// directly.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.startLocked()
}

func (r *Runner) startLocked() {
	if r.running {
		return
	}
	// resetSnapshot only carries forward registry-declared tags, so
	// system points (including the latched fault.math_operation_error)
	// are already absent from the new snapshot; sysfunc republishes
	// them fresh on the next scan's OnScanStart.
	r.state = r.resetSnapshot(r.state, retentiveOnly)
	r.hist.Reset(r.state)
	r.patches = nil
	r.forces = make(map[string]value.Value)
	r.running = true
	r.lastTip = time.Time{}
}

// Stop halts the scan cycle. The last committed snapshot remains
// readable via State/History; the next execution call resumes with a
// Stop->Run transition.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
}

// Reboot simulates a power cycle (spec.md 4.5): scope matches
// Stop->Run except every tag is preserved if BatteryPresent is true,
// or every tag resets to default if it is false (there is no
// per-tag Retentive carve-out during a power loss).
func (r *Runner) Reboot() {
	r.mu.Lock()
	defer r.mu.Unlock()
	batteryPresent := r.cfg.BatteryPresent
	r.state = r.resetSnapshot(r.state, func(tag.Tag) bool { return batteryPresent })
	r.hist.Reset(r.state)
	r.patches = nil
	r.forces = make(map[string]value.Value)
	r.running = true
	r.lastTip = time.Time{}
}

// SetBatteryPresent updates whether a future Reboot preserves tag
// state; sys.battery_present itself is republished at the start of the
// next scan, like every other system point.
func (r *Runner) SetBatteryPresent(present bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cfg.BatteryPresent = present
}

// Patch queues a one-shot write applied before the very next scan's
// rungs evaluate, then discarded (spec.md 4.1: "patch(tags)"). Writes
// to reserved system tags are rejected up front rather than silently
// dropped at apply time.
func (r *Runner) Patch(writes map[string]value.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name := range writes {
		if err := r.guard(name); err != nil {
			return fmt.Errorf("runner: patch %s: %w", name, err)
		}
	}
	for name, v := range writes {
		r.patches = append(r.patches, scanctx.Write{Name: name, Value: v})
	}
	return nil
}

// AddForce installs a persistent forced value for name, applied both
// before and after every scan's rungs evaluate until removed (spec.md
// 4.1: "force/add_force/remove_force/clear_forces").
func (r *Runner) AddForce(name string, v value.Value) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.guard(name); err != nil {
		return fmt.Errorf("runner: force %s: %w", name, err)
	}
	r.forces[name] = v
	return nil
}

// RemoveForce lifts a single forced tag.
func (r *Runner) RemoveForce(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forces, name)
}

// ClearForces lifts every forced tag.
func (r *Runner) ClearForces() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forces = make(map[string]value.Value)
}

func (r *Runner) applyForcesLocked(ctx *scanctx.Context) {
	for name, v := range r.forces {
		ctx.SetTag(name, v)
	}
}
