// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"github.com/aclements/go-ladder/history"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/value"
)

// Fork builds a new Runner running the same program and configuration
// against a copy of the snapshot retained at scanID, with its own
// clean history, pending patches/forces, and debug-trace caches
// (spec.md 4.6). The original Runner is left untouched and keeps
// running independently.
func (r *Runner) Fork(scanID uint64) (*Runner, error) {
	r.mu.Lock()
	seed, err := r.hist.Fork(scanID)
	cfg := r.cfg
	program := r.program
	registry := r.registry
	guard := r.guard
	r.mu.Unlock()
	if err != nil {
		return nil, err
	}

	fr := &Runner{
		cfg:      cfg,
		program:  program,
		registry: registry,
		sys:      sysfunc.NewRuntime(cfg.Identity),
		guard:    guard,
		state:    seed,
		// running starts true: Fork is a continuation for diagnostic
		// what-if exploration from the forked scan_id, not a fresh
		// Stop->Run transition, so seed's scan_id/tags carry over
		// untouched into the fork's first Step.
		running: true,
		forces:  make(map[string]value.Value),
	}
	fr.hist = history.New(cfg.HistoryLimit, fr.state)
	return fr, nil
}
