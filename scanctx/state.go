// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package scanctx implements the Scan Context (spec.md 4.1): a
// per-scan transactional write buffer over an immutable committed
// State (spec.md 3.3).
package scanctx

import "github.com/aclements/go-ladder/value"

// State is an immutable snapshot (spec.md 3.3). Snapshots are never
// mutated after commit; forward evolution produces a new State that
// structurally shares unchanged tag/memory data with its parent.
type State struct {
	ScanID    uint64
	Timestamp float64
	tags      *PMap[value.Value]
	memory    *PMap[any]
}

// NewState builds the initial snapshot (ScanID=0, Timestamp=0) from a
// flat map of tag defaults.
func NewState(tags map[string]value.Value) *State {
	var base *PMap[value.Value]
	return &State{tags: base.With(tags)}
}

// GetTag returns the tag's value in this snapshot, or def if absent.
func (s *State) GetTag(name string, def value.Value) value.Value {
	if s == nil {
		return def
	}
	if v, ok := s.tags.Get(name); ok {
		return v
	}
	return def
}

// GetMemory returns the engine-private memory value at key, or def.
func (s *State) GetMemory(key string, def any) any {
	if s == nil {
		return def
	}
	if v, ok := s.memory.Get(key); ok {
		return v
	}
	return def
}

// AllTags materializes every tag value in the snapshot. Used by
// history.Diff and export, not by the hot scan path.
func (s *State) AllTags() map[string]value.Value {
	return s.tags.Flatten()
}

// AllMemory materializes every engine-private memory entry.
func (s *State) AllMemory() map[string]any {
	return s.memory.Flatten()
}

// withWrites derives a new State from s with tag/memory writes
// applied, at the given scanID/timestamp. Used by Context.Commit.
func (s *State) withWrites(scanID uint64, timestamp float64, tagWrites map[string]value.Value, memWrites map[string]any) *State {
	return &State{
		ScanID:    scanID,
		Timestamp: timestamp,
		tags:      s.tags.With(tagWrites),
		memory:    s.memory.With(memWrites),
	}
}
