// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import (
	"testing"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

func commit(s *scanctx.State, writes map[string]value.Value, dt float64) *scanctx.State {
	ctx := scanctx.New(s, nil)
	for k, v := range writes {
		ctx.SetTag(k, v)
	}
	return ctx.Commit(dt)
}

func TestAtReturnsRetainedScan(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(0)})
	h := New(0, seed)
	s1 := commit(seed, map[string]value.Value{"A": value.NewInt(1)}, 1)
	h.Append(s1)

	got, ok := h.At(1)
	if !ok || got.ScanID != 1 {
		t.Fatalf("At(1) = %v, %v", got, ok)
	}
}

func TestEvictionRemovesOldestFirst(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(0)})
	h := New(2, seed) // retains at most 2: seed is entry 0

	s := seed
	for i := 0; i < 5; i++ {
		s = commit(s, map[string]value.Value{"A": value.NewInt(int16(i))}, 1)
		h.Append(s)
	}
	if _, ok := h.At(0); ok {
		t.Errorf("At(0) still retained after eviction")
	}
	if _, ok := h.At(5); !ok {
		t.Errorf("At(5) should be the retained tip")
	}
}

func TestDiffEmptyForSameScan(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(1)})
	d := Diff(seed, seed)
	if len(d) != 0 {
		t.Errorf("Diff(a,a) = %v, want empty", d)
	}
}

func TestDiffReportsChangedTags(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(1), "B": value.NewInt(2)})
	s1 := commit(seed, map[string]value.Value{"A": value.NewInt(99)}, 1)
	d := Diff(seed, s1)
	if len(d) != 1 {
		t.Fatalf("Diff = %v, want exactly one changed tag", d)
	}
	e, ok := d["A"]
	if !ok {
		t.Fatal("expected A in diff")
	}
	if e.Old == nil || e.Old.AsInt() != 1 {
		t.Errorf("Old = %v, want 1", e.Old)
	}
	if e.New == nil || e.New.AsInt() != 99 {
		t.Errorf("New = %v, want 99", e.New)
	}
}

func TestMonitorFiresOnlyOnChange(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(1)})
	h := New(0, seed)
	var fired int
	h.Monitor("A", func(cur, prev value.Value) { fired++ })

	s1 := commit(seed, map[string]value.Value{"A": value.NewInt(1)}, 1) // unchanged
	h.Append(s1)
	s2 := commit(s1, map[string]value.Value{"A": value.NewInt(2)}, 1) // changed
	h.Append(s2)

	if fired != 1 {
		t.Errorf("monitor fired %d times, want 1", fired)
	}
}

func TestWhenPauseStopsAtFirstMatch(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(0)})
	h := New(0, seed)
	h.When(func(s *scanctx.State) bool { return s.GetTag("A", value.Value{}).AsInt() >= 2 }).Pause()

	s := seed
	var pause *Pause
	for i := 1; i <= 5 && pause == nil; i++ {
		s = commit(s, map[string]value.Value{"A": value.NewInt(int16(i))}, 1)
		pause = h.Append(s)
	}
	if pause == nil {
		t.Fatal("expected a pause")
	}
	if pause.ScanID != 2 {
		t.Errorf("paused at scan %d, want 2", pause.ScanID)
	}
}

func TestSnapshotLabelFindable(t *testing.T) {
	seed := scanctx.NewState(map[string]value.Value{"A": value.NewInt(0)})
	h := New(0, seed)
	h.When(func(s *scanctx.State) bool { return s.GetTag("A", value.Value{}).AsInt() == 3 }).Snapshot("hit")

	s := seed
	for i := 1; i <= 3; i++ {
		s = commit(s, map[string]value.Value{"A": value.NewInt(int16(i))}, 1)
		h.Append(s)
	}
	id, ok := h.Find("hit")
	if !ok || id != 3 {
		t.Errorf("Find(hit) = %d, %v, want 3, true", id, ok)
	}
}
