// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanctx

import (
	"errors"
	"testing"

	"github.com/aclements/go-ladder/ladderr"
	"github.com/aclements/go-ladder/value"
)

func TestReadAfterWrite(t *testing.T) {
	s := NewState(map[string]value.Value{"Light": value.NewBool(false)})
	ctx := New(s, nil)
	if got := ctx.GetTag("Light", value.NewBool(false)); got.AsBool() != false {
		t.Fatalf("initial GetTag(Light) = %v, want false", got)
	}
	if err := ctx.SetTag("Light", value.NewBool(true)); err != nil {
		t.Fatalf("SetTag: %v", err)
	}
	if got := ctx.GetTag("Light", value.NewBool(false)); got.AsBool() != true {
		t.Errorf("GetTag(Light) after SetTag = %v, want true", got)
	}
}

func TestCommitDoesNotMutatePrevious(t *testing.T) {
	s := NewState(map[string]value.Value{"Light": value.NewBool(false)})
	ctx := New(s, nil)
	ctx.SetTag("Light", value.NewBool(true))
	next := ctx.Commit(0.1)

	if got := s.GetTag("Light", value.NewBool(false)); got.AsBool() != false {
		t.Errorf("previous snapshot mutated: Light = %v, want false", got)
	}
	if got := next.GetTag("Light", value.NewBool(false)); got.AsBool() != true {
		t.Errorf("new snapshot: Light = %v, want true", got)
	}
	if next.ScanID != s.ScanID+1 {
		t.Errorf("ScanID = %d, want %d", next.ScanID, s.ScanID+1)
	}
	if next.Timestamp != s.Timestamp+0.1 {
		t.Errorf("Timestamp = %v, want %v", next.Timestamp, s.Timestamp+0.1)
	}
}

func TestSetTagGuardRejects(t *testing.T) {
	s := NewState(nil)
	guard := func(name string) error {
		if name == "sys.scan.count" {
			return errors.New("read-only")
		}
		return nil
	}
	ctx := New(s, guard)
	err := ctx.SetTag("sys.scan.count", value.NewDint(1))
	if !ladderr.Is(err, ladderr.KindReadOnlySystemTag) {
		t.Errorf("SetTag to reserved tag: err = %v, want KindReadOnlySystemTag", err)
	}
	if err := ctx.SetTag("Light", value.NewBool(true)); err != nil {
		t.Errorf("SetTag to writable tag failed: %v", err)
	}
}

func TestSetTagInternalBypassesGuard(t *testing.T) {
	s := NewState(nil)
	guard := func(name string) error { return errors.New("read-only") }
	ctx := New(s, guard)
	ctx.SetTagInternal("sys.scan.count", value.NewDint(5))
	if got := ctx.GetTag("sys.scan.count", value.NewDint(0)); got.AsDint() != 5 {
		t.Errorf("GetTag after SetTagInternal = %v, want 5", got)
	}
}

func TestSetTagsOrderingAndAtomicity(t *testing.T) {
	s := NewState(nil)
	ctx := New(s, nil)
	err := ctx.SetTags([]Write{
		{Name: "A", Value: value.NewInt(1)},
		{Name: "B", Value: value.NewInt(2)},
	})
	if err != nil {
		t.Fatalf("SetTags: %v", err)
	}
	if ctx.GetTag("A", value.NewInt(0)).AsInt() != 1 || ctx.GetTag("B", value.NewInt(0)).AsInt() != 2 {
		t.Errorf("SetTags did not apply both writes")
	}
}

func TestMemoryReadAfterWrite(t *testing.T) {
	s := NewState(nil)
	ctx := New(s, nil)
	ctx.SetMemory("_prev:Button", true)
	if got := ctx.GetMemory("_prev:Button", false); got != true {
		t.Errorf("GetMemory(_prev:Button) = %v, want true", got)
	}
	next := ctx.Commit(0)
	if got := next.GetMemory("_prev:Button", false); got != true {
		t.Errorf("committed GetMemory(_prev:Button) = %v, want true", got)
	}
	if got := s.GetMemory("_prev:Button", false); got != false {
		t.Errorf("previous snapshot memory mutated")
	}
}

func TestManyCommitsFlatten(t *testing.T) {
	// Exercise the PMap flatten threshold across many commits; the
	// result must still read back correctly regardless of internal
	// chain length (spec.md 8, invariant 1: step never mutates
	// history, only produces new snapshots).
	s := NewState(map[string]value.Value{"Acc": value.NewInt(0)})
	for i := 0; i < 100; i++ {
		ctx := New(s, nil)
		ctx.SetTag("Acc", value.NewInt(int16(i)))
		s = ctx.Commit(0.1)
	}
	if got := s.GetTag("Acc", value.NewInt(-1)).AsInt(); got != 99 {
		t.Errorf("after 100 commits, Acc = %d, want 99", got)
	}
	if s.ScanID != 100 {
		t.Errorf("ScanID = %d, want 100", s.ScanID)
	}
}
