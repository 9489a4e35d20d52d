// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	r := tag.NewRegistry()
	r.Bool("LATCH", false, true)
	r.Dint("TOTAL", 0, true)
	r.Real("SCRATCH", 0, false) // non-retentive, excluded from the store

	state := scanctx.NewState(map[string]value.Value{
		"LATCH":   value.NewBool(true),
		"TOTAL":   value.NewDint(12345),
		"SCRATCH": value.NewReal(3.5),
	})

	path := filepath.Join(t.TempDir(), "retentive.json")
	store := Store{Path: path}
	if err := store.Save(r, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := store.Load(r)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 retentive entries, got %d: %+v", len(loaded), loaded)
	}
	if !loaded["LATCH"].AsBool() {
		t.Errorf("LATCH = %v, want true", loaded["LATCH"])
	}
	if loaded["TOTAL"].AsDint() != 12345 {
		t.Errorf("TOTAL = %v, want 12345", loaded["TOTAL"])
	}
	if _, ok := loaded["SCRATCH"]; ok {
		t.Errorf("SCRATCH should not be persisted (not retentive)")
	}
}

func TestStoreLoadRejectsSchemaMismatch(t *testing.T) {
	r1 := tag.NewRegistry()
	r1.Bool("A", false, true)
	state := scanctx.NewState(map[string]value.Value{"A": value.NewBool(true)})

	path := filepath.Join(t.TempDir(), "retentive.json")
	store := Store{Path: path}
	if err := store.Save(r1, state); err != nil {
		t.Fatalf("Save: %v", err)
	}

	r2 := tag.NewRegistry()
	r2.Bool("A", false, true)
	r2.Int("B", 0, true) // schema grew: hash must no longer match

	if _, err := store.Load(r2); err == nil {
		t.Errorf("expected schema mismatch error")
	}
}

func TestStoreSaveDoesNotLeaveTempFileBehind(t *testing.T) {
	r := tag.NewRegistry()
	r.Bool("A", false, true)
	state := scanctx.NewState(map[string]value.Value{"A": value.NewBool(true)})

	path := filepath.Join(t.TempDir(), "retentive.json")
	store := Store{Path: path}
	if err := store.Save(r, state); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Lstat(path + ".tmp"); err == nil {
		t.Errorf("temp file %s.tmp should have been renamed away", path)
	}
}
