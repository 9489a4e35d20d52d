// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"testing"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

func TestSearchFindsFirstMatch(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 4, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", 0, false)

	ctx := newCtx(map[string]value.Value{
		"V1": value.NewInt(1), "V2": value.NewInt(9), "V3": value.NewInt(9), "V4": value.NewInt(4),
	})
	s := Search{Range: StaticRange{block.Select(1, 4)}, Target: expr.Literal{Value: value.NewInt(9)}, Found: found, Index: idx}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if !ctx.GetTag("Found", value.Value{}).AsBool() {
		t.Errorf("Found = false, want true")
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 2 {
		t.Errorf("Idx = %d, want 2 (first match)", got)
	}
}

func TestSearchPreservesOutputsWhenDisabled(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 2, nil, false, nil)
	found := r.Bool("Found", true, false)
	idx := r.Int("Idx", 5, false)

	ctx := newCtx(map[string]value.Value{"Found": value.NewBool(true), "Idx": value.NewInt(5)})
	s := Search{Range: StaticRange{block.Select(1, 2)}, Target: expr.Literal{Value: value.NewInt(999)}, Found: found, Index: idx}
	if err := s.Execute(ctx, false); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 5 {
		t.Errorf("Idx changed on disabled scan: got %d, want 5 (preserved)", got)
	}
}

func TestSearchMissWritesIndexNegativeOne(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 3, nil, false, nil)
	found := r.Bool("Found", true, false)
	idx := r.Int("Idx", 0, false)

	ctx := newCtx(map[string]value.Value{"V1": value.NewInt(1), "V2": value.NewInt(2), "V3": value.NewInt(3)})
	s := Search{Range: StaticRange{block.Select(1, 3)}, Op: cond.Eq, Target: expr.Literal{Value: value.NewInt(999)}, Found: found, Index: idx}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if ctx.GetTag("Found", value.Value{}).AsBool() {
		t.Errorf("Found = true, want false on a miss")
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != -1 {
		t.Errorf("Idx = %d, want -1 on a miss", got)
	}
}

func TestSearchGreaterThanToken(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 4, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", 0, false)

	ctx := newCtx(map[string]value.Value{
		"V1": value.NewInt(1), "V2": value.NewInt(2), "V3": value.NewInt(9), "V4": value.NewInt(10),
	})
	s := Search{Range: StaticRange{block.Select(1, 4)}, Op: cond.Gt, Target: expr.Literal{Value: value.NewInt(5)}, Found: found, Index: idx}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 3 {
		t.Errorf("Idx = %d, want 3 (first value > 5)", got)
	}
}

func TestSearchContinuousResumesAfterPreviousMatch(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 4, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", 2, false) // previous match landed on V2

	ctx := newCtx(map[string]value.Value{
		"V1": value.NewInt(9), "V2": value.NewInt(9), "V3": value.NewInt(1), "V4": value.NewInt(9), "Idx": value.NewInt(2),
	})
	s := Search{
		Range: StaticRange{block.Select(1, 4)}, Op: cond.Eq, Target: expr.Literal{Value: value.NewInt(9)},
		Continuous: true, Found: found, Index: idx,
	}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 4 {
		t.Errorf("Idx = %d, want 4 (resumed scan skips V1/V2, V3 doesn't match)", got)
	}
}

func TestSearchContinuousExhaustedSkipsRescan(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 2, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", -1, false)

	ctx := newCtx(map[string]value.Value{"V1": value.NewInt(9), "V2": value.NewInt(9), "Idx": value.NewInt(-1), "Found": value.NewBool(false)})
	s := Search{
		Range: StaticRange{block.Select(1, 2)}, Op: cond.Eq, Target: expr.Literal{Value: value.NewInt(9)},
		Continuous: true, Found: found, Index: idx,
	}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != -1 {
		t.Errorf("Idx = %d, want -1 (exhausted continuous search must not rescan)", got)
	}
}

func TestSearchContinuousRestartsAfterMiss(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "V", value.Int, 1, 2, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", 0, false) // result == 0: restart from the first element

	ctx := newCtx(map[string]value.Value{"V1": value.NewInt(9), "V2": value.NewInt(1), "Idx": value.NewInt(0)})
	s := Search{
		Range: StaticRange{block.Select(1, 2)}, Op: cond.Eq, Target: expr.Literal{Value: value.NewInt(9)},
		Continuous: true, Found: found, Index: idx,
	}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 1 {
		t.Errorf("Idx = %d, want 1 (result==0 restarts from the first element)", got)
	}
}

func TestSearchTextSlidesWindowForMultiCharTarget(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "C", value.Char, 1, 5, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", 0, false)

	ctx := newCtx(map[string]value.Value{
		"C1": value.NewChar('x', true), "C2": value.NewChar('h', true), "C3": value.NewChar('i', true),
		"C4": value.NewChar('!', true), "C5": value.NewChar(0, false),
	})
	s := Search{
		Range: StaticRange{block.Select(1, 5)}, Mode: SearchText, Op: cond.Eq, TargetText: "hi",
		Found: found, Index: idx,
	}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if !ctx.GetTag("Found", value.Value{}).AsBool() {
		t.Errorf("Found = false, want true")
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 2 {
		t.Errorf("Idx = %d, want 2 (window \"hi\" starts at C2)", got)
	}
}

func TestSearchTextNotEqualFindsFirstMismatch(t *testing.T) {
	r := tag.NewRegistry()
	block := tag.NewBlock(r, "C", value.Char, 1, 3, nil, false, nil)
	found := r.Bool("Found", false, false)
	idx := r.Int("Idx", 0, false)

	ctx := newCtx(map[string]value.Value{
		"C1": value.NewChar('a', true), "C2": value.NewChar('a', true), "C3": value.NewChar('b', true),
	})
	s := Search{
		Range: StaticRange{block.Select(1, 3)}, Mode: SearchText, Op: cond.Ne, TargetText: "a",
		Found: found, Index: idx,
	}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != 3 {
		t.Errorf("Idx = %d, want 3 (first window not equal to target)", got)
	}
}

func TestSearchTextEmptyRangeIsMiss(t *testing.T) {
	found := tag.NewRegistry().Bool("Found", true, false)
	idx := tag.NewRegistry().Int("Idx", 0, false)

	ctx := newCtx(map[string]value.Value{})
	s := Search{
		Range: StaticRange{tag.NewBlockRange(nil)}, Mode: SearchText, Op: cond.Eq, TargetText: "hi",
		Found: found, Index: idx,
	}
	if err := s.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if ctx.GetTag("Found", value.Value{}).AsBool() {
		t.Errorf("Found = true, want false on an empty range")
	}
	if got := ctx.GetTag("Idx", value.Value{}).AsInt(); got != -1 {
		t.Errorf("Idx = %d, want -1 on an empty range", got)
	}
}
