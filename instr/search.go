// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// SearchMode selects numeric ordering-aware comparison or sliding
// text-window matching when scanning Range for a match (spec.md
// 4.3.6).
type SearchMode int

const (
	SearchNumeric SearchMode = iota
	SearchText
)

// Search scans Range in order for the first element satisfying Op
// against Target (SearchNumeric) or the first window of len(TargetText)
// CHAR tags equal/unequal to TargetText (SearchText, Op restricted to
// Eq/Ne), publishing Found and the 1-based Index (-1 on a miss). On a
// false rung it is a pure no-op, preserving the previous outputs
// (spec.md 4.3.6). Oneshot restricts the scan to firing once per
// rising rung edge instead of every enabled scan; Continuous resumes
// the next scan from max(1, previous Index+1) instead of restarting
// at the first element, with Index == -1 meaning the range is
// exhausted and no further scan is attempted.
type Search struct {
	Range      RangeSource
	Op         cond.CompareOp
	Target     expr.Expr // SearchNumeric
	TargetText string    // SearchText, must be non-empty
	Mode       SearchMode
	Continuous bool
	Found      tag.Tag // BOOL
	Index      tag.Tag // INT
	Oneshot    bool
	Loc        string
}

func (s Search) RungGated() bool { return true }

func (s Search) ClearOneshot(ctx *scanctx.Context) { clearOneshot(ctx, s.Loc) }

func (s Search) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	if s.Oneshot && !oneshotGate(ctx, s.Loc, enabled) {
		return nil
	}
	rr, err := s.Range.Resolve(ctx)
	if err != nil {
		return err
	}
	tags := rr.Tags()

	start := 1
	if s.Continuous {
		prev := int(ctx.GetTag(s.Index.Name(), s.Index.Default()).AsInt())
		if prev == -1 {
			return nil
		}
		if start = prev + 1; start < 1 {
			start = 1
		}
	}

	var idx int
	if s.Mode == SearchText {
		idx, err = s.searchText(ctx, tags, start)
	} else {
		idx, err = s.searchNumeric(ctx, tags, start)
	}
	if err != nil {
		return err
	}

	if err := ctx.SetTag(s.Found.Name(), value.NewBool(idx != -1)); err != nil {
		return err
	}
	return ctx.SetTag(s.Index.Name(), value.NewInt(int16(idx)))
}

// searchNumeric returns the 1-based index of the first tag in
// [start, len(tags)] satisfying Op against Target, or -1 on a miss.
func (s Search) searchNumeric(ctx *scanctx.Context, tags []tag.Tag, start int) (int, error) {
	tv, err := s.Target.Eval(ctx)
	if err != nil {
		return -1, err
	}
	for i := start; i <= len(tags); i++ {
		v := ctx.GetTag(tags[i-1].Name(), tags[i-1].Default())
		less, equal, ok := value.Compare(v, tv)
		if !ok {
			continue
		}
		if compareMatches(s.Op, less, equal) {
			return i, nil
		}
	}
	return -1, nil
}

// searchText slides a len(TargetText)-wide window of CHAR tags over
// [start, len(tags)], returning the 1-based index of the first window
// whose characters equal (Op == Eq) or differ from (Op == Ne)
// TargetText byte-for-byte, or -1 if none does (including an empty
// range or an empty TargetText, both of which are a miss).
func (s Search) searchText(ctx *scanctx.Context, tags []tag.Tag, start int) (int, error) {
	w := len(s.TargetText)
	if w == 0 {
		return -1, nil
	}
	for i := start; i+w-1 <= len(tags); i++ {
		match := true
		for j := 0; j < w; j++ {
			c, present := ctx.GetTag(tags[i-1+j].Name(), tags[i-1+j].Default()).AsChar()
			if !present || c != s.TargetText[j] {
				match = false
				break
			}
		}
		if match == (s.Op != cond.Ne) {
			return i, nil
		}
	}
	return -1, nil
}

// compareMatches applies op to a value.Compare result, mirroring
// cond.Compare's CompareOp switch.
func compareMatches(op cond.CompareOp, less, equal bool) bool {
	switch op {
	case cond.Eq:
		return equal
	case cond.Ne:
		return !equal
	case cond.Lt:
		return less
	case cond.Le:
		return less || equal
	case cond.Gt:
		return !less && !equal
	case cond.Ge:
		return !less
	default:
		return false
	}
}
