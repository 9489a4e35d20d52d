// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/scanctx"
)

// ForLoop runs Body max(0, int(Count)) times within a single scan
// (spec.md 4.3.10). Unlike most compound instructions it is
// always-execute: on a false rung, Body still runs once with
// enabled=false so inner reset/one-shot semantics fire exactly as
// they would on any other rung-false scan, rather than being skipped
// outright. ForLoop does not nest: Body must not itself contain a
// ForLoop (enforced by the validation walker, package walk, not here).
type ForLoop struct {
	Count expr.Expr
	Body  []Instruction
}

func (f ForLoop) RungGated() bool { return false }

func (f ForLoop) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return runBodyOnce(ctx, f.Body, false)
	}
	cv, err := f.Count.Eval(ctx)
	if err != nil {
		return err
	}
	n := int(cv.AsFloat())
	if n < 0 {
		n = 0
	}
	for i := 0; i < n; i++ {
		if err := runBodyOnce(ctx, f.Body, true); err != nil {
			return err
		}
	}
	return nil
}

// runBodyOnce applies the same rung-gated-vs-always-execute dispatch
// contract used by package rung (spec.md 4.4) to a ForLoop's body,
// since the body is evaluated directly rather than through a Program.
func runBodyOnce(ctx *scanctx.Context, body []Instruction, enabled bool) error {
	for _, it := range body {
		if it.RungGated() {
			if !enabled {
				if oa, ok := it.(OneshotAware); ok {
					oa.ClearOneshot(ctx)
				}
				continue
			}
			if err := it.Execute(ctx, true); err != nil {
				return err
			}
			continue
		}
		if err := it.Execute(ctx, enabled); err != nil {
			return err
		}
	}
	return nil
}
