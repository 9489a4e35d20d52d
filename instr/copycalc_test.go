// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"testing"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

func TestCopyClampsInsteadOfWrapping(t *testing.T) {
	r := tag.NewRegistry()
	dst := r.Int("DS1", 0, false)
	ctx := newCtx(nil)
	c := Copy{Source: expr.Literal{Value: value.NewReal(40000)}, Target: dst}
	if err := c.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("DS1", value.Value{}).AsInt(); got != 32767 {
		t.Errorf("Copy(40000 -> INT) = %d, want 32767 (saturated)", got)
	}
}

func TestCalcWrapsInsteadOfClamping(t *testing.T) {
	r := tag.NewRegistry()
	dst := r.Int("DS1", 0, false)
	ctx := newCtx(nil)
	c := Calc{Source: expr.Literal{Value: value.NewReal(40000)}, Target: dst}
	if err := c.Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if got := ctx.GetTag("DS1", value.Value{}).AsInt(); got != -25536 {
		t.Errorf("Calc(40000 -> INT) = %d, want -25536 (wrapped)", got)
	}
}

func TestCopyDivideByZeroRaisesFault(t *testing.T) {
	r := tag.NewRegistry()
	dst := r.Real("DS1", 0, false)
	ctx := newCtx(nil)
	div := expr.Binary{Op: expr.Div, L: expr.Literal{Value: value.NewReal(1)}, R: expr.Literal{Value: value.NewReal(0)}}
	c := Copy{Source: div, Target: dst}
	if err := c.Execute(ctx, true); err != nil {
		t.Fatalf("Execute should absorb divide-by-zero, got err: %v", err)
	}
	if !ctx.GetTag(sysfunc.FaultDivisionError, value.NewBool(false)).AsBool() {
		t.Errorf("fault.division_error not raised")
	}
}
