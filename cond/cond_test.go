// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cond

import (
	"testing"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

func TestDirectNegated(t *testing.T) {
	r := tag.NewRegistry()
	button := r.Bool("Button", false, false)
	ctx := scanctx.New(scanctx.NewState(map[string]value.Value{"Button": value.NewBool(true)}), nil)

	if ok, _ := (Direct{button}).Eval(ctx); !ok {
		t.Errorf("Direct(true) = false, want true")
	}
	if ok, _ := (Negated{button}).Eval(ctx); ok {
		t.Errorf("Negated(true) = true, want false")
	}
}

func TestRisingEdge(t *testing.T) {
	r := tag.NewRegistry()
	btn := r.Bool("Button", false, false)
	s := scanctx.NewState(map[string]value.Value{"Button": value.NewBool(false)})

	// Scan 1: Button false -> false, no edge, no prior prev.
	ctx := scanctx.New(s, nil)
	if ok, _ := (RisingEdge{btn}).Eval(ctx); ok {
		t.Errorf("scan1: RisingEdge = true, want false")
	}
	s = ctx.Commit(1)

	// Scan 2: Button transitions to true -> rising edge fires.
	ctx2 := scanctx.New(s, nil)
	ctx2.SetTag("Button", value.NewBool(true))
	if ok, _ := (RisingEdge{btn}).Eval(ctx2); !ok {
		t.Errorf("scan2: RisingEdge = false, want true")
	}
	s = ctx2.Commit(1)

	// Scan 3: Button stays true -> no edge.
	ctx3 := scanctx.New(s, nil)
	ctx3.SetTag("Button", value.NewBool(true))
	if ok, _ := (RisingEdge{btn}).Eval(ctx3); ok {
		t.Errorf("scan3: RisingEdge = true, want false")
	}
}

func TestCompareMismatchedTypesFalse(t *testing.T) {
	ctx := scanctx.New(scanctx.NewState(nil), nil)
	c := Compare{Op: Eq, L: expr.Literal{Value: value.NewBool(true)}, R: expr.Literal{Value: value.NewChar('a', true)}}
	ok, err := c.Eval(ctx)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if ok {
		t.Errorf("mismatched-type Compare = true, want false")
	}
}

func TestAllAnyShortCircuit(t *testing.T) {
	ctx := scanctx.New(scanctx.NewState(nil), nil)
	trueC := Compare{Op: Eq, L: expr.Literal{Value: value.NewInt(1)}, R: expr.Literal{Value: value.NewInt(1)}}
	falseC := Compare{Op: Eq, L: expr.Literal{Value: value.NewInt(1)}, R: expr.Literal{Value: value.NewInt(2)}}

	if ok, _ := (All{[]Cond{trueC, falseC}}).Eval(ctx); ok {
		t.Errorf("All[true,false] = true, want false")
	}
	if ok, _ := (Any{[]Cond{falseC, trueC}}).Eval(ctx); !ok {
		t.Errorf("Any[false,true] = false, want true")
	}
}
