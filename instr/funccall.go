// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"fmt"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/ladderr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Func is the synchronous callback contract RunFunction invokes:
// named inputs in, named outputs out (spec.md 4.3.11). Implementations
// must return promptly and must not hand work to another goroutine
// that outlives the call; see NewRunFunction's Async guard.
type Func func(ins map[string]value.Value) (map[string]value.Value, error)

// EnabledFunc is RunEnabledFunction's callback contract: it also
// receives the rung-power flag, so a single callback can implement a
// scan-to-scan state machine (spec.md 4.3.11).
type EnabledFunc func(enabled bool, ins map[string]value.Value) (map[string]value.Value, error)

func evalIns(ctx *scanctx.Context, ins map[string]expr.Expr) (map[string]value.Value, error) {
	out := make(map[string]value.Value, len(ins))
	for name, e := range ins {
		v, err := e.Eval(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = v
	}
	return out, nil
}

func applyOuts(ctx *scanctx.Context, outs map[string]tag.Tag, vals map[string]value.Value, strict bool) error {
	for name, target := range outs {
		v, ok := vals[name]
		if !ok {
			if strict {
				return ladderr.New(ladderr.KindInvalidCallback, "RunFunction", fmt.Sprintf("missing declared output %q", name), nil)
			}
			continue
		}
		conv, _ := value.ConvertSaturating(v, target.Kind())
		if err := ctx.SetTag(target.Name(), conv); err != nil {
			return err
		}
	}
	return nil
}

// RunFunction is rung-gated: Fn is invoked once per rising rung edge
// when Oneshot is set, or once per enabled scan otherwise. Missing a
// declared output key in Fn's return is an error (spec.md 4.3.11).
type RunFunction struct {
	Fn      Func
	Ins     map[string]expr.Expr
	Outs    map[string]tag.Tag
	Oneshot bool
	Loc     string
	Async   bool // reject: coroutine/non-embeddable callbacks must not be wired in
}

// NewRunFunction validates the "reject async/non-embeddable callbacks"
// contract of spec.md 4.3.11 at construction time.
func NewRunFunction(fn Func, ins map[string]expr.Expr, outs map[string]tag.Tag, oneshot bool, loc string, async bool) (RunFunction, error) {
	if async {
		return RunFunction{}, ladderr.New(ladderr.KindInvalidCallback, "RunFunction", "async/coroutine callbacks are not embeddable", nil)
	}
	return RunFunction{Fn: fn, Ins: ins, Outs: outs, Oneshot: oneshot, Loc: loc}, nil
}

func (r RunFunction) RungGated() bool { return true }

func (r RunFunction) ClearOneshot(ctx *scanctx.Context) { clearOneshot(ctx, r.Loc) }

func (r RunFunction) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	if r.Oneshot && !oneshotGate(ctx, r.Loc, enabled) {
		return nil
	}
	ins, err := evalIns(ctx, r.Ins)
	if err != nil {
		return err
	}
	outs, err := r.Fn(ins)
	if err != nil {
		return err
	}
	return applyOuts(ctx, r.Outs, outs, true)
}

// RunEnabledFunction is always-execute: Fn runs every scan and
// receives the rung-power flag directly, for callbacks implementing
// their own scan-to-scan state machine (spec.md 4.3.11). Missing
// output keys are tolerated since a state machine may legitimately
// not produce every output on every scan.
type RunEnabledFunction struct {
	Fn   EnabledFunc
	Ins  map[string]expr.Expr
	Outs map[string]tag.Tag
}

func NewRunEnabledFunction(fn EnabledFunc, ins map[string]expr.Expr, outs map[string]tag.Tag, async bool) (RunEnabledFunction, error) {
	if async {
		return RunEnabledFunction{}, ladderr.New(ladderr.KindInvalidCallback, "RunEnabledFunction", "async/coroutine callbacks are not embeddable", nil)
	}
	return RunEnabledFunction{Fn: fn, Ins: ins, Outs: outs}, nil
}

func (r RunEnabledFunction) RungGated() bool { return false }

func (r RunEnabledFunction) Execute(ctx *scanctx.Context, enabled bool) error {
	ins, err := evalIns(ctx, r.Ins)
	if err != nil {
		return err
	}
	outs, err := r.Fn(enabled, ins)
	if err != nil {
		return err
	}
	return applyOuts(ctx, r.Outs, outs, false)
}
