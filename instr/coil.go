// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Out drives Target (or, if Range is non-empty, every tag in Range)
// to enabled's boolean value (spec.md 4.3.1). It is the one coil that
// must still run its logic when the rung is false, since spec.md 4.4
// requires rung-gated Out coils to drive their targets to the type
// default on rung-false; RungGated therefore reports false here even
// though Out is conceptually rung-gated, so the evaluator always
// calls Execute and lets Out handle both branches itself.
type Out struct {
	Target  tag.Tag
	Range   []tag.Tag
	Oneshot bool
	Loc     string
}

func (o Out) RungGated() bool { return false }

func (o Out) targets() []tag.Tag {
	if len(o.Range) > 0 {
		return o.Range
	}
	return []tag.Tag{o.Target}
}

func (o Out) write(ctx *scanctx.Context, v bool) error {
	for _, t := range o.targets() {
		if err := ctx.SetTag(t.Name(), value.NewBool(v)); err != nil {
			return err
		}
	}
	return nil
}

func (o Out) Execute(ctx *scanctx.Context, enabled bool) error {
	if !o.Oneshot {
		return o.write(ctx, enabled)
	}
	fire := oneshotGate(ctx, o.Loc, enabled)
	if !enabled {
		return o.write(ctx, false)
	}
	if !fire {
		return nil
	}
	return o.write(ctx, true)
}

func (o Out) ClearOneshot(ctx *scanctx.Context) { clearOneshot(ctx, o.Loc) }

// Latch sets Target true while enabled; it is a pure no-op on a false
// rung (spec.md 4.3.1: "disabled -> no-op").
type Latch struct{ Target tag.Tag }

func (l Latch) RungGated() bool { return true }

func (l Latch) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	return ctx.SetTag(l.Target.Name(), value.NewBool(true))
}

// Reset drives Target to its type default while enabled; disabled is
// a no-op, symmetric to Latch.
type Reset struct{ Target tag.Tag }

func (r Reset) RungGated() bool { return true }

func (r Reset) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	return ctx.SetTag(r.Target.Name(), value.Default(r.Target.Kind()))
}
