// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"math"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Copy stores Source's value into Target using saturating conversion
// (spec.md 4.3.4, 8.6: "Copy always saturates"). A divide-by-zero
// while evaluating Source raises fault.division_error and leaves
// Target unchanged rather than propagating a hard error; a non-finite
// result raises fault.math_operation_error the same way.
type Copy struct {
	Source  expr.Expr
	Target  tag.Tag
	Oneshot bool
	Loc     string
}

func (c Copy) RungGated() bool { return true }

func (c Copy) ClearOneshot(ctx *scanctx.Context) { clearOneshot(ctx, c.Loc) }

func (c Copy) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	if c.Oneshot && !oneshotGate(ctx, c.Loc, enabled) {
		return nil
	}
	v, err := c.Source.Eval(ctx)
	if err != nil {
		if err == expr.ErrDivideByZero {
			sysfunc.SetFault(ctx, sysfunc.FaultDivisionError)
			return nil
		}
		return err
	}
	conv, _ := value.ConvertSaturating(v, c.Target.Kind())
	if conv.IsNonFinite() {
		sysfunc.SetFault(ctx, sysfunc.FaultMathOperationError)
		return nil
	}
	return ctx.SetTag(c.Target.Name(), conv)
}

// Calc stores Source's value into Target using modular-wrap
// conversion (spec.md 4.3.4, 8.6: "Calc always wraps modularly"),
// with the same fault-flag-and-skip behavior as Copy on division by
// zero or a non-finite intermediate result.
type Calc struct {
	Source  expr.Expr
	Target  tag.Tag
	Oneshot bool
	Loc     string
}

func (c Calc) RungGated() bool { return true }

func (c Calc) ClearOneshot(ctx *scanctx.Context) { clearOneshot(ctx, c.Loc) }

func (c Calc) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	if c.Oneshot && !oneshotGate(ctx, c.Loc, enabled) {
		return nil
	}
	v, err := c.Source.Eval(ctx)
	if err != nil {
		if err == expr.ErrDivideByZero {
			sysfunc.SetFault(ctx, sysfunc.FaultDivisionError)
			return nil
		}
		return err
	}
	if v.IsNonFinite() {
		sysfunc.SetFault(ctx, sysfunc.FaultMathOperationError)
		return nil
	}
	return ctx.SetTag(c.Target.Name(), wrapToKind(v, c.Target.Kind()))
}

func wrapToKind(v value.Value, k value.Kind) value.Value {
	switch k {
	case value.Bool:
		return value.NewBool(v.Truthy())
	case value.Int:
		return value.NewInt(value.WrapInt16(int64(math.Round(v.AsFloat()))))
	case value.Dint:
		return value.NewDint(value.WrapInt32(int64(math.Round(v.AsFloat()))))
	case value.Real:
		return value.NewReal(float32(v.AsFloat()))
	case value.Word:
		return value.NewWord(value.WrapWord(int64(math.Round(v.AsFloat()))))
	case value.Char:
		if v.Kind() == value.Char {
			return v
		}
		return value.NewChar(byte(int64(v.AsFloat())), true)
	default:
		panic("instr: wrapToKind on unknown Kind")
	}
}
