// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cond implements the Condition Layer (spec.md 3.5): boolean
// predicates evaluated against a Scan Context, with short-circuit
// composition. Grounded on rtcheck/order.go's boolean path-composition
// logic, generalized from lock-set accumulation to rung-power AND/OR.
package cond

import (
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Cond is the closed set of condition tree nodes.
type Cond interface {
	Eval(ctx *scanctx.Context) (bool, error)
}

// Direct is boolean-truthy on tag's current value.
type Direct struct{ Tag tag.Tag }

func (c Direct) Eval(ctx *scanctx.Context) (bool, error) {
	return ctx.GetTag(c.Tag.Name(), c.Tag.Default()).Truthy(), nil
}

// Negated is the logical complement of Direct.
type Negated struct{ Tag tag.Tag }

func (c Negated) Eval(ctx *scanctx.Context) (bool, error) {
	return !ctx.GetTag(c.Tag.Name(), c.Tag.Default()).Truthy(), nil
}

// IntTruthy is "int tag != 0", named distinctly from Direct per
// spec.md 3.5 even though both delegate to Value.Truthy.
type IntTruthy struct{ Tag tag.Tag }

func (c IntTruthy) Eval(ctx *scanctx.Context) (bool, error) {
	return ctx.GetTag(c.Tag.Name(), c.Tag.Default()).Truthy(), nil
}

func prevKey(name string) string { return "_prev:" + name }

// RisingEdge fires true exactly on the scan where tag's truthiness
// transitions false->true. The previous truthiness is held in memory
// key _prev:<tag> (default false, spec.md 4.2) and refreshed on every
// evaluation so the next scan sees this scan's value.
type RisingEdge struct{ Tag tag.Tag }

func (c RisingEdge) Eval(ctx *scanctx.Context) (bool, error) {
	cur := ctx.GetTag(c.Tag.Name(), c.Tag.Default()).Truthy()
	key := prevKey(c.Tag.Name())
	prev, _ := ctx.GetMemory(key, false).(bool)
	ctx.SetMemory(key, cur)
	return cur && !prev, nil
}

// FallingEdge fires true exactly on the scan where tag's truthiness
// transitions true->false.
type FallingEdge struct{ Tag tag.Tag }

func (c FallingEdge) Eval(ctx *scanctx.Context) (bool, error) {
	cur := ctx.GetTag(c.Tag.Name(), c.Tag.Default()).Truthy()
	key := prevKey(c.Tag.Name())
	prev, _ := ctx.GetMemory(key, false).(bool)
	ctx.SetMemory(key, cur)
	return !cur && prev, nil
}

// CompareOp enumerates the comparison operators of spec.md 3.5.
type CompareOp int

const (
	Eq CompareOp = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Compare evaluates Op over two operands, each a tag, literal,
// indirect-ref, or expression (all expr.Expr implementations).
// Mismatched operand types compare false rather than faulting
// (spec.md 4.2).
type Compare struct {
	Op   CompareOp
	L, R expr.Expr
}

func (c Compare) Eval(ctx *scanctx.Context) (bool, error) {
	lv, err := c.L.Eval(ctx)
	if err != nil {
		return false, err
	}
	rv, err := c.R.Eval(ctx)
	if err != nil {
		return false, err
	}
	less, equal, ok := value.Compare(lv, rv)
	if !ok {
		return false, nil
	}
	switch c.Op {
	case Eq:
		return equal, nil
	case Ne:
		return !equal, nil
	case Lt:
		return less, nil
	case Le:
		return less || equal, nil
	case Gt:
		return !less && !equal, nil
	case Ge:
		return !less, nil
	default:
		panic("cond: unknown CompareOp")
	}
}

// All is logical AND over its conditions; it short-circuits on the
// first false.
type All struct{ Conds []Cond }

func (c All) Eval(ctx *scanctx.Context) (bool, error) {
	for _, sub := range c.Conds {
		ok, err := sub.Eval(ctx)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Any is logical OR over its conditions; it short-circuits on the
// first true.
type Any struct{ Conds []Cond }

func (c Any) Eval(ctx *scanctx.Context) (bool, error) {
	for _, sub := range c.Conds {
		ok, err := sub.Eval(ctx)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
