// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package expr implements the Expression Layer (spec.md 3.4): lazy
// arithmetic/bitwise/math-function trees evaluated against a Scan
// Context. Node types are a closed set (sum type by interface
// implementation, not inheritance), matching the "tagged-enum
// dispatch" realization suggested by spec.md 9 and grounded on
// rtcheck/val.go's tree-shaped value computation.
package expr

import (
	"errors"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// ErrDivideByZero is returned by Eval when a /, //, or % node divides
// by zero (spec.md 4.3.4). Calc translates this into fault.division_error.
var ErrDivideByZero = errors.New("expr: divide by zero")

// Expr is the closed set of expression tree nodes.
type Expr interface {
	// Eval evaluates the expression against ctx. It never mutates
	// ctx beyond whatever reads ctx.GetTag itself performs (none).
	Eval(ctx *scanctx.Context) (value.Value, error)
}

// TagRef is a leaf referencing a tag's current value.
type TagRef struct {
	Tag tag.Tag
}

func (r TagRef) Eval(ctx *scanctx.Context) (value.Value, error) {
	return ctx.GetTag(r.Tag.Name(), r.Tag.Default()), nil
}

// IndirectTagRef is a leaf referencing Block[pointer] (spec.md 3.2).
type IndirectTagRef struct {
	Ref tag.IndirectRef
}

func (r IndirectTagRef) Eval(ctx *scanctx.Context) (value.Value, error) {
	t, err := r.Ref.Resolve(ctx)
	if err != nil {
		return value.Value{}, err
	}
	return ctx.GetTag(t.Name(), t.Default()), nil
}

// Literal is a leaf holding a constant value.
type Literal struct {
	Value value.Value
}

func (l Literal) Eval(ctx *scanctx.Context) (value.Value, error) {
	return l.Value, nil
}
