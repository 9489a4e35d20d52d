// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"math"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// BinOp enumerates the binary arithmetic and bitwise operators of
// spec.md 3.4.
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div    // /
	IntDiv // //
	Mod    // %
	Pow    // **
	BitAnd // &
	BitOr  // |
	BitXor // ^
	Shl    // <<
	Shr    // >>
)

// Binary is a two-operand arithmetic/bitwise node.
type Binary struct {
	Op   BinOp
	L, R Expr
}

func (b Binary) Eval(ctx *scanctx.Context) (value.Value, error) {
	lv, err := b.L.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	rv, err := b.R.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	lf, rf := lv.AsFloat(), rv.AsFloat()

	switch b.Op {
	case Add:
		return value.NewReal(float32(lf + rf)), nil
	case Sub:
		return value.NewReal(float32(lf - rf)), nil
	case Mul:
		return value.NewReal(float32(lf * rf)), nil
	case Div:
		if rf == 0 {
			return value.Value{}, ErrDivideByZero
		}
		return value.NewReal(float32(lf / rf)), nil
	case IntDiv:
		if rf == 0 {
			return value.Value{}, ErrDivideByZero
		}
		return value.NewReal(float32(math.Floor(lf / rf))), nil
	case Mod:
		if rf == 0 {
			return value.Value{}, ErrDivideByZero
		}
		return value.NewReal(float32(math.Mod(lf, rf))), nil
	case Pow:
		return value.NewReal(float32(math.Pow(lf, rf))), nil
	case BitAnd:
		return value.NewDint(int32(lv.AsFloat()) & int32(rv.AsFloat())), nil
	case BitOr:
		return value.NewDint(int32(lv.AsFloat()) | int32(rv.AsFloat())), nil
	case BitXor:
		return value.NewDint(int32(lv.AsFloat()) ^ int32(rv.AsFloat())), nil
	case Shl:
		return value.NewDint(int32(lv.AsFloat()) << uint(int32(rv.AsFloat()))), nil
	case Shr:
		return value.NewDint(int32(lv.AsFloat()) >> uint(int32(rv.AsFloat()))), nil
	default:
		panic("expr: unknown BinOp")
	}
}

// UnOp enumerates the unary operators of spec.md 3.4.
type UnOp int

const (
	Neg UnOp = iota
	Pos
	AbsOp
	BitNot
)

type Unary struct {
	Op UnOp
	X  Expr
}

func (u Unary) Eval(ctx *scanctx.Context) (value.Value, error) {
	xv, err := u.X.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	switch u.Op {
	case Neg:
		return value.NewReal(float32(-xv.AsFloat())), nil
	case Pos:
		return value.NewReal(float32(xv.AsFloat())), nil
	case AbsOp:
		return value.NewReal(float32(math.Abs(xv.AsFloat()))), nil
	case BitNot:
		return value.NewDint(^int32(xv.AsFloat())), nil
	default:
		panic("expr: unknown UnOp")
	}
}
