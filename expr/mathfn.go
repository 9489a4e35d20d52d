// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package expr

import (
	"math"
	"math/bits"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// MathFn enumerates the math functions of spec.md 3.4. Domain errors
// (e.g. sqrt of a negative number) are not special-cased here; they
// surface as NaN, and Calc's fault detection (value.Value.IsNonFinite)
// is what turns them into fault.math_operation_error, per spec.md
// 4.3.4 and the Design Notes on lazy, pure expression evaluation.
type MathFn int

const (
	Sqrt MathFn = iota
	Sin
	Cos
	Tan
	Asin
	Acos
	Atan
	Log
	Log10
	Radians
	Degrees
)

type MathCall struct {
	Fn MathFn
	X  Expr
}

func (m MathCall) Eval(ctx *scanctx.Context) (value.Value, error) {
	xv, err := m.X.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	x := xv.AsFloat()
	var r float64
	switch m.Fn {
	case Sqrt:
		r = math.Sqrt(x)
	case Sin:
		r = math.Sin(x)
	case Cos:
		r = math.Cos(x)
	case Tan:
		r = math.Tan(x)
	case Asin:
		r = math.Asin(x)
	case Acos:
		r = math.Acos(x)
	case Atan:
		r = math.Atan(x)
	case Log:
		r = math.Log(x)
	case Log10:
		r = math.Log10(x)
	case Radians:
		r = x * math.Pi / 180
	case Degrees:
		r = x * 180 / math.Pi
	default:
		panic("expr: unknown MathFn")
	}
	return value.NewReal(float32(r)), nil
}

// ShiftOp enumerates the fixed-width (16-bit) shift/rotate operators
// of spec.md 3.4: lsh, rsh, lro, rro.
type ShiftOp int

const (
	Lsh ShiftOp = iota
	Rsh
	Lro
	Rro
)

// ShiftExpr is a fixed-16-bit shift or rotate of X by N bits.
type ShiftExpr struct {
	Op   ShiftOp
	X, N Expr
}

func (s ShiftExpr) Eval(ctx *scanctx.Context) (value.Value, error) {
	xv, err := s.X.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	nv, err := s.N.Eval(ctx)
	if err != nil {
		return value.Value{}, err
	}
	x := uint16(int64(xv.AsFloat()))
	n := uint(int64(nv.AsFloat())) & 15

	var r uint16
	switch s.Op {
	case Lsh:
		r = x << n
	case Rsh:
		r = x >> n
	case Lro:
		r = bits.RotateLeft16(x, int(n))
	case Rro:
		r = bits.RotateLeft16(x, -int(n))
	default:
		panic("expr: unknown ShiftOp")
	}
	return value.NewWord(r), nil
}
