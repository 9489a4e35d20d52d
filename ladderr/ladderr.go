// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ladderr defines the engine's error taxonomy (spec.md 7):
// a closed set of Kinds plus a wrapping Error type built on
// golang.org/x/xerrors, following the wrap-with-%w-before-it-was-
// stdlib idiom this vintage of the corpus uses.
package ladderr

import (
	"golang.org/x/xerrors"
)

// Kind is one entry in the error taxonomy of spec.md section 7.
type Kind int

const (
	// KindReadOnlySystemTag: external/logic write to a system point
	// not in the writable whitelist.
	KindReadOnlySystemTag Kind = iota
	// KindTagValidation: name too long / illegal chars / reserved
	// word at map time.
	KindTagValidation
	// KindAddressOutOfRange: indirect reference resolving outside
	// block bounds or the sparse-allowed set.
	KindAddressOutOfRange
	// KindSizeMismatch: BlockCopy source/dest length mismatch.
	// Pack/unpack width overflow does not produce this Kind; PackBits
	// raises fault.out_of_range instead.
	KindSizeMismatch
	// KindDivideByZero: division by zero. Calc reports it through the
	// fault.division_error flag; no package returns this Kind.
	KindDivideByZero
	// KindNonFiniteResult: a NaN/Inf result. Calc and Copy report it
	// through fault.math_operation_error; no package returns this Kind.
	KindNonFiniteResult
	// KindPortabilityFinding: produced by the validation walker and
	// dialect rules; non-raising by default (carried as a Report,
	// not normally surfaced as this Kind — present for completeness
	// when a caller requests strict-mode promotion, spec.md 7).
	KindPortabilityFinding
	// KindBuildGuard: strict-mode DSL host-control-flow violation.
	KindBuildGuard
	// KindInvalidCallback: async/unembeddable function passed to
	// RunFunction/RunEnabledFunction.
	KindInvalidCallback
)

func (k Kind) String() string {
	switch k {
	case KindReadOnlySystemTag:
		return "ReadOnlySystemTag"
	case KindTagValidation:
		return "TagValidation"
	case KindAddressOutOfRange:
		return "AddressOutOfRange"
	case KindSizeMismatch:
		return "SizeMismatch"
	case KindDivideByZero:
		return "DivideByZero"
	case KindNonFiniteResult:
		return "NonFiniteResult"
	case KindPortabilityFinding:
		return "PortabilityFinding"
	case KindBuildGuard:
		return "BuildGuard"
	case KindInvalidCallback:
		return "InvalidCallback"
	default:
		return "Unknown"
	}
}

// Error is the engine's wrapped error type: a Kind, the operation that
// produced it, a human message, and an optional wrapped cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Op + ": " + e.Msg + ": " + e.Err.Error()
	}
	return e.Op + ": " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error, wrapping cause (which may be nil) with
// xerrors.Errorf so Is/As chains work the way the rest of this vintage
// of corpus expects.
func New(kind Kind, op, msg string, cause error) error {
	if cause == nil {
		return &Error{Kind: kind, Op: op, Msg: msg}
	}
	return &Error{Kind: kind, Op: op, Msg: msg, Err: xerrors.Errorf("%s: %s: %w", op, msg, cause)}
}

// Is reports whether err is (or wraps) an *Error of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}
