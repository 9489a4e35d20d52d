// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysfunc implements the System Points Runtime (spec.md 4.5):
// the sys/fault/rtc/firmware system-tag namespaces, scan clocks, and
// the RTC timedelta offset model. Grounded on go-moremath/stats for
// the scan-time jitter statistics this package additionally exposes
// (SPEC_FULL.md 4.9.1).
package sysfunc

import (
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// Fault tags. Three clear policies apply (spec.md 4.5):
//
//   - transient: auto-cleared at the start of every scan, before any
//     rung evaluates, and visible to every rung in the scan once set
//     (spec.md 9's Open Question, resolved in SPEC_FULL.md 9).
//   - latched: never auto-cleared; only a Stop->Run transition clears
//     it. FaultMathOperationError also forces the runner to Stop
//     (spec.md 7's DivideByZero/NonFiniteResult row).
//   - state-reflecting: recomputed every scan from current conditions,
//     neither auto-cleared nor latched on its own.
const (
	FaultDivisionError      = "fault.division_error"      // transient
	FaultOutOfRange         = "fault.out_of_range"         // transient
	FaultRTCApplyError      = "fault.rtc_apply_error"      // transient
	FaultMathOperationError = "fault.math_operation_error" // latched, triggers Stop

	// FaultPLCError is state-reflecting: true whenever any fault flag
	// (transient or latched) is currently set, recomputed at the end
	// of every scan from the committed fault tags.
	FaultPLCError = "fault.plc_error"
	// FaultErrorCode is state-reflecting: the lowest ErrorCode ordinal
	// among the fault flags currently set, or 0 when no fault is set.
	FaultErrorCode = "fault.error_code"
)

// ErrorCode assigns a stable ordinal to each fault tag for
// FaultErrorCode. 0 is reserved for "no fault".
func ErrorCode(name string) int16 {
	switch name {
	case FaultDivisionError:
		return 1
	case FaultOutOfRange:
		return 2
	case FaultRTCApplyError:
		return 3
	case FaultMathOperationError:
		return 4
	default:
		return 0
	}
}

var transientFaults = []string{
	FaultDivisionError,
	FaultOutOfRange,
	FaultRTCApplyError,
}

// allFaults lists every primary fault flag (excluding the
// state-reflecting pair) in ErrorCode order, used to recompute
// fault.plc_error/fault.error_code.
var allFaults = []string{
	FaultDivisionError,
	FaultOutOfRange,
	FaultRTCApplyError,
	FaultMathOperationError,
}

// SetFault raises a fault flag. Fault tags are system-owned, so the
// write bypasses the normal write guard via SetTagInternal.
func SetFault(ctx *scanctx.Context, name string) {
	ctx.SetTagInternal(name, value.NewBool(true))
}

// ClearTransientFaults clears every transient fault flag.
// Runtime.OnScanStart calls this first, and the runner calls
// OnScanStart at the start of step, before patches/forces are applied
// and before any rung evaluates (SPEC_FULL.md 9).
func ClearTransientFaults(ctx *scanctx.Context) {
	for _, name := range transientFaults {
		ctx.SetTagInternal(name, value.NewBool(false))
	}
}

// ClearLatchedFaults clears the latched math-operation fault. Only the
// runner's Stop->Run transition calls this.
func ClearLatchedFaults(ctx *scanctx.Context) {
	ctx.SetTagInternal(FaultMathOperationError, value.NewBool(false))
}

// RefreshFaultSummary recomputes the state-reflecting fault.plc_error
// and fault.error_code tags from the current fault flags. The runner
// calls this once after a scan's rungs have all evaluated, so the
// summary reflects faults raised during that same scan.
func RefreshFaultSummary(ctx *scanctx.Context) {
	for _, name := range allFaults {
		if ctx.GetTag(name, value.NewBool(false)).AsBool() {
			ctx.SetTagInternal(FaultPLCError, value.NewBool(true))
			ctx.SetTagInternal(FaultErrorCode, value.NewInt(ErrorCode(name)))
			return
		}
	}
	ctx.SetTagInternal(FaultPLCError, value.NewBool(false))
	ctx.SetTagInternal(FaultErrorCode, value.NewInt(0))
}
