// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysfunc

import (
	"testing"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

func newCtx() *scanctx.Context {
	return scanctx.New(scanctx.NewState(nil), nil)
}

func TestClearTransientFaultsLeavesLatchedAlone(t *testing.T) {
	ctx := newCtx()
	SetFault(ctx, FaultDivisionError)
	SetFault(ctx, FaultMathOperationError)
	ClearTransientFaults(ctx)
	if ctx.GetTag(FaultDivisionError, value.Value{}).AsBool() {
		t.Errorf("%s still set after ClearTransientFaults", FaultDivisionError)
	}
	if !ctx.GetTag(FaultMathOperationError, value.Value{}).AsBool() {
		t.Errorf("%s cleared by ClearTransientFaults, want latched", FaultMathOperationError)
	}
}

func TestRefreshFaultSummaryReflectsActiveFault(t *testing.T) {
	ctx := newCtx()
	SetFault(ctx, FaultOutOfRange)
	RefreshFaultSummary(ctx)
	if !ctx.GetTag(FaultPLCError, value.Value{}).AsBool() {
		t.Errorf("fault.plc_error = false, want true")
	}
	if got := ctx.GetTag(FaultErrorCode, value.Value{}).AsInt(); got != ErrorCode(FaultOutOfRange) {
		t.Errorf("fault.error_code = %d, want %d", got, ErrorCode(FaultOutOfRange))
	}
}

func TestApplyScanClocksStartOffAtZero(t *testing.T) {
	ctx := newCtx()
	ApplyScanClocks(ctx, 0, DefaultScanClockPeriods)
	for _, p := range DefaultScanClockPeriods {
		if ctx.GetTag(ScanClockTag(p), value.Value{}).AsBool() {
			t.Errorf("%s = true at timestamp=0, want false", ScanClockTag(p))
		}
	}
}

func TestApplyScanClocksToggleAtHalfPeriod(t *testing.T) {
	ctx := newCtx()
	ApplyScanClocks(ctx, 0.5, []float64{1})
	if !ctx.GetTag(ScanClockTag(1), value.Value{}).AsBool() {
		t.Errorf("clock_1s at t=0.5 (half period) = false, want true")
	}
}

func TestApplyRTCCommandSetsOffset(t *testing.T) {
	ctx := newCtx()
	if err := ctx.SetTag(RTCApply, value.NewBool(true)); err != nil {
		t.Fatal(err)
	}
	if err := ctx.SetTag(RTCNewEpoch, value.NewReal(1000)); err != nil {
		t.Fatal(err)
	}
	ApplyRTCCommand(ctx, 100)
	ApplyRTCNow(ctx, 100)
	if got := ctx.GetTag(RTCNow, value.Value{}).AsReal(); got != 1000 {
		t.Errorf("rtc.now = %v, want 1000", got)
	}
}

func TestApplyRTCCommandInvalidTargetSetsFault(t *testing.T) {
	ctx := newCtx()
	ctx.SetTag(RTCApply, value.NewBool(true))
	ctx.SetTag(RTCNewEpoch, value.NewReal(float32(mathNaN())))
	ApplyRTCCommand(ctx, 100)
	if !ctx.GetTag(FaultRTCApplyError, value.Value{}).AsBool() {
		t.Errorf("fault.rtc_apply_error not set for NaN apply target")
	}
}

func TestJitterTrackerReportsMeanAndStdDev(t *testing.T) {
	j := NewJitterTracker(4)
	for _, ms := range []float64{10, 12, 8, 10} {
		j.Record(ms)
	}
	ctx := newCtx()
	j.Apply(ctx)
	if got := ctx.GetTag(ScanMeanMs, value.Value{}).AsReal(); got != 10 {
		t.Errorf("mean = %v, want 10", got)
	}
	if got := ctx.GetTag(ScanJitterMs, value.Value{}).AsReal(); got <= 0 {
		t.Errorf("jitter = %v, want > 0", got)
	}
}

func TestWriteGuardRejectsReadOnlySystemTag(t *testing.T) {
	guard := WriteGuard()
	if err := guard("sys.scan.id"); err == nil {
		t.Fatal("expected error writing sys.scan.id")
	}
	if err := guard(RTCApply); err != nil {
		t.Errorf("rtc.apply should be writable, got %v", err)
	}
}

func mathNaN() float64 {
	var zero float64
	return zero / zero
}
