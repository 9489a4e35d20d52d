// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysfunc

import (
	"math"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// rtcOffsetKey is the engine-private memory key holding the RTC's
// timedelta offset (spec.md 3.3: "_sys.rtc.offset").
const rtcOffsetKey = "_sys.rtc.offset"

// Read-only, runner-derived RTC system points.
const (
	RTCNow = "rtc.now" // base clock (wall or test-controlled) plus offset

	// RTCApply is a command bit: when true on a scan, the staged
	// rtc.new_epoch register is treated as an absolute target and the
	// offset is recomputed as target-now (spec.md 4.5).
	RTCApply = "rtc.apply"
	// RTCNewEpoch is the staging register for RTCApply, in the same
	// units as the clock base (seconds).
	RTCNewEpoch = "rtc.new_epoch"
)

// rtcOffset returns the current offset, defaulting to zero.
func rtcOffset(ctx *scanctx.Context) float64 {
	v, _ := ctx.GetMemory(rtcOffsetKey, 0.0).(float64)
	return v
}

// ApplyRTCCommand processes a staged "apply date/time" command
// (spec.md 4.5): if rtc.apply is true this scan, rtc.new_epoch is
// validated and, if finite, becomes the new absolute clock target —
// offset is set to target-clockBase. An invalid target raises the
// transient fault.rtc_apply_error and leaves the offset unchanged.
// Processed once per scan, before rungs evaluate, using whatever
// clockBase the runner's time mode supplies (wall-clock seconds in
// Realtime, the FixedStep timestamp in FixedStep mode).
func ApplyRTCCommand(ctx *scanctx.Context, clockBase float64) {
	if !ctx.GetTag(RTCApply, value.NewBool(false)).AsBool() {
		return
	}
	target := ctx.GetTag(RTCNewEpoch, value.NewReal(0)).AsFloat()
	if math.IsNaN(target) || math.IsInf(target, 0) {
		SetFault(ctx, FaultRTCApplyError)
		return
	}
	ctx.SetMemory(rtcOffsetKey, target-clockBase)
}

// ApplyRTCNow publishes rtc.now = clockBase + offset.
func ApplyRTCNow(ctx *scanctx.Context, clockBase float64) {
	ctx.SetTagInternal(RTCNow, value.NewReal(float32(clockBase+rtcOffset(ctx))))
}
