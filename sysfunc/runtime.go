// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysfunc

import (
	"fmt"
	"strings"

	"github.com/aclements/go-ladder/scanctx"
)

// Runtime is the process-wide SystemPointRuntime of spec.md 4.5,
// composed into a single runner instance (spec.md 9: "process-wide"
// describes the semantics, not shared storage — each runner owns its
// own Runtime). It bundles the jitter tracker (the only system point
// with cross-scan state) with the firmware identity a runner was built
// with.
type Runtime struct {
	Identity   Identity
	ScanClocks []float64
	Jitter     *JitterTracker
}

// NewRuntime builds a Runtime with the given firmware identity and the
// default scan-clock periods and jitter window.
func NewRuntime(id Identity) *Runtime {
	return &Runtime{
		Identity:   id,
		ScanClocks: DefaultScanClockPeriods,
		Jitter:     NewJitterTracker(0),
	}
}

// OnScanStart applies every system point that must be visible to
// rungs for this scan before any rung evaluates: clears transient
// faults, publishes this scan's identity/clocks/RTC/firmware/mode, and
// processes any staged RTC apply command (spec.md 4.5, 9).
func (rt *Runtime) OnScanStart(ctx *scanctx.Context, scanID uint64, timestamp float64, clockBase float64, running, batteryPresent bool) {
	ClearTransientFaults(ctx)
	ApplyScanIdentity(ctx, scanID, timestamp)
	ApplyScanClocks(ctx, timestamp, rt.ScanClocks)
	ApplyRTCCommand(ctx, clockBase)
	ApplyRTCNow(ctx, clockBase)
	ApplyFirmwareIdentity(ctx, rt.Identity)
	ApplyBatteryPresent(ctx, batteryPresent)
	ApplyMode(ctx, running)
}

// OnScanEnd applies system points that must reflect this scan's
// outcome: the state-reflecting fault summary, and (Realtime mode
// only) the jitter statistics from the measured scan duration.
func (rt *Runtime) OnScanEnd(ctx *scanctx.Context, realtimeMs *float64) {
	RefreshFaultSummary(ctx)
	if realtimeMs == nil {
		ApplyFixedStepJitter(ctx)
		return
	}
	rt.Jitter.Record(*realtimeMs)
	rt.Jitter.Apply(ctx)
}

// WritableCommandTags are the only system points an external patch()
// or rung write may set directly; every other sys./fault./rtc./
// firmware. tag is runner-derived and read-only (spec.md 7:
// ReadOnlySystemTag).
var WritableCommandTags = map[string]bool{
	RTCApply:          true,
	RTCNewEpoch:       true,
	SysBatteryPresent: true,
}

// systemPrefixes lists every namespace the System Points Runtime owns.
var systemPrefixes = []string{"sys.", "fault.", "rtc.", "firmware."}

// WriteGuard returns a scanctx.WriteGuard rejecting writes to any
// reserved system tag outside WritableCommandTags. Context.SetTag
// wraps a non-nil result in ladderr.KindReadOnlySystemTag itself
// (spec.md 7), so this just names the violated tag.
func WriteGuard() scanctx.WriteGuard {
	return func(name string) error {
		for _, p := range systemPrefixes {
			if strings.HasPrefix(name, p) && !WritableCommandTags[name] {
				return fmt.Errorf("sysfunc: %s is reserved", name)
			}
		}
		return nil
	}
}
