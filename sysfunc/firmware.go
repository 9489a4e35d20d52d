// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysfunc

import (
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// Firmware identity system points: constant for the life of a runner,
// republished every scan for read simplicity (spec.md 4.5's "firmware"
// namespace).
const (
	FirmwareMajor = "firmware.major"
	FirmwareMinor = "firmware.minor"
	FirmwareBuild = "firmware.build"
)

// Identity is the firmware version this runtime reports.
type Identity struct {
	Major, Minor int16
	Build        int32
}

// ApplyFirmwareIdentity publishes the firmware.* system points.
func ApplyFirmwareIdentity(ctx *scanctx.Context, id Identity) {
	ctx.SetTagInternal(FirmwareMajor, value.NewInt(id.Major))
	ctx.SetTagInternal(FirmwareMinor, value.NewInt(id.Minor))
	ctx.SetTagInternal(FirmwareBuild, value.NewDint(id.Build))
}

// SysBatteryPresent mirrors the runner's battery_present state point
// (spec.md 4.5 Reboot transition) as a read-only tag.
const SysBatteryPresent = "sys.battery_present"

// ApplyBatteryPresent publishes the current battery_present state.
func ApplyBatteryPresent(ctx *scanctx.Context, present bool) {
	ctx.SetTagInternal(SysBatteryPresent, value.NewBool(present))
}

// SysMode mirrors the runner's Run/Stop mode as a read-only tag: true
// while running, false while stopped.
const SysMode = "sys.mode_run"

// ApplyMode publishes the current Run/Stop mode.
func ApplyMode(ctx *scanctx.Context, running bool) {
	ctx.SetTagInternal(SysMode, value.NewBool(running))
}
