// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysfunc

import (
	"fmt"
	"math"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// DefaultScanClockPeriods are the flasher periods (in seconds)
// exposed as sys.scan.clock_<period>s, mirroring the small fixed set
// of flasher bits common to PLC vendor runtimes (0.5s, 1s, 5s).
var DefaultScanClockPeriods = []float64{0.5, 1, 5}

// ScanClockTag names the system point for a given flasher period.
func ScanClockTag(periodSeconds float64) string {
	if periodSeconds == math.Trunc(periodSeconds) {
		return fmt.Sprintf("sys.scan.clock_%ds", int(periodSeconds))
	}
	return fmt.Sprintf("sys.scan.clock_%gs", periodSeconds)
}

// ApplyScanClocks derives every configured scan clock from timestamp
// using half-period arithmetic (spec.md 4.5): each clock toggles every
// period/2 seconds and starts OFF at timestamp=0.
func ApplyScanClocks(ctx *scanctx.Context, timestamp float64, periods []float64) {
	for _, p := range periods {
		half := p / 2
		on := int64(math.Floor(timestamp/half))%2 == 1
		ctx.SetTagInternal(ScanClockTag(p), value.NewBool(on))
	}
}

// ApplyScanIdentity publishes the scan's own identity as system
// points, readable by rungs within the same scan (spec.md 4.5/4.9.1).
func ApplyScanIdentity(ctx *scanctx.Context, scanID uint64, timestamp float64) {
	ctx.SetTagInternal("sys.scan.id", value.NewDint(int32(scanID)))
	ctx.SetTagInternal("sys.scan.timestamp", value.NewReal(float32(timestamp)))
}
