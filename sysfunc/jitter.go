// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysfunc

import (
	"github.com/aclements/go-moremath/stats"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// Read-only instrumentation system points (SPEC_FULL.md 4.9.1). Only
// populated in Realtime time mode; FixedStep reports zero, since its
// scan duration is synthetic rather than measured.
const (
	ScanJitterMs = "sys.scan.jitter_ms"
	ScanMeanMs   = "sys.scan.mean_ms"
)

// defaultJitterWindow bounds how many recent scan durations feed the
// mean/stddev computation, mirroring benchmany's practice of working
// from a capped recent-samples slice rather than an ever-growing log.
const defaultJitterWindow = 64

// JitterTracker keeps a bounded window of measured scan wall-clock
// durations (milliseconds) and derives mean/jitter from them via
// go-moremath/stats — the same package and "slice of float64 in,
// scalar out" shape benchmany/readlog.go uses for stats.Mean over
// benchmark samples.
type JitterTracker struct {
	samples []float64
	window  int
}

// NewJitterTracker builds a tracker retaining up to window samples (0
// or negative selects defaultJitterWindow).
func NewJitterTracker(window int) *JitterTracker {
	if window <= 0 {
		window = defaultJitterWindow
	}
	return &JitterTracker{window: window}
}

// Record appends one measured scan duration, in milliseconds, evicting
// the oldest sample once the window is full.
func (j *JitterTracker) Record(ms float64) {
	j.samples = append(j.samples, ms)
	if len(j.samples) > j.window {
		j.samples = j.samples[len(j.samples)-j.window:]
	}
}

// Apply publishes sys.scan.mean_ms and sys.scan.jitter_ms from the
// current window. With fewer than two samples, jitter is reported as
// zero rather than an undefined stddev.
func (j *JitterTracker) Apply(ctx *scanctx.Context) {
	if len(j.samples) == 0 {
		ctx.SetTagInternal(ScanMeanMs, value.NewReal(0))
		ctx.SetTagInternal(ScanJitterMs, value.NewReal(0))
		return
	}
	mean := stats.Mean(j.samples)
	ctx.SetTagInternal(ScanMeanMs, value.NewReal(float32(mean)))
	if len(j.samples) < 2 {
		ctx.SetTagInternal(ScanJitterMs, value.NewReal(0))
		return
	}
	sd := stats.StdDev(j.samples)
	ctx.SetTagInternal(ScanJitterMs, value.NewReal(float32(sd)))
}

// ApplyFixedStepJitter zeroes the jitter system points for FixedStep time
// mode, where scan duration is synthetic and never measured.
func ApplyFixedStepJitter(ctx *scanctx.Context) {
	ctx.SetTagInternal(ScanMeanMs, value.NewReal(0))
	ctx.SetTagInternal(ScanJitterMs, value.NewReal(0))
}
