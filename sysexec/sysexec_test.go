// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sysexec

import (
	"testing"
	"time"

	"github.com/aclements/go-ladder/value"
)

func TestFuncReportsSuccess(t *testing.T) {
	spec := CommandSpec{Template: "true"}
	outs, err := spec.Func(nil)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	if !outs["success"].AsBool() {
		t.Errorf("success = %v, want true", outs["success"])
	}
	if outs["exit_code"].AsInt() != 0 {
		t.Errorf("exit_code = %v, want 0", outs["exit_code"])
	}
	if outs["timed_out"].AsBool() {
		t.Errorf("timed_out = %v, want false", outs["timed_out"])
	}
}

func TestFuncNonzeroExit(t *testing.T) {
	spec := CommandSpec{Template: "false"}
	outs, err := spec.Func(nil)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	if outs["success"].AsBool() {
		t.Errorf("success = %v, want false", outs["success"])
	}
	if outs["exit_code"].AsInt() == 0 {
		t.Errorf("exit_code = %v, want nonzero", outs["exit_code"])
	}
}

func TestFuncSubstitutesNamedInput(t *testing.T) {
	spec := CommandSpec{Template: "test {n} -eq 7"}
	outs, err := spec.Func(map[string]value.Value{"n": value.NewInt(7)})
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	if !outs["success"].AsBool() {
		t.Errorf("success = %v, want true (test 7 -eq 7 should succeed via /usr/bin/test shelling out is not what we run - this uses argv directly)", outs["success"])
	}
}

func TestFuncTimesOut(t *testing.T) {
	spec := CommandSpec{Template: "sleep 5", Timeout: 20 * time.Millisecond}
	outs, err := spec.Func(nil)
	if err != nil {
		t.Fatalf("Func: %v", err)
	}
	if !outs["timed_out"].AsBool() {
		t.Errorf("timed_out = %v, want true", outs["timed_out"])
	}
	if outs["success"].AsBool() {
		t.Errorf("success = %v, want false on timeout", outs["success"])
	}
}

func TestFuncRejectsUnbalancedQuotes(t *testing.T) {
	spec := CommandSpec{Template: `echo "unterminated`}
	if _, err := spec.Func(nil); err == nil {
		t.Errorf("expected a parse error for an unterminated quote")
	}
}

func TestEnabledFuncSkipsWhenDisabled(t *testing.T) {
	spec := CommandSpec{Template: "false"}
	outs, err := spec.EnabledFunc(false, nil)
	if err != nil {
		t.Fatalf("EnabledFunc: %v", err)
	}
	if len(outs) != 0 {
		t.Errorf("expected no outputs when disabled, got %+v", outs)
	}
}

func TestEnabledFuncRunsWhenEnabled(t *testing.T) {
	spec := CommandSpec{Template: "true"}
	outs, err := spec.EnabledFunc(true, nil)
	if err != nil {
		t.Fatalf("EnabledFunc: %v", err)
	}
	if !outs["success"].AsBool() {
		t.Errorf("success = %v, want true", outs["success"])
	}
}
