// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"testing"

	"github.com/aclements/go-ladder/scanctx"
)

type fakeSubroutines struct {
	called []string
}

func (f *fakeSubroutines) RunSubroutine(ctx *scanctx.Context, name string) error {
	f.called = append(f.called, name)
	return nil
}

func TestCallInvokesBoundSubroutineRunner(t *testing.T) {
	subs := &fakeSubroutines{}
	ctx := newCtx(nil)
	ctx.Subroutines = subs

	if err := (Call{Name: "Fault"}).Execute(ctx, true); err != nil {
		t.Fatal(err)
	}
	if len(subs.called) != 1 || subs.called[0] != "Fault" {
		t.Errorf("called = %v, want [Fault]", subs.called)
	}
}

func TestCallWithoutRunnerErrors(t *testing.T) {
	ctx := newCtx(nil)
	if err := (Call{Name: "Fault"}).Execute(ctx, true); err == nil {
		t.Fatal("expected error when no SubroutineRunner is bound")
	}
}

func TestReturnSignalsErrReturn(t *testing.T) {
	ctx := newCtx(nil)
	if err := (Return{}).Execute(ctx, true); err != ErrReturn {
		t.Errorf("Return.Execute = %v, want ErrReturn", err)
	}
	if err := (Return{}).Execute(ctx, false); err != nil {
		t.Errorf("disabled Return.Execute = %v, want nil", err)
	}
}
