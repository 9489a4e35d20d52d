// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"errors"
	"fmt"

	"github.com/aclements/go-ladder/scanctx"
)

// ErrReturn is the sentinel a Return instruction raises. The
// subroutine executor in package rung recognizes it and stops walking
// the subroutine's remaining rungs without treating it as a scan
// fault (spec.md 4.3.9: "ends the subroutine's rung list from
// wherever encountered").
var ErrReturn = errors.New("instr: return")

// Call invokes the named subroutine's rungs via ctx.Subroutines.
// Nesting depth is exactly one: Call itself does not appear inside a
// subroutine (enforced by the validation walker, package walk, not
// here).
type Call struct {
	Name string
}

func (c Call) RungGated() bool { return true }

func (c Call) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	if ctx.Subroutines == nil {
		return fmt.Errorf("instr: Call %q: no subroutine runner bound", c.Name)
	}
	return ctx.Subroutines.RunSubroutine(ctx, c.Name)
}

// Return ends the enclosing subroutine's rung list immediately, from
// wherever it is encountered (spec.md 4.3.9). It carries no targets
// of its own; Execute just signals ErrReturn when its rung is true.
type Return struct{}

func (Return) RungGated() bool { return true }

func (Return) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	return ErrReturn
}
