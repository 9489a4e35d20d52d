// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// CounterMode selects count-up or count-down (spec.md 4.3.3).
type CounterMode int

const (
	CountUp CounterMode = iota
	CountDown
)

// Counter implements CTU/CTD, with an optional bidirectional Down
// condition on a CountUp counter (spec.md 4.3.3: "if down-condition
// true, delta -= 1"). Reset is checked first every scan regardless of
// enabled, so Counter is always-execute.
type Counter struct {
	Mode   CounterMode
	Done   tag.Tag // BOOL
	Acc    tag.Tag // DINT
	Preset int32
	Reset  cond.Cond
	Down   cond.Cond // only meaningful when Mode == CountUp
}

func (c Counter) RungGated() bool { return false }

func (c Counter) Execute(ctx *scanctx.Context, enabled bool) error {
	if c.Reset != nil {
		resetOk, err := c.Reset.Eval(ctx)
		if err != nil {
			return err
		}
		if resetOk {
			if err := ctx.SetTag(c.Acc.Name(), value.NewDint(0)); err != nil {
				return err
			}
			return ctx.SetTag(c.Done.Name(), value.NewBool(false))
		}
	}

	acc := ctx.GetTag(c.Acc.Name(), value.NewDint(0)).AsDint()
	var delta int64
	switch c.Mode {
	case CountUp:
		if enabled {
			delta++
		}
		if c.Down != nil {
			downOk, err := c.Down.Eval(ctx)
			if err != nil {
				return err
			}
			if downOk {
				delta--
			}
		}
	case CountDown:
		if enabled {
			delta--
		}
	}

	newAcc, _ := value.SaturateInt32(int64(acc) + delta)
	if err := ctx.SetTag(c.Acc.Name(), value.NewDint(newAcc)); err != nil {
		return err
	}
	var done bool
	if c.Mode == CountUp {
		done = newAcc >= c.Preset
	} else {
		done = newAcc <= -c.Preset
	}
	return ctx.SetTag(c.Done.Name(), value.NewBool(done))
}
