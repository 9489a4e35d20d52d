// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comm

import (
	"context"
	"fmt"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Direction distinguishes a send (write to the remote device) from a
// receive (read from it), per spec.md 6.3's "send / receive (and
// addressed variants)".
type Direction int

const (
	Send Direction = iota
	Receive
)

// Instruction is the ladder send/receive instruction (spec.md 6.3): an
// addressed, asynchronous communication transaction driven by status
// tags rather than a blocking call, implementing package instr's
// Instruction interface structurally so this optional dialect layer
// never needs instr to import comm.
//
// Status tags: Active is true for the whole PENDING interval
// (spec.md's "sending/receiving"); exactly one of Success or Err
// becomes true on the scan a TERMINAL result is observed;
// ExceptionResponse carries 0 for a clean response or transport
// failure, or the device's protocol exception code.
type Instruction struct {
	Dir       Direction
	Transport Transport
	Endpoint  Endpoint
	Function  FunctionCode
	Address   expr.Expr
	// Count is optional; a nil Count derives the transaction length
	// from Operand's resolved range at Execute time.
	Count expr.Expr
	// Operand is the local tag/block-slice operand (spec.md 6.3): the
	// write-direction source for Send, the destination for Receive.
	Operand instr.RangeSource

	Active            tag.Tag // BOOL
	Success           tag.Tag // BOOL
	Err               tag.Tag // BOOL
	ExceptionResponse tag.Tag // WORD

	// Loc is this instruction's unique rung location, used as the
	// engine-private memory key for its in-flight result channel
	// (spec.md 3.3's per-instruction memory-key convention).
	Loc string
}

// RungGated is false: like Timer/Counter, the instruction must run on
// a disabled scan too, to observe the rung going false and cancel an
// in-flight PENDING transaction (spec.md 5).
func (i Instruction) RungGated() bool { return false }

func pendingKey(loc string) string { return "_comm_pending:" + loc }

func (i Instruction) clearStatus(ctx *scanctx.Context) {
	ctx.SetMemory(pendingKey(i.Loc), nil)
	ctx.SetTag(i.Active.Name(), value.NewBool(false))
	ctx.SetTag(i.Success.Name(), value.NewBool(false))
	ctx.SetTag(i.Err.Name(), value.NewBool(false))
	ctx.SetTag(i.ExceptionResponse.Name(), value.NewWord(0))
}

func (i Instruction) Execute(ctx *scanctx.Context, enabled bool) error {
	active := ctx.GetTag(i.Active.Name(), value.NewBool(false)).Truthy()

	if !enabled {
		if active {
			// Rung power dropped while PENDING: cancel and return to
			// IDLE (spec.md 5's cancellation rule).
			i.clearStatus(ctx)
		}
		return nil
	}

	if active {
		return i.poll(ctx)
	}

	return i.start(ctx)
}

// poll checks the in-flight channel for a delivered Result without
// blocking the scan; an undelivered channel leaves every status tag
// untouched so the instruction stays PENDING.
func (i Instruction) poll(ctx *scanctx.Context) error {
	ch, _ := ctx.GetMemory(pendingKey(i.Loc), nil).(<-chan Result)
	if ch == nil {
		// Lost track of the channel (should not happen in practice);
		// treat as a transport failure rather than hanging forever.
		i.finish(ctx, Result{Err: fmt.Errorf("comm: lost pending result channel")})
		return nil
	}
	select {
	case res := <-ch:
		i.finish(ctx, res)
	default:
		// Still PENDING.
	}
	return nil
}

func (i Instruction) start(ctx *scanctx.Context) error {
	rng, err := i.Operand.Resolve(ctx)
	if err != nil {
		return err
	}

	addr, err := i.Address.Eval(ctx)
	if err != nil {
		return err
	}
	count := rng.Len()
	if i.Count != nil {
		cv, err := i.Count.Eval(ctx)
		if err != nil {
			return err
		}
		count = int(cv.AsInt())
	}

	req := Request{
		Endpoint: i.Endpoint,
		Function: i.Function,
		Address:  int(addr.AsInt()),
		Count:    count,
	}
	if i.Dir == Send {
		wireKind := value.Word
		if i.Function.IsCoil() {
			wireKind = value.Bool
		}
		for _, t := range rng.Tags() {
			v := ctx.GetTag(t.Name(), t.Default())
			conv, _ := value.ConvertSaturating(v, wireKind)
			req.Values = append(req.Values, conv)
		}
	}

	ch, err := i.Transport.Send(context.Background(), req)
	if err != nil {
		// Submission itself failed: report exactly like a delivered
		// transport failure rather than ever going PENDING.
		i.finish(ctx, Result{Err: err})
		return nil
	}

	ctx.SetMemory(pendingKey(i.Loc), ch)
	ctx.SetTag(i.Active.Name(), value.NewBool(true))
	ctx.SetTag(i.Success.Name(), value.NewBool(false))
	ctx.SetTag(i.Err.Name(), value.NewBool(false))
	ctx.SetTag(i.ExceptionResponse.Name(), value.NewWord(0))
	return nil
}

// finish applies a TERMINAL Result's status tags and, for a
// successful Receive, writes the response payload into Operand
// (spec.md 6.3's value conversion rule: coils to BOOL, registers to
// an unsigned 16-bit WORD, via the same saturating conversion every
// other instruction uses).
func (i Instruction) finish(ctx *scanctx.Context, res Result) {
	ctx.SetMemory(pendingKey(i.Loc), nil)
	ctx.SetTag(i.Active.Name(), value.NewBool(false))

	switch {
	case res.Err != nil:
		ctx.SetTag(i.Success.Name(), value.NewBool(false))
		ctx.SetTag(i.Err.Name(), value.NewBool(true))
		ctx.SetTag(i.ExceptionResponse.Name(), value.NewWord(0))
		return
	case res.Response.ExceptionCode != 0:
		ctx.SetTag(i.Success.Name(), value.NewBool(false))
		ctx.SetTag(i.Err.Name(), value.NewBool(true))
		ctx.SetTag(i.ExceptionResponse.Name(), value.NewWord(uint16(res.Response.ExceptionCode)))
		return
	}

	ctx.SetTag(i.Success.Name(), value.NewBool(true))
	ctx.SetTag(i.Err.Name(), value.NewBool(false))
	ctx.SetTag(i.ExceptionResponse.Name(), value.NewWord(0))

	if i.Dir != Receive {
		return
	}
	rng, err := i.Operand.Resolve(ctx)
	if err != nil {
		return
	}
	tags := rng.Tags()
	for idx, v := range res.Response.Values {
		if idx >= len(tags) {
			break
		}
		conv, _ := value.ConvertSaturating(v, tags[idx].Kind())
		ctx.SetTag(tags[idx].Name(), conv)
	}
}
