// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package walk

import (
	"fmt"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/tag"
)

// visitInstruction emits one fact per typed operand of inst, dispatching
// over the closed Instruction set (spec.md 4.3). An instruction type
// the walker does not recognize still gets a single KindUnknown fact
// rather than a panic, per spec.md 4.7.
func (w *walker) visitInstruction(loc ProgramLocation, inst instr.Instruction) {
	base := loc.ArgPath
	if base == "" {
		base = "instruction"
	}
	arg := func(name string) ProgramLocation {
		l := loc
		l.ArgPath = base + "." + name
		return l
	}
	tagFact := func(name, tagName string) {
		w.emit(arg(name), KindTag, "tag.Tag", tagName, nil)
	}

	switch n := inst.(type) {
	case instr.Out:
		if len(n.Range) > 0 {
			names := ""
			for i, t := range n.Range {
				if i > 0 {
					names += ","
				}
				names += t.Name()
			}
			w.emit(arg("range"), KindBlockRange, "[]tag.Tag", fmt.Sprintf("range(%s)", names), nil)
		} else {
			tagFact("target", n.Target.Name())
		}
	case instr.Latch:
		tagFact("target", n.Target.Name())
	case instr.Reset:
		tagFact("target", n.Target.Name())
	case instr.Copy:
		w.visitExpr(arg("source"), n.Source)
		tagFact("target", n.Target.Name())
	case instr.Calc:
		w.visitExpr(arg("source"), n.Source)
		tagFact("target", n.Target.Name())
	case instr.Counter:
		tagFact("done", n.Done.Name())
		tagFact("acc", n.Acc.Name())
		w.visitCond(arg("reset"), n.Reset)
		if n.Down != nil {
			w.visitCond(arg("down"), n.Down)
		}
	case instr.Timer:
		tagFact("done", n.Done.Name())
		tagFact("acc", n.Acc.Name())
		if n.Reset != nil {
			w.visitCond(arg("reset"), n.Reset)
		}
	case instr.BlockCopy:
		w.visitRange(arg("source"), n.Source)
		w.visitRange(arg("dest"), n.Dest)
	case instr.Fill:
		w.visitRange(arg("dest"), n.Dest)
		w.visitExpr(arg("value"), n.Value)
	case instr.PackBits:
		w.visitRange(arg("bits"), n.Bits)
		tagFact("dest", n.Dest.Name())
	case instr.UnpackToBits:
		tagFact("source", n.Source.Name())
		w.visitRange(arg("bits"), n.Bits)
	case instr.PackWords:
		tagFact("lo", n.Lo.Name())
		tagFact("hi", n.Hi.Name())
		tagFact("dest", n.Dest.Name())
	case instr.UnpackToWords:
		tagFact("source", n.Source.Name())
		tagFact("lo", n.Lo.Name())
		tagFact("hi", n.Hi.Name())
	case instr.PackText:
		w.visitRange(arg("source"), n.Source)
		tagFact("dest", n.Dest.Name())
	case instr.Search:
		w.visitRange(arg("range"), n.Range)
		if n.Mode == instr.SearchText {
			w.emit(arg("target"), KindLiteral, "string", n.TargetText, nil)
		} else {
			w.visitExpr(arg("target"), n.Target)
		}
		tagFact("found", n.Found.Name())
		tagFact("index", n.Index.Name())
	case instr.ShiftRegister:
		w.visitRange(arg("range"), n.Range)
		w.visitCond(arg("clock"), n.Clock)
		if n.Reset != nil {
			w.visitCond(arg("reset"), n.Reset)
		}
	case instr.Drum:
		tagFact("step", n.Step.Name())
		tagFact("acc", n.Acc.Name())
		tagFact("done", n.Done.Name())
		if n.Reset != nil {
			w.visitCond(arg("reset"), n.Reset)
		}
		tagFact("jump_target", n.JumpTarget.Name())
		if n.JumpCond != nil {
			w.visitCond(arg("jump_cond"), n.JumpCond)
		}
		if n.JogCond != nil {
			w.visitCond(arg("jog_cond"), n.JogCond)
		}
		for i, step := range n.Steps {
			stepLoc := loc
			stepLoc.ArgPath = fmt.Sprintf("%s.steps[%d]", base, i)
			for j, out := range step.Outputs {
				outLoc := stepLoc
				outLoc.ArgPath = fmt.Sprintf("%s.outputs[%d]", stepLoc.ArgPath, j)
				w.emit(outLoc, KindTag, "scanctx.Write", out.Name, nil)
			}
			if step.Advance != nil {
				advLoc := stepLoc
				advLoc.ArgPath = stepLoc.ArgPath + ".advance"
				w.visitCond(advLoc, step.Advance)
			}
		}
	case instr.Call:
		w.emit(arg("name"), KindLiteral, "string", n.Name, map[string]string{"kind": "subroutine_name"})
	case instr.Return:
		// No operands.
	case instr.ForLoop:
		w.visitExpr(arg("count"), n.Count)
		for i, body := range n.Body {
			bodyLoc := loc
			bodyLoc.ArgPath = fmt.Sprintf("%s.body[%d]", base, i)
			bodyLoc.InstrType = fmt.Sprintf("%T", body)
			w.visitInstruction(bodyLoc, body)
		}
	case instr.RunFunction:
		visitFuncOperands(w, loc, base, n.Ins, n.Outs)
	case instr.RunEnabledFunction:
		visitFuncOperands(w, loc, base, n.Ins, n.Outs)
	default:
		w.emit(loc, KindUnknown, fmt.Sprintf("%T", inst), "unrecognized instruction", nil)
	}
}

func visitFuncOperands(w *walker, loc ProgramLocation, base string, ins map[string]expr.Expr, outs map[string]tag.Tag) {
	names := make([]string, 0, len(ins))
	for name := range ins {
		names = append(names, name)
	}
	sortStrings(names)
	for _, name := range names {
		l := loc
		l.ArgPath = base + ".ins[" + name + "]"
		w.visitExpr(l, ins[name])
	}

	outNames := make([]string, 0, len(outs))
	for name := range outs {
		outNames = append(outNames, name)
	}
	sortStrings(outNames)
	for _, name := range outNames {
		l := loc
		l.ArgPath = base + ".outs[" + name + "]"
		w.emit(l, KindTag, "tag.Tag", outs[name].Name(), nil)
	}
}
