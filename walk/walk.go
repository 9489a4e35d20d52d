// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package walk implements the Validation Walker (spec.md 4.7): a
// dialect-agnostic traversal that normalizes every operand, condition,
// and expression leaf of a Program into a deterministic, ordered
// sequence of OperandFact records for downstream portability checks
// (package dialect). Grounded on rtcheck/main.go's root-by-root,
// block-by-block program traversal shape and rtanalysis/directives'
// pattern of an AST walk that emits one fact per syntactic element
// rather than raising on anything it does not recognize.
package walk

import (
	"fmt"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/rung"
)

// ValueKind classifies the syntactic role an OperandFact's node plays,
// per spec.md 4.7's closed set.
type ValueKind string

const (
	KindTag               ValueKind = "tag"
	KindIndirectRef       ValueKind = "indirect_ref"
	KindIndirectExprRef   ValueKind = "indirect_expr_ref"
	KindExpression        ValueKind = "expression"
	KindBlockRange        ValueKind = "block_range"
	KindIndirectBlockRange ValueKind = "indirect_block_range"
	KindCondition         ValueKind = "condition"
	KindLiteral           ValueKind = "literal"
	KindUnknown           ValueKind = "unknown"
)

// ProgramLocation pinpoints where an OperandFact was produced within a
// Program (spec.md 4.7).
type ProgramLocation struct {
	Scope      string // "main" or "subroutine"
	Subroutine string // subroutine name; empty when Scope == "main"
	RungIndex  int
	RungID     string
	BranchPath []int // branch indices by declaration order, nested outer-to-inner
	InstrIndex int    // index of the Item within its rung/branch's list; -1 for a rung's own Power
	InstrType  string // Go type name of the owning instruction, "" for a rung/branch Power
	ArgPath    string // e.g. "instruction.source", "rung.power.left", "rung.power.conditions[0]"
}

func (loc ProgramLocation) String() string {
	scope := loc.Scope
	if loc.Subroutine != "" {
		scope = fmt.Sprintf("%s(%s)", loc.Scope, loc.Subroutine)
	}
	s := fmt.Sprintf("%s/rung[%d]", scope, loc.RungIndex)
	for _, b := range loc.BranchPath {
		s += fmt.Sprintf("/branch[%d]", b)
	}
	if loc.InstrIndex >= 0 {
		s += fmt.Sprintf("/item[%d]", loc.InstrIndex)
	}
	if loc.InstrType != "" {
		s += "<" + loc.InstrType + ">"
	}
	if loc.ArgPath != "" {
		s += ":" + loc.ArgPath
	}
	return s
}

// OperandFact is one normalized operand, condition, or expression leaf
// discovered by Walk (spec.md 4.7).
type OperandFact struct {
	Location  ProgramLocation
	ValueKind ValueKind
	TypeLabel string // Go type name of the node itself, e.g. "expr.TagRef"
	Summary   string // deterministic human-readable summary; never a memory address
	Meta      map[string]string
}

// Walk traverses p in the order spec.md 4.7 fixes — main rungs in
// list-order, then subroutines sorted by name, each rung's condition
// before its items, nested branches in declaration order — and returns
// every OperandFact it discovers. Walk never raises on a node it does
// not recognize; such nodes become a KindUnknown fact instead.
func Walk(p *rung.Program) []OperandFact {
	w := &walker{seen: make(map[*rung.Branch]bool)}
	w.walkRungs("main", "", p.Main)

	names := make([]string, 0, len(p.Subroutines))
	for name := range p.Subroutines {
		names = append(names, name)
	}
	sortStrings(names)
	for _, name := range names {
		w.walkRungs("subroutine", name, p.Subroutines[name])
	}
	return w.facts
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

type walker struct {
	facts []OperandFact
	seen  map[*rung.Branch]bool // branches currently on the recursion stack, guards cycles
}

func (w *walker) emit(loc ProgramLocation, kind ValueKind, typeLabel, summary string, meta map[string]string) {
	w.facts = append(w.facts, OperandFact{Location: loc, ValueKind: kind, TypeLabel: typeLabel, Summary: summary, Meta: meta})
}

func (w *walker) walkRungs(scope, subroutine string, rungs []rung.Rung) {
	for i, rg := range rungs {
		loc := ProgramLocation{Scope: scope, Subroutine: subroutine, RungIndex: i, RungID: rg.ID, InstrIndex: -1}
		powerLoc := loc
		powerLoc.ArgPath = "rung.power"
		w.visitCond(powerLoc, rg.Power)
		w.walkItems(loc, rg.Items)
	}
}

func (w *walker) walkItems(loc ProgramLocation, items []rung.Item) {
	for i, it := range items {
		itemLoc := loc
		itemLoc.InstrIndex = i
		switch v := it.(type) {
		case rung.InstrItem:
			itemLoc.InstrType = fmt.Sprintf("%T", v.Inst)
			w.visitInstruction(itemLoc, v.Inst)
		case rung.BranchItem:
			w.walkBranch(itemLoc, v.Branch)
		default:
			itemLoc.ArgPath = "item"
			w.emit(itemLoc, KindUnknown, fmt.Sprintf("%T", it), "unrecognized item", nil)
		}
	}
}

func (w *walker) walkBranch(loc ProgramLocation, br *rung.Branch) {
	if br == nil {
		return
	}
	if w.seen[br] {
		loc.ArgPath = "branch"
		w.emit(loc, KindUnknown, "rung.Branch", "cycle detected, traversal truncated", nil)
		return
	}
	w.seen[br] = true
	defer delete(w.seen, br)

	branchLoc := loc
	branchLoc.BranchPath = append(append([]int(nil), loc.BranchPath...), loc.InstrIndex)
	branchLoc.InstrIndex = -1
	branchLoc.InstrType = ""

	if br.Power != nil {
		powerLoc := branchLoc
		powerLoc.ArgPath = "branch.power"
		w.visitCond(powerLoc, br.Power)
	}
	w.walkItems(branchLoc, br.Items)
}

// visitCond descends a cond.Cond tree, emitting one fact per node.
func (w *walker) visitCond(loc ProgramLocation, c cond.Cond) {
	if c == nil {
		return
	}
	switch n := c.(type) {
	case cond.Direct:
		w.emit(loc, KindTag, "cond.Direct", n.Tag.Name(), nil)
	case cond.Negated:
		w.emit(loc, KindTag, "cond.Negated", n.Tag.Name(), map[string]string{"negated": "true"})
	case cond.IntTruthy:
		w.emit(loc, KindTag, "cond.IntTruthy", n.Tag.Name(), map[string]string{"int_truthy": "true"})
	case cond.RisingEdge:
		w.emit(loc, KindTag, "cond.RisingEdge", n.Tag.Name(), map[string]string{"edge": "rising"})
	case cond.FallingEdge:
		w.emit(loc, KindTag, "cond.FallingEdge", n.Tag.Name(), map[string]string{"edge": "falling"})
	case cond.Compare:
		w.emit(loc, KindCondition, "cond.Compare", "compare("+compareOpName(n.Op)+")", map[string]string{"op": compareOpName(n.Op)})
		left, right := loc, loc
		left.ArgPath = loc.ArgPath + ".left"
		right.ArgPath = loc.ArgPath + ".right"
		w.visitExpr(left, n.L)
		w.visitExpr(right, n.R)
	case cond.All:
		w.emit(loc, KindCondition, "cond.All", fmt.Sprintf("all(%d)", len(n.Conds)), nil)
		for i, sub := range n.Conds {
			subLoc := loc
			subLoc.ArgPath = fmt.Sprintf("%s.conditions[%d]", loc.ArgPath, i)
			w.visitCond(subLoc, sub)
		}
	case cond.Any:
		w.emit(loc, KindCondition, "cond.Any", fmt.Sprintf("any(%d)", len(n.Conds)), nil)
		for i, sub := range n.Conds {
			subLoc := loc
			subLoc.ArgPath = fmt.Sprintf("%s.conditions[%d]", loc.ArgPath, i)
			w.visitCond(subLoc, sub)
		}
	default:
		w.emit(loc, KindUnknown, fmt.Sprintf("%T", c), "unrecognized condition node", nil)
	}
}

func compareOpName(op cond.CompareOp) string {
	switch op {
	case cond.Eq:
		return "eq"
	case cond.Ne:
		return "ne"
	case cond.Lt:
		return "lt"
	case cond.Le:
		return "le"
	case cond.Gt:
		return "gt"
	case cond.Ge:
		return "ge"
	default:
		return "unknown"
	}
}

// visitExpr descends an expr.Expr tree, emitting one fact per node.
func (w *walker) visitExpr(loc ProgramLocation, e expr.Expr) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case expr.TagRef:
		w.emit(loc, KindTag, "expr.TagRef", n.Tag.Name(), nil)
	case expr.IndirectTagRef:
		w.emit(loc, KindIndirectRef, "expr.IndirectTagRef",
			fmt.Sprintf("%s[%s]", n.Ref.Block.Name(), n.Ref.Pointer.Name()),
			map[string]string{"pointer_name": n.Ref.Pointer.Name(), "block_name": n.Ref.Block.Name()})
	case expr.Literal:
		w.emit(loc, KindLiteral, "expr.Literal", n.Value.String(), map[string]string{"kind": n.Value.Kind().String()})
	case expr.Binary:
		w.emit(loc, KindExpression, "expr.Binary", "binary("+binOpName(n.Op)+")", map[string]string{"expr_type": "binary", "op": binOpName(n.Op)})
		l, r := loc, loc
		l.ArgPath = loc.ArgPath + ".l"
		r.ArgPath = loc.ArgPath + ".r"
		w.visitExpr(l, n.L)
		w.visitExpr(r, n.R)
	case expr.Unary:
		w.emit(loc, KindExpression, "expr.Unary", "unary("+unOpName(n.Op)+")", map[string]string{"expr_type": "unary", "op": unOpName(n.Op)})
		x := loc
		x.ArgPath = loc.ArgPath + ".x"
		w.visitExpr(x, n.X)
	case expr.MathCall:
		w.emit(loc, KindExpression, "expr.MathCall", "mathcall("+mathFnName(n.Fn)+")", map[string]string{"expr_type": "mathcall", "fn": mathFnName(n.Fn)})
		x := loc
		x.ArgPath = loc.ArgPath + ".x"
		w.visitExpr(x, n.X)
	case expr.ShiftExpr:
		w.emit(loc, KindExpression, "expr.ShiftExpr", "shift("+shiftOpName(n.Op)+")", map[string]string{"expr_type": "shift", "op": shiftOpName(n.Op)})
		x, bits := loc, loc
		x.ArgPath = loc.ArgPath + ".x"
		bits.ArgPath = loc.ArgPath + ".n"
		w.visitExpr(x, n.X)
		w.visitExpr(bits, n.N)
	default:
		w.emit(loc, KindUnknown, fmt.Sprintf("%T", e), "unrecognized expression node", nil)
	}
}

func binOpName(op expr.BinOp) string {
	names := [...]string{"add", "sub", "mul", "div", "intdiv", "mod", "pow", "bitand", "bitor", "bitxor", "shl", "shr"}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}

func unOpName(op expr.UnOp) string {
	names := [...]string{"neg", "pos", "abs", "bitnot"}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}

func mathFnName(fn expr.MathFn) string {
	names := [...]string{"sqrt", "sin", "cos", "tan", "asin", "acos", "atan", "log", "log10", "radians", "degrees"}
	if int(fn) < len(names) {
		return names[fn]
	}
	return "unknown"
}

func shiftOpName(op expr.ShiftOp) string {
	names := [...]string{"lsh", "rsh", "lro", "rro"}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown"
}

// visitRange descends an instr.RangeSource, emitting one fact.
func (w *walker) visitRange(loc ProgramLocation, rs instr.RangeSource) {
	if rs == nil {
		return
	}
	switch n := rs.(type) {
	case instr.StaticRange:
		w.emit(loc, KindBlockRange, "instr.StaticRange", fmt.Sprintf("block_range(len=%d)", n.Range.Len()), nil)
	case instr.IndirectRange:
		w.emit(loc, KindIndirectBlockRange, "instr.IndirectRange",
			fmt.Sprintf("%s[%s:%s]", n.Ref.Block.Name(), n.Ref.StartTag.Name(), n.Ref.EndTag.Name()),
			map[string]string{"block_name": n.Ref.Block.Name(), "start_pointer_name": n.Ref.StartTag.Name(), "end_pointer_name": n.Ref.EndTag.Name()})
	default:
		w.emit(loc, KindUnknown, fmt.Sprintf("%T", rs), "unrecognized range source", nil)
	}
}
