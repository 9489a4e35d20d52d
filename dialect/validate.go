// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dialect

import (
	"fmt"
	"strings"

	"github.com/aclements/go-ladder/cond"
	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/instr"
	"github.com/aclements/go-ladder/rung"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
	"github.com/aclements/go-ladder/walk"
)

// Validate walks p with package walk and applies profile's rules,
// returning every portability and validation Finding in a
// deterministic order (fact-derived findings in walk order, then
// direct instruction-level findings in the same main/subroutine,
// rung, branch order walk uses, then registry-wide TagMap-binding
// completeness findings). reg supplies the full set of declared IO
// tags for the binding-completeness pass; tm resolves a logical tag to
// its bound hardware tag for that pass and for bank-writability checks,
// and may be nil if no TagMap is in use.
func Validate(p *rung.Program, reg *tag.Registry, tm *tag.TagMap, profile Profile) []Finding {
	var findings []Finding

	facts := walk.Walk(p)
	for _, f := range facts {
		findings = append(findings, factFindings(f, tm, profile)...)
	}

	findings = append(findings, walkInstructions(p, profile)...)
	findings = append(findings, unboundIOFindings(reg, tm, profile)...)
	return findings
}

// unboundIOFindings flags every hardware Input/Output tag the
// registry declares that tm has no TagMap entry for (spec.md 3.7: a
// TagMap is what gives a logical IO tag its hardware binding; one with
// no entry can never be realized on a target device). Skipped
// entirely when tm is nil, since a program with no TagMap in use
// hasn't reached the hardware-binding stage yet.
func unboundIOFindings(reg *tag.Registry, tm *tag.TagMap, profile Profile) []Finding {
	if tm == nil {
		return nil
	}
	var findings []Finding
	for _, name := range reg.Names() {
		t, _ := reg.Lookup(name)
		if t.IO() == tag.IONone {
			continue
		}
		if _, ok := tm.Lookup(name); !ok {
			findings = append(findings, Finding{
				Code:     CodeUnboundIOTag,
				Severity: promote(SeverityWarning, profile.StrictPromoteHints),
				Message:  fmt.Sprintf("IO tag %s has no TagMap hardware binding", name),
			})
		}
	}
	return findings
}

func factFindings(f walk.OperandFact, tm *tag.TagMap, profile Profile) []Finding {
	var out []Finding
	add := func(code string, sev Severity, msg string) {
		out = append(out, Finding{Code: code, Severity: promote(sev, profile.StrictPromoteHints), Location: f.Location, Message: msg})
	}

	switch f.ValueKind {
	case walk.KindIndirectRef, walk.KindIndirectExprRef:
		if !profile.AllowIndirectRefOutsideCopy && f.Location.InstrType != "instr.Copy" {
			add(CodePointerOnlyInCopy, SeverityError,
				fmt.Sprintf("indirect reference at %s is only permitted inside a Copy instruction's source", f.Location.ArgPath))
		}
	case walk.KindExpression:
		if !exprAllowedHere(profile, f.Location.InstrType) {
			add(CodeExpressionOnlyInCalc, SeverityError,
				fmt.Sprintf("compound expression at %s is only permitted inside %v", f.Location.ArgPath, profile.ExpressionAllowedIn))
		}
	case walk.KindIndirectBlockRange:
		if !profile.AllowIndirectBlockRange {
			add(CodeIndirectBlockRangeNotAllowed, SeverityError,
				fmt.Sprintf("indirect block range at %s is not permitted by dialect %q", f.Location.ArgPath, profile.Name))
		}
	case walk.KindTag:
		if tm != nil && profile.WritableBankPrefixes != nil && isWriteArgPath(f.Location.ArgPath) {
			if hw, ok := tm.Lookup(f.Summary); ok && !bankWritable(profile, hw.Name()) {
				add(CodeBankNotWritable, SeverityError,
					fmt.Sprintf("tag %s is bound to non-writable hardware bank %s", f.Summary, hw.Name()))
			}
		}
	}
	return out
}

var writeSegments = map[string]bool{
	"target": true, "dest": true, "done": true, "acc": true,
	"found": true, "index": true, "lo": true, "hi": true,
	"step": true, "jump_target": true, "outs": true,
}

// isWriteArgPath reports whether argPath's final path segment names an
// instruction operand the engine writes to, as opposed to one it only
// reads (spec.md 4.3's per-instruction operand contracts).
func isWriteArgPath(argPath string) bool {
	seg := argPath
	if i := strings.LastIndex(seg, "."); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.Index(seg, "["); i >= 0 {
		seg = seg[:i]
	}
	return writeSegments[seg]
}

// walkInstructions performs a direct traversal (mirroring walk.Walk's
// ordering) for the findings that need a tag's declared Kind rather
// than just its name: timer/counter accumulator role, copy/calc
// source/target compatibility, and compare operand compatibility.
func walkInstructions(p *rung.Program, profile Profile) []Finding {
	var findings []Finding
	visit := func(scope, subroutine string, rungs []rung.Rung) {
		for i, rg := range rungs {
			loc := walk.ProgramLocation{Scope: scope, Subroutine: subroutine, RungIndex: i, RungID: rg.ID, InstrIndex: -1}
			findings = append(findings, condFindings(loc, rg.Power, profile)...)
			findings = append(findings, itemsFindings(loc, rg.Items, profile)...)
		}
	}
	visit("main", "", p.Main)
	names := make([]string, 0, len(p.Subroutines))
	for name := range p.Subroutines {
		names = append(names, name)
	}
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j-1] > names[j]; j-- {
			names[j-1], names[j] = names[j], names[j-1]
		}
	}
	for _, name := range names {
		visit("subroutine", name, p.Subroutines[name])
	}
	return findings
}

func itemsFindings(loc walk.ProgramLocation, items []rung.Item, profile Profile) []Finding {
	var findings []Finding
	for i, it := range items {
		itemLoc := loc
		itemLoc.InstrIndex = i
		switch v := it.(type) {
		case rung.InstrItem:
			itemLoc.InstrType = fmt.Sprintf("%T", v.Inst)
			findings = append(findings, instructionFindings(itemLoc, v.Inst, profile)...)
		case rung.BranchItem:
			if v.Branch == nil {
				continue
			}
			branchLoc := itemLoc
			branchLoc.BranchPath = append(append([]int(nil), loc.BranchPath...), i)
			branchLoc.InstrIndex = -1
			branchLoc.InstrType = ""
			findings = append(findings, condFindings(branchLoc, v.Branch.Power, profile)...)
			findings = append(findings, itemsFindings(branchLoc, v.Branch.Items, profile)...)
		}
	}
	return findings
}

func condFindings(loc walk.ProgramLocation, c cond.Cond, profile Profile) []Finding {
	cmp, ok := c.(cond.Compare)
	if !ok {
		if all, ok := c.(cond.All); ok {
			var findings []Finding
			for i, sub := range all.Conds {
				subLoc := loc
				subLoc.ArgPath = fmt.Sprintf("%s.conditions[%d]", loc.ArgPath, i)
				findings = append(findings, condFindings(subLoc, sub, profile)...)
			}
			return findings
		}
		if any, ok := c.(cond.Any); ok {
			var findings []Finding
			for i, sub := range any.Conds {
				subLoc := loc
				subLoc.ArgPath = fmt.Sprintf("%s.conditions[%d]", loc.ArgPath, i)
				findings = append(findings, condFindings(subLoc, sub, profile)...)
			}
			return findings
		}
		return nil
	}
	lk, lok := staticKind(cmp.L)
	rk, rok := staticKind(cmp.R)
	if lok && rok && lk != rk {
		return []Finding{{
			Code:     CodeCompareOperandCompatibility,
			Severity: promote(SeverityWarning, profile.StrictPromoteHints),
			Location: loc,
			Message:  fmt.Sprintf("compare operands have mismatched kinds %s and %s; mismatched types compare false", lk, rk),
		}}
	}
	return nil
}

// staticKind resolves the declared Kind of the simple expression leaves
// (a bare tag reference or literal) that the dialect layer can check
// without evaluating a scan; anything else is unresolvable here and
// reported ok=false so the caller skips the check rather than guessing.
func staticKind(e expr.Expr) (value.Kind, bool) {
	switch n := e.(type) {
	case expr.TagRef:
		return n.Tag.Kind(), true
	case expr.Literal:
		return n.Value.Kind(), true
	default:
		return 0, false
	}
}

func instructionFindings(loc walk.ProgramLocation, inst instr.Instruction, profile Profile) []Finding {
	var findings []Finding
	switch n := inst.(type) {
	case instr.Timer:
		if n.Acc.Kind() != value.Int {
			findings = append(findings, Finding{
				Code: CodeTimerAccRoleMismatch, Severity: promote(SeverityError, profile.StrictPromoteHints),
				Location: loc, Message: fmt.Sprintf("timer accumulator %s must be INT, has kind %s", n.Acc.Name(), n.Acc.Kind()),
			})
		}
		if n.Done.Kind() != value.Bool {
			findings = append(findings, Finding{
				Code: CodeTimerAccRoleMismatch, Severity: promote(SeverityError, profile.StrictPromoteHints),
				Location: loc, Message: fmt.Sprintf("timer done bit %s must be BOOL, has kind %s", n.Done.Name(), n.Done.Kind()),
			})
		}
	case instr.Counter:
		if n.Acc.Kind() != value.Dint {
			findings = append(findings, Finding{
				Code: CodeTimerAccRoleMismatch, Severity: promote(SeverityError, profile.StrictPromoteHints),
				Location: loc, Message: fmt.Sprintf("counter accumulator %s must be DINT, has kind %s", n.Acc.Name(), n.Acc.Kind()),
			})
		}
		if n.Done.Kind() != value.Bool {
			findings = append(findings, Finding{
				Code: CodeTimerAccRoleMismatch, Severity: promote(SeverityError, profile.StrictPromoteHints),
				Location: loc, Message: fmt.Sprintf("counter done bit %s must be BOOL, has kind %s", n.Done.Name(), n.Done.Kind()),
			})
		}
	case instr.Copy:
		findings = append(findings, copyFamilyFindings(loc, n.Source, n.Target, profile)...)
	case instr.Calc:
		findings = append(findings, copyFamilyFindings(loc, n.Source, n.Target, profile)...)
	case instr.ForLoop:
		for i, body := range n.Body {
			bodyLoc := loc
			bodyLoc.ArgPath = fmt.Sprintf("%s.body[%d]", loc.ArgPath, i)
			bodyLoc.InstrType = fmt.Sprintf("%T", body)
			findings = append(findings, instructionFindings(bodyLoc, body, profile)...)
		}
	}
	return findings
}

// copyFamilyFindings flags a Copy/Calc pair whose source is a bare
// Char literal or tag reference feeding a non-Char target (or vice
// versa): the saturating/wrapping numeric conversion is well-defined
// for every other Kind combination, but a Char carries text semantics
// that a blind numeric copy usually does not intend (spec.md 4.3.4's
// conversion contract only covers the numeric kinds cleanly).
func copyFamilyFindings(loc walk.ProgramLocation, source expr.Expr, target tag.Tag, profile Profile) []Finding {
	sk, ok := staticKind(source)
	if !ok {
		return nil
	}
	if (sk == value.Char) != (target.Kind() == value.Char) {
		return []Finding{{
			Code:     CodeCopyFamilyCompatibility,
			Severity: promote(SeverityHint, profile.StrictPromoteHints),
			Location: loc,
			Message:  fmt.Sprintf("copy source kind %s into target kind %s mixes CHAR with a numeric kind", sk, target.Kind()),
		}}
	}
	return nil
}
