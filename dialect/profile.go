// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dialect

// Profile describes one target dialect's restrictions on top of the
// generalized engine (spec.md 3.7, 4.7). The engine itself accepts
// every construct Profile might forbid; Profile only governs which
// constructs Validate reports as findings.
type Profile struct {
	Name string

	// AllowIndirectRefOutsideCopy permits an indirect tag/expression
	// reference anywhere an expression is legal. When false, one
	// appearing outside a Copy instruction's source is reported
	// CodePointerOnlyInCopy.
	AllowIndirectRefOutsideCopy bool

	// ExpressionAllowedIn lists the instruction type labels (as
	// produced by fmt.Sprintf("%T", inst), e.g. "instr.Calc") in
	// which a compound expression (anything beyond a bare tag
	// reference or literal) may appear. An expression found in any
	// other instruction is reported CodeExpressionOnlyInCalc.
	ExpressionAllowedIn []string

	// AllowIndirectBlockRange permits IndirectRange block sources.
	// When false, one is reported CodeIndirectBlockRangeNotAllowed.
	AllowIndirectBlockRange bool

	// WritableBankPrefixes lists the hardware-name prefixes (as bound
	// by a TagMap) that a dialect's ladder logic may write to. A
	// write-position tag bound to a hardware name with a prefix not
	// in this list is reported CodeBankNotWritable. A nil slice
	// disables the check entirely (no TagMap in use, or the dialect
	// imposes no bank restriction).
	WritableBankPrefixes []string

	// StrictPromoteHints escalates every hint-severity finding to
	// error severity (spec.md 7: "a mode switch promotes hints to
	// errors for strict checks").
	StrictPromoteHints bool
}

// DefaultProfile is the generalized engine's own native dialect: every
// construct the engine implements is legal, so Validate only reports
// findings that indicate an actual semantic hazard (timer/counter role
// mismatch, compare/copy type mismatch), never a dialect-portability
// restriction.
func DefaultProfile() Profile {
	return Profile{
		Name:                        "generalized",
		AllowIndirectRefOutsideCopy: true,
		ExpressionAllowedIn:         nil, // nil: no restriction
		AllowIndirectBlockRange:     true,
		WritableBankPrefixes:        nil,
	}
}

// StrictClassicProfile models a classic fixed-function PLC dialect
// that restricts pointer references to Copy, compound expressions to
// Calc, forbids indirect block ranges entirely, and treats an "I"
// (discrete input) hardware bank as read-only.
func StrictClassicProfile() Profile {
	return Profile{
		Name:                        "classic",
		AllowIndirectRefOutsideCopy: false,
		ExpressionAllowedIn:         []string{"instr.Calc"},
		AllowIndirectBlockRange:     false,
		WritableBankPrefixes:        []string{"Q", "M", "DB"},
		StrictPromoteHints:          true,
	}
}

func exprAllowedHere(profile Profile, instrType string) bool {
	if profile.ExpressionAllowedIn == nil {
		return true
	}
	for _, t := range profile.ExpressionAllowedIn {
		if t == instrType {
			return true
		}
	}
	return false
}

func bankWritable(profile Profile, hardwareName string) bool {
	if profile.WritableBankPrefixes == nil {
		return true
	}
	for _, prefix := range profile.WritableBankPrefixes {
		if len(hardwareName) >= len(prefix) && hardwareName[:len(prefix)] == prefix {
			return true
		}
	}
	return false
}
