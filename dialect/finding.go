// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dialect implements the dialect-layer portability and
// hardware-binding checks that sit downstream of package walk
// (spec.md 3.7, 4.7, 6.5): TagMap validation, Profile-driven
// portability findings with stable codes, and the nickname-file CSV
// round-trip.
package dialect

import "github.com/aclements/go-ladder/walk"

// Severity classifies a Finding (spec.md 4.7, 7).
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

// Stable finding codes (spec.md 4.7's example list).
const (
	CodePointerOnlyInCopy           = "pointer_allowed_only_in_copy"
	CodeExpressionOnlyInCalc        = "expression_only_in_calc"
	CodeIndirectBlockRangeNotAllowed = "indirect_block_range_not_allowed"
	CodeBankNotWritable             = "bank_not_writable"
	CodeTimerAccRoleMismatch        = "role_mismatch_for_timer_accumulator"
	CodeCopyFamilyCompatibility     = "copy_family_compatibility"
	CodeCompareOperandCompatibility = "compare_operand_compatibility"
	CodeUnboundIOTag                = "unbound_io_tag"
)

// Finding is one portability or validation result, anchored to the
// Program location that produced it.
type Finding struct {
	Code     string
	Severity Severity
	Location walk.ProgramLocation
	Message  string
}

// promote applies a Profile's strict-mode hint escalation (spec.md
// "a mode switch promotes hints to errors for strict checks").
func promote(sev Severity, strict bool) Severity {
	if strict && sev == SeverityHint {
		return SeverityError
	}
	return sev
}
