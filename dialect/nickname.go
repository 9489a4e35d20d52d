// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dialect

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// NicknameRecord is one logical-name <-> hardware-address row of a
// nickname/symbol file (spec.md 6.5).
type NicknameRecord struct {
	Nickname string
	Address  string
	Comment  string

	// RangeName is non-empty for a row bracketed between a matching
	// "[Name]" open marker and "[/Name]" close marker row; such rows
	// describe one entry of a contiguous block range rather than a
	// standalone tag.
	RangeName string
}

const nicknameHeader = "Nickname,Address,Comment"

// WriteNicknames serializes records as CSV, wrapping any run of
// consecutive records sharing a non-empty RangeName in its own
// "[Name]" / "[/Name]" marker rows (spec.md 6.5: "block ranges are
// delimited by matching open/close markers").
func WriteNicknames(w io.Writer, records []NicknameRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(nicknameHeader, ",")); err != nil {
		return err
	}
	var openRange string
	for i, rec := range records {
		if rec.RangeName != openRange {
			if openRange != "" {
				if err := cw.Write([]string{"[/" + openRange + "]", "", ""}); err != nil {
					return err
				}
			}
			if rec.RangeName != "" {
				if err := cw.Write([]string{"[" + rec.RangeName + "]", "", ""}); err != nil {
					return err
				}
			}
			openRange = rec.RangeName
		}
		if err := cw.Write([]string{rec.Nickname, rec.Address, rec.Comment}); err != nil {
			return err
		}
		if i == len(records)-1 && openRange != "" {
			if err := cw.Write([]string{"[/" + openRange + "]", "", ""}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadNicknames parses the CSV format WriteNicknames produces,
// recovering each record's RangeName from the open/close markers.
func ReadNicknames(r io.Reader) ([]NicknameRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || strings.Join(rows[0], ",") != nicknameHeader {
		return nil, fmt.Errorf("dialect: nickname file missing header %q", nicknameHeader)
	}

	var records []NicknameRecord
	var rangeStack []string
	for _, row := range rows[1:] {
		name := row[0]
		switch {
		case strings.HasPrefix(name, "[/") && strings.HasSuffix(name, "]"):
			closeName := name[2 : len(name)-1]
			if len(rangeStack) == 0 || rangeStack[len(rangeStack)-1] != closeName {
				return nil, fmt.Errorf("dialect: close marker %q does not match open range", name)
			}
			rangeStack = rangeStack[:len(rangeStack)-1]
		case strings.HasPrefix(name, "[") && strings.HasSuffix(name, "]"):
			rangeStack = append(rangeStack, name[1:len(name)-1])
		default:
			rangeName := ""
			if len(rangeStack) > 0 {
				rangeName = rangeStack[len(rangeStack)-1]
			}
			records = append(records, NicknameRecord{Nickname: name, Address: row[1], Comment: row[2], RangeName: rangeName})
		}
	}
	if len(rangeStack) > 0 {
		return nil, fmt.Errorf("dialect: unclosed range marker(s) %v", rangeStack)
	}
	return records, nil
}

const maxNicknameLength = 32

var reservedNicknames = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "XOR": true,
	"TON": true, "TOF": true, "RTON": true, "CTU": true, "CTD": true,
	"OUT": true, "LATCH": true, "RESET": true, "COPY": true, "CALC": true,
	"CALL": true, "RETURN": true, "TRUE": true, "FALSE": true,
}

func validNicknameChar(r rune) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// ValidateNicknames enforces spec.md 6.5's map-time rules: maximum
// name length, forbidden characters, reserved words, and that every
// "_DN" done-bit nickname has a matching "_ACC" accumulator nickname
// sharing the same prefix (the documented done/accumulator pairing
// convention).
func ValidateNicknames(records []NicknameRecord) []Finding {
	var findings []Finding
	hasAcc := make(map[string]bool)
	for _, rec := range records {
		if strings.HasSuffix(rec.Nickname, "_ACC") {
			hasAcc[strings.TrimSuffix(rec.Nickname, "_ACC")] = true
		}
	}

	for _, rec := range records {
		if len(rec.Nickname) > maxNicknameLength {
			findings = append(findings, Finding{
				Code: "nickname_too_long", Severity: SeverityWarning,
				Message: fmt.Sprintf("nickname %q exceeds maximum length %d", rec.Nickname, maxNicknameLength),
			})
		}
		for _, r := range rec.Nickname {
			if !validNicknameChar(r) {
				findings = append(findings, Finding{
					Code: "nickname_illegal_char", Severity: SeverityWarning,
					Message: fmt.Sprintf("nickname %q contains illegal character %q", rec.Nickname, r),
				})
				break
			}
		}
		if reservedNicknames[strings.ToUpper(rec.Nickname)] {
			findings = append(findings, Finding{
				Code: "nickname_reserved_word", Severity: SeverityWarning,
				Message: fmt.Sprintf("nickname %q collides with a reserved instruction mnemonic", rec.Nickname),
			})
		}
		if strings.HasSuffix(rec.Nickname, "_DN") {
			prefix := strings.TrimSuffix(rec.Nickname, "_DN")
			if !hasAcc[prefix] {
				findings = append(findings, Finding{
					Code: "nickname_unpaired_done_bit", Severity: SeverityHint,
					Message: fmt.Sprintf("done-bit nickname %q has no matching %s_ACC accumulator nickname", rec.Nickname, prefix),
				})
			}
		}
	}
	return findings
}
