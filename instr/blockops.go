// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package instr

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aclements/go-ladder/expr"
	"github.com/aclements/go-ladder/ladderr"
	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/sysfunc"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// RangeSource resolves to a tag.BlockRange at scan time, letting block
// operations take either a statically-bound range or a
// pointer-indexed indirect one (spec.md 3.2, 4.3.5).
type RangeSource interface {
	Resolve(ctx *scanctx.Context) (tag.BlockRange, error)
}

// StaticRange is a RangeSource whose range is fixed at build time.
type StaticRange struct{ Range tag.BlockRange }

func (s StaticRange) Resolve(ctx *scanctx.Context) (tag.BlockRange, error) { return s.Range, nil }

// IndirectRange resolves its bounds from pointer tags every scan.
type IndirectRange struct{ Ref tag.IndirectBlockRange }

func (s IndirectRange) Resolve(ctx *scanctx.Context) (tag.BlockRange, error) { return s.Ref.Resolve(ctx) }

// BlockCopy copies Source element-by-element into Dest using
// saturating conversion, erroring with ladderr.KindSizeMismatch if
// the two ranges differ in length (spec.md 4.3.5).
type BlockCopy struct {
	Source, Dest RangeSource
}

func (b BlockCopy) RungGated() bool { return true }

func (b BlockCopy) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	sr, err := b.Source.Resolve(ctx)
	if err != nil {
		return err
	}
	dr, err := b.Dest.Resolve(ctx)
	if err != nil {
		return err
	}
	if sr.Len() != dr.Len() {
		return ladderr.New(ladderr.KindSizeMismatch, "BlockCopy", fmt.Sprintf("source length %d != dest length %d", sr.Len(), dr.Len()), nil)
	}
	dtags := dr.Tags()
	for i, st := range sr.Tags() {
		v := ctx.GetTag(st.Name(), st.Default())
		conv, _ := value.ConvertSaturating(v, dtags[i].Kind())
		if err := ctx.SetTag(dtags[i].Name(), conv); err != nil {
			return err
		}
	}
	return nil
}

// Fill writes Value, saturating-converted to each element's kind,
// across every tag in Dest.
type Fill struct {
	Dest  RangeSource
	Value expr.Expr
}

func (f Fill) RungGated() bool { return true }

func (f Fill) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	dr, err := f.Dest.Resolve(ctx)
	if err != nil {
		return err
	}
	v, err := f.Value.Eval(ctx)
	if err != nil {
		return err
	}
	for _, t := range dr.Tags() {
		conv, _ := value.ConvertSaturating(v, t.Kind())
		if err := ctx.SetTag(t.Name(), conv); err != nil {
			return err
		}
	}
	return nil
}

// bitWidth returns the packed bit width for a PackBits/UnpackToBits
// destination/source kind (spec.md 4.3.5: 16 bits for INT/WORD, 32 for
// DINT/REAL — REAL packs/unpacks via IEEE-754 bit reinterpretation).
func bitWidth(k value.Kind) int {
	switch k {
	case value.Int, value.Word:
		return 16
	case value.Dint, value.Real:
		return 32
	default:
		return 16
	}
}

// PackBits packs up to bitWidth(Dest.Kind()) BOOL tags from Bits (bit
// i from element i, LSB first) into Dest. More source elements than
// the destination width holds is an out-of-range condition: the
// excess bits are dropped and fault.out_of_range is raised rather
// than erroring the scan.
type PackBits struct {
	Bits RangeSource
	Dest tag.Tag
}

func (p PackBits) RungGated() bool { return true }

func (p PackBits) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	br, err := p.Bits.Resolve(ctx)
	if err != nil {
		return err
	}
	width := bitWidth(p.Dest.Kind())
	tags := br.Tags()
	if len(tags) > width {
		sysfunc.SetFault(ctx, sysfunc.FaultOutOfRange)
		tags = tags[:width]
	}
	var bits uint32
	for i, t := range tags {
		if ctx.GetTag(t.Name(), t.Default()).Truthy() {
			bits |= 1 << uint(i)
		}
	}
	return ctx.SetTag(p.Dest.Name(), packedToValue(bits, p.Dest.Kind()))
}

// UnpackToBits is PackBits's inverse: bit i of Source (LSB first)
// becomes the i'th BOOL tag of Bits. Extra bits beyond len(Bits) are
// silently discarded; fewer destination tags than the source width is
// not an error.
type UnpackToBits struct {
	Source tag.Tag
	Bits   RangeSource
}

func (u UnpackToBits) RungGated() bool { return true }

func (u UnpackToBits) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	br, err := u.Bits.Resolve(ctx)
	if err != nil {
		return err
	}
	width := bitWidth(u.Source.Kind())
	bits := valueToPacked(ctx.GetTag(u.Source.Name(), u.Source.Default()), u.Source.Kind())
	for i, t := range br.Tags() {
		if i >= width {
			break
		}
		bit := bits&(1<<uint(i)) != 0
		if err := ctx.SetTag(t.Name(), value.NewBool(bit)); err != nil {
			return err
		}
	}
	return nil
}

// packedToValue reinterprets the low bitWidth(k) bits of bits as a
// value of kind k; REAL reinterprets the 32 bits as IEEE-754.
func packedToValue(bits uint32, k value.Kind) value.Value {
	switch k {
	case value.Int:
		return value.NewInt(int16(uint16(bits)))
	case value.Word:
		return value.NewWord(uint16(bits))
	case value.Dint:
		return value.NewDint(int32(bits))
	case value.Real:
		return value.NewReal(math.Float32frombits(bits))
	default:
		return value.NewWord(uint16(bits))
	}
}

// valueToPacked is packedToValue's inverse.
func valueToPacked(v value.Value, k value.Kind) uint32 {
	switch k {
	case value.Int:
		return uint32(uint16(v.AsInt()))
	case value.Word:
		return uint32(v.AsWord())
	case value.Dint:
		return uint32(v.AsDint())
	case value.Real:
		return math.Float32bits(v.AsReal())
	default:
		return uint32(v.AsWord())
	}
}

// PackWords combines a low/high pair of WORD tags (Lo, Hi) into the
// DINT tag Dest: Dest = int32(Hi)<<16 | uint32(Lo) (spec.md 4.3.5).
type PackWords struct {
	Lo, Hi tag.Tag
	Dest   tag.Tag
}

func (p PackWords) RungGated() bool { return true }

func (p PackWords) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	lo := ctx.GetTag(p.Lo.Name(), p.Lo.Default()).AsWord()
	hi := ctx.GetTag(p.Hi.Name(), p.Hi.Default()).AsWord()
	combined := int32(uint32(hi)<<16 | uint32(lo))
	return ctx.SetTag(p.Dest.Name(), value.NewDint(combined))
}

// UnpackToWords is PackWords's inverse: Source's low 16 bits go to
// Lo, high 16 bits to Hi.
type UnpackToWords struct {
	Source tag.Tag
	Lo, Hi tag.Tag
}

func (u UnpackToWords) RungGated() bool { return true }

func (u UnpackToWords) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	d := uint32(ctx.GetTag(u.Source.Name(), u.Source.Default()).AsDint())
	if err := ctx.SetTag(u.Lo.Name(), value.NewWord(uint16(d))); err != nil {
		return err
	}
	return ctx.SetTag(u.Hi.Name(), value.NewWord(uint16(d>>16)))
}

// PackText concatenates a range of CHAR tags into a string and parses
// it into the numeric tag Dest, per destination kind (spec.md 4.3.5):
// signed decimal for INT/DINT, hex for WORD, float for REAL.
// AllowWhitespace trims leading/trailing whitespace before parsing
// and raises fault.out_of_range if any trimming actually occurred;
// without it, untrimmed whitespace is itself invalid input. Invalid
// input raises fault.out_of_range and performs no write at all (not
// even a zero default) — the destination tag is left untouched.
type PackText struct {
	Source          RangeSource
	Dest            tag.Tag
	AllowWhitespace bool
}

func (p PackText) RungGated() bool { return true }

func (p PackText) Execute(ctx *scanctx.Context, enabled bool) error {
	if !enabled {
		return nil
	}
	sr, err := p.Source.Resolve(ctx)
	if err != nil {
		return err
	}
	var b strings.Builder
	for _, t := range sr.Tags() {
		v := ctx.GetTag(t.Name(), t.Default())
		if c, present := v.AsChar(); present {
			b.WriteByte(c)
		}
	}
	raw := b.String()
	text := raw
	if p.AllowWhitespace {
		trimmed := strings.TrimSpace(raw)
		if trimmed != raw {
			sysfunc.SetFault(ctx, sysfunc.FaultOutOfRange)
		}
		text = trimmed
	}

	parsed, ok := parseTextForKind(text, p.Dest.Kind())
	if !ok {
		sysfunc.SetFault(ctx, sysfunc.FaultOutOfRange)
		return nil
	}
	return ctx.SetTag(p.Dest.Name(), parsed)
}

func parseTextForKind(text string, k value.Kind) (value.Value, bool) {
	switch k {
	case value.Int:
		n, err := strconv.ParseInt(text, 10, 16)
		if err != nil {
			return value.Value{}, false
		}
		return value.NewInt(int16(n)), true
	case value.Dint:
		n, err := strconv.ParseInt(text, 10, 32)
		if err != nil {
			return value.Value{}, false
		}
		return value.NewDint(int32(n)), true
	case value.Word:
		n, err := strconv.ParseUint(text, 16, 16)
		if err != nil {
			return value.Value{}, false
		}
		return value.NewWord(uint16(n)), true
	case value.Real:
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return value.Value{}, false
		}
		return value.NewReal(float32(f)), true
	default:
		return value.Value{}, false
	}
}
