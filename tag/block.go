// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import (
	"fmt"
	"sort"

	"github.com/aclements/go-ladder/value"
)

// Formatter produces a stable external name for index i of a block
// named name (spec.md 3.2: "Name3", "X001", etc).
type Formatter func(name string, i int) string

// DecimalFormatter yields "Name3"-style names.
func DecimalFormatter(name string, i int) string {
	return fmt.Sprintf("%s%d", name, i)
}

// PaddedFormatter yields "X001"-style fixed-width zero-padded names.
func PaddedFormatter(width int) Formatter {
	return func(name string, i int) string {
		return fmt.Sprintf("%s%0*d", name, width, i)
	}
}

// Block is an indexed collection of tags of one type, modeling a
// contiguous or sparse address range (spec.md 3.2). Indices are
// 1-based.
type Block struct {
	name      string
	kind      value.Kind
	retentive bool
	fmt       Formatter
	indices   []int // sorted ascending, the valid (populated) indices
	byIndex   map[int]Tag
}

// NewBlock builds a Block over the inclusive 1-based range [lo, hi],
// optionally restricted to a sparse set of valid indices (nil means
// all of [lo,hi] is valid).
func NewBlock(r *Registry, name string, kind value.Kind, lo, hi int, sparse []int, retentive bool, f Formatter) *Block {
	if f == nil {
		f = DecimalFormatter
	}
	b := &Block{name: name, kind: kind, retentive: retentive, fmt: f, byIndex: make(map[int]Tag)}
	valid := sparse
	if valid == nil {
		valid = make([]int, 0, hi-lo+1)
		for i := lo; i <= hi; i++ {
			valid = append(valid, i)
		}
	}
	sort.Ints(valid)
	for _, i := range valid {
		tagName := f(name, i)
		var t Tag
		switch kind {
		case value.Bool:
			t = r.Bool(tagName, false, retentive)
		case value.Int:
			t = r.Int(tagName, 0, retentive)
		case value.Dint:
			t = r.Dint(tagName, 0, retentive)
		case value.Real:
			t = r.Real(tagName, 0, retentive)
		case value.Word:
			t = r.Word(tagName, 0, retentive)
		case value.Char:
			t = r.Char(tagName, 0, false, retentive)
		default:
			panic("tag: unknown block kind")
		}
		b.byIndex[i] = t
		b.indices = append(b.indices, i)
	}
	return b
}

func (b *Block) Name() string      { return b.name }
func (b *Block) Kind() value.Kind  { return b.kind }
func (b *Block) Retentive() bool   { return b.retentive }

// At returns the tag at 1-based index i.
func (b *Block) At(i int) (Tag, bool) {
	t, ok := b.byIndex[i]
	return t, ok
}

// Indices returns the block's valid indices in ascending order.
func (b *Block) Indices() []int {
	out := make([]int, len(b.indices))
	copy(out, b.indices)
	return out
}

// BlockRange is an ordered, finite sequence of tags produced by
// slicing a Block (spec.md 3.2).
type BlockRange struct {
	tags []Tag
}

func NewBlockRange(tags []Tag) BlockRange {
	return BlockRange{tags: append([]Tag(nil), tags...)}
}

func (r BlockRange) Tags() []Tag { return r.tags }
func (r BlockRange) Len() int    { return len(r.tags) }

// Select slices the block over the inclusive 1-based index range
// [a,b], yielding a BlockRange of whatever valid indices fall within
// it, in ascending index order.
func (b *Block) Select(a, bEnd int) BlockRange {
	var out []Tag
	for _, i := range b.indices {
		if i >= a && i <= bEnd {
			out = append(out, b.byIndex[i])
		}
	}
	return NewBlockRange(out)
}

// Getter is the minimal read surface the tag package needs from a
// Scan Context in order to resolve indirect references without
// importing scanctx (which itself imports tag), avoiding a cycle.
type Getter interface {
	GetTag(name string, def value.Value) value.Value
}

// IndirectRef is Block[pointer]: an index resolved from a pointer
// tag's current value at evaluation time (spec.md 3.2).
type IndirectRef struct {
	Block   *Block
	Pointer Tag
}

// Resolve looks up the pointer's current (integer) value in g and
// returns the tag at that index, or an AddressOutOfRange-flavored
// error if the resolved index is invalid. The caller (instr/expr)
// wraps this in ladderr.
func (ref IndirectRef) Resolve(g Getter) (Tag, error) {
	pv := g.GetTag(ref.Pointer.Name(), ref.Pointer.Default())
	idx := int(pv.AsFloat())
	t, ok := ref.Block.At(idx)
	if !ok {
		return Tag{}, fmt.Errorf("address out of range: %s[%d]", ref.Block.Name(), idx)
	}
	return t, nil
}

// IndirectBlockRange resolves its start/end from tag values at
// evaluation time; start must be <= end (spec.md 3.2).
type IndirectBlockRange struct {
	Block    *Block
	StartTag Tag
	EndTag   Tag
}

func (r IndirectBlockRange) Resolve(g Getter) (BlockRange, error) {
	sv := g.GetTag(r.StartTag.Name(), r.StartTag.Default())
	ev := g.GetTag(r.EndTag.Name(), r.EndTag.Default())
	start, end := int(sv.AsFloat()), int(ev.AsFloat())
	if start > end {
		return BlockRange{}, fmt.Errorf("indirect block range: start %d > end %d", start, end)
	}
	return r.Block.Select(start, end), nil
}
