// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tag implements the Value & Type Layer (spec.md 3.1-3.2, 3.7):
// tag identity, type classification, block (array) addressing, and the
// logical-to-hardware TagMap binding used by dialect layers.
package tag

import (
	"fmt"

	"github.com/aclements/go-ladder/value"
)

// IO classifies whether a Tag is a plain logical tag or a hardware
// input/output variant (spec.md 3.1).
type IO int

const (
	IONone IO = iota
	IOInput
	IOOutput
)

// Tag is a named, immutable, typed handle. It carries no value of its
// own; values live in snapshots (scanctx.State).
type Tag struct {
	name      string
	kind      value.Kind
	def       value.Value
	retentive bool
	io        IO
	immediate bool
}

// Name returns the tag's globally unique logical name.
func (t Tag) Name() string { return t.name }

// Kind returns the tag's value type.
func (t Tag) Kind() value.Kind { return t.kind }

// Default returns the tag's configured default value.
func (t Tag) Default() value.Value { return t.def }

// Retentive reports whether the tag survives Stop->Run.
func (t Tag) Retentive() bool { return t.retentive }

// IO reports whether this is a plain, input, or output tag.
func (t Tag) IO() IO { return t.io }

// Immediate reports whether an Input/OutputTag additionally requests
// mid-scan (scan-boundary-bypassing) physical I/O access. Meaningless
// for IONone; hardware realization is a dialect concern (spec.md 1,
// out of scope here).
func (t Tag) Immediate() bool { return t.immediate }

func (t Tag) String() string {
	return fmt.Sprintf("%s:%s", t.name, t.kind)
}

// Registry is the arena that owns Tag identity: two Tags with the same
// Name are defined to be the same tag, which this type enforces by
// refusing duplicate registration (spec.md 3.1).
type Registry struct {
	tags map[string]Tag
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tags: make(map[string]Tag)}
}

func (r *Registry) register(t Tag) Tag {
	if _, ok := r.tags[t.name]; ok {
		panic(fmt.Sprintf("tag: duplicate tag name %q", t.name))
	}
	r.tags[t.name] = t
	r.order = append(r.order, t.name)
	return t
}

// Lookup returns the tag registered under name, if any.
func (r *Registry) Lookup(name string) (Tag, bool) {
	t, ok := r.tags[name]
	return t, ok
}

// Names returns all registered tag names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Bool(name string, def bool, retentive bool) Tag {
	return r.register(Tag{name: name, kind: value.Bool, def: value.NewBool(def), retentive: retentive})
}

func (r *Registry) Int(name string, def int16, retentive bool) Tag {
	return r.register(Tag{name: name, kind: value.Int, def: value.NewInt(def), retentive: retentive})
}

func (r *Registry) Dint(name string, def int32, retentive bool) Tag {
	return r.register(Tag{name: name, kind: value.Dint, def: value.NewDint(def), retentive: retentive})
}

func (r *Registry) Real(name string, def float32, retentive bool) Tag {
	return r.register(Tag{name: name, kind: value.Real, def: value.NewReal(def), retentive: retentive})
}

func (r *Registry) Word(name string, def uint16, retentive bool) Tag {
	return r.register(Tag{name: name, kind: value.Word, def: value.NewWord(def), retentive: retentive})
}

func (r *Registry) Char(name string, def byte, present bool, retentive bool) Tag {
	return r.register(Tag{name: name, kind: value.Char, def: value.NewChar(def, present), retentive: retentive})
}

// Input registers an InputTag variant of an existing factory-built tag
// (typically called right after Bool/Int/... with the same attributes,
// setting io=IOInput and the immediate capability).
func (r *Registry) Input(t Tag, immediate bool) Tag {
	t.io = IOInput
	t.immediate = immediate
	r.tags[t.name] = t
	return t
}

// Output registers an OutputTag variant, symmetric to Input.
func (r *Registry) Output(t Tag, immediate bool) Tag {
	t.io = IOOutput
	t.immediate = immediate
	r.tags[t.name] = t
	return t
}
