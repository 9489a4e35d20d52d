// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tag

import "fmt"

// Override carries per-slot hardware metadata that a TagMap entry may
// apply without mutating the bound logical Tag (spec.md 3.7).
type Override struct {
	Name      string // empty: keep logical name
	HasDefault bool
	Retentive  *bool // nil: keep logical retentive flag
}

// entryKind distinguishes TagMap's two binding shapes.
type entryKind int

const (
	entryStandalone entryKind = iota
	entryBlockSlice
)

type mapEntry struct {
	kind     entryKind
	logical  Tag
	hardware Tag
	logicalBlock  *Block
	hardwareRange BlockRange
	override Override
}

// TagMap is a logical-to-hardware binding: standalone Tag<->Tag and
// block-slice Block<->BlockRange entries (spec.md 3.7).
type TagMap struct {
	entries []mapEntry
	// hwNames tracks hardware-side logical names claimed so far, to
	// detect overlapping hardware windows and name collisions after
	// override.
	hwNames map[string]bool
}

func NewTagMap() *TagMap {
	return &TagMap{hwNames: make(map[string]bool)}
}

// BindTag binds a standalone logical tag to a hardware tag.
func (m *TagMap) BindTag(logical, hardware Tag, ov Override) error {
	if logical.Kind() != hardware.Kind() {
		return fmt.Errorf("tagmap: type mismatch binding %s (%s) to %s (%s)",
			logical.Name(), logical.Kind(), hardware.Name(), hardware.Kind())
	}
	name := hardware.Name()
	if ov.Name != "" {
		name = ov.Name
	}
	if m.hwNames[name] {
		return fmt.Errorf("tagmap: logical name collision on %q after override", name)
	}
	m.hwNames[name] = true
	m.entries = append(m.entries, mapEntry{kind: entryStandalone, logical: logical, hardware: hardware, override: ov})
	return nil
}

// BindBlock binds a logical Block to a hardware BlockRange slice.
func (m *TagMap) BindBlock(logical *Block, hardware BlockRange, ov Override) error {
	logicalLen := len(logical.Indices())
	if logicalLen != hardware.Len() {
		return fmt.Errorf("tagmap: size mismatch binding block %s (%d) to range (%d)",
			logical.Name(), logicalLen, hardware.Len())
	}
	for _, t := range hardware.Tags() {
		if t.Kind() != logical.Kind() {
			return fmt.Errorf("tagmap: type mismatch binding block %s to %s", logical.Name(), t.Name())
		}
		name := t.Name()
		if ov.Name != "" {
			name = fmt.Sprintf("%s%d", ov.Name, len(m.hwNames))
		}
		if m.hwNames[name] {
			return fmt.Errorf("tagmap: overlapping hardware window at %q", name)
		}
		m.hwNames[name] = true
	}
	m.entries = append(m.entries, mapEntry{kind: entryBlockSlice, logicalBlock: logical, hardwareRange: hardware, override: ov})
	return nil
}

// Lookup returns the hardware tag bound to a standalone logical tag
// name, if any.
func (m *TagMap) Lookup(logicalName string) (Tag, bool) {
	for _, e := range m.entries {
		if e.kind == entryStandalone && e.logical.Name() == logicalName {
			return e.hardware, true
		}
	}
	return Tag{}, false
}
