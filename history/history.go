// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package history implements the History & Debug Engine (spec.md 4.6):
// a bounded ring of committed snapshots keyed by scan_id, an
// independent inspection playhead, diff/fork, monitors, and predicate
// breakpoints. Grounded on findflakes/flaketest.go's Culprits, which
// walks back a bounded window from the most recent entry
// (`r.First-limit`) rather than keeping an ever-growing log — the same
// "bounded, FIFO from the tip" shape this package generalizes to a
// full ring buffer keyed by scan_id instead of a single counter.
package history

import (
	"sort"
	"sync"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// History is an ordered, optionally bounded ring of committed
// snapshots. A History is safe for concurrent read access from
// inspection consumers (spec.md 5: "History ... may be published to
// inspection consumers through a thread-safe handle"); Append is
// called only by the owning runner.
type History struct {
	mu    sync.Mutex
	limit int // 0 = unbounded
	// entries holds snapshots in ascending scan_id order; entries[0]
	// is the oldest retained snapshot.
	entries []*scanctx.State

	playhead uint64

	labels map[string][]uint64 // label -> scan_ids, ascending

	nextMonitorID int
	monitors      []*monitor
	breakpoints   []*breakpoint
}

// New builds a History seeded with the initial snapshot. limit <= 0
// means unbounded.
func New(limit int, seed *scanctx.State) *History {
	if limit < 0 {
		limit = 0
	}
	h := &History{
		limit:  limit,
		labels: make(map[string][]uint64),
	}
	h.entries = append(h.entries, seed)
	h.playhead = seed.ScanID
	return h
}

// Reset discards all retained snapshots and re-seeds with seed,
// moving the playhead to seed and clearing labels but preserving
// monitor/breakpoint registrations (spec.md 4.5: a
// Stop->Run transition "clear[s] ... history (seed with initial
// snapshot), and debug-trace caches" while registrations persist).
func (h *History) Reset(seed *scanctx.State) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = []*scanctx.State{seed}
	h.playhead = seed.ScanID
	h.labels = make(map[string][]uint64)
}

// Append publishes a newly committed snapshot at the history's tip,
// evicting the oldest entry first if limit is exceeded. It fires
// monitors for every tag whose value changed from the previous tip,
// then evaluates every predicate breakpoint against the new snapshot.
// It returns a Pause for the first pause breakpoint whose predicate
// matched (for the runner's run/run_for/run_until loop to act on), or
// nil if none did.
func (h *History) Append(s *scanctx.State) *Pause {
	h.mu.Lock()
	prev := h.entries[len(h.entries)-1]
	h.entries = append(h.entries, s)
	if h.limit > 0 && len(h.entries) > h.limit {
		evicted := h.entries[0]
		h.entries = h.entries[1:]
		h.pruneLabelsLocked(evicted.ScanID)
		if h.playhead < h.entries[0].ScanID {
			h.playhead = h.entries[0].ScanID
		}
	}
	monitors := append([]*monitor(nil), h.monitors...)
	breakpoints := append([]*breakpoint(nil), h.breakpoints...)
	h.mu.Unlock()

	for _, m := range monitors {
		if !m.enabled() {
			continue
		}
		cur := s.GetTag(m.tag, value.Value{})
		old := prev.GetTag(m.tag, value.Value{})
		if !value.Equal(cur, old) {
			m.cb(cur, old)
		}
	}

	var pause *Pause
	for _, b := range breakpoints {
		if b.pred(s) {
			if b.label != "" {
				h.label(s.ScanID, b.label)
			}
			if b.pause && pause == nil {
				pause = &Pause{ScanID: s.ScanID, Breakpoint: b}
			}
		}
	}
	return pause
}

// Pause describes why run/run_for/run_until halted early.
type Pause struct {
	ScanID     uint64
	Breakpoint *breakpoint
}

func (h *History) pruneLabelsLocked(evicted uint64) {
	for label, ids := range h.labels {
		kept := ids[:0]
		for _, id := range ids {
			if id != evicted {
				kept = append(kept, id)
			}
		}
		if len(kept) == 0 {
			delete(h.labels, label)
		} else {
			h.labels[label] = kept
		}
	}
}

func (h *History) label(scanID uint64, label string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := h.labels[label]
	for _, id := range ids {
		if id == scanID {
			return
		}
	}
	h.labels[label] = append(ids, scanID)
}

// At returns the retained snapshot with the given scan_id.
func (h *History) At(scanID uint64) (*scanctx.State, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.atLocked(scanID)
}

func (h *History) atLocked(scanID uint64) (*scanctx.State, bool) {
	if len(h.entries) == 0 {
		return nil, false
	}
	first := h.entries[0].ScanID
	if scanID < first {
		return nil, false
	}
	idx := int(scanID - first)
	if idx >= len(h.entries) {
		return nil, false
	}
	return h.entries[idx], true
}

// Latest returns the most recently committed snapshot.
func (h *History) Latest() *scanctx.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Range returns every retained snapshot with scan_id in [a, b].
func (h *History) Range(a, b uint64) []*scanctx.State {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []*scanctx.State
	for _, e := range h.entries {
		if e.ScanID >= a && e.ScanID <= b {
			out = append(out, e)
		}
	}
	return out
}

// Playhead returns the current inspection cursor's scan_id.
func (h *History) Playhead() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playhead
}

// Seek moves the playhead to scanID, which must be retained.
func (h *History) Seek(scanID uint64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.atLocked(scanID); !ok {
		return false
	}
	h.playhead = scanID
	return true
}

// Rewind moves the playhead to the most recent retained snapshot at
// least seconds before the current playhead's timestamp, clamped to
// the oldest retained snapshot.
func (h *History) Rewind(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	cur, ok := h.atLocked(h.playhead)
	if !ok {
		return
	}
	target := cur.Timestamp - seconds
	best := h.entries[0].ScanID
	for _, e := range h.entries {
		if e.Timestamp <= target {
			best = e.ScanID
		}
	}
	h.playhead = best
}

// DiffEntry is one tag's before/after value in a Diff. A nil pointer
// means the tag was absent from that snapshot.
type DiffEntry struct {
	Old, New *value.Value
}

// Diff reports every tag whose value differs between snapshots a and
// b, keyed by tag name (spec.md 4.6). The result is a map, so it
// carries no key order.
func (h *History) Diff(a, b uint64) (map[string]DiffEntry, error) {
	sa, ok := h.At(a)
	if !ok {
		return nil, errScanNotRetained(a)
	}
	sb, ok := h.At(b)
	if !ok {
		return nil, errScanNotRetained(b)
	}
	return Diff(sa, sb), nil
}

// Diff compares two arbitrary snapshots directly, without requiring
// either to be retained in a History.
func Diff(a, b *scanctx.State) map[string]DiffEntry {
	at := a.AllTags()
	bt := b.AllTags()
	names := make(map[string]bool, len(at)+len(bt))
	for n := range at {
		names[n] = true
	}
	for n := range bt {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	out := make(map[string]DiffEntry)
	for _, n := range sorted {
		av, aok := at[n]
		bv, bok := bt[n]
		if aok && bok && value.Equal(av, bv) {
			continue
		}
		var e DiffEntry
		if aok {
			e.Old = &av
		}
		if bok {
			e.New = &bv
		}
		out[n] = e
	}
	return out
}

// Find returns the most recently labeled scan_id carrying label.
func (h *History) Find(label string) (uint64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := h.labels[label]
	if len(ids) == 0 {
		return 0, false
	}
	return ids[len(ids)-1], true
}

// FindAll returns every retained scan_id carrying label, ascending.
func (h *History) FindAll(label string) []uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := h.labels[label]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

type notRetainedError struct{ scanID uint64 }

func (e notRetainedError) Error() string {
	return "history: scan_id not retained"
}

func errScanNotRetained(scanID uint64) error { return notRetainedError{scanID} }
