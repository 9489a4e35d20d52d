// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import (
	"encoding/json"
	"sort"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/value"
)

// Snapshot is the JSON-serializable form of one retained scanctx.State
// (SPEC_FULL.md 4.9.2: "a serialized history export ... JSON array of
// snapshots"), consumed by ladderplot.
type Snapshot struct {
	ScanID    uint64                 `json:"scan_id"`
	Timestamp float64                `json:"timestamp"`
	Tags      map[string]interface{} `json:"tags"`
}

func snapshotOf(s *scanctx.State) Snapshot {
	tags := s.AllTags()
	out := make(map[string]interface{}, len(tags))
	names := make([]string, 0, len(tags))
	for n := range tags {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		out[n] = rawValue(tags[n])
	}
	return Snapshot{ScanID: s.ScanID, Timestamp: s.Timestamp, Tags: out}
}

func rawValue(v value.Value) interface{} {
	switch v.Kind() {
	case value.Bool:
		return v.AsBool()
	case value.Int:
		return v.AsInt()
	case value.Dint:
		return v.AsDint()
	case value.Real:
		return v.AsReal()
	case value.Word:
		return v.AsWord()
	case value.Char:
		c, present := v.AsChar()
		if !present {
			return nil
		}
		return string(c)
	default:
		return nil
	}
}

// Export serializes every retained snapshot as a JSON array, oldest
// first.
func (h *History) Export() ([]byte, error) {
	h.mu.Lock()
	entries := append([]*scanctx.State(nil), h.entries...)
	h.mu.Unlock()

	out := make([]Snapshot, len(entries))
	for i, e := range entries {
		out[i] = snapshotOf(e)
	}
	return json.Marshal(out)
}

// Import parses an Export-produced JSON array back into Snapshot
// values, for ladderplot to read without depending on scanctx/value.
func Import(data []byte) ([]Snapshot, error) {
	var out []Snapshot
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
