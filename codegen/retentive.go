// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/aclements/go-ladder/scanctx"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// Store persists a generated runtime's retentive tags to a single
// file at Path, schema-tagged with SchemaHash so a build mismatch is
// caught at load rather than silently misinterpreting stale bytes
// (spec.md 6.4).
type Store struct {
	Path string
}

type record struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

type file struct {
	SchemaHash string   `json:"schema_hash"`
	Tags       []record `json:"tags"`
}

// Save writes every retentive tag's current value in state, atomically
// (temp-file-and-rename, per spec.md 6.4), grounded on
// dashscrape.go's logPath+".tmp" then os.Rename idiom.
func (s Store) Save(reg *tag.Registry, state *scanctx.State) error {
	names := reg.Names()
	sort.Strings(names)

	f := file{SchemaHash: SchemaHash(reg)}
	for _, name := range names {
		t, ok := reg.Lookup(name)
		if !ok || !t.Retentive() {
			continue
		}
		v := state.GetTag(name, t.Default())
		f.Tags = append(f.Tags, record{Name: name, Value: rawValue(v)})
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("codegen: marshal retentive store: %w", err)
	}

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("codegen: write retentive store: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("codegen: commit retentive store: %w", err)
	}
	return nil
}

// Load reads the retentive store written by Save, rejecting it if its
// schema hash does not match reg's current retentive tag set (a build
// whose retentive schema changed must not silently misinterpret a
// prior build's bytes).
func (s Store) Load(reg *tag.Registry) (map[string]value.Value, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, err
	}
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("codegen: unmarshal retentive store: %w", err)
	}
	want := SchemaHash(reg)
	if f.SchemaHash != want {
		return nil, fmt.Errorf("codegen: retentive store schema hash %s does not match current schema %s", f.SchemaHash, want)
	}

	out := make(map[string]value.Value, len(f.Tags))
	for _, rec := range f.Tags {
		t, ok := reg.Lookup(rec.Name)
		if !ok || !t.Retentive() {
			continue
		}
		v, err := parseRawValue(rec.Value, t.Kind())
		if err != nil {
			return nil, fmt.Errorf("codegen: tag %s: %w", rec.Name, err)
		}
		out[rec.Name] = v
	}
	return out, nil
}

// rawValue mirrors history.rawValue's Kind-dispatched scalar
// projection, so the retentive store's JSON shape matches the rest of
// the engine's tag-export convention.
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

// parseRawValue reverses rawValue given the tag's declared Kind (JSON
// numbers all decode to float64 through interface{}, so the Kind is
// what tells us the intended width/signedness back).
func parseRawValue(raw interface{}, kind value.Kind) (value.Value, error) {
	switch kind {
	case value.Bool:
		b, _ := raw.(bool)
		return value.NewBool(b), nil
	case value.Int:
		n, _ := raw.(float64)
		return value.NewInt(int16(n)), nil
	case value.Dint:
		n, _ := raw.(float64)
		return value.NewDint(int32(n)), nil
	case value.Real:
		n, _ := raw.(float64)
		return value.NewReal(float32(n)), nil
	case value.Word:
		n, _ := raw.(float64)
		return value.NewWord(uint16(n)), nil
	case value.Char:
		if raw == nil {
			return value.NewChar(0, false), nil
		}
		s, _ := raw.(string)
		if len(s) == 0 {
			return value.NewChar(0, false), nil
		}
		return value.NewChar(s[0], true), nil
	default:
		return value.Value{}, fmt.Errorf("unknown kind %v", kind)
	}
}
