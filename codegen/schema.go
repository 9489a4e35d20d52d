// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"encoding/hex"
	"sort"

	"golang.org/x/crypto/blake2b"

	"github.com/aclements/go-ladder/tag"
)

// SchemaHash fingerprints reg's retentive tags (name+kind, sorted by
// name for determinism) with blake2b-256, matching spec.md 6.4's
// "schema-tagged with a hash of retentive names+types." Two registries
// with the same retentive tag set in any order produce the same hash;
// adding, removing, renaming, or changing the kind of any retentive
// tag changes it.
func SchemaHash(reg *tag.Registry) string {
	names := reg.Names()
	sort.Strings(names)

	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only errors for a too-long key, and nil never
		// qualifies.
		panic(err)
	}
	for _, name := range names {
		t, ok := reg.Lookup(name)
		if !ok || !t.Retentive() {
			continue
		}
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(t.Kind().String()))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
