// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codegen

import (
	"strings"
	"testing"
)

func TestGenerateRequiresCoreFields(t *testing.T) {
	_, err := Generator{}.Generate("")
	if err == nil {
		t.Fatalf("expected an error for a Generator missing Package/RegistryFunc/ProgramFunc")
	}
}

func TestGenerateEmitsSchemaHashAndConstructorCalls(t *testing.T) {
	g := Generator{
		Package:      "plant1",
		RegistryFunc: "plant1def.BuildRegistry",
		ProgramFunc:  "plant1def.BuildProgram",
		Imports:      []string{"example.com/plant1def"},
	}
	out, err := g.Generate("deadbeef")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	src := string(out)
	for _, want := range []string{
		"package plant1",
		`SchemaHash = "deadbeef"`,
		"plant1def.BuildRegistry()",
		"plant1def.BuildProgram(reg)",
		"func NewRunner(",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
	if strings.Contains(src, "retentiveStore") {
		t.Errorf("generated source should not reference retentiveStore with no RetentivePath set")
	}
}

func TestGenerateWiresRetentiveStoreWhenPathSet(t *testing.T) {
	g := Generator{
		Package:       "plant1",
		RegistryFunc:  "plant1def.BuildRegistry",
		ProgramFunc:   "plant1def.BuildProgram",
		RetentivePath: "/var/lib/plant1/retentive.json",
	}
	out, err := g.Generate("deadbeef")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	src := string(out)
	for _, want := range []string{
		"retentiveStore",
		"/var/lib/plant1/retentive.json",
		"r.Patch(saved)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("generated source missing %q:\n%s", want, src)
		}
	}
}
