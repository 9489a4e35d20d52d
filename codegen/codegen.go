// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codegen implements the generated-code runtime contract
// (spec.md 6.4): a deterministic source-to-source path that emits a
// standalone Go program driving a fixed tag registry and ladder
// program through the scan cycle, plus a schema-hashed, atomically
// persisted retentive store for a generated runtime that uses
// retentive tags.
//
// Generate deliberately does not transpile individual instructions
// into native Go statements: doing so would duplicate package instr's
// conversion, timer, and counter semantics in a second place that
// could drift out of sync. Instead the generated file embeds a call
// to the caller's existing program/registry constructors and drives
// them through package runner, which already preserves every
// ordering, saturation, fractional-time-carry, and one-shot-keying
// guarantee spec.md 6.4 lists. What Generate contributes beyond
// hand-writing that wiring is determinism (stable, sorted emission
// order for every name it touches) and schema-hash-tagged retentive
// persistence.
package codegen

import (
	"bytes"
	"fmt"
	"go/format"
	"text/template"

	"golang.org/x/tools/imports"
)

// Generator configures one standalone-program emission.
type Generator struct {
	// Package is the generated file's package clause.
	Package string
	// ProgramFunc/RegistryFunc name the caller-supplied functions
	// (already importable via Imports) that build the *rung.Program
	// and *tag.Registry this build embeds, e.g.
	// "myplant.BuildRegistry" and "myplant.BuildProgram".
	RegistryFunc string
	ProgramFunc  string
	// Imports lists any import paths RegistryFunc/ProgramFunc need
	// beyond the ladder runtime packages, which Generate adds
	// automatically.
	Imports []string
	// RetentivePath, if non-empty, wires a codegen.Store at this path
	// into the generated NewRunner so a retentive-tag build persists
	// across restarts.
	RetentivePath string
}

// tmpl unconditionally lists the codegen import even though the
// RetentivePath-gated block is the only user of it: imports.Process
// (goimports) drops it again when the template renders with no
// RetentivePath, which is simpler than threading a second condition
// through the import block by hand.
var tmpl = template.Must(template.New("generated").Parse(`// Code generated by ladder codegen from {{.RegistryFunc}} / {{.ProgramFunc}}. DO NOT EDIT.

package {{.Package}}

import (
	"github.com/aclements/go-ladder/codegen"
	"github.com/aclements/go-ladder/runner"
{{range .Imports}}	{{printf "%q" .}}
{{end}}
)

// SchemaHash is this build's retentive tag schema fingerprint
// (spec.md 6.4: "schema-tagged with a hash of retentive names+types").
// A retentive store whose hash does not match is rejected rather than
// silently misapplied.
const SchemaHash = {{printf "%q" .SchemaHash}}

{{if .RetentivePath}}
// retentiveStore is this build's atomically-persisted retentive tag
// store (spec.md 6.4: "atomic via temp-file-and-rename").
var retentiveStore = codegen.Store{Path: {{printf "%q" .RetentivePath}}}
{{end}}

// NewRunner builds the Runner wired to this build's program and
// registry, restoring retentive tags from disk when a store is
// configured and its schema hash matches.
func NewRunner(opts ...runner.Option) *runner.Runner {
	reg := {{.RegistryFunc}}()
	prog := {{.ProgramFunc}}(reg)
	r := runner.New(prog, reg, opts...)
{{if .RetentivePath}}
	if saved, err := retentiveStore.Load(reg); err == nil {
		r.Patch(saved)
	}
{{end}}
	return r
}
`))

// Generate renders g's template, gofmt's the result (go/format), and
// resolves/groups its imports (golang.org/x/tools/imports), returning
// final, ready-to-write Go source. schemaHash is the retentive schema
// fingerprint to embed (see SchemaHash); pass "" for a program with no
// retentive tags.
func (g Generator) Generate(schemaHash string) ([]byte, error) {
	if g.Package == "" || g.RegistryFunc == "" || g.ProgramFunc == "" {
		return nil, fmt.Errorf("codegen: Package, RegistryFunc, and ProgramFunc are required")
	}

	var buf bytes.Buffer
	err := tmpl.Execute(&buf, struct {
		Generator
		SchemaHash string
	}{g, schemaHash})
	if err != nil {
		return nil, fmt.Errorf("codegen: render template: %w", err)
	}

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("codegen: gofmt generated source: %w", err)
	}

	processed, err := imports.Process("generated.go", formatted, nil)
	if err != nil {
		return nil, fmt.Errorf("codegen: resolve generated imports: %w", err)
	}
	return processed, nil
}
