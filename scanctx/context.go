// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scanctx

import (
	"github.com/aclements/go-ladder/ladderr"
	"github.com/aclements/go-ladder/tag"
	"github.com/aclements/go-ladder/value"
)

// WriteGuard is consulted by SetTag/SetTags before a write is queued;
// it rejects writes to reserved system tags that are not in the
// runner's writable whitelist (spec.md 4.1, 7: ReadOnlySystemTag).
// A nil WriteGuard allows all writes.
type WriteGuard func(name string) error

// Write pairs a tag name with a value, used by SetTags to preserve
// the caller's write ordering (Go maps have no iteration order).
type Write struct {
	Name  string
	Value value.Value
}

// SubroutineRunner lets a Call instruction (package instr) invoke a
// named subroutine's rungs without instr and rung importing each
// other. *rung.Program implements it, and the runner passes the
// program in as the implementation.
type SubroutineRunner interface {
	RunSubroutine(ctx *Context, name string) error
}

// Context is a per-scan transactional buffer over a committed State
// (spec.md 4.1). All reads see pending writes made earlier in the
// same scan (read-after-write); nothing is visible to other scans
// until Commit.
type Context struct {
	committed *State
	guard     WriteGuard

	// Subroutines resolves Call instructions; nil if the program has
	// none. Set once by the runner before scanning begins.
	Subroutines SubroutineRunner

	pendingTags   map[string]value.Value
	pendingMemory map[string]any
}

// New builds a Context transacting against committed. guard may be
// nil to allow all tag writes (used internally; the runner normally
// supplies a guard that rejects writes to read-only system tags).
func New(committed *State, guard WriteGuard) *Context {
	return &Context{
		committed:     committed,
		guard:         guard,
		pendingTags:   make(map[string]value.Value),
		pendingMemory: make(map[string]any),
	}
}

// Committed returns the snapshot this Context is transacting against.
func (c *Context) Committed() *State { return c.committed }

// GetTag returns the pending-write value for name if one was queued
// earlier in this scan, else the committed value, else def. It never
// mutates state.
func (c *Context) GetTag(name string, def value.Value) value.Value {
	if v, ok := c.pendingTags[name]; ok {
		return v
	}
	return c.committed.GetTag(name, def)
}

// SetTag queues a write visible to subsequent GetTag calls within the
// same scan. Writes to a reserved system tag outside the runner's
// whitelist fail with ladderr.KindReadOnlySystemTag.
func (c *Context) SetTag(name string, v value.Value) error {
	if c.guard != nil {
		if err := c.guard(name); err != nil {
			return ladderr.New(ladderr.KindReadOnlySystemTag, "SetTag", "write to read-only system tag "+name, err)
		}
	}
	c.pendingTags[name] = v
	return nil
}

// SetTags applies a batch of writes with atomic-looking semantics
// equivalent to repeated SetTag calls, in the given order. If any
// write fails, writes already applied earlier in the slice remain
// queued (matching SetTag's own queue-on-success behavior) but the
// error is returned so the caller (an instruction) can abort.
func (c *Context) SetTags(writes []Write) error {
	for _, w := range writes {
		if err := c.SetTag(w.Name, w.Value); err != nil {
			return err
		}
	}
	return nil
}

// SetTagInternal bypasses the write guard. Used only by the runtime
// itself (runner, sysfunc) to update otherwise read-only system tags
// such as scan clocks and RTC (spec.md 4.1).
func (c *Context) SetTagInternal(name string, v value.Value) {
	c.pendingTags[name] = v
}

// GetMemory/SetMemory mirror GetTag/SetTag over the opaque,
// engine-private memory namespace (spec.md 3.3).
func (c *Context) GetMemory(key string, def any) any {
	if v, ok := c.pendingMemory[key]; ok {
		return v
	}
	return c.committed.GetMemory(key, def)
}

func (c *Context) SetMemory(key string, v any) {
	c.pendingMemory[key] = v
}

// Commit produces a new State with ScanID+1, Timestamp+dt, and all
// queued writes applied as a single atomic publication. It does not
// modify c.committed.
func (c *Context) Commit(dt float64) *State {
	return c.committed.withWrites(c.committed.ScanID+1, c.committed.Timestamp+dt, c.pendingTags, c.pendingMemory)
}

var _ tag.Getter = (*Context)(nil)
var _ tag.Getter = (*State)(nil)
