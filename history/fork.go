// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package history

import "github.com/aclements/go-ladder/scanctx"

// Fork returns the snapshot at scanID, suitable for seeding a new
// runner with the same program and time mode but clean debug/force/
// pending state and a fresh history containing only that seed
// (spec.md 4.6). The actual runner construction is the caller's
// responsibility (package runner), since History has no notion of a
// Program or time mode.
func (h *History) Fork(scanID uint64) (*scanctx.State, error) {
	s, ok := h.At(scanID)
	if !ok {
		return nil, errScanNotRetained(scanID)
	}
	return s, nil
}
