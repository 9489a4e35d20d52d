// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import "sync"

// WorkerPool bounds the number of concurrently running goroutines to a
// fixed token count, the same "limit chan struct{}" shape
// gopool/pool.go uses for BuildletPool (one token per checked-out
// Gomote there; here, one token per in-flight inspection/export job
// queued against a Runner's History, e.g. concurrent ladderplot
// renders of different scan_id ranges).
type WorkerPool struct {
	limit chan struct{}
	wg    sync.WaitGroup
}

// NewWorkerPool builds a pool allowing at most n concurrent Go calls.
// n <= 0 is treated as 1.
func NewWorkerPool(n int) *WorkerPool {
	if n <= 0 {
		n = 1
	}
	return &WorkerPool{limit: make(chan struct{}, n)}
}

// Go runs f in a new goroutine once a token is available, blocking the
// caller until one frees up if the pool is already at capacity.
func (p *WorkerPool) Go(f func()) {
	p.limit <- struct{}{}
	p.wg.Add(1)
	go func() {
		defer func() {
			<-p.limit
			p.wg.Done()
		}()
		f()
	}()
}

// Wait blocks until every Go'd call has returned.
func (p *WorkerPool) Wait() { p.wg.Wait() }
