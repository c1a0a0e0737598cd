// Copyright (c) 2017 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

// Package sync implements synchronization facililites such as worker pools.
package sync

import (
	"sync"
	"time"
)

type workerPool struct {
	workCh chan struct{}
}

// NewWorkerPool creates a new worker pool. A size below one is treated as
// a single worker.
func NewWorkerPool(size int) WorkerPool {
	if size < 1 {
		size = 1
	}
	return &workerPool{workCh: make(chan struct{}, size)}
}

func (p *workerPool) Init() {
	for i := 0; i < cap(p.workCh); i++ {
		p.workCh <- struct{}{}
	}
}

func (p *workerPool) GoInstrument(work Work) ScheduleResult {
	start := time.Now()
	token := <-p.workCh
	wait := time.Since(start)
	go func() {
		work()
		p.workCh <- token
	}()
	return ScheduleResult{
		Available: true,
		WaitTime:  wait,
	}
}

func (p *workerPool) Size() int {
	return cap(p.workCh)
}

// ForEach runs fn for every index in [0, n) on the pool and blocks until all
// invocations have returned. The returned duration is the total time spent
// waiting for workers.
func ForEach(p WorkerPool, n int, fn func(i int)) time.Duration {
	var (
		wg   sync.WaitGroup
		wait time.Duration
	)
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		res := p.GoInstrument(func() {
			defer wg.Done()
			fn(i)
		})
		wait += res.WaitTime
	}
	wg.Wait()
	return wait
}
