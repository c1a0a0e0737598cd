// Copyright (c) 2021 Uber Technologies, Inc.
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

package sync

import "time"

// Work is a unit of item to be worked on.
type Work func()

// ScheduleResult is the result of scheduling a goroutine in the worker pool.
type ScheduleResult struct {
	// Available is true if the goroutine was scheduled in the worker pool. False if the request timed out before a
	// worker became available.
	Available bool
	// WaitTime is how long the goroutine had to wait before receiving a worker from the pool or timing out.
	WaitTime time.Duration
}

// WorkerPool provides a pool for goroutines.
type WorkerPool interface {
	// Init initializes the pool.
	Init()

	// GoInstrument waits until the next worker becomes available, executes
	// the work on it and returns the time spent waiting for the worker.
	GoInstrument(work Work) ScheduleResult

	// Size returns the maximum number of concurrent workers.
	Size() int
}
