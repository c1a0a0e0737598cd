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

package search

import (
	"errors"
	"runtime"

	"github.com/m3db/deltacost/src/x/instrument"
)

var errInvalidConcurrency = errors.New("search concurrency must be positive")

// Options controls a configuration search.
type Options interface {
	// Validate checks the options.
	Validate() error

	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options

	// SetConcurrency sets the number of candidates scored in parallel.
	SetConcurrency(value int) Options

	// Concurrency returns the number of candidates scored in parallel.
	Concurrency() int

	// SetVerifyBest sets whether the best estimate is checked against a
	// bit stream encoding of the dataset.
	SetVerifyBest(value bool) Options

	// VerifyBest returns whether the best estimate is checked against a
	// bit stream encoding of the dataset.
	VerifyBest() bool
}

type options struct {
	iOpts       instrument.Options
	concurrency int
	verifyBest  bool
}

// NewOptions creates a new set of search options.
func NewOptions() Options {
	return &options{
		iOpts:       instrument.NewOptions(),
		concurrency: runtime.NumCPU(),
	}
}

func (o *options) Validate() error {
	if o.concurrency <= 0 {
		return errInvalidConcurrency
	}
	return nil
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.iOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.iOpts
}

func (o *options) SetConcurrency(value int) Options {
	opts := *o
	opts.concurrency = value
	return &opts
}

func (o *options) Concurrency() int {
	return o.concurrency
}

func (o *options) SetVerifyBest(value bool) Options {
	opts := *o
	opts.verifyBest = value
	return &opts
}

func (o *options) VerifyBest() bool {
	return o.verifyBest
}
