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

package distribution

import (
	"errors"
	"fmt"

	"github.com/m3db/deltacost/src/deltacost/encoding"
	"github.com/m3db/deltacost/src/deltacost/sample"
)

var (
	errOverflow    = errors.New("histogram count overflow")
	errOutOfRange  = errors.New("magnitude outside histogram buckets")
	errInvalidSize = errors.New("histogram needs at least one axis and one bucket")
)

// Histogram counts magnitudes per axis in unit wide buckets [0, buckets).
type Histogram struct {
	counts   [][]uint64
	overflow []uint64
}

// NewHistogram creates an empty histogram.
func NewHistogram(axes, buckets int) (*Histogram, error) {
	if axes < 1 || buckets < 1 {
		return nil, errInvalidSize
	}
	h := &Histogram{
		counts:   make([][]uint64, axes),
		overflow: make([]uint64, axes),
	}
	for i := range h.counts {
		h.counts[i] = make([]uint64, buckets)
	}
	return h, nil
}

// NumAxes returns the number of axes.
func (h *Histogram) NumAxes() int {
	return len(h.counts)
}

// NumBuckets returns the number of buckets per axis.
func (h *Histogram) NumBuckets() int {
	return len(h.counts[0])
}

// Add counts one magnitude per axis. Negative values count by magnitude.
// Nothing is counted unless every magnitude is within the buckets.
func (h *Histogram) Add(magnitudes ...int64) error {
	if len(magnitudes) != len(h.counts) {
		return fmt.Errorf("histogram has %d axes, got %d magnitudes", len(h.counts), len(magnitudes))
	}
	for axis, m := range magnitudes {
		if !h.inRange(m) {
			return fmt.Errorf("%w: axis %d magnitude %d", errOutOfRange, axis, m)
		}
	}
	for axis, m := range magnitudes {
		h.counts[axis][magnitude(m)]++
	}
	return nil
}

// addOrOverflow counts a magnitude, or records it as overflow when it is past
// the last bucket.
func (h *Histogram) addOrOverflow(axis int, m int64) {
	if !h.inRange(m) {
		h.overflow[axis]++
		return
	}
	h.counts[axis][magnitude(m)]++
}

func (h *Histogram) inRange(m int64) bool {
	mag := magnitude(m)
	return mag >= 0 && mag < int64(h.NumBuckets())
}

// Overflow returns how many magnitudes of an axis fell past the last bucket.
func (h *Histogram) Overflow(axis int) uint64 {
	return h.overflow[axis]
}

// Columns returns a copy of the counts, one column per axis ordered by
// ascending magnitude.
func (h *Histogram) Columns() [][]uint64 {
	columns := make([][]uint64, len(h.counts))
	for i, c := range h.counts {
		columns[i] = append([]uint64(nil), c...)
	}
	return columns
}

// HistogramFromDataset builds per component delta magnitude histograms.
// Samples escaping categorically carry no meaningful deltas and are skipped.
func HistogramFromDataset(ds sample.Dataset, scheme encoding.Scheme, buckets int) (*Histogram, error) {
	deltas, err := encoding.PrepareDeltas(ds, scheme)
	if err != nil {
		return nil, err
	}
	h, err := NewHistogram(deltas.Arity(), buckets)
	if err != nil {
		return nil, err
	}
	for i := 0; i < deltas.Len(); i++ {
		d, escape := deltas.At(i)
		if escape {
			continue
		}
		for axis, v := range d {
			h.addOrOverflow(axis, v)
		}
	}
	return h, nil
}

func magnitude(m int64) int64 {
	if m < 0 {
		// MinInt64 stays negative and is rejected as out of range.
		return -m
	}
	return m
}
