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
	"fmt"

	"github.com/m3db/deltacost/src/deltacost/encoding"
)

// Range is an inclusive range of bit widths.
type Range struct {
	Min int `json:"min" yaml:"min" validate:"min=1"`
	Max int `json:"max" yaml:"max" validate:"min=1"`
}

// Validate checks the range is not empty and within encodable widths.
func (r Range) Validate() error {
	if r.Min < 1 || r.Max > encoding.MaxBits {
		return fmt.Errorf("range [%d, %d] must be within [1, %d]", r.Min, r.Max, encoding.MaxBits)
	}
	if r.Min > r.Max {
		return fmt.Errorf("range min %d exceeds max %d", r.Min, r.Max)
	}
	return nil
}

// GroupRange is the small and large width ranges searched for one axis group.
type GroupRange struct {
	Small Range `json:"small" yaml:"small"`
	Large Range `json:"large" yaml:"large"`
}

// Validate checks both ranges.
func (g GroupRange) Validate() error {
	if err := g.Small.Validate(); err != nil {
		return fmt.Errorf("small: %w", err)
	}
	if err := g.Large.Validate(); err != nil {
		return fmt.Errorf("large: %w", err)
	}
	return nil
}

// BandwidthEstimate is the total cost of a dataset under one configuration.
type BandwidthEstimate struct {
	Configuration encoding.Configuration
	TotalBits     uint64
	Escapes       int
}

// Result is the ranked outcome of a search.
type Result struct {
	// Estimates are sorted by ascending total bits, ties in enumeration order.
	Estimates []BandwidthEstimate
	// NumSamples is the number of samples every candidate was scored on.
	NumSamples int
	// AbsoluteBits is the non-adaptive baseline over the whole dataset.
	AbsoluteBits uint64
	// Skipped is the number of enumerated candidates that failed validation.
	Skipped int
}

// Degenerate returns whether the result was computed over no samples, in
// which case every candidate costs zero and ratios are undefined.
func (r Result) Degenerate() bool {
	return r.NumSamples == 0
}

// Top returns at most k best estimates.
func (r Result) Top(k int) []BandwidthEstimate {
	if k < 0 {
		k = 0
	}
	if k > len(r.Estimates) {
		k = len(r.Estimates)
	}
	return r.Estimates[:k]
}

// Best returns the cheapest estimate.
func (r Result) Best() (BandwidthEstimate, bool) {
	if len(r.Estimates) == 0 {
		return BandwidthEstimate{}, false
	}
	return r.Estimates[0], true
}

// Percent returns the estimate's total as a percentage of the absolute
// baseline. It is undefined for degenerate results.
func (r Result) Percent(e BandwidthEstimate) (float64, bool) {
	if r.Degenerate() || r.AbsoluteBits == 0 {
		return 0, false
	}
	return float64(e.TotalBits) / float64(r.AbsoluteBits) * 100, true
}

// AverageBitsPerSample returns the best configuration's mean cost.
func (r Result) AverageBitsPerSample() (float64, bool) {
	best, ok := r.Best()
	if !ok || r.Degenerate() {
		return 0, false
	}
	return float64(best.TotalBits) / float64(r.NumSamples), true
}

// EscapeRate returns the fraction of samples the best configuration sends
// on the fallback path.
func (r Result) EscapeRate() (float64, bool) {
	best, ok := r.Best()
	if !ok || r.Degenerate() {
		return 0, false
	}
	return float64(best.Escapes) / float64(r.NumSamples), true
}
