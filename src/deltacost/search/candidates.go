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
	"fmt"

	"github.com/m3db/deltacost/src/deltacost/encoding"
)

var errNoRanges = errors.New("no group ranges to search")

// Candidates enumerates every configuration in the ranges, varying the last
// group's large width fastest, and reports how many were skipped because
// they fail validation against the layout.
func Candidates(layout encoding.Layout, ranges []GroupRange) ([]encoding.Configuration, int, error) {
	if len(ranges) == 0 {
		return nil, 0, errNoRanges
	}
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, 0, fmt.Errorf("group %d: %w", i, err)
		}
	}

	var (
		candidates []encoding.Configuration
		skipped    int
		current    = make([]encoding.Widths, len(ranges))
		enumerate  func(group int)
	)
	enumerate = func(group int) {
		if group == len(ranges) {
			cfg := encoding.NewConfiguration(current...)
			if layout.ValidateConfiguration(cfg) != nil {
				skipped++
				return
			}
			candidates = append(candidates, cfg)
			return
		}
		r := ranges[group]
		for small := r.Small.Min; small <= r.Small.Max; small++ {
			for large := r.Large.Min; large <= r.Large.Max; large++ {
				current[group] = encoding.Widths{Small: small, Large: large}
				enumerate(group + 1)
			}
		}
	}
	enumerate(0)
	return candidates, skipped, nil
}
