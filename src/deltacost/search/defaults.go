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

	"github.com/m3db/deltacost/src/deltacost/sample"
)

var (
	wideLargeRange = GroupRange{
		Small: Range{Min: 2, Max: 6},
		Large: Range{Min: 8, Max: 10},
	}
	narrowLargeRange = GroupRange{
		Small: Range{Min: 2, Max: 6},
		Large: Range{Min: 6, Max: 10},
	}
)

// DefaultRanges returns the ranges conventionally searched for a field.
func DefaultRanges(field sample.Field) ([]GroupRange, error) {
	switch field {
	case sample.PositionField:
		return []GroupRange{wideLargeRange, wideLargeRange}, nil
	case sample.SmallestThreeField:
		return []GroupRange{wideLargeRange}, nil
	case sample.RelativeQuaternionField, sample.QuaternionField, sample.AxisAngleField:
		return []GroupRange{narrowLargeRange}, nil
	default:
		return nil, fmt.Errorf("no default ranges for field %s", field)
	}
}
