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

package sample

import (
	"errors"
	"fmt"
)

const numSmallestThreeComponents = 3

var errInvalidLargestIndex = errors.New("largest component index must be in [0, 3]")

// Sample is an immutable tuple of quantized integer components.
type Sample struct {
	values []int64
}

// NewSample creates a new sample holding a copy of the given values.
func NewSample(values ...int64) Sample {
	v := make([]int64, len(values))
	copy(v, values)
	return Sample{values: v}
}

// Len returns the number of components.
func (s Sample) Len() int {
	return len(s.values)
}

// Value returns the i-th component.
func (s Sample) Value(i int) int64 {
	return s.values[i]
}

// Values returns a copy of the components.
func (s Sample) Values() []int64 {
	v := make([]int64, len(s.values))
	copy(v, s.values)
	return v
}

// Equal returns whether both samples hold the same components.
func (s Sample) Equal(other Sample) bool {
	if len(s.values) != len(other.values) {
		return false
	}
	for i := range s.values {
		if s.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

func (s Sample) String() string {
	return fmt.Sprint(s.values)
}

// ComponentIndex identifies the largest quaternion component dropped by the
// smallest-three representation.
type ComponentIndex uint8

// Valid returns whether the index names one of the four quaternion components.
func (c ComponentIndex) Valid() bool {
	return c <= 3
}

// SmallestThree is a rotation stored as the index of its largest component
// and the three remaining quantized components.
type SmallestThree struct {
	Largest    ComponentIndex
	Components [numSmallestThreeComponents]int64
}

// SmallestThreeFromSample decodes a four component sample whose first
// component is the largest index.
func SmallestThreeFromSample(s Sample) (SmallestThree, error) {
	if s.Len() != numSmallestThreeComponents+1 {
		return SmallestThree{}, fmt.Errorf(
			"smallest three requires %d components, got %d", numSmallestThreeComponents+1, s.Len())
	}
	largest := s.Value(0)
	if largest < 0 || largest > 3 {
		return SmallestThree{}, errInvalidLargestIndex
	}
	st := SmallestThree{Largest: ComponentIndex(largest)}
	for i := 0; i < numSmallestThreeComponents; i++ {
		st.Components[i] = s.Value(i + 1)
	}
	return st, nil
}

// Sample encodes the record as a four component sample.
func (st SmallestThree) Sample() Sample {
	return NewSample(int64(st.Largest), st.Components[0], st.Components[1], st.Components[2])
}
