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

package encoding

import (
	"fmt"

	"github.com/m3db/deltacost/src/deltacost/sample"
)

const (
	// quaternionCenter is the quantized value of a zero quaternion component.
	quaternionCenter = 511

	positionXYBits       = 18
	positionZBits        = 14
	quaternionBits       = 9
	largestIndexBits     = 2
	defaultFlagBits      = 1
	defaultSelectorBits  = 1
	positionAbsoluteBits = defaultFlagBits + 2*positionXYBits + positionZBits
	smallestThreeBits    = largestIndexBits + 3*quaternionBits
)

var defaultLayouts = map[sample.Field]Layout{
	sample.PositionField: {
		Groups:             []int{0, 0, 1},
		FlagBits:           defaultFlagBits,
		SelectorBits:       defaultSelectorBits,
		FallbackHeaderBits: defaultFlagBits,
		FallbackBits:       []int{positionXYBits, positionXYBits, positionZBits},
		AbsoluteBits:       positionAbsoluteBits,
	},
	sample.AxisAngleField: {
		Groups:             []int{0, 0, 0},
		FlagBits:           defaultFlagBits,
		SelectorBits:       defaultSelectorBits,
		FallbackHeaderBits: defaultFlagBits,
		FallbackBits:       []int{quaternionBits, quaternionBits, quaternionBits},
		AbsoluteBits:       3 * quaternionBits,
	},
	sample.QuaternionField: {
		Groups:             []int{0, 0, 0, 0},
		FlagBits:           defaultFlagBits,
		SelectorBits:       defaultSelectorBits,
		FallbackHeaderBits: defaultFlagBits,
		FallbackBits:       []int{quaternionBits, quaternionBits, quaternionBits, quaternionBits},
		AbsoluteBits:       4 * quaternionBits,
	},
	sample.SmallestThreeField: {
		Groups:             []int{0, 0, 0},
		FlagBits:           defaultFlagBits,
		SelectorBits:       defaultSelectorBits,
		FallbackHeaderBits: defaultFlagBits + largestIndexBits,
		FallbackBits:       []int{quaternionBits, quaternionBits, quaternionBits},
		AbsoluteBits:       smallestThreeBits,
	},
	sample.RelativeQuaternionField: {
		Groups:             []int{0, 0, 0},
		FlagBits:           defaultFlagBits,
		SelectorBits:       defaultSelectorBits,
		FallbackHeaderBits: defaultFlagBits + largestIndexBits,
		FallbackBits:       []int{quaternionBits, quaternionBits, quaternionBits},
		AbsoluteBits:       smallestThreeBits,
	},
}

// DefaultLayout returns the calibrated layout of a field.
func DefaultLayout(field sample.Field) (Layout, error) {
	l, ok := defaultLayouts[field]
	if !ok {
		return Layout{}, fmt.Errorf("no layout for field %s", field)
	}
	return cloneLayout(l), nil
}

func cloneLayout(l Layout) Layout {
	c := l
	c.Groups = append([]int(nil), l.Groups...)
	c.FallbackBits = append([]int(nil), l.FallbackBits...)
	return c
}

// deltaFn writes the per component deltas of a sample into dst and reports
// whether the sample must escape regardless of magnitudes.
type deltaFn func(s, ref sample.Sample, dst []int64) (bool, error)

// fallbackFn writes the full precision values of an escaped sample into dst
// and returns the tag written in the fallback header.
type fallbackFn func(s sample.Sample, dst []int64) (uint64, error)

// Scheme binds a layout to the way deltas and fallback values are extracted
// from samples of one field.
type Scheme struct {
	field    sample.Field
	layout   Layout
	deltas   deltaFn
	fallback fallbackFn
}

// NewScheme returns the scheme of a field using its default layout.
func NewScheme(field sample.Field) (Scheme, error) {
	l, err := DefaultLayout(field)
	if err != nil {
		return Scheme{}, err
	}
	s := Scheme{field: field, layout: l}
	switch field {
	case sample.PositionField, sample.AxisAngleField:
		s.deltas = referenceDeltas
		s.fallback = absoluteValues
	case sample.QuaternionField:
		s.deltas = centeredDeltas
		s.fallback = absoluteValues
	case sample.SmallestThreeField:
		s.deltas = smallestThreeDeltas
		s.fallback = smallestThreeValues
	case sample.RelativeQuaternionField:
		s.deltas = offsetDeltas
		s.fallback = absoluteValues
	}
	return s, nil
}

// SetLayout returns a copy of the scheme using the given layout. The layout
// must keep the arity of the field's default layout.
func (s Scheme) SetLayout(l Layout) (Scheme, error) {
	if err := l.Validate(); err != nil {
		return Scheme{}, err
	}
	if l.Arity() != s.layout.Arity() {
		return Scheme{}, fmt.Errorf("%s layout needs %d components, got %d",
			s.field, s.layout.Arity(), l.Arity())
	}
	s.layout = cloneLayout(l)
	return s, nil
}

// Field returns the field of the scheme.
func (s Scheme) Field() sample.Field { return s.field }

// Layout returns the layout of the scheme.
func (s Scheme) Layout() Layout { return cloneLayout(s.layout) }

// Deltas writes the deltas of a sample against its reference into dst, which
// must have room for Layout().Arity() values, and reports a categorical escape.
func (s Scheme) Deltas(smp, ref sample.Sample, dst []int64) (bool, error) {
	return s.deltas(smp, ref, dst)
}

// Fallback writes the full precision values of a sample into dst and returns
// the fallback header tag.
func (s Scheme) Fallback(smp sample.Sample, dst []int64) (uint64, error) {
	return s.fallback(smp, dst)
}

func referenceDeltas(s, ref sample.Sample, dst []int64) (bool, error) {
	for i := range dst {
		dst[i] = s.Value(i) - ref.Value(i)
	}
	return false, nil
}

func centeredDeltas(s, _ sample.Sample, dst []int64) (bool, error) {
	for i := range dst {
		dst[i] = s.Value(i) - quaternionCenter
	}
	return false, nil
}

// offsetDeltas reads values that are already deltas around zero. Trailing
// components beyond the layout arity are reconstructed by the receiver.
func offsetDeltas(s, _ sample.Sample, dst []int64) (bool, error) {
	for i := range dst {
		dst[i] = s.Value(i)
	}
	return false, nil
}

func smallestThreeDeltas(s, ref sample.Sample, dst []int64) (bool, error) {
	st, err := sample.SmallestThreeFromSample(s)
	if err != nil {
		return false, err
	}
	refSt, err := sample.SmallestThreeFromSample(ref)
	if err != nil {
		return false, fmt.Errorf("reference: %w", err)
	}
	return recordDeltas(st, refSt, dst), nil
}

// recordDeltas writes the component deltas of two smallest-three records. A
// changed largest index escapes since the components describe different axes.
func recordDeltas(st, ref sample.SmallestThree, dst []int64) bool {
	for i := range dst {
		dst[i] = st.Components[i] - ref.Components[i]
	}
	return st.Largest != ref.Largest
}

func absoluteValues(s sample.Sample, dst []int64) (uint64, error) {
	for i := range dst {
		dst[i] = s.Value(i)
	}
	return 0, nil
}

func smallestThreeValues(s sample.Sample, dst []int64) (uint64, error) {
	st, err := sample.SmallestThreeFromSample(s)
	if err != nil {
		return 0, err
	}
	copy(dst, st.Components[:])
	return uint64(st.Largest), nil
}

// Deltas holds the precomputed deltas of every sample of a dataset.
type Deltas struct {
	arity  int
	values []int64
	escape []bool
}

// PrepareDeltas computes the deltas of every sample once so that candidate
// configurations can be scored without touching the samples again.
func PrepareDeltas(ds sample.Dataset, s Scheme) (Deltas, error) {
	if ds.Field() != s.field {
		return Deltas{}, fmt.Errorf("dataset field %s does not match scheme field %s",
			ds.Field(), s.field)
	}
	n := s.layout.Arity()
	d := Deltas{
		arity:  n,
		values: make([]int64, n*ds.Len()),
		escape: make([]bool, ds.Len()),
	}
	for i := 0; i < ds.Len(); i++ {
		dst := d.values[i*n : (i+1)*n]
		if s.field == sample.SmallestThreeField {
			d.escape[i] = recordDeltas(ds.SmallestThree(i), ds.ReferenceSmallestThree(i), dst)
			continue
		}
		escape, err := s.deltas(ds.Sample(i), ds.Reference(i), dst)
		if err != nil {
			return Deltas{}, fmt.Errorf("sample %d: %w", i, err)
		}
		d.escape[i] = escape
	}
	return d, nil
}

// Len returns the number of samples.
func (d Deltas) Len() int {
	return len(d.escape)
}

// Arity returns the number of deltas per sample.
func (d Deltas) Arity() int {
	return d.arity
}

// At returns the deltas of the i-th sample and whether it escapes
// categorically. The returned slice must not be modified.
func (d Deltas) At(i int) ([]int64, bool) {
	return d.values[i*d.arity : (i+1)*d.arity], d.escape[i]
}
