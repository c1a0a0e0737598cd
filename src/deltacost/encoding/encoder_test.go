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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/m3db/deltacost/src/deltacost/sample"
)

func TestEncoderCompact(t *testing.T) {
	s, err := NewScheme(sample.SmallestThreeField)
	require.NoError(t, err)
	enc, err := NewEncoder(s, NewConfiguration(Widths{Small: 3, Large: 9}))
	require.NoError(t, err)

	os := NewOStream(nil)
	n, err := enc.Encode(os, sample.NewSample(0, 1, 1, 1), sample.NewSample(0, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, 13, n)
	// 0 111 001 001 001
	require.Equal(t, []byte{0x72, 0x48}, os.Bytes())
}

func TestEncoderLargeComponent(t *testing.T) {
	s, err := NewScheme(sample.AxisAngleField)
	require.NoError(t, err)
	enc, err := NewEncoder(s, NewConfiguration(Widths{Small: 2, Large: 4}))
	require.NoError(t, err)

	// Small threshold 1, large threshold 8: -3 is written as sign 1 and 3-1.
	os := NewOStream(nil)
	n, err := enc.Encode(os, sample.NewSample(10, 7, 0), sample.NewSample(10, 10, 0))
	require.NoError(t, err)
	require.Equal(t, 1+3+2+4+2, n)
	// 0 101 00 1010 00
	require.Equal(t, []byte{0x52, 0x80}, os.Bytes())
}

func TestEncoderFallback(t *testing.T) {
	s, err := NewScheme(sample.SmallestThreeField)
	require.NoError(t, err)
	enc, err := NewEncoder(s, NewConfiguration(Widths{Small: 3, Large: 9}))
	require.NoError(t, err)

	os := NewOStream(nil)
	n, err := enc.Encode(os, sample.NewSample(2, 5, 6, 7), sample.NewSample(1, 5, 6, 7))
	require.NoError(t, err)
	require.Equal(t, 30, n)
	require.Equal(t, 30, os.NumBits())
	// 1 10 000000101 000000110 000000111
	require.Equal(t, []byte{0xc0, 0x50, 0x30, 0x1c}, os.Bytes())

	_, err = enc.Encode(os, sample.NewSample(1, 2), sample.NewSample(1, 2))
	require.Error(t, err)
}

func TestEncoderCompactDominatedByFallback(t *testing.T) {
	s, err := NewScheme(sample.SmallestThreeField)
	require.NoError(t, err)
	enc, err := NewEncoder(s, NewConfiguration(Widths{Small: 3, Large: 9}))
	require.NoError(t, err)

	os := NewOStream(nil)
	n, err := enc.Encode(os, sample.NewSample(0, 200, 200, 200), sample.NewSample(0, 0, 0, 0))
	require.NoError(t, err)
	require.Equal(t, 30, n)
	// 1 00 011001000 011001000 011001000
	require.Equal(t, []byte{0x8c, 0x86, 0x43, 0x20}, os.Bytes())
}

func TestEncoderInvalidLargestIndex(t *testing.T) {
	s, err := NewScheme(sample.SmallestThreeField)
	require.NoError(t, err)
	enc, err := NewEncoder(s, NewConfiguration(Widths{Small: 3, Large: 9}))
	require.NoError(t, err)

	os := NewOStream(nil)
	_, err = enc.Encode(os, sample.NewSample(4, 0, 0, 0), sample.NewSample(0, 0, 0, 0))
	require.Error(t, err)
	require.Equal(t, 0, os.NumBits())

	_, err = enc.Encode(os, sample.NewSample(0, 0, 0, 0), sample.NewSample(-1, 0, 0, 0))
	require.Error(t, err)
	require.Equal(t, 0, os.NumBits())
}

func TestNewEncoderInvalid(t *testing.T) {
	s, err := NewScheme(sample.PositionField)
	require.NoError(t, err)
	_, err = NewEncoder(s, NewConfiguration(Widths{Small: 3, Large: 9}))
	require.Error(t, err)

	// Z components carry 14 bits at full precision.
	_, err = NewEncoder(s, NewConfiguration(Widths{Small: 3, Large: 9}, Widths{Small: 3, Large: 15}))
	require.Error(t, err)
}
