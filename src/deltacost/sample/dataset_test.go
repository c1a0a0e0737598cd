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
	"testing"

	"github.com/stretchr/testify/require"
	yaml "gopkg.in/yaml.v2"
)

func TestParseField(t *testing.T) {
	for _, f := range ValidFields() {
		parsed, err := ParseField(f.String())
		require.NoError(t, err)
		require.Equal(t, f, parsed)
		require.True(t, f.IsValid())
	}

	parsed, err := ParseField("Smallest-Three")
	require.NoError(t, err)
	require.Equal(t, SmallestThreeField, parsed)

	_, err = ParseField("velocity")
	require.Error(t, err)
	require.False(t, UnknownField.IsValid())
	require.Equal(t, "unknown", UnknownField.String())
}

func TestFieldColumns(t *testing.T) {
	tests := []struct {
		field   Field
		arity   int
		columns int
	}{
		{PositionField, 3, 6},
		{AxisAngleField, 3, 6},
		{QuaternionField, 4, 4},
		{SmallestThreeField, 4, 8},
		{RelativeQuaternionField, 4, 4},
	}
	for _, test := range tests {
		require.Equal(t, test.arity, test.field.Arity(), test.field.String())
		require.Equal(t, test.columns, test.field.Columns(), test.field.String())
	}
}

func TestFieldYAML(t *testing.T) {
	var out struct {
		Field Field `yaml:"field"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("field: relative-quaternion\n"), &out))
	require.Equal(t, RelativeQuaternionField, out.Field)

	data, err := yaml.Marshal(out)
	require.NoError(t, err)
	require.Equal(t, "field: relative-quaternion\n", string(data))

	require.Error(t, yaml.Unmarshal([]byte("field: spin\n"), &out))
}

func TestSampleImmutable(t *testing.T) {
	values := []int64{1, 2, 3}
	s := NewSample(values...)
	values[0] = 100
	require.Equal(t, int64(1), s.Value(0))

	copied := s.Values()
	copied[1] = 100
	require.Equal(t, int64(2), s.Value(1))

	require.True(t, s.Equal(NewSample(1, 2, 3)))
	require.False(t, s.Equal(NewSample(1, 2)))
	require.False(t, s.Equal(NewSample(1, 2, 4)))
}

func TestSmallestThreeRoundTrip(t *testing.T) {
	st := SmallestThree{Largest: 2, Components: [3]int64{10, -4, 511}}
	decoded, err := SmallestThreeFromSample(st.Sample())
	require.NoError(t, err)
	require.Equal(t, st, decoded)

	_, err = SmallestThreeFromSample(NewSample(4, 1, 2, 3))
	require.Error(t, err)
	_, err = SmallestThreeFromSample(NewSample(-1, 1, 2, 3))
	require.Error(t, err)
	_, err = SmallestThreeFromSample(NewSample(0, 1, 2))
	require.Error(t, err)

	require.True(t, ComponentIndex(3).Valid())
	require.False(t, ComponentIndex(4).Valid())
}

func TestNewDatasetValidation(t *testing.T) {
	pos := []Sample{NewSample(1, 2, 3)}
	base := []Sample{NewSample(0, 0, 0)}

	_, err := NewDataset(PositionField, pos, base)
	require.NoError(t, err)

	_, err = NewDataset(UnknownField, pos, base)
	require.Error(t, err)

	_, err = NewDataset(PositionField, pos, nil)
	require.Error(t, err)

	_, err = NewDataset(PositionField, pos, append(base, NewSample(1, 1, 1)))
	require.Error(t, err)

	_, err = NewDataset(PositionField, []Sample{NewSample(1, 2)}, []Sample{NewSample(1, 2)})
	require.Error(t, err)

	_, err = NewDataset(PositionField, pos, []Sample{NewSample(0, 0)})
	require.Error(t, err)

	_, err = NewDataset(QuaternionField, []Sample{NewSample(1, 2, 3, 4)}, []Sample{NewSample(1, 2, 3, 4)})
	require.Error(t, err)

	_, err = NewDataset(SmallestThreeField,
		[]Sample{NewSample(5, 1, 2, 3)}, []Sample{NewSample(0, 1, 2, 3)})
	require.Error(t, err)

	ds, err := NewDataset(QuaternionField, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, ds.Len())
}

func TestDatasetAccessors(t *testing.T) {
	ds, err := NewDataset(QuaternionField, []Sample{NewSample(511, 511, 511, 511)}, nil)
	require.NoError(t, err)
	require.Equal(t, QuaternionField, ds.Field())
	require.Equal(t, 1, ds.Len())
	require.False(t, ds.HasReferences())
	require.Equal(t, 0, ds.Reference(0).Len())
	require.Equal(t, int64(511), ds.Sample(0).Value(3))
}

func TestNewSmallestThreeDataset(t *testing.T) {
	records := []SmallestThree{{Largest: 2, Components: [3]int64{1, -2, 3}}}
	references := []SmallestThree{{Largest: 0, Components: [3]int64{4, 5, 6}}}

	ds, err := NewSmallestThreeDataset(records, references)
	require.NoError(t, err)
	require.Equal(t, SmallestThreeField, ds.Field())
	require.Equal(t, 1, ds.Len())
	require.True(t, ds.HasReferences())
	require.Equal(t, records[0], ds.SmallestThree(0))
	require.Equal(t, references[0], ds.ReferenceSmallestThree(0))
	require.Equal(t, NewSample(2, 1, -2, 3), ds.Sample(0))
	require.Equal(t, NewSample(0, 4, 5, 6), ds.Reference(0))

	_, err = NewSmallestThreeDataset(records, nil)
	require.ErrorIs(t, err, errReferenceMismatch)

	_, err = NewSmallestThreeDataset([]SmallestThree{{Largest: 4}}, references)
	require.ErrorIs(t, err, errInvalidLargestIndex)

	_, err = NewSmallestThreeDataset(records, []SmallestThree{{Largest: 7}})
	require.ErrorIs(t, err, errInvalidLargestIndex)
	require.Contains(t, err.Error(), "reference 0")
}

func TestNewDatasetSmallestThreeRecords(t *testing.T) {
	ds, err := NewDataset(SmallestThreeField,
		[]Sample{NewSample(3, 7, 8, 9)}, []Sample{NewSample(1, 0, 0, 0)})
	require.NoError(t, err)
	require.Equal(t, SmallestThree{Largest: 3, Components: [3]int64{7, 8, 9}}, ds.SmallestThree(0))
	require.Equal(t, ComponentIndex(1), ds.ReferenceSmallestThree(0).Largest)

	_, err = NewDataset(SmallestThreeField,
		[]Sample{NewSample(4, 7, 8, 9)}, []Sample{NewSample(1, 0, 0, 0)})
	require.Error(t, err)

	other, err := NewDataset(AxisAngleField, []Sample{NewSample(1, 2, 3)}, nil)
	require.NoError(t, err)
	require.Equal(t, SmallestThree{}, other.SmallestThree(0))
	require.Equal(t, SmallestThree{}, other.ReferenceSmallestThree(0))
}

func TestDatasetDigest(t *testing.T) {
	build := func(v int64) Dataset {
		ds, err := NewDataset(PositionField,
			[]Sample{NewSample(v, 2, 3)}, []Sample{NewSample(0, 0, 0)})
		require.NoError(t, err)
		return ds
	}
	require.Equal(t, build(1).Digest(), build(1).Digest())
	require.NotEqual(t, build(1).Digest(), build(2).Digest())

	axisAngle, err := NewDataset(AxisAngleField,
		[]Sample{NewSample(1, 2, 3)}, []Sample{NewSample(0, 0, 0)})
	require.NoError(t, err)
	require.NotEqual(t, build(1).Digest(), axisAngle.Digest())
}

func TestSummarize(t *testing.T) {
	ds, err := NewDataset(SmallestThreeField,
		[]Sample{
			NewSample(0, 10, 20, 30),
			NewSample(1, 10, 20, 30),
			NewSample(2, 11, 20, 30),
		},
		[]Sample{
			NewSample(0, 10, 20, 30),
			NewSample(2, 10, 20, 30),
			NewSample(2, 10, 20, 30),
		})
	require.NoError(t, err)
	require.Equal(t, Summary{Samples: 3, Identical: 1, LargestChanged: 1}, Summarize(ds))

	quat, err := NewDataset(QuaternionField, []Sample{NewSample(1, 2, 3, 4)}, nil)
	require.NoError(t, err)
	require.Equal(t, Summary{Samples: 1}, Summarize(quat))
}
