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
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCutoffs(t *testing.T) {
	require.Equal(t, []int{0, 1, 3, 7, 15, 31, 63, 127, 255, 511, 1023}, Cutoffs())
}

func TestCoverageHalf(t *testing.T) {
	table, err := Coverage([][]uint64{{10, 10, 10, 10}})
	require.NoError(t, err)
	require.Equal(t, 1, table.NumAxes())
	require.Equal(t, []uint64{40}, table.Totals)
	require.Len(t, table.Rows, NumCutoffs)

	require.Equal(t, 0, table.Rows[0].Cutoff)
	require.Equal(t, 25.0, table.Rows[0].Axes[0].Rounded())
	require.Equal(t, 1, table.Rows[1].Cutoff)
	require.Equal(t, Percent{Value: 50, Defined: true}, table.Rows[1].Axes[0])
	require.Equal(t, "50.0", table.Rows[1].Axes[0].String())

	// Past the end of the column everything is covered.
	for _, row := range table.Rows[2:] {
		require.Equal(t, 100.0, row.Axes[0].Value)
	}
}

func TestCoverageUndefined(t *testing.T) {
	table, err := Coverage([][]uint64{{0, 0, 0}, {}, {1, 2}})
	require.NoError(t, err)
	for _, row := range table.Rows {
		require.False(t, row.Axes[0].Defined)
		require.False(t, row.Axes[1].Defined)
		require.True(t, row.Axes[2].Defined)
		require.Equal(t, "undefined", row.Axes[0].String())
	}
	require.Equal(t, "33.3", table.Rows[0].Axes[2].String())
}

func TestCoverageKeepsOrder(t *testing.T) {
	table, err := Coverage([][]uint64{{1, 99}, {99, 1}})
	require.NoError(t, err)
	require.Equal(t, 1.0, table.Rows[0].Axes[0].Rounded())
	require.Equal(t, 99.0, table.Rows[0].Axes[1].Rounded())
}

func TestCoverageOverflow(t *testing.T) {
	_, err := Coverage([][]uint64{{math.MaxUint64, 1}})
	require.Error(t, err)
}

func TestSumCarry(t *testing.T) {
	total, err := sum([]uint64{math.MaxUint64 - 1, 1, 1}, 2)
	require.NoError(t, err)
	require.Equal(t, uint64(math.MaxUint64), total)

	_, err = sum([]uint64{math.MaxUint64 - 1, 1, 1}, 3)
	require.Equal(t, errOverflow, err)

	total, err = sum([]uint64{2, 3}, 10)
	require.NoError(t, err)
	require.Equal(t, uint64(5), total)
}

func TestPercentRounded(t *testing.T) {
	require.Equal(t, 66.7, Percent{Value: 200.0 / 3, Defined: true}.Rounded())
	require.Equal(t, "12.3", Percent{Value: 12.34, Defined: true}.String())
}
