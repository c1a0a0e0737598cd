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

// Package distribution computes cumulative coverage of delta histograms.
package distribution

import (
	"fmt"
	"math"
	"math/bits"
)

// NumCutoffs is the number of prefix cutoffs coverage is reported at.
const NumCutoffs = 11

// Cutoffs returns the prefix cutoffs 2^i - 1 for i in [0, NumCutoffs).
func Cutoffs() []int {
	cutoffs := make([]int, NumCutoffs)
	for i := range cutoffs {
		cutoffs[i] = 1<<uint(i) - 1
	}
	return cutoffs
}

// Percent is a percentage that is undefined when its denominator is zero.
type Percent struct {
	Value   float64
	Defined bool
}

// Rounded returns the value rounded to one decimal place.
func (p Percent) Rounded() float64 {
	return math.Round(p.Value*10) / 10
}

func (p Percent) String() string {
	if !p.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.1f", p.Rounded())
}

// Row is the coverage of every axis at one cutoff.
type Row struct {
	Cutoff int
	Axes   []Percent
}

// Table is the coverage of every axis at every cutoff.
type Table struct {
	Totals []uint64
	Rows   []Row
}

// NumAxes returns the number of axes in the table.
func (t Table) NumAxes() int {
	return len(t.Totals)
}

// Coverage returns, per axis and cutoff K, the share of the axis total held
// by rows 0 through K inclusive. Rows are taken in the order supplied; a
// cutoff past the end of a column covers the whole column. A column summing
// to zero is undefined at every cutoff.
func Coverage(columns [][]uint64) (Table, error) {
	t := Table{Totals: make([]uint64, len(columns))}
	for axis, column := range columns {
		total, err := sum(column, len(column))
		if err != nil {
			return Table{}, fmt.Errorf("axis %d: %w", axis, err)
		}
		t.Totals[axis] = total
	}

	for _, cutoff := range Cutoffs() {
		row := Row{Cutoff: cutoff, Axes: make([]Percent, len(columns))}
		for axis, column := range columns {
			total := t.Totals[axis]
			if total == 0 {
				continue
			}
			// Prefix sums never exceed the validated total.
			covered, _ := sum(column, cutoff+1)
			row.Axes[axis] = Percent{
				Value:   float64(covered) / float64(total) * 100,
				Defined: true,
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func sum(values []uint64, n int) (uint64, error) {
	if n > len(values) {
		n = len(values)
	}
	var total, carry uint64
	for _, v := range values[:n] {
		if total, carry = bits.Add64(total, v, 0); carry != 0 {
			return 0, errOverflow
		}
	}
	return total, nil
}
