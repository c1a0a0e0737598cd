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

// Package report renders search results and coverage tables.
package report

import (
	"fmt"
	"math"

	"github.com/c2h5oh/datasize"

	"github.com/m3db/deltacost/src/deltacost/distribution"
	"github.com/m3db/deltacost/src/deltacost/sample"
	"github.com/m3db/deltacost/src/deltacost/search"
)

// Report is the outcome of a tuning run.
type Report struct {
	Fields   []FieldReport    `json:"fields,omitempty" yaml:"fields,omitempty"`
	Coverage []CoverageReport `json:"coverage,omitempty" yaml:"coverage,omitempty"`
}

// EstimateReport is one ranked configuration.
type EstimateReport struct {
	Rank          int    `json:"rank" yaml:"rank"`
	Configuration string `json:"configuration" yaml:"configuration"`
	TotalBits     uint64 `json:"totalBits" yaml:"totalBits"`
	Size          string `json:"size" yaml:"size"`
	// Percent of the absolute baseline, nil when undefined.
	Percent *float64 `json:"percent" yaml:"percent"`
	Escapes int      `json:"escapes" yaml:"escapes"`
}

// FieldReport is the ranked search result of one field.
type FieldReport struct {
	Field        string           `json:"field" yaml:"field"`
	Digest       string           `json:"digest" yaml:"digest"`
	Summary      sample.Summary   `json:"summary" yaml:"summary"`
	AbsoluteBits uint64           `json:"absoluteBits" yaml:"absoluteBits"`
	AbsoluteSize string           `json:"absoluteSize" yaml:"absoluteSize"`
	Candidates   int              `json:"candidates" yaml:"candidates"`
	Skipped      int              `json:"skipped" yaml:"skipped"`
	Degenerate   bool             `json:"degenerate" yaml:"degenerate"`
	Top          []EstimateReport `json:"top" yaml:"top"`
	// AverageBitsPerSample of the best configuration, nil when undefined.
	AverageBitsPerSample *float64 `json:"averageBitsPerSample" yaml:"averageBitsPerSample"`
	// EscapePercent of the best configuration, nil when undefined.
	EscapePercent *float64 `json:"escapePercent" yaml:"escapePercent"`
}

// AxisCoverage is the coverage of one axis at every cutoff.
type AxisCoverage struct {
	Axis     int    `json:"axis" yaml:"axis"`
	Total    uint64 `json:"total" yaml:"total"`
	Overflow uint64 `json:"overflow,omitempty" yaml:"overflow,omitempty"`
	// Percents per cutoff, nil entries are undefined.
	Percents []*float64 `json:"percents" yaml:"percents"`
}

// CoverageReport is a coverage table.
type CoverageReport struct {
	Name    string         `json:"name" yaml:"name"`
	Cutoffs []int          `json:"cutoffs" yaml:"cutoffs"`
	Axes    []AxisCoverage `json:"axes" yaml:"axes"`
}

// NewFieldReport summarizes a search result over a dataset with at most topK
// ranked configurations.
func NewFieldReport(ds sample.Dataset, res search.Result, topK int) FieldReport {
	r := FieldReport{
		Field:        ds.Field().String(),
		Digest:       fmt.Sprintf("%016x", ds.Digest()),
		Summary:      sample.Summarize(ds),
		AbsoluteBits: res.AbsoluteBits,
		AbsoluteSize: bitsSize(res.AbsoluteBits),
		Candidates:   len(res.Estimates),
		Skipped:      res.Skipped,
		Degenerate:   res.Degenerate(),
	}
	for i, e := range res.Top(topK) {
		er := EstimateReport{
			Rank:          i + 1,
			Configuration: e.Configuration.String(),
			TotalBits:     e.TotalBits,
			Size:          bitsSize(e.TotalBits),
			Escapes:       e.Escapes,
		}
		if pct, ok := res.Percent(e); ok {
			er.Percent = rounded(pct)
		}
		r.Top = append(r.Top, er)
	}
	if avg, ok := res.AverageBitsPerSample(); ok {
		r.AverageBitsPerSample = roundedTo(avg, 2)
	}
	if rate, ok := res.EscapeRate(); ok {
		r.EscapePercent = rounded(rate * 100)
	}
	return r
}

// NewCoverageReport converts a coverage table. Overflow, when given, holds
// per axis counts that fell past the last histogram bucket.
func NewCoverageReport(name string, table distribution.Table, overflow []uint64) CoverageReport {
	r := CoverageReport{
		Name: name,
		Axes: make([]AxisCoverage, table.NumAxes()),
	}
	for axis := range r.Axes {
		r.Axes[axis] = AxisCoverage{Axis: axis, Total: table.Totals[axis]}
		if axis < len(overflow) {
			r.Axes[axis].Overflow = overflow[axis]
		}
	}
	for _, row := range table.Rows {
		r.Cutoffs = append(r.Cutoffs, row.Cutoff)
		for axis, p := range row.Axes {
			var v *float64
			if p.Defined {
				v = rounded(p.Value)
			}
			r.Axes[axis].Percents = append(r.Axes[axis].Percents, v)
		}
	}
	return r
}

func rounded(v float64) *float64 {
	return roundedTo(v, 1)
}

// roundedTo rounds v half away from zero to the given number of decimals.
func roundedTo(v float64, decimals int) *float64 {
	scale := math.Pow10(decimals)
	r := math.Round(v*scale) / scale
	return &r
}

func bitsSize(bits uint64) string {
	bytes := bits / 8
	if bits%8 != 0 {
		bytes++
	}
	return datasize.ByteSize(bytes).HR()
}
