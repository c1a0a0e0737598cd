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

package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	jsoniter "github.com/json-iterator/go"
	yaml "gopkg.in/yaml.v2"
)

const undefined = "undefined"

// Format is a report rendering.
type Format int

// Supported formats.
const (
	TextFormat Format = iota
	JSONFormat
	YAMLFormat
)

var formatNames = map[Format]string{
	TextFormat: "text",
	JSONFormat: "json",
	YAMLFormat: "yaml",
}

// ParseFormat parses a format name.
func ParseFormat(str string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(str, name) {
			return f, nil
		}
	}
	return TextFormat, fmt.Errorf("unknown report format: %q", str)
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Write renders the report in the given format.
func Write(w io.Writer, r Report, f Format) error {
	switch f {
	case TextFormat:
		return writeText(w, r)
	case JSONFormat:
		json := jsoniter.ConfigCompatibleWithStandardLibrary
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case YAMLFormat:
		data, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown report format: %d", int(f))
	}
}

func writeText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, f := range r.Fields {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		writeFieldText(tw, f)
	}
	for i, c := range r.Coverage {
		if i > 0 || len(r.Fields) > 0 {
			fmt.Fprintln(tw)
		}
		writeCoverageText(tw, c)
	}
	return tw.Flush()
}

func writeFieldText(w io.Writer, f FieldReport) {
	fmt.Fprintf(w, "%s\t(digest %s)\n", f.Field, f.Digest)
	fmt.Fprintf(w, "samples\t%d\n", f.Summary.Samples)
	fmt.Fprintf(w, "identical to reference\t%d\n", f.Summary.Identical)
	if f.Summary.LargestChanged > 0 {
		fmt.Fprintf(w, "largest component changed\t%d\n", f.Summary.LargestChanged)
	}
	fmt.Fprintf(w, "absolute\t%d bits\t%s\n", f.AbsoluteBits, f.AbsoluteSize)
	fmt.Fprintf(w, "candidates\t%d\t(%d skipped)\n", f.Candidates, f.Skipped)
	if f.Degenerate {
		fmt.Fprintln(w, "degenerate\tno samples, every candidate costs zero")
	}
	fmt.Fprintln(w, "rank\tconfiguration\tbits\tsize\t% of absolute\tescapes")
	for _, e := range f.Top {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%d\n",
			e.Rank, e.Configuration, e.TotalBits, e.Size, formatDecimal(e.Percent), e.Escapes)
	}
	fmt.Fprintf(w, "best average bits per sample\t%s\n", formatDecimals(f.AverageBitsPerSample, 2))
	fmt.Fprintf(w, "best escape rate\t%s\n", withUnit(f.EscapePercent, "%"))
}

func writeCoverageText(w io.Writer, c CoverageReport) {
	fmt.Fprintln(w, c.Name)
	header := []string{"cutoff"}
	for _, a := range c.Axes {
		header = append(header, "axis "+strconv.Itoa(a.Axis))
	}
	fmt.Fprintln(w, strings.Join(header, "\t"))
	for i, cutoff := range c.Cutoffs {
		row := []string{strconv.Itoa(cutoff)}
		for _, a := range c.Axes {
			row = append(row, formatDecimal(a.Percents[i]))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	for _, a := range c.Axes {
		if a.Overflow > 0 {
			fmt.Fprintf(w, "axis %d overflow\t%d\n", a.Axis, a.Overflow)
		}
	}
}

func formatDecimal(v *float64) string {
	return formatDecimals(v, 1)
}

func formatDecimals(v *float64, decimals int) string {
	if v == nil {
		return undefined
	}
	return strconv.FormatFloat(*v, 'f', decimals, 64)
}

func withUnit(v *float64, unit string) string {
	if v == nil {
		return undefined
	}
	return formatDecimal(v) + unit
}
