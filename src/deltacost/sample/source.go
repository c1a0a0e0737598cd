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
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/uber-go/tally"
	"go.uber.org/zap"

	xio "github.com/m3db/deltacost/src/x/io"
)

// relativeQuaternionCenter is the quantized value of a zero relative
// quaternion component once halved.
const relativeQuaternionCenter = 255

//go:generate mockgen -package=sample -destination=sample_mock.go github.com/m3db/deltacost/src/deltacost/sample Source

// Source supplies decoded datasets per field.
type Source interface {
	// Load reads the dataset recorded for the field.
	Load(field Field) (Dataset, error)
}

// ParseError is a malformed line in a sample file.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type sourceMetrics struct {
	samplesLoaded tally.Counter
	loadErrors    tally.Counter
}

func newSourceMetrics(scope tally.Scope) sourceMetrics {
	return sourceMetrics{
		samplesLoaded: scope.Counter("samples-loaded"),
		loadErrors:    scope.Counter("load-errors"),
	}
}

type textSource struct {
	paths   map[Field]string
	opts    Options
	logger  *zap.Logger
	metrics sourceMetrics
}

// NewTextSource returns a source reading one record per line from the file
// configured for each field, decompressed as the options' compression says.
func NewTextSource(paths map[Field]string, opts Options) Source {
	if opts == nil {
		opts = NewOptions()
	}
	iOpts := opts.InstrumentOptions()
	p := make(map[Field]string, len(paths))
	for f, path := range paths {
		p[f] = path
	}
	return &textSource{
		paths:   p,
		opts:    opts,
		logger:  iOpts.Logger(),
		metrics: newSourceMetrics(iOpts.MetricsScope().SubScope("source")),
	}
}

func (s *textSource) Load(field Field) (Dataset, error) {
	path, ok := s.paths[field]
	if !ok {
		return Dataset{}, fmt.Errorf("no sample file configured for field %s", field)
	}

	ds, err := s.load(field, path)
	if err != nil {
		s.metrics.loadErrors.Inc(1)
		return Dataset{}, err
	}

	s.metrics.samplesLoaded.Inc(int64(ds.Len()))
	s.logger.Debug("loaded samples",
		zap.Stringer("field", field),
		zap.String("path", path),
		zap.Int("samples", ds.Len()))
	return ds, nil
}

func (s *textSource) load(field Field, path string) (Dataset, error) {
	fd, err := os.Open(path)
	if err != nil {
		return Dataset{}, err
	}
	defer fd.Close()

	r, err := xio.NewReader(fd, s.opts.Compression())
	if err != nil {
		return Dataset{}, err
	}
	return ReadDataset(r, path, field, s.opts.Delimiter())
}

// ReadDataset decodes a dataset of the given field from r. The name is only
// used to annotate parse errors.
func ReadDataset(r io.Reader, name string, field Field, delimiter string) (Dataset, error) {
	if !field.IsValid() {
		return Dataset{}, errInvalidField
	}

	var (
		samples    []Sample
		references []Sample
		records    []SmallestThree
		refRecords []SmallestThree
		columns    = field.Columns()
		arity      = field.Arity()
	)
	err := readLines(r, name, delimiter, func(lineNum int, values []int64) error {
		if len(values) != columns {
			return fmt.Errorf("%s expects %d values, got %d", field, columns, len(values))
		}
		s, ref := decodeRecord(field, values[:arity], values[arity:])
		if field == SmallestThreeField {
			st, err := SmallestThreeFromSample(s)
			if err != nil {
				return err
			}
			refSt, err := SmallestThreeFromSample(ref)
			if err != nil {
				return fmt.Errorf("reference: %w", err)
			}
			records = append(records, st)
			refRecords = append(refRecords, refSt)
			return nil
		}
		samples = append(samples, s)
		if field.HasReference() {
			references = append(references, ref)
		}
		return nil
	})
	if err != nil {
		return Dataset{}, err
	}

	var ds Dataset
	switch {
	case field == SmallestThreeField:
		ds, err = NewSmallestThreeDataset(records, refRecords)
	case field.HasReference() && references == nil:
		ds, err = NewDataset(field, samples, []Sample{})
	default:
		ds, err = NewDataset(field, samples, references)
	}
	if err != nil {
		return Dataset{}, fmt.Errorf("%s: %w", name, err)
	}
	return ds, nil
}

func decodeRecord(field Field, sampleValues, refValues []int64) (Sample, Sample) {
	switch field {
	case RelativeQuaternionField:
		// Halve the resolution and center x, y and z on zero.
		return NewSample(
			relativeQuaternionCenter-floorHalf(sampleValues[0]),
			relativeQuaternionCenter-floorHalf(sampleValues[1]),
			relativeQuaternionCenter-floorHalf(sampleValues[2]),
			floorHalf(sampleValues[3]),
		), Sample{}
	default:
		s := NewSample(sampleValues...)
		if len(refValues) == 0 {
			return s, Sample{}
		}
		return s, NewSample(refValues...)
	}
}

func floorHalf(v int64) int64 {
	if v < 0 {
		return -((-v + 1) / 2)
	}
	return v / 2
}

// ReadColumns reads rows of non-negative integers, such as per-axis histogram
// bucket counts, and returns them column by column.
func ReadColumns(r io.Reader, name string, axes int, delimiter string) ([][]uint64, error) {
	if axes <= 0 {
		return nil, fmt.Errorf("number of axes must be positive: %d", axes)
	}
	columns := make([][]uint64, axes)
	err := readLines(r, name, delimiter, func(lineNum int, values []int64) error {
		if len(values) != axes {
			return fmt.Errorf("expected %d values, got %d", axes, len(values))
		}
		for i, v := range values {
			if v < 0 {
				return fmt.Errorf("negative count %d", v)
			}
			columns[i] = append(columns[i], uint64(v))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return columns, nil
}

// ReadColumnsFile reads histogram columns from a plain or snappy framed
// file, see ReadColumns.
func ReadColumnsFile(path string, axes int, delimiter string) ([][]uint64, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	r, err := xio.NewReader(fd, xio.AutoCompression)
	if err != nil {
		return nil, err
	}
	return ReadColumns(r, path, axes, delimiter)
}

func readLines(
	r io.Reader,
	name string,
	delimiter string,
	fn func(lineNum int, values []int64) error,
) error {
	var (
		scanner = bufio.NewScanner(r)
		lineNum = 0
		values  []int64
	)
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		values = values[:0]
		for _, token := range strings.Split(line, delimiter) {
			v, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
			if err != nil {
				return &ParseError{File: name, Line: lineNum, Err: err}
			}
			values = append(values, v)
		}
		if err := fn(lineNum, values); err != nil {
			return &ParseError{File: name, Line: lineNum, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
