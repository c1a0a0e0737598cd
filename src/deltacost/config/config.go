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

// Package config defines the YAML configuration of a tuning run.
package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/m3db/deltacost/src/deltacost/encoding"
	"github.com/m3db/deltacost/src/deltacost/sample"
	"github.com/m3db/deltacost/src/deltacost/search"
	"github.com/m3db/deltacost/src/x/instrument"
	xio "github.com/m3db/deltacost/src/x/io"
)

const (
	defaultTopK      = 5
	defaultBuckets   = 1024
	defaultDelimiter = ","
)

var errNoFields = errors.New("no fields configured")

// Configuration is the configuration of a tuning run.
type Configuration struct {
	// Logging configures the logger.
	Logging instrument.LoggingConfiguration `yaml:"logging"`

	// Search configures the configuration search.
	Search SearchConfiguration `yaml:"search"`

	// Source configures how sample files are read.
	Source SourceConfiguration `yaml:"source"`

	// Histogram configures delta magnitude histograms.
	Histogram HistogramConfiguration `yaml:"histogram"`

	// Fields lists the fields to tune.
	Fields []FieldConfiguration `yaml:"fields" validate:"nonzero"`
}

// Validate checks rules spanning several fields of the configuration.
func (c Configuration) Validate() error {
	if len(c.Fields) == 0 {
		return errNoFields
	}
	seen := make(map[sample.Field]struct{}, len(c.Fields))
	for i, f := range c.Fields {
		if err := f.Validate(); err != nil {
			return fmt.Errorf("fields[%d]: %w", i, err)
		}
		if _, ok := seen[f.Field]; ok {
			return fmt.Errorf("fields[%d]: duplicate field %s", i, f.Field)
		}
		seen[f.Field] = struct{}{}
	}
	return c.Search.Validate()
}

// Paths returns the sample file of every configured field.
func (c Configuration) Paths() map[sample.Field]string {
	paths := make(map[sample.Field]string, len(c.Fields))
	for _, f := range c.Fields {
		paths[f.Field] = f.Path
	}
	return paths
}

// SearchConfiguration configures the configuration search.
type SearchConfiguration struct {
	// Concurrency is the number of candidates scored in parallel, defaults
	// to the number of CPUs.
	Concurrency int `yaml:"concurrency" validate:"min=0"`

	// TopK is the number of ranked configurations reported.
	TopK int `yaml:"topK" validate:"min=0"`

	// VerifyBest checks the best estimate against a bit stream encoding.
	VerifyBest bool `yaml:"verifyBest"`
}

// Validate checks the search configuration.
func (c SearchConfiguration) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("search concurrency must not be negative: %d", c.Concurrency)
	}
	if c.TopK < 0 {
		return fmt.Errorf("search topK must not be negative: %d", c.TopK)
	}
	return nil
}

// TopKOrDefault returns the number of ranked configurations to report.
func (c SearchConfiguration) TopKOrDefault() int {
	if c.TopK == 0 {
		return defaultTopK
	}
	return c.TopK
}

// NewOptions builds search options from the configuration.
func (c SearchConfiguration) NewOptions(iOpts instrument.Options) search.Options {
	concurrency := c.Concurrency
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
	}
	return search.NewOptions().
		SetInstrumentOptions(iOpts).
		SetConcurrency(concurrency).
		SetVerifyBest(c.VerifyBest)
}

// SourceConfiguration configures how sample files are read.
type SourceConfiguration struct {
	// Delimiter separates values on one line, defaults to a comma.
	Delimiter string `yaml:"delimiter"`

	// Compression of sample files, detected from the stream header by
	// default.
	Compression xio.CompressionMethod `yaml:"compression"`
}

// NewOptions builds sample options from the configuration.
func (c SourceConfiguration) NewOptions(iOpts instrument.Options) sample.Options {
	delimiter := c.Delimiter
	if delimiter == "" {
		delimiter = defaultDelimiter
	}
	return sample.NewOptions().
		SetInstrumentOptions(iOpts).
		SetDelimiter(delimiter).
		SetCompression(c.Compression)
}

// HistogramConfiguration configures delta magnitude histograms.
type HistogramConfiguration struct {
	// Buckets is the number of unit wide magnitude buckets, defaults to 1024.
	Buckets int `yaml:"buckets" validate:"min=0"`
}

// BucketsOrDefault returns the number of buckets.
func (c HistogramConfiguration) BucketsOrDefault() int {
	if c.Buckets <= 0 {
		return defaultBuckets
	}
	return c.Buckets
}

// FieldConfiguration configures the tuning of one field.
type FieldConfiguration struct {
	// Field is the tuned field.
	Field sample.Field `yaml:"field"`

	// Path is the sample file of the field.
	Path string `yaml:"path" validate:"nonzero"`

	// Groups are the searched width ranges per axis group, defaults to the
	// conventional ranges of the field.
	Groups []search.GroupRange `yaml:"groups"`

	// Layout overrides the calibrated layout of the field.
	Layout *encoding.Layout `yaml:"layout"`
}

// Validate checks the field configuration.
func (c FieldConfiguration) Validate() error {
	if !c.Field.IsValid() {
		return fmt.Errorf("invalid field: %s", c.Field)
	}
	if c.Path == "" {
		return fmt.Errorf("%s has no sample path", c.Field)
	}
	scheme, err := c.NewScheme()
	if err != nil {
		return err
	}
	ranges, err := c.Ranges()
	if err != nil {
		return err
	}
	if n := scheme.Layout().NumGroups(); len(ranges) != n {
		return fmt.Errorf("%s needs %d group ranges, got %d", c.Field, n, len(ranges))
	}
	for i, r := range ranges {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("groups[%d]: %w", i, err)
		}
	}
	return nil
}

// Ranges returns the searched ranges of the field.
func (c FieldConfiguration) Ranges() ([]search.GroupRange, error) {
	if len(c.Groups) > 0 {
		return c.Groups, nil
	}
	return search.DefaultRanges(c.Field)
}

// NewScheme returns the encoding scheme of the field with any layout
// override applied.
func (c FieldConfiguration) NewScheme() (encoding.Scheme, error) {
	scheme, err := encoding.NewScheme(c.Field)
	if err != nil {
		return encoding.Scheme{}, err
	}
	if c.Layout == nil {
		return scheme, nil
	}
	return scheme.SetLayout(*c.Layout)
}
