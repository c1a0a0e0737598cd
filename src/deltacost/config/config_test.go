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

package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/m3db/deltacost/src/deltacost/sample"
	"github.com/m3db/deltacost/src/deltacost/search"
	xconfig "github.com/m3db/deltacost/src/x/config"
	"github.com/m3db/deltacost/src/x/instrument"
	xio "github.com/m3db/deltacost/src/x/io"
)

const testBaseConfig = `
logging:
  level: info
search:
  concurrency: 2
  topK: 3
fields:
  - field: position
    path: /data/position_values.txt
  - field: smallest-three
    path: /data/smallest_three_values.txt
    groups:
      - small: {min: 2, max: 4}
        large: {min: 8, max: 9}
`

const testOverrideConfig = `
search:
  concurrency: 2
  topK: 3
  verifyBest: true
source:
  delimiter: " "
  compression: none
histogram:
  buckets: 64
fields:
  - field: relative-quaternion
    path: /data/relative_quaternion_values.txt
    layout:
      groups: [0, 0, 0]
      flagBits: 1
      selectorBits: 1
      notAllSmallBits: 1
      fallbackHeaderBits: 3
      fallbackBits: [9, 9, 9]
`

func writeFile(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, ioutil.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfiguration(t *testing.T) {
	dir, err := ioutil.TempDir("", "configtest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var cfg Configuration
	require.NoError(t, xconfig.LoadFile(&cfg, writeFile(t, dir, "base.yaml", testBaseConfig)))
	require.Equal(t, "info", cfg.Logging.Level)
	require.Len(t, cfg.Fields, 2)
	require.Equal(t, sample.SmallestThreeField, cfg.Fields[1].Field)
	require.Equal(t, 3, cfg.Search.TopKOrDefault())
	require.Equal(t, 1024, cfg.Histogram.BucketsOrDefault())

	ranges, err := cfg.Fields[0].Ranges()
	require.NoError(t, err)
	require.Len(t, ranges, 2)
	ranges, err = cfg.Fields[1].Ranges()
	require.NoError(t, err)
	require.Equal(t, []search.GroupRange{{
		Small: search.Range{Min: 2, Max: 4},
		Large: search.Range{Min: 8, Max: 9},
	}}, ranges)

	require.Equal(t, map[sample.Field]string{
		sample.PositionField:      "/data/position_values.txt",
		sample.SmallestThreeField: "/data/smallest_three_values.txt",
	}, cfg.Paths())
}

func TestLoadConfigurationOverride(t *testing.T) {
	dir, err := ioutil.TempDir("", "configtest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var cfg Configuration
	require.NoError(t, xconfig.LoadFiles(&cfg,
		writeFile(t, dir, "base.yaml", testBaseConfig),
		writeFile(t, dir, "override.yaml", testOverrideConfig)))

	// Later files replace lists and keep untouched sections.
	require.Equal(t, "info", cfg.Logging.Level)
	require.True(t, cfg.Search.VerifyBest)
	require.Len(t, cfg.Fields, 1)
	require.Equal(t, 64, cfg.Histogram.BucketsOrDefault())

	scheme, err := cfg.Fields[0].NewScheme()
	require.NoError(t, err)
	require.Equal(t, 1, scheme.Layout().NotAllSmallBits)
	require.Equal(t, 30, scheme.Layout().AbsoluteCost())

	iOpts := instrument.NewOptions().SetLogger(zap.NewNop())
	require.Equal(t, " ", cfg.Source.NewOptions(iOpts).Delimiter())
	require.Equal(t, xio.NoCompression, cfg.Source.NewOptions(iOpts).Compression())
	searchOpts := cfg.Search.NewOptions(iOpts)
	require.Equal(t, 2, searchOpts.Concurrency())
	require.True(t, searchOpts.VerifyBest())
}

func TestConfigurationDefaults(t *testing.T) {
	iOpts := instrument.NewOptions().SetLogger(zap.NewNop())
	var cfg Configuration
	require.Equal(t, 5, cfg.Search.TopKOrDefault())
	require.Equal(t, runtime.NumCPU(), cfg.Search.NewOptions(iOpts).Concurrency())
	require.Equal(t, ",", cfg.Source.NewOptions(iOpts).Delimiter())
	require.Equal(t, xio.AutoCompression, cfg.Source.NewOptions(iOpts).Compression())
}

func TestConfigurationValidate(t *testing.T) {
	valid := FieldConfiguration{Field: sample.QuaternionField, Path: "q.txt"}
	require.NoError(t, Configuration{Fields: []FieldConfiguration{valid}}.Validate())

	tests := []struct {
		name string
		cfg  Configuration
	}{
		{name: "no fields", cfg: Configuration{}},
		{name: "duplicate", cfg: Configuration{Fields: []FieldConfiguration{valid, valid}}},
		{name: "unknown field", cfg: Configuration{Fields: []FieldConfiguration{{Path: "x.txt"}}}},
		{name: "no path", cfg: Configuration{Fields: []FieldConfiguration{{Field: sample.QuaternionField}}}},
		{name: "group count", cfg: Configuration{Fields: []FieldConfiguration{{
			Field: sample.PositionField,
			Path:  "p.txt",
			Groups: []search.GroupRange{
				{Small: search.Range{Min: 2, Max: 6}, Large: search.Range{Min: 8, Max: 10}},
			},
		}}}},
		{name: "bad range", cfg: Configuration{Fields: []FieldConfiguration{{
			Field: sample.QuaternionField,
			Path:  "q.txt",
			Groups: []search.GroupRange{
				{Small: search.Range{Min: 6, Max: 2}, Large: search.Range{Min: 8, Max: 10}},
			},
		}}}},
		{name: "negative concurrency", cfg: Configuration{
			Fields: []FieldConfiguration{valid},
			Search: SearchConfiguration{Concurrency: -1},
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			require.Error(t, test.cfg.Validate())
		})
	}
}

func TestLoadConfigurationInvalid(t *testing.T) {
	dir, err := ioutil.TempDir("", "configtest")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	var cfg Configuration
	err = xconfig.LoadFile(&cfg, writeFile(t, dir, "bad.yaml", "fields:\n  - field: spin\n    path: s.txt\n"))
	require.Error(t, err)

	cfg = Configuration{}
	err = xconfig.LoadFile(&cfg, writeFile(t, dir, "unknown.yaml", "unknownKey: 1\n"))
	require.Error(t, err)
}
