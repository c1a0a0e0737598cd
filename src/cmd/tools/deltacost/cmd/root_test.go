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

package cmd

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/m3db/deltacost/src/deltacost/report"
)

func writeTestFiles(t *testing.T) (string, string) {
	dir, err := ioutil.TempDir("", "deltacostcmd")
	require.NoError(t, err)

	samples := filepath.Join(dir, "smallest_three_values.txt")
	require.NoError(t, ioutil.WriteFile(samples,
		[]byte("0,1,1,1,0,0,0,0\n0,1,1,1,0,0,0,0\n"), 0644))

	cfg := filepath.Join(dir, "run.yaml")
	require.NoError(t, ioutil.WriteFile(cfg, []byte(fmt.Sprintf(`
logging:
  level: error
search:
  concurrency: 2
  topK: 3
  verifyBest: true
fields:
  - field: smallest-three
    path: %s
    groups:
      - small: {min: 3, max: 3}
        large: {min: 8, max: 9}
`, samples)), 0644))
	return dir, cfg
}

func execute(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(ioutil.Discard)
	err := root.Execute()
	return out.String(), err
}

func TestSearchCommand(t *testing.T) {
	dir, cfg := writeTestFiles(t)
	defer os.RemoveAll(dir)

	out, err := execute(t, "search", "-f", cfg, "--format", "json")
	require.NoError(t, err)

	var r report.Report
	require.NoError(t, jsoniter.Unmarshal([]byte(out), &r))
	require.Len(t, r.Fields, 1)
	require.Equal(t, "smallest-three", r.Fields[0].Field)
	require.Equal(t, uint64(26), r.Fields[0].Top[0].TotalBits)
	require.Equal(t, 13.0, *r.Fields[0].AverageBitsPerSample)
}

func TestHistogramCommand(t *testing.T) {
	dir, cfg := writeTestFiles(t)
	defer os.RemoveAll(dir)

	out, err := execute(t, "histogram", "-f", cfg)
	require.NoError(t, err)
	require.Contains(t, out, "smallest-three deltas")
	require.Contains(t, out, "100.0")
}

func TestCoverageCommand(t *testing.T) {
	dir, err := ioutil.TempDir("", "deltacostcmd")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "histogram.txt")
	require.NoError(t, ioutil.WriteFile(path, []byte("10\n10\n10\n10\n"), 0644))

	out, err := execute(t, "coverage", "--axes", "1", "--format", "yaml", path)
	require.NoError(t, err)
	require.Contains(t, out, "- 50")
}

func TestCommandErrors(t *testing.T) {
	_, err := execute(t, "search")
	require.Equal(t, errNoConfigFiles, err)

	dir, cfg := writeTestFiles(t)
	defer os.RemoveAll(dir)

	_, err = execute(t, "search", "-f", cfg, "--format", "xml")
	require.Error(t, err)

	_, err = execute(t, "search", "-f", cfg, "--profile", "block")
	require.Error(t, err)

	_, err = execute(t, "search", "-f", filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = execute(t, "coverage")
	require.Error(t, err)
}
