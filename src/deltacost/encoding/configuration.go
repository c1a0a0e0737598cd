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
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxBits is the widest component width a configuration may use.
const MaxBits = 32

var errNoGroups = errors.New("configuration has no axis groups")

// Widths is the pair of component widths used for one axis group.
type Widths struct {
	Small int `json:"small" yaml:"small"`
	Large int `json:"large" yaml:"large"`
}

// Validate checks 1 <= Small < Large <= MaxBits.
func (w Widths) Validate() error {
	if w.Small < 1 {
		return fmt.Errorf("small bits must be positive: %d", w.Small)
	}
	if w.Large > MaxBits {
		return fmt.Errorf("large bits must be at most %d: %d", MaxBits, w.Large)
	}
	if w.Small >= w.Large {
		return fmt.Errorf("small bits %d must be less than large bits %d", w.Small, w.Large)
	}
	return nil
}

// SmallThreshold is the exclusive bound on a delta magnitude encoded with
// the small width.
func (w Widths) SmallThreshold() int64 {
	return (int64(1) << uint(w.Small-1)) - 1
}

// LargeThreshold is the exclusive bound on a delta magnitude encoded with
// the large width. Large values are offset by the small threshold.
func (w Widths) LargeThreshold() int64 {
	return (int64(1) << uint(w.Large-1)) - 1 + w.SmallThreshold()
}

func (w Widths) String() string {
	return strconv.Itoa(w.Small) + "-" + strconv.Itoa(w.Large)
}

// Configuration assigns small and large widths to every axis group of a
// field. The zero value has no groups and is invalid.
type Configuration struct {
	groups []Widths
}

// NewConfiguration creates a configuration from per group widths.
func NewConfiguration(groups ...Widths) Configuration {
	g := make([]Widths, len(groups))
	copy(g, groups)
	return Configuration{groups: g}
}

// NumGroups returns the number of axis groups.
func (c Configuration) NumGroups() int {
	return len(c.groups)
}

// Group returns the widths of the i-th axis group.
func (c Configuration) Group(i int) Widths {
	return c.groups[i]
}

// Groups returns a copy of the widths of every axis group.
func (c Configuration) Groups() []Widths {
	g := make([]Widths, len(c.groups))
	copy(g, c.groups)
	return g
}

// Validate checks every group.
func (c Configuration) Validate() error {
	if len(c.groups) == 0 {
		return errNoGroups
	}
	for i, g := range c.groups {
		if err := g.Validate(); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
	}
	return nil
}

// String renders the configuration as dash separated widths, e.g. 3-9-2-8.
func (c Configuration) String() string {
	parts := make([]string, 0, len(c.groups))
	for _, g := range c.groups {
		parts = append(parts, g.String())
	}
	return strings.Join(parts, "-")
}
