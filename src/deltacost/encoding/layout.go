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
	"math"

	xerrors "github.com/m3db/deltacost/src/x/errors"
)

var (
	errNoComponents           = errors.New("layout has no components")
	errFallbackArity          = errors.New("layout needs one fallback width per component")
	errNegativeBits           = errors.New("layout bit counts must not be negative")
	errConfigurationGroups    = errors.New("configuration groups do not match layout groups")
	errNonContiguousGroups    = errors.New("layout groups must be numbered from zero without gaps")
	errFallbackHeaderTooSmall = errors.New("fallback header must be at least the flag bits")
	errLargeExceedsFallback   = errors.New("large width exceeds the full precision width")
)

// Layout holds the field calibrated constants of the two-tier encoding.
//
// A compact sample costs FlagBits, plus SelectorBits per component, plus the
// small or large width of every component, plus NotAllSmallBits unless every
// component is small. An escaped sample costs FallbackHeaderBits plus the sum
// of FallbackBits. A sample whose compact form would cost more than the
// fallback is escaped.
type Layout struct {
	// Groups maps each component to its axis group.
	Groups []int `json:"groups" yaml:"groups"`
	// FlagBits is the escape flag written ahead of every sample.
	FlagBits int `json:"flagBits" yaml:"flagBits"`
	// SelectorBits is written per component to select the small or large width.
	SelectorBits int `json:"selectorBits" yaml:"selectorBits"`
	// NotAllSmallBits is added to compact samples with at least one large component.
	NotAllSmallBits int `json:"notAllSmallBits" yaml:"notAllSmallBits"`
	// FallbackHeaderBits is the flag plus any index written for escaped samples.
	FallbackHeaderBits int `json:"fallbackHeaderBits" yaml:"fallbackHeaderBits"`
	// FallbackBits is the full precision width of each component.
	FallbackBits []int `json:"fallbackBits" yaml:"fallbackBits"`
	// AbsoluteBits is the non-adaptive cost of one sample, zero means the
	// fallback cost.
	AbsoluteBits int `json:"absoluteBits" yaml:"absoluteBits"`
}

// Arity returns the number of encoded components.
func (l Layout) Arity() int {
	return len(l.Groups)
}

// NumGroups returns the number of axis groups referenced by the layout.
func (l Layout) NumGroups() int {
	n := 0
	for _, g := range l.Groups {
		if g+1 > n {
			n = g + 1
		}
	}
	return n
}

// Validate checks the layout is self consistent.
func (l Layout) Validate() error {
	if len(l.Groups) == 0 {
		return errNoComponents
	}
	if len(l.FallbackBits) != len(l.Groups) {
		return errFallbackArity
	}
	if l.FlagBits < 0 || l.SelectorBits < 0 || l.NotAllSmallBits < 0 ||
		l.FallbackHeaderBits < 0 || l.AbsoluteBits < 0 {
		return errNegativeBits
	}
	if l.FallbackHeaderBits < l.FlagBits {
		return errFallbackHeaderTooSmall
	}
	for _, b := range l.FallbackBits {
		if b < 0 || b > 64 {
			return fmt.Errorf("fallback width out of range: %d", b)
		}
	}
	seen := make([]bool, len(l.Groups))
	for _, g := range l.Groups {
		if g < 0 || g >= len(l.Groups) {
			return errNonContiguousGroups
		}
		seen[g] = true
	}
	for g := 0; g < l.NumGroups(); g++ {
		if !seen[g] {
			return errNonContiguousGroups
		}
	}
	return nil
}

// HeaderCost is the cost of the compact path before component values.
func (l Layout) HeaderCost() int {
	return l.FlagBits + len(l.Groups)*l.SelectorBits
}

// FallbackCost is the cost of an escaped sample.
func (l Layout) FallbackCost() int {
	bits := l.FallbackHeaderBits
	for _, b := range l.FallbackBits {
		bits += b
	}
	return bits
}

// AbsoluteCost is the non-adaptive baseline cost of one sample.
func (l Layout) AbsoluteCost() int {
	if l.AbsoluteBits > 0 {
		return l.AbsoluteBits
	}
	return l.FallbackCost()
}

// ValidateConfiguration checks the configuration is valid on its own and
// usable with the layout: one widths pair per axis group, and no large width
// wider than the full precision width of a component in its group.
func (l Layout) ValidateConfiguration(cfg Configuration) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.NumGroups() != l.NumGroups() {
		return fmt.Errorf("%w: layout %d, configuration %d",
			errConfigurationGroups, l.NumGroups(), cfg.NumGroups())
	}
	for i, g := range l.Groups {
		if large := cfg.Group(g).Large; large > l.FallbackBits[i] {
			return fmt.Errorf("%w: component %d, large %d, full precision %d",
				errLargeExceedsFallback, i, large, l.FallbackBits[i])
		}
	}
	return nil
}

// Cost returns the bits one sample occupies. It is a convenience over
// NewEvaluator for one-off evaluations.
func (l Layout) Cost(deltas []int64, escape bool, cfg Configuration) (int, error) {
	e, err := NewEvaluator(l, cfg)
	if err != nil {
		return 0, err
	}
	return e.Cost(deltas, escape), nil
}

// Evaluator computes sample costs for one layout and configuration with the
// per component thresholds resolved up front.
type Evaluator struct {
	smallBits      []int
	largeBits      []int
	smallThreshold []int64
	largeThreshold []int64
	header         int
	notAllSmall    int
	fallback       int
}

// NewEvaluator validates the configuration against the layout and resolves
// component thresholds.
func NewEvaluator(l Layout, cfg Configuration) (*Evaluator, error) {
	if err := l.Validate(); err != nil {
		return nil, xerrors.NewInvalidParamsError(err)
	}
	if err := l.ValidateConfiguration(cfg); err != nil {
		return nil, xerrors.NewInvalidParamsError(err)
	}

	n := l.Arity()
	e := &Evaluator{
		smallBits:      make([]int, n),
		largeBits:      make([]int, n),
		smallThreshold: make([]int64, n),
		largeThreshold: make([]int64, n),
		header:         l.HeaderCost(),
		notAllSmall:    l.NotAllSmallBits,
		fallback:       l.FallbackCost(),
	}
	for i, g := range l.Groups {
		w := cfg.Group(g)
		e.smallBits[i] = w.Small
		e.largeBits[i] = w.Large
		e.smallThreshold[i] = w.SmallThreshold()
		e.largeThreshold[i] = w.LargeThreshold()
	}
	return e, nil
}

// Arity returns the number of components the evaluator expects.
func (e *Evaluator) Arity() int {
	return len(e.smallBits)
}

// Escapes returns whether the sample takes the full precision path.
func (e *Evaluator) Escapes(deltas []int64, escape bool) bool {
	_, compact := e.compactCost(deltas, escape)
	return !compact
}

// IsSmall returns whether the i-th component delta uses the small width.
func (e *Evaluator) IsSmall(i int, delta int64) bool {
	return abs(delta) < e.smallThreshold[i]
}

// Cost returns the bits one sample occupies. Deltas must hold one value per
// component.
func (e *Evaluator) Cost(deltas []int64, escape bool) int {
	bits, compact := e.compactCost(deltas, escape)
	if !compact {
		return e.fallback
	}
	return bits
}

// compactCost returns the compact cost of a sample and whether the sample is
// encoded compactly.
func (e *Evaluator) compactCost(deltas []int64, escape bool) (int, bool) {
	if escape {
		return 0, false
	}
	var (
		bits     = e.header
		allSmall = true
	)
	for i, d := range deltas {
		m := abs(d)
		if m >= e.largeThreshold[i] {
			return 0, false
		}
		if m < e.smallThreshold[i] {
			bits += e.smallBits[i]
			continue
		}
		allSmall = false
		bits += e.largeBits[i]
	}
	if !allSmall {
		bits += e.notAllSmall
	}
	return bits, bits <= e.fallback
}

// FallbackCost returns the cost of an escaped sample.
func (e *Evaluator) FallbackCost() int {
	return e.fallback
}

func abs(v int64) int64 {
	if v == math.MinInt64 {
		return math.MaxInt64
	}
	if v < 0 {
		return -v
	}
	return v
}
