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
	"fmt"

	"github.com/m3db/deltacost/src/deltacost/sample"
)

// Encoder writes samples of one field under one configuration to a bit
// stream. It exists to cross check the cost model: the number of bits it
// writes for a sample always equals the evaluated cost.
type Encoder struct {
	scheme Scheme
	eval   *Evaluator
	layout Layout
	deltas []int64
	values []int64
}

// NewEncoder creates an encoder for a scheme and configuration.
func NewEncoder(s Scheme, cfg Configuration) (*Encoder, error) {
	eval, err := NewEvaluator(s.layout, cfg)
	if err != nil {
		return nil, err
	}
	n := s.layout.Arity()
	return &Encoder{
		scheme: s,
		eval:   eval,
		layout: s.layout,
		deltas: make([]int64, n),
		values: make([]int64, n),
	}, nil
}

// Evaluator returns the cost evaluator backing the encoder.
func (e *Encoder) Evaluator() *Evaluator {
	return e.eval
}

// Encode writes one sample against its reference and returns the number of
// bits written.
func (e *Encoder) Encode(os *OStream, smp, ref sample.Sample) (int, error) {
	if smp.Len() < e.layout.Arity() {
		return 0, fmt.Errorf("sample has %d components, need at least %d",
			smp.Len(), e.layout.Arity())
	}
	escape, err := e.scheme.deltas(smp, ref, e.deltas)
	if err != nil {
		return 0, err
	}
	start := os.NumBits()
	if e.eval.Escapes(e.deltas, escape) {
		if err := e.writeFallback(os, smp); err != nil {
			return 0, err
		}
	} else {
		e.writeCompact(os)
	}
	return os.NumBits() - start, nil
}

func (e *Encoder) writeCompact(os *OStream) {
	l := e.layout
	os.WriteBits(0, l.FlagBits)

	allSmall := true
	for i, d := range e.deltas {
		if e.eval.IsSmall(i, d) {
			os.WriteBits(1, l.SelectorBits)
			continue
		}
		allSmall = false
		os.WriteBits(0, l.SelectorBits)
	}
	if !allSmall {
		os.WriteBits(0, l.NotAllSmallBits)
	}

	for i, d := range e.deltas {
		if e.eval.IsSmall(i, d) {
			writeSignMagnitude(os, d, 0, e.eval.smallBits[i])
			continue
		}
		writeSignMagnitude(os, d, e.eval.smallThreshold[i], e.eval.largeBits[i])
	}
}

func (e *Encoder) writeFallback(os *OStream, smp sample.Sample) error {
	l := e.layout
	tag, err := e.scheme.fallback(smp, e.values)
	if err != nil {
		return err
	}
	os.WriteBits(^uint64(0), l.FlagBits)
	os.WriteBits(tag, l.FallbackHeaderBits-l.FlagBits)
	for i, v := range e.values {
		os.WriteBits(uint64(v), l.FallbackBits[i])
	}
	return nil
}

// writeSignMagnitude writes a sign bit followed by |v|-offset in width-1 bits.
func writeSignMagnitude(os *OStream, v, offset int64, width int) {
	var sign uint64
	if v < 0 {
		sign = 1
	}
	os.WriteBits(sign, 1)
	os.WriteBits(uint64(abs(v)-offset), width-1)
}
