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
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

var (
	errInvalidField        = errors.New("invalid field")
	errReferenceMismatch   = errors.New("number of references does not match number of samples")
	errMissingReferences   = errors.New("field requires a reference per sample")
	errUnexpectedReference = errors.New("field does not take references")
)

// Dataset is an ordered, read-only sequence of samples for one field,
// optionally paired with a reference per sample. Smallest-three datasets also
// hold every sample and reference as a decoded tagged record.
type Dataset struct {
	field      Field
	samples    []Sample
	references []Sample
	records    []SmallestThree
	refRecords []SmallestThree
}

// NewDataset validates and creates a dataset. References must be nil for
// fields that do not take references and match samples one to one otherwise.
func NewDataset(field Field, samples, references []Sample) (Dataset, error) {
	if !field.IsValid() {
		return Dataset{}, errInvalidField
	}
	if field.HasReference() {
		if references == nil && len(samples) > 0 {
			return Dataset{}, errMissingReferences
		}
		if len(references) != len(samples) {
			return Dataset{}, fmt.Errorf("%w: %d samples, %d references",
				errReferenceMismatch, len(samples), len(references))
		}
	} else if len(references) > 0 {
		return Dataset{}, errUnexpectedReference
	}

	arity := field.Arity()
	for i, s := range samples {
		if s.Len() != arity {
			return Dataset{}, fmt.Errorf("sample %d: %s expects %d components, got %d",
				i, field, arity, s.Len())
		}
	}
	for i, r := range references {
		if r.Len() != arity {
			return Dataset{}, fmt.Errorf("reference %d: %s expects %d components, got %d",
				i, field, arity, r.Len())
		}
	}
	if field == SmallestThreeField {
		records, refRecords, err := decodeSmallestThree(samples, references)
		if err != nil {
			return Dataset{}, err
		}
		return NewSmallestThreeDataset(records, refRecords)
	}

	ds := Dataset{field: field, samples: samples}
	if field.HasReference() {
		ds.references = references
	}
	return ds, nil
}

func decodeSmallestThree(samples, references []Sample) ([]SmallestThree, []SmallestThree, error) {
	var (
		records    = make([]SmallestThree, len(samples))
		refRecords = make([]SmallestThree, len(references))
		err        error
	)
	for i := range samples {
		if records[i], err = SmallestThreeFromSample(samples[i]); err != nil {
			return nil, nil, fmt.Errorf("sample %d: %w", i, err)
		}
		if refRecords[i], err = SmallestThreeFromSample(references[i]); err != nil {
			return nil, nil, fmt.Errorf("reference %d: %w", i, err)
		}
	}
	return records, refRecords, nil
}

// NewSmallestThreeDataset creates a smallest-three dataset from tagged
// records, each paired with its reference record.
func NewSmallestThreeDataset(records, references []SmallestThree) (Dataset, error) {
	if len(references) != len(records) {
		return Dataset{}, fmt.Errorf("%w: %d samples, %d references",
			errReferenceMismatch, len(records), len(references))
	}
	ds := Dataset{
		field:      SmallestThreeField,
		samples:    make([]Sample, len(records)),
		references: make([]Sample, len(references)),
		records:    records,
		refRecords: references,
	}
	for i := range records {
		if !records[i].Largest.Valid() {
			return Dataset{}, fmt.Errorf("sample %d: %w", i, errInvalidLargestIndex)
		}
		if !references[i].Largest.Valid() {
			return Dataset{}, fmt.Errorf("reference %d: %w", i, errInvalidLargestIndex)
		}
		ds.samples[i] = records[i].Sample()
		ds.references[i] = references[i].Sample()
	}
	return ds, nil
}

// Field returns the field of the dataset.
func (d Dataset) Field() Field { return d.field }

// Len returns the number of samples.
func (d Dataset) Len() int { return len(d.samples) }

// Sample returns the i-th sample.
func (d Dataset) Sample(i int) Sample { return d.samples[i] }

// SmallestThree returns the i-th sample of a smallest-three dataset as a
// tagged record, or the zero record for other fields.
func (d Dataset) SmallestThree(i int) SmallestThree {
	if d.records == nil {
		return SmallestThree{}
	}
	return d.records[i]
}

// ReferenceSmallestThree returns the reference of the i-th sample of a
// smallest-three dataset as a tagged record, or the zero record for other
// fields.
func (d Dataset) ReferenceSmallestThree(i int) SmallestThree {
	if d.refRecords == nil {
		return SmallestThree{}
	}
	return d.refRecords[i]
}

// HasReferences returns whether samples are paired with references.
func (d Dataset) HasReferences() bool { return d.references != nil }

// Reference returns the reference of the i-th sample, or an empty sample if
// the dataset has no references.
func (d Dataset) Reference(i int) Sample {
	if d.references == nil {
		return Sample{}
	}
	return d.references[i]
}

// Digest returns a hash of every sample and reference value in order.
func (d Dataset) Digest() uint64 {
	var (
		h   = xxhash.New()
		buf [8]byte
	)
	buf[0] = byte(d.field)
	_, _ = h.Write(buf[:1])
	write := func(samples []Sample) {
		for _, s := range samples {
			for _, v := range s.values {
				binary.LittleEndian.PutUint64(buf[:], uint64(v))
				_, _ = h.Write(buf[:])
			}
		}
	}
	write(d.samples)
	write(d.references)
	return h.Sum64()
}

// Summary describes how samples relate to their references.
type Summary struct {
	Samples int `json:"samples" yaml:"samples"`
	// Identical is the number of samples equal to their reference.
	Identical int `json:"identical" yaml:"identical"`
	// LargestChanged is the number of smallest-three samples whose largest
	// component index differs from the reference.
	LargestChanged int `json:"largestChanged" yaml:"largestChanged"`
}

// Summarize computes the summary of a dataset.
func Summarize(d Dataset) Summary {
	s := Summary{Samples: d.Len()}
	if !d.HasReferences() {
		return s
	}
	for i := 0; i < d.Len(); i++ {
		sample, ref := d.Sample(i), d.Reference(i)
		if sample.Equal(ref) {
			s.Identical++
		}
		if d.field == SmallestThreeField &&
			d.SmallestThree(i).Largest != d.ReferenceSmallestThree(i).Largest {
			s.LargestChanged++
		}
	}
	return s
}
