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
	"fmt"
	"strings"
)

// Field is a networked object state field whose deltas are recorded.
type Field int

// List of supported fields.
const (
	UnknownField Field = iota
	PositionField
	QuaternionField
	AxisAngleField
	SmallestThreeField
	RelativeQuaternionField
)

type fieldInfo struct {
	name         string
	arity        int
	hasReference bool
}

var fieldInfos = map[Field]fieldInfo{
	PositionField:           {name: "position", arity: 3, hasReference: true},
	QuaternionField:         {name: "quaternion", arity: 4},
	AxisAngleField:          {name: "axis-angle", arity: 3, hasReference: true},
	SmallestThreeField:      {name: "smallest-three", arity: 4, hasReference: true},
	RelativeQuaternionField: {name: "relative-quaternion", arity: 4},
}

// ValidFields returns all valid fields in declaration order.
func ValidFields() []Field {
	return []Field{
		PositionField,
		QuaternionField,
		AxisAngleField,
		SmallestThreeField,
		RelativeQuaternionField,
	}
}

// ParseField parses a field from its name.
func ParseField(str string) (Field, error) {
	for _, f := range ValidFields() {
		if strings.EqualFold(str, f.String()) {
			return f, nil
		}
	}
	return UnknownField, fmt.Errorf("unknown field: %q", str)
}

// IsValid returns whether the field is known.
func (f Field) IsValid() bool {
	_, ok := fieldInfos[f]
	return ok
}

func (f Field) String() string {
	if info, ok := fieldInfos[f]; ok {
		return info.name
	}
	return "unknown"
}

// Arity is the number of components in one record of the field.
func (f Field) Arity() int {
	return fieldInfos[f].arity
}

// HasReference returns whether every record of the field is paired with a
// reference record it is encoded against.
func (f Field) HasReference() bool {
	return fieldInfos[f].hasReference
}

// Columns is the number of delimited values on one line of a sample file.
func (f Field) Columns() int {
	if f.HasReference() {
		return 2 * f.Arity()
	}
	return f.Arity()
}

// MarshalYAML implements yaml.Marshaler.
func (f Field) MarshalYAML() (interface{}, error) {
	return f.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (f *Field) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	parsed, err := ParseField(str)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
