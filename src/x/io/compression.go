// Copyright (c) 2020 Uber Technologies, Inc.
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

// Package io provides readers for optionally compressed sample files.
package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	snappy "github.com/golang/snappy"
)

// The snappy compression stream identifier. A valid snappy framed stream always
// starts with this sequence of bytes.
// https://github.com/google/snappy/blob/master/framing_format.txt#L68
var snappyStreamID = []byte{0xff, 0x06, 0x00, 0x00, 0x73, 0x4e, 0x61, 0x50, 0x70, 0x59}

// CompressionMethod is the compression of a stream.
type CompressionMethod byte

var validCompressionMethods = []CompressionMethod{
	AutoCompression,
	NoCompression,
	SnappyCompression,
}

const (
	// AutoCompression detects the compression from the stream header.
	AutoCompression CompressionMethod = iota

	// NoCompression reads the stream as is.
	NoCompression

	// SnappyCompression reads a snappy framed stream.
	SnappyCompression
)

func (cm CompressionMethod) String() string {
	switch cm {
	case AutoCompression:
		return "auto"
	case NoCompression:
		return "none"
	case SnappyCompression:
		return "snappy"
	default:
		return ""
	}
}

// MarshalYAML marshals the compression method by name.
func (cm CompressionMethod) MarshalYAML() (interface{}, error) {
	return cm.String(), nil
}

// UnmarshalYAML unmarshals compression method from YAML configuration.
func (cm *CompressionMethod) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	if str == "" {
		*cm = AutoCompression
		return nil
	}
	for _, valid := range validCompressionMethods {
		if str == valid.String() {
			*cm = valid
			return nil
		}
	}
	return fmt.Errorf("invalid CompressionMethod '%s' valid types are: %v", str, validCompressionMethods)
}

// NewReader returns a reader decompressing r with the given method.
func NewReader(r io.Reader, method CompressionMethod) (io.Reader, error) {
	switch method {
	case AutoCompression:
		return &detectingReader{reader: r}, nil
	case NoCompression:
		return bufio.NewReader(r), nil
	case SnappyCompression:
		return snappy.NewReader(r), nil
	default:
		return nil, fmt.Errorf("unknown compression method: %d", int(method))
	}
}

// detectingReader reads snappy framed streams and falls back to plain reads
// when the stream does not start with the snappy stream identifier.
type detectingReader struct {
	reader      io.Reader
	rr          io.Reader
	compression CompressionMethod
}

func (s *detectingReader) Read(p []byte) (int, error) {
	if s.rr == nil {
		streamHeader := make([]byte, len(snappyStreamID))
		n, err := io.ReadFull(s.reader, streamHeader)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return 0, err
		}
		streamHeader = streamHeader[:n]
		// Add back the already read header.
		newStreamReader := io.MultiReader(bytes.NewReader(streamHeader), s.reader)
		if bytes.Equal(streamHeader, snappyStreamID) {
			s.compression = SnappyCompression
			s.rr = snappy.NewReader(newStreamReader)
		} else {
			s.compression = NoCompression
			s.rr = bufio.NewReader(newStreamReader)
		}
	}
	return s.rr.Read(p)
}
