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
	"github.com/m3db/deltacost/src/x/instrument"
	xio "github.com/m3db/deltacost/src/x/io"
)

// Options controls how sample files are read.
type Options interface {
	// SetInstrumentOptions sets the instrument options.
	SetInstrumentOptions(value instrument.Options) Options

	// InstrumentOptions returns the instrument options.
	InstrumentOptions() instrument.Options

	// SetDelimiter sets the value delimiter of one line.
	SetDelimiter(value string) Options

	// Delimiter returns the value delimiter of one line.
	Delimiter() string

	// SetCompression sets the compression of sample files.
	SetCompression(value xio.CompressionMethod) Options

	// Compression returns the compression of sample files.
	Compression() xio.CompressionMethod
}

type options struct {
	iOpts       instrument.Options
	delimiter   string
	compression xio.CompressionMethod
}

// NewOptions creates a new set of source options.
func NewOptions() Options {
	return &options{
		iOpts:       instrument.NewOptions(),
		delimiter:   ",",
		compression: xio.AutoCompression,
	}
}

func (o *options) SetInstrumentOptions(value instrument.Options) Options {
	opts := *o
	opts.iOpts = value
	return &opts
}

func (o *options) InstrumentOptions() instrument.Options {
	return o.iOpts
}

func (o *options) SetDelimiter(value string) Options {
	opts := *o
	opts.delimiter = value
	return &opts
}

func (o *options) Delimiter() string {
	return o.delimiter
}

func (o *options) SetCompression(value xio.CompressionMethod) Options {
	opts := *o
	opts.compression = value
	return &opts
}

func (o *options) Compression() xio.CompressionMethod {
	return o.compression
}
