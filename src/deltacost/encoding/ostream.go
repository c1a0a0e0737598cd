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

// OStream is a bit oriented output stream. Bits are packed most significant
// first.
type OStream struct {
	rawBuffer []byte // raw bytes
	pos       int    // how many bits have been used in the last byte
}

// NewOStream creates a new OStream appending to the given buffer.
func NewOStream(buf []byte) *OStream {
	os := &OStream{}
	os.Reset(buf)
	return os
}

func (os *OStream) len() int {
	return len(os.rawBuffer)
}

// Empty returns whether no bits have been written.
func (os *OStream) Empty() bool {
	return os.len() == 0 && os.pos == 0
}

func (os *OStream) lastIndex() int {
	return os.len() - 1
}

func (os *OStream) hasUnusedBits() bool {
	return os.pos > 0 && os.pos < 8
}

// grow appends the last byte of v to rawBuffer and sets pos to np.
func (os *OStream) grow(v byte, np int) {
	os.rawBuffer = append(os.rawBuffer, v)
	os.pos = np
}

func (os *OStream) fillUnused(v byte) {
	os.rawBuffer[os.lastIndex()] |= v >> uint(os.pos)
}

// WriteBit writes the last bit of v.
func (os *OStream) WriteBit(v uint8) {
	v = (v & 1) << 7
	if !os.hasUnusedBits() {
		os.grow(v, 1)
		return
	}
	os.fillUnused(v)
	os.pos++
}

// writeByte writes the last byte of v.
func (os *OStream) writeByte(v byte) {
	if !os.hasUnusedBits() {
		os.grow(v, 8)
		return
	}
	os.fillUnused(v)
	os.grow(v<<uint(8-os.pos), os.pos)
}

// WriteBits writes the lowest numBits of v to the stream, starting
// from the most significant bit to the least significant bit. Widths above
// 64 are padded with leading zero bits.
func (os *OStream) WriteBits(v uint64, numBits int) {
	for numBits > 64 {
		os.WriteBit(0)
		numBits--
	}
	if numBits <= 0 {
		return
	}

	v <<= uint(64 - numBits)
	for numBits >= 8 {
		os.writeByte(byte(v >> 56))
		v <<= 8
		numBits -= 8
	}

	for numBits > 0 {
		os.WriteBit(uint8((v >> 63) & 1))
		v <<= 1
		numBits--
	}
}

// NumBits returns the number of bits written.
func (os *OStream) NumBits() int {
	if os.len() == 0 {
		return 0
	}
	return (os.len()-1)*8 + os.pos
}

// Bytes returns the written bytes; the last byte may be partially used.
func (os *OStream) Bytes() []byte {
	return os.rawBuffer
}

// Reset resets the stream to the given buffer, treating every byte in it as
// fully used.
func (os *OStream) Reset(buffer []byte) {
	os.rawBuffer = buffer
	os.pos = 0
	if len(buffer) > 0 {
		os.pos = 8
	}
}
