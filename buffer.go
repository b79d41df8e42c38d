// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package hostclone

import (
	"math"
)

// alignQuantum is the growth/allocation granularity (cache-line sized),
// per §4.1: initial capacity and every grow() round up to this.
const alignQuantum = 128

func roundUp128(n int) int {
	if n <= 0 {
		return alignQuantum
	}
	return ((n + alignQuantum - 1) / alignQuantum) * alignQuantum
}

// Buffer is the growable output byte store described in §4.1 (C1). It
// tracks a single append cursor (pos) and pads every multi-byte scalar
// write to its natural alignment, so the emitted bytes are not a packed
// stream — the padding is part of the wire contract and Reader mirrors it
// exactly on the decode side.
type Buffer struct {
	data []byte
	pos  int
}

// NewBuffer allocates a Buffer with capacity rounded up to the next
// multiple of 128 bytes. capacityHint <= 0 uses one quantum.
func NewBuffer(capacityHint int) *Buffer {
	return &Buffer{data: make([]byte, roundUp128(capacityHint))}
}

// Reset clears the write cursor for instance reuse without releasing the
// backing array.
func (b *Buffer) Reset() {
	b.pos = 0
}

// Len returns the number of live bytes written so far.
func (b *Buffer) Len() int { return b.pos }

// Bytes returns the live prefix [0, pos). The caller owns the returned
// slice; extending the buffer afterwards may reallocate and will not
// mutate what was already returned.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, b.pos)
	copy(out, b.data[:b.pos])
	return out
}

// ensure grows the backing array so that n more bytes can be written at
// pos without reallocating again. Growth policy (§4.1):
// new capacity = max(2*old, pos+n+128) rounded up to 128.
func (b *Buffer) ensure(n int) {
	need := b.pos + n
	if need <= len(b.data) {
		return
	}
	newCap := roundUp128(maxInt(2*len(b.data), b.pos+n+alignQuantum))
	grown := make([]byte, newCap)
	copy(grown, b.data[:b.pos])
	b.data = grown
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// align rounds pos up to the next multiple of k (capped at 8) by writing
// zero padding. k must be a power of two in {1,2,4,8}.
func (b *Buffer) align(k int) {
	if k > 8 {
		k = 8
	}
	if k <= 1 {
		return
	}
	rem := b.pos % k
	if rem == 0 {
		return
	}
	pad := k - rem
	b.ensure(pad)
	for i := 0; i < pad; i++ {
		b.data[b.pos+i] = 0
	}
	b.pos += pad
}

// WriteU8 appends a single byte. No alignment needed for width 1.
func (b *Buffer) WriteU8(v byte) {
	b.ensure(1)
	b.data[b.pos] = v
	b.pos++
}

// WriteBool writes a boolean as a single byte (0/1).
func (b *Buffer) WriteBool(v bool) {
	if v {
		b.WriteU8(1)
	} else {
		b.WriteU8(0)
	}
}

// WriteU16 writes a little-endian uint16, aligned to 2 bytes.
func (b *Buffer) WriteU16(v uint16) {
	b.align(2)
	b.ensure(2)
	b.data[b.pos] = byte(v)
	b.data[b.pos+1] = byte(v >> 8)
	b.pos += 2
}

// WriteI16 writes a little-endian int16, aligned to 2 bytes.
func (b *Buffer) WriteI16(v int16) { b.WriteU16(uint16(v)) }

// WriteU32 writes a little-endian uint32, aligned to 4 bytes.
func (b *Buffer) WriteU32(v uint32) {
	b.align(4)
	b.ensure(4)
	b.data[b.pos] = byte(v)
	b.data[b.pos+1] = byte(v >> 8)
	b.data[b.pos+2] = byte(v >> 16)
	b.data[b.pos+3] = byte(v >> 24)
	b.pos += 4
}

// WriteI32 writes a little-endian int32, aligned to 4 bytes.
func (b *Buffer) WriteI32(v int32) { b.WriteU32(uint32(v)) }

// WriteF32 writes a little-endian IEEE-754 single, aligned to 4 bytes.
func (b *Buffer) WriteF32(v float32) { b.WriteU32(math.Float32bits(v)) }

// WriteU64 writes a little-endian uint64, aligned to 8 bytes.
func (b *Buffer) WriteU64(v uint64) {
	b.align(8)
	b.ensure(8)
	for i := 0; i < 8; i++ {
		b.data[b.pos+i] = byte(v >> (8 * uint(i)))
	}
	b.pos += 8
}

// WriteI64 writes a little-endian int64, aligned to 8 bytes.
func (b *Buffer) WriteI64(v int64) { b.WriteU64(uint64(v)) }

// WriteF64 writes a little-endian IEEE-754 double, aligned to 8 bytes.
func (b *Buffer) WriteF64(v float64) { b.WriteU64(math.Float64bits(v)) }

// WriteBulk appends raw bytes with no alignment or length prefix.
func (b *Buffer) WriteBulk(p []byte) {
	b.ensure(len(p))
	copy(b.data[b.pos:], p)
	b.pos += len(p)
}

// WriteVarint emits u as an unsigned LEB128-style varint: 7-bit little
// endian groups, high bit set on every group but the last (§4.1, C3). The
// writer reserves 5 bytes up front and only advances pos by what it used,
// matching the teacher's ByteBuffer varint contract (buffer_test.go
// exercises exactly this "reserve then branch" behavior).
func (b *Buffer) WriteVarint(u uint32) int {
	b.ensure(5)
	n := 0
	for {
		by := byte(u & 0x7F)
		u >>= 7
		if u != 0 {
			b.data[b.pos+n] = by | 0x80
			n++
		} else {
			b.data[b.pos+n] = by
			n++
			break
		}
	}
	b.pos += n
	return n
}

// WritePackedArray writes a varint length, aligns to min(elemSize, 8),
// then writes len(raw)/elemSize raw little-endian elements already
// serialized into raw by the caller (§4.1 packed_array).
func (b *Buffer) WritePackedArray(count int, elemSize int, raw []byte) {
	b.WriteVarint(uint32(count))
	align := elemSize
	if align > 8 {
		align = 8
	}
	b.align(align)
	b.WriteBulk(raw)
}
