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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferVarintRoundTrip(t *testing.T) {
	values := []uint32{0, 1, 1 << 6, 1 << 7, 1 << 13, 1 << 14, 1 << 20, 1 << 21, 1 << 27, 1 << 28, 0xFFFFFFFF}
	for _, v := range values {
		buf := NewBuffer(0)
		n := buf.WriteVarint(v)
		require.Greater(t, n, 0)
		require.Equal(t, n, buf.Len())

		r := NewReader(buf.Bytes())
		got, err := r.ReadVarint()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Zero(t, r.Remaining())
	}
}

func TestBufferVarintExceedsFiveGroups(t *testing.T) {
	// Five continuation bytes all set, plus a sixth: the reader must reject
	// this rather than silently truncate (§9(c)).
	raw := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x01}
	r := NewReader(raw)
	_, err := r.ReadVarint()
	require.ErrorIs(t, err, ErrBufferUnderflow)
}

func TestBufferAlignment(t *testing.T) {
	buf := NewBuffer(0)
	buf.WriteU8(1) // pos=1, unaligned
	buf.WriteU16(0xABCD)
	require.Zero(t, buf.Len()%2)

	r := NewReader(buf.Bytes())
	v8, err := r.ReadU8()
	require.NoError(t, err)
	require.Equal(t, byte(1), v8)
	v16, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xABCD), v16)
}

func TestBufferScalarRoundTrip(t *testing.T) {
	buf := NewBuffer(0)
	buf.WriteBool(true)
	buf.WriteU16(1234)
	buf.WriteI32(-999999)
	buf.WriteF32(3.5)
	buf.WriteU64(1 << 40)
	buf.WriteF64(2.71828)
	buf.WriteBulk([]byte("tail"))

	r := NewReader(buf.Bytes())
	b, err := r.ReadBool()
	require.NoError(t, err)
	require.True(t, b)

	u16, err := r.ReadU16()
	require.NoError(t, err)
	require.Equal(t, uint16(1234), u16)

	i32, err := r.ReadI32()
	require.NoError(t, err)
	require.Equal(t, int32(-999999), i32)

	f32, err := r.ReadF32()
	require.NoError(t, err)
	require.Equal(t, float32(3.5), f32)

	u64, err := r.ReadU64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), u64)

	f64, err := r.ReadF64()
	require.NoError(t, err)
	require.Equal(t, 2.71828, f64)

	tail, err := r.ReadBulk(4)
	require.NoError(t, err)
	require.Equal(t, "tail", string(tail))
}

func TestBufferGrowthPreservesPrefix(t *testing.T) {
	buf := NewBuffer(1) // rounds up to one 128-byte quantum
	for i := 0; i < 1000; i++ {
		buf.WriteU8(byte(i))
	}
	out := buf.Bytes()
	require.Len(t, out, 1000)
	for i := 0; i < 1000; i++ {
		require.Equal(t, byte(i), out[i])
	}
}

func TestReaderUnderflow(t *testing.T) {
	r := NewReader([]byte{1, 2})
	_, err := r.ReadU32()
	require.ErrorIs(t, err, ErrBufferUnderflow)
}

func TestPackedArrayRoundTrip(t *testing.T) {
	buf := NewBuffer(0)
	buf.WriteU8(1) // unalign the cursor first
	raw := []byte{10, 20, 30, 40}
	buf.WritePackedArray(4, 1, raw)

	r := NewReader(buf.Bytes())
	_, err := r.ReadU8()
	require.NoError(t, err)
	count, got, err := r.ReadPackedArray(1)
	require.NoError(t, err)
	require.Equal(t, 4, count)
	require.Equal(t, raw, got)
}
