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

// Package testvalues centralizes value-graph fixtures shared across the
// hostclone test files, mirroring how the teacher centralizes fixtures in
// tests/xlang_test_main.go rather than redeclaring them per _test.go file.
package testvalues

import "github.com/hostclone/hostclone"

// SimpleObject returns {b: 1, a: 2}, used by the §8 scenario S3 (key
// sorting on OBJ_LITERAL).
func SimpleObject() *hostclone.PlainObject {
	return &hostclone.PlainObject{Fields: map[string]any{
		"b": float64(1),
		"a": float64(2),
	}}
}

// CyclicObject returns an object V with V.self == V, used by scenario S4.
func CyclicObject() *hostclone.PlainObject {
	v := hostclone.NewPlainObject()
	v.Fields["self"] = v
	return v
}

// SharedTypedArrayViews returns a 32-byte backing buffer and two u8 views
// over disjoint halves of it, used by scenario S5.
func SharedTypedArrayViews() *hostclone.Array {
	buf := &hostclone.ArrayBuffer{Data: make([]byte, 32)}
	for i := range buf.Data {
		buf.Data[i] = byte(i)
	}
	first := &hostclone.TypedArray{Kind: hostclone.TAU8, Buffer: buf, ByteOffset: 0, Length: 16}
	second := &hostclone.TypedArray{Kind: hostclone.TAU8, Buffer: buf, ByteOffset: 16, Length: 16}
	return &hostclone.Array{Elems: []any{first, second}}
}

// SmallIntArray16 returns a length-16 array of small non-negative integers,
// which should classify as ARR_PACK_I8 (§8's "numeric-array packing"
// property).
func SmallIntArray16() *hostclone.Array {
	elems := make([]any, 16)
	for i := range elems {
		elems[i] = float64(i)
	}
	return &hostclone.Array{Elems: elems}
}

// HalfArray16 returns a length-16 numeric array containing 0.5, which
// should classify as ARR_PACK_F32.
func HalfArray16() *hostclone.Array {
	elems := make([]any, 16)
	for i := range elems {
		elems[i] = float64(i)
	}
	elems[0] = 0.5
	return &hostclone.Array{Elems: elems}
}

// PiArray16 returns a length-16 numeric array with pi at index 0, which
// should classify as ARR_PACK_F64 when pi (e.g. math.Pi) does not
// round-trip through float32.
func PiArray16(pi float64) *hostclone.Array {
	elems := make([]any, 16)
	for i := range elems {
		elems[i] = float64(i)
	}
	elems[0] = pi
	return &hostclone.Array{Elems: elems}
}

// DiamondArray returns an array [shared, shared] where both slots hold the
// identical *PlainObject pointer, exercising REFERENCE (not CIRCULAR_REF).
func DiamondArray() *hostclone.Array {
	shared := hostclone.NewPlainObject()
	shared.Fields["v"] = float64(7)
	return &hostclone.Array{Elems: []any{shared, shared}}
}

// SparseArray returns a length-8 array with holes at indices 1 and 5.
func SparseArray() *hostclone.Array {
	elems := make([]any, 8)
	for i := range elems {
		elems[i] = float64(i * 10)
	}
	elems[1] = hostclone.HoleValue
	elems[5] = hostclone.HoleValue
	return &hostclone.Array{Elems: elems}
}

// DescribedObject returns an object with one accessor property and one
// data property with non-default flags.
func DescribedObject() *hostclone.DescriptorObject {
	return &hostclone.DescriptorObject{Entries: []hostclone.PropertyDescriptor{
		{
			Key: "computed", Enumerable: true, Configurable: true,
			HasGetter: true, Getter: float64(42),
		},
		{
			Key: "hidden", Enumerable: false, Writable: true, Configurable: false,
			Value: "shh",
		},
	}}
}

// AggregateErrorValue returns an AggregateError wrapping a TypeError and a
// RangeError.
func AggregateErrorValue() *hostclone.ErrorValue {
	inner1 := &hostclone.ErrorValue{Kind: hostclone.ErrKindType, Message: "bad type", Stack: "at foo"}
	inner2 := &hostclone.ErrorValue{Kind: hostclone.ErrKindRange, Message: "out of range", Stack: "at bar"}
	return &hostclone.ErrorValue{
		Kind:    hostclone.ErrKindAggregate,
		Message: "multiple failures",
		Stack:   "at main",
		Errors:  []any{inner1, inner2},
	}
}
