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

import "math/big"

// The host this codec embeds into is dynamically typed (§1): values
// arriving at the codec boundary are plain Go `any`. This file defines
// the closed set of shapes the classifier (C6) recognizes, mirroring the
// dynamic value graph described in §3.4 and §9's "Dynamic value graph"
// design note. Heap nodes participating in the reference tables (§3.3)
// are always represented as pointers, so Go pointer identity gives the
// codec the identity-keyed hashing §9 asks for without any shadow ids.

// Undefined is the JS-like "absent" primitive, distinct from Go's nil
// (which represents NULL). There is exactly one value of this type.
type Undefined struct{}

// UndefinedValue is the canonical Undefined instance.
var UndefinedValue = Undefined{}

// Hole marks an absent index inside a sparse Array (§4.5 array
// classification: "any index in [0,len) is absent").
type Hole struct{}

// HoleValue is the canonical Hole instance.
var HoleValue = Hole{}

// Array is a JS-like array: an ordered, possibly-sparse sequence. Absent
// slots hold HoleValue. *Array is the heap node identity used by the
// reference tables.
type Array struct {
	Elems []any
}

// PlainObject is a data-only object (OBJ_EMPTY/OBJ_PLAIN/OBJ_LITERAL):
// its keys are always encoded in sorted order (§3.4), so an unordered Go
// map is sufficient storage. *PlainObject is the heap node identity.
type PlainObject struct {
	Fields map[string]any
}

// NewPlainObject returns an empty *PlainObject ready for use.
func NewPlainObject() *PlainObject {
	return &PlainObject{Fields: make(map[string]any)}
}

// PropertyDescriptor is one entry of a DescriptorObject (§4.6): a key with
// explicit enumerable/writable/configurable flags and either a plain
// value or an accessor pair.
type PropertyDescriptor struct {
	Key           string
	Enumerable    bool
	Writable      bool
	Configurable  bool
	Getter        any // present iff HasGetter
	HasGetter     bool
	Setter        any // present iff HasSetter
	HasSetter     bool
	Value         any // present iff !HasGetter && !HasSetter
}

// DescriptorObject is an object with at least one non-default property
// descriptor (OBJ_WITH_DESCRIPTORS). Keys are kept in enumeration order,
// not sorted (§4.6). *DescriptorObject is the heap node identity.
type DescriptorObject struct {
	Entries []PropertyDescriptor
}

// MethodEntry is one key of a MethodObject: either a data value or a
// callable (optionally with captured source text).
type MethodEntry struct {
	Key        string
	IsCallable bool
	Value      any      // valid when !IsCallable
	Func       Callable // valid when IsCallable
}

// MethodObject is a plain object that owns at least one callable property
// (OBJ_WITH_METHODS). *MethodObject is the heap node identity.
type MethodObject struct {
	Entries []MethodEntry
}

// ConstructorObject is an object whose prototype is not Object.prototype
// (OBJ_CONSTRUCTOR): the constructor name plus a plain data body.
// *ConstructorObject is the heap node identity.
type ConstructorObject struct {
	Name string
	Body *PlainObject
}

// Callable represents a function value. Standalone callables classify as
// Undefined (§4.5): only inside a MethodObject entry does a Callable's
// source ever reach the wire, and only when serializeFunctions is on.
type Callable struct {
	Name   string
	Source string
	HasSource bool
}

// MapEntry is one key/value pair of an OrderedMap, in insertion order.
type MapEntry struct {
	Key   any
	Value any
}

// OrderedMap is a JS-like Map: iteration order is insertion order and is
// preserved on the wire (§4.6). *OrderedMap is the heap node identity.
type OrderedMap struct {
	Entries []MapEntry
}

// OrderedSet is a JS-like Set: iteration order is insertion order.
// *OrderedSet is the heap node identity.
type OrderedSet struct {
	Elems []any
}

// TypedArrayKind enumerates the element types a TypedArray view can have,
// matching the eleven typed-array tags in §6.1.
type TypedArrayKind int

const (
	TAU8 TypedArrayKind = iota
	TAI8
	TAU8Clamped
	TAU16
	TAI16
	TAU32
	TAI32
	TAF32
	TAF64
	TAI64
	TAU64
)

var typedArrayElemSize = map[TypedArrayKind]int{
	TAU8: 1, TAI8: 1, TAU8Clamped: 1,
	TAU16: 2, TAI16: 2,
	TAU32: 4, TAI32: 4, TAF32: 4,
	TAF64: 8, TAI64: 8, TAU64: 8,
}

var typedArrayTag = map[TypedArrayKind]Tag{
	TAU8: TagTypedU8, TAI8: TagTypedI8, TAU8Clamped: TagTypedU8C,
	TAU16: TagTypedU16, TAI16: TagTypedI16,
	TAU32: TagTypedU32, TAI32: TagTypedI32, TAF32: TagTypedF32,
	TAF64: TagTypedF64, TAI64: TagTypedI64, TAU64: TagTypedU64,
}

// ArrayBuffer is a contiguous byte store that may back one or more
// TypedArray/DataView views. *ArrayBuffer is the heap node identity used
// by the buffer table (§3.3); Shared marks a SharedArrayBuffer.
type ArrayBuffer struct {
	Data   []byte
	Shared bool
}

// TypedArray is a typed view over an ArrayBuffer. *TypedArray is the heap
// node identity used by the object table (the view itself, not its
// backing buffer, is what gets deduplicated/cycled as an object).
type TypedArray struct {
	Kind       TypedArrayKind
	Buffer     *ArrayBuffer
	ByteOffset int
	Length     int // element count
}

// DataView is an untyped byte-range view over an ArrayBuffer.
// *DataView is the heap node identity.
type DataView struct {
	Buffer     *ArrayBuffer
	ByteOffset int
	Length     int // byte count
}

// Date wraps a JS-like Date: milliseconds since the Unix epoch, or a
// non-finite value for an invalid date (§4.5 classifies those as
// DATE_INVALID). *Date is the heap node identity.
type Date struct {
	Millis float64
}

// Regexp is a source/flags pair, mirroring JS RegExp. *Regexp is the heap
// node identity.
type Regexp struct {
	Source string
	Flags  string
}

// ErrorKind enumerates the built-in error subtypes in §6.1's ERROR group.
type ErrorKind int

const (
	ErrKindPlain ErrorKind = iota
	ErrKindEval
	ErrKindRange
	ErrKindRef
	ErrKindSyntax
	ErrKindType
	ErrKindURI
	ErrKindAggregate
	ErrKindCustom
)

// ErrorValue is a serializable error object. *ErrorValue is the heap node
// identity. Errors is populated only for ErrKindAggregate.
type ErrorValue struct {
	Kind    ErrorKind
	Message string
	Stack   string
	Errors  []any
}

// SymbolKind distinguishes the three flavors of symbolic identifier the
// classifier recognizes (§4.5).
type SymbolKind int

const (
	SymbolPlain SymbolKind = iota
	SymbolGlobal
	SymbolWellKnown
)

// Symbol is a host symbolic identifier. *Symbol is the heap node identity.
type Symbol struct {
	Kind           SymbolKind
	Description    string
	HasDescription bool
}

// Blob is the browser-like opaque binary payload acknowledged but left
// host-specific by §1/§9(b): its wire slot carries no content, only two
// zero varints. *Blob is the heap node identity.
type Blob struct{}

// File is Blob's named variant, same unspecified-content contract.
// *File is the heap node identity.
type File struct {
	Name string
}

// BigInt wraps math/big.Int for the BIGINT wire group. Encoded values
// whose magnitude does not fit the wire's varint length prefix are
// rejected with ErrUnsupportedValue at encode time.
type BigInt struct {
	Value *big.Int
}
