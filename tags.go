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

// Tag is a single wire byte identifying the encoding of the value that
// follows it. Its high nibble is the group (fast dispatch); its low
// nibble is the subtype (exact payload shape).
type Tag = byte

// Group returns the high-nibble dispatch group of a tag.
func Group(t Tag) Tag { return t & 0xF0 }

// Tag groups (high nibble).
const (
	GroupPrimitive  Tag = 0x00
	GroupNumber     Tag = 0x10
	GroupBigInt     Tag = 0x20
	GroupString     Tag = 0x30
	GroupArray      Tag = 0x40
	GroupObject     Tag = 0x50
	GroupTyped      Tag = 0x60
	GroupBuffer     Tag = 0x70
	GroupCollection Tag = 0x80
	GroupDate       Tag = 0x90
	GroupError      Tag = 0xA0
	GroupRegex      Tag = 0xB0
	GroupBinary     Tag = 0xC0
	GroupReference  Tag = 0xD0
	GroupSpecial    Tag = 0xE0
	GroupExtension  Tag = 0xF0
)

// Wire tags. Numeric codes are part of the on-wire contract and must never
// be renumbered.
const (
	TagNull      Tag = 0x00
	TagUndefined Tag = 0x01
	TagFalse     Tag = 0x02
	TagTrue      Tag = 0x03

	TagI8     Tag = 0x10
	TagI16    Tag = 0x11
	TagI32    Tag = 0x12
	TagU32    Tag = 0x13
	TagF32    Tag = 0x14
	TagF64    Tag = 0x15
	TagNaN    Tag = 0x16
	TagPosInf Tag = 0x17
	TagNegInf Tag = 0x18
	TagNegZero Tag = 0x19
	TagVarint Tag = 0x1A

	TagBigIntPosSmall Tag = 0x20
	TagBigIntNegSmall Tag = 0x21
	TagBigIntPosLarge Tag = 0x22
	TagBigIntNegLarge Tag = 0x23

	TagStrEmpty     Tag = 0x30
	TagStrAsciiTiny Tag = 0x31
	TagStrAsciiShort Tag = 0x32
	TagStrAsciiLong Tag = 0x33
	TagStrUtf8Tiny  Tag = 0x34
	TagStrUtf8Short Tag = 0x35
	TagStrUtf8Long  Tag = 0x36
	TagStrRef       Tag = 0x37

	TagArrEmpty  Tag = 0x40
	TagArrDense  Tag = 0x41
	TagArrSparse Tag = 0x42
	TagArrPackI8 Tag = 0x43
	TagArrPackI16 Tag = 0x44
	TagArrPackI32 Tag = 0x45
	TagArrPackF32 Tag = 0x46
	TagArrPackF64 Tag = 0x47

	TagObjEmpty           Tag = 0x50
	TagObjPlain           Tag = 0x51
	TagObjLiteral         Tag = 0x52
	TagObjConstructor     Tag = 0x53
	TagObjWithDescriptors Tag = 0x54
	TagObjWithMethods     Tag = 0x55

	TagTypedU8    Tag = 0x60
	TagTypedI8    Tag = 0x61
	TagTypedU8C   Tag = 0x62
	TagTypedU16   Tag = 0x63
	TagTypedI16   Tag = 0x64
	TagTypedU32   Tag = 0x65
	TagTypedI32   Tag = 0x66
	TagTypedF32   Tag = 0x67
	TagTypedF64   Tag = 0x68
	TagTypedI64   Tag = 0x69
	TagTypedU64   Tag = 0x6A
	TagDataView   Tag = 0x6B

	TagArrayBuffer       Tag = 0x70
	TagBufferRef         Tag = 0x71
	TagSharedArrayBuffer Tag = 0x72

	TagMap Tag = 0x80
	TagSet Tag = 0x81

	TagDate        Tag = 0x90
	TagDateInvalid Tag = 0x91

	TagError     Tag = 0xA0
	TagEvalErr   Tag = 0xA1
	TagRangeErr  Tag = 0xA2
	TagRefErr    Tag = 0xA3
	TagSyntaxErr Tag = 0xA4
	TagTypeErr   Tag = 0xA5
	TagURIErr    Tag = 0xA6
	TagAggregate Tag = 0xA7
	TagCustomErr Tag = 0xA8

	TagRegex Tag = 0xB0
	TagBlob  Tag = 0xC0
	TagFile  Tag = 0xC1

	TagReference  Tag = 0xD0
	TagCircularRef Tag = 0xD1

	TagSymbol         Tag = 0xE0
	TagSymbolGlobal   Tag = 0xE1
	TagSymbolWellKnown Tag = 0xE2
	TagSymbolNoDesc   Tag = 0xE3

	TagFunctionPlaceholder Tag = 0xF0
)

// tagNames is used only for diagnostics (debug logging, error messages);
// it has no effect on wire semantics.
var tagNames = map[Tag]string{
	TagNull: "NULL", TagUndefined: "UNDEFINED", TagFalse: "FALSE", TagTrue: "TRUE",
	TagI8: "I8", TagI16: "I16", TagI32: "I32", TagU32: "U32", TagF32: "F32", TagF64: "F64",
	TagNaN: "NAN", TagPosInf: "+INF", TagNegInf: "-INF", TagNegZero: "-0", TagVarint: "VARINT",
	TagBigIntPosSmall: "BIGINT_POS_SMALL", TagBigIntNegSmall: "BIGINT_NEG_SMALL",
	TagBigIntPosLarge: "BIGINT_POS_LARGE", TagBigIntNegLarge: "BIGINT_NEG_LARGE",
	TagStrEmpty: "STR_EMPTY", TagStrAsciiTiny: "STR_ASCII_TINY", TagStrAsciiShort: "STR_ASCII_SHORT",
	TagStrAsciiLong: "STR_ASCII_LONG", TagStrUtf8Tiny: "STR_UTF8_TINY", TagStrUtf8Short: "STR_UTF8_SHORT",
	TagStrUtf8Long: "STR_UTF8_LONG", TagStrRef: "STR_REF",
	TagArrEmpty: "ARR_EMPTY", TagArrDense: "ARR_DENSE", TagArrSparse: "ARR_SPARSE",
	TagArrPackI8: "ARR_PACK_I8", TagArrPackI16: "ARR_PACK_I16", TagArrPackI32: "ARR_PACK_I32",
	TagArrPackF32: "ARR_PACK_F32", TagArrPackF64: "ARR_PACK_F64",
	TagObjEmpty: "OBJ_EMPTY", TagObjPlain: "OBJ_PLAIN", TagObjLiteral: "OBJ_LITERAL",
	TagObjConstructor: "OBJ_CONSTRUCTOR", TagObjWithDescriptors: "OBJ_WITH_DESCRIPTORS",
	TagObjWithMethods: "OBJ_WITH_METHODS",
	TagTypedU8: "TYPED_U8", TagTypedI8: "TYPED_I8", TagTypedU8C: "TYPED_U8C", TagTypedU16: "TYPED_U16",
	TagTypedI16: "TYPED_I16", TagTypedU32: "TYPED_U32", TagTypedI32: "TYPED_I32", TagTypedF32: "TYPED_F32",
	TagTypedF64: "TYPED_F64", TagTypedI64: "TYPED_I64", TagTypedU64: "TYPED_U64", TagDataView: "DATAVIEW",
	TagArrayBuffer: "ARRAYBUFFER", TagBufferRef: "BUFFER_REF", TagSharedArrayBuffer: "SHAREDARRAYBUFFER",
	TagMap: "MAP", TagSet: "SET",
	TagDate: "DATE", TagDateInvalid: "DATE_INVALID",
	TagError: "ERROR", TagEvalErr: "EVAL", TagRangeErr: "RANGE", TagRefErr: "REF",
	TagSyntaxErr: "SYNTAX", TagTypeErr: "TYPE", TagURIErr: "URI", TagAggregate: "AGGREGATE", TagCustomErr: "CUSTOM",
	TagRegex: "REGEX", TagBlob: "BLOB", TagFile: "FILE",
	TagReference: "REFERENCE", TagCircularRef: "CIRCULAR_REF",
	TagSymbol: "SYMBOL", TagSymbolGlobal: "SYMBOL_GLOBAL", TagSymbolWellKnown: "SYMBOL_WELLKNOWN",
	TagSymbolNoDesc: "SYMBOL_NO_DESC",
	TagFunctionPlaceholder: "FUNCTION_PLACEHOLDER",
}

// TagName returns a human-readable tag name for diagnostics.
func TagName(t Tag) string {
	if name, ok := tagNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// knownTags enumerates every tag byte accepted by the reader (§6.1). A tag
// not in this set is UnknownTag.
var knownTags = func() map[Tag]struct{} {
	m := make(map[Tag]struct{}, len(tagNames))
	for t := range tagNames {
		m[t] = struct{}{}
	}
	return m
}()

// IsKnownTag reports whether t is a defined wire tag.
func IsKnownTag(t Tag) bool {
	_, ok := knownTags[t]
	return ok
}

// Magic + version framing (C10, §6.1).
const (
	MagicNumber uint32 = 0x54425235
	Version     byte   = 0x05
)

// String width thresholds (§4.5): tiny holds up to tinyStringLimit bytes,
// short holds fewer than shortStringLimit bytes (its length fits the
// one-byte prefix), anything longer is long.
const (
	tinyStringLimit  = 16
	shortStringLimit = 256
)
