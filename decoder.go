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
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// decoder is the decode-side driver (C9, §4.8). One instance is scoped to a
// single Codec.Deserialize call. Decoding never branches on d.cfg: the wire
// format is self-describing, and output from any encoder configuration must
// decode the same way (§6.2).
type decoder struct {
	r    *Reader
	refs *decodeRefTracker
	cfg  Config
}

var tagToTypedArrayKind = func() map[Tag]TypedArrayKind {
	m := make(map[Tag]TypedArrayKind, len(typedArrayTag))
	for kind, tag := range typedArrayTag {
		m[tag] = kind
	}
	return m
}()

var tagToErrorKind = map[Tag]ErrorKind{
	TagError:     ErrKindPlain,
	TagEvalErr:   ErrKindEval,
	TagRangeErr:  ErrKindRange,
	TagRefErr:    ErrKindRef,
	TagSyntaxErr: ErrKindSyntax,
	TagTypeErr:   ErrKindType,
	TagURIErr:    ErrKindURI,
	TagAggregate: ErrKindAggregate,
	TagCustomErr: ErrKindCustom,
}

// readValue reads one tag byte and decodes the value that follows it
// (§4.8's per-value entry point; every recursive descent goes through
// this).
func (d *decoder) readValue() (any, error) {
	tag, err := d.r.ReadU8()
	if err != nil {
		return nil, err
	}
	return d.readTagged(tag)
}

// readTagged decodes the payload for an already-consumed tag byte. It is
// split out from readValue so call sites that peek a tag for a different
// reason (the method-object callable-source slot) can dispatch on it
// without re-reading.
func (d *decoder) readTagged(tag Tag) (any, error) {
	switch {
	case tag == TagNull:
		return nil, nil
	case tag == TagUndefined:
		return UndefinedValue, nil
	case tag == TagFalse:
		return false, nil
	case tag == TagTrue:
		return true, nil
	case Group(tag) == GroupNumber:
		return d.readNumber(tag)
	case Group(tag) == GroupBigInt:
		return d.readBigInt(tag)
	case tag == TagStrRef:
		id, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		return d.refs.getString(id)
	case Group(tag) == GroupString:
		return d.readString(tag)
	case Group(tag) == GroupArray:
		return d.readArray(tag)
	case tag == TagObjEmpty, tag == TagObjPlain, tag == TagObjLiteral:
		return d.readPlainObject(tag)
	case tag == TagObjConstructor:
		return d.readConstructor()
	case tag == TagObjWithDescriptors:
		return d.readDescriptorObject()
	case tag == TagObjWithMethods:
		return d.readMethodObject()
	case tag == TagDataView:
		return d.readDataView()
	case Group(tag) == GroupTyped:
		return d.readTypedArray(tag)
	case tag == TagArrayBuffer, tag == TagSharedArrayBuffer:
		return d.readArrayBuffer(tag)
	case tag == TagBufferRef:
		id, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		return d.refs.getBuffer(id)
	case tag == TagMap:
		return d.readMap()
	case tag == TagSet:
		return d.readSet()
	case tag == TagDate, tag == TagDateInvalid:
		return d.readDate(tag)
	case Group(tag) == GroupError:
		return d.readError(tag)
	case tag == TagRegex:
		return d.readRegex()
	case tag == TagBlob:
		return d.readBlob()
	case tag == TagFile:
		return d.readFile()
	case tag == TagReference, tag == TagCircularRef:
		id, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		return d.refs.getObject(id)
	case Group(tag) == GroupSpecial:
		return d.readSymbol(tag)
	default:
		debugf("unknown tag 0x%02X at offset %d", tag, d.r.Pos())
		return nil, fmt.Errorf("%w: 0x%02X", ErrUnknownTag, tag)
	}
}

func (d *decoder) readNumber(tag Tag) (any, error) {
	switch tag {
	case TagI8:
		v, err := d.r.ReadU8()
		return float64(int8(v)), err
	case TagI16:
		v, err := d.r.ReadI16()
		return float64(v), err
	case TagI32:
		v, err := d.r.ReadI32()
		return float64(v), err
	case TagU32:
		v, err := d.r.ReadU32()
		return float64(v), err
	case TagF32:
		v, err := d.r.ReadF32()
		return float64(v), err
	case TagF64:
		return d.r.ReadF64()
	case TagNaN:
		return math.NaN(), nil
	case TagPosInf:
		return math.Inf(1), nil
	case TagNegInf:
		return math.Inf(-1), nil
	case TagNegZero:
		return math.Copysign(0, -1), nil
	case TagVarint:
		v, err := d.r.ReadVarint()
		return float64(v), err
	default:
		return nil, fmt.Errorf("%w: number tag 0x%02X", ErrUnknownTag, tag)
	}
}

func (d *decoder) readBigInt(tag Tag) (any, error) {
	switch tag {
	case TagBigIntPosSmall, TagBigIntNegSmall:
		mag, err := d.r.ReadU64()
		if err != nil {
			return nil, err
		}
		val := new(big.Int).SetUint64(mag)
		if tag == TagBigIntNegSmall {
			val.Neg(val)
		}
		return &BigInt{Value: val}, nil
	case TagBigIntPosLarge, TagBigIntNegLarge:
		n, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		raw, err := d.r.ReadBulk(int(n))
		if err != nil {
			return nil, err
		}
		val := new(big.Int).SetBytes(raw)
		if tag == TagBigIntNegLarge {
			val.Neg(val)
		}
		return &BigInt{Value: val}, nil
	default:
		return nil, fmt.Errorf("%w: bigint tag 0x%02X", ErrUnknownTag, tag)
	}
}

func (d *decoder) readString(tag Tag) (any, error) {
	var s string
	switch tag {
	case TagStrEmpty:
		s = ""
	case TagStrAsciiTiny, TagStrUtf8Tiny, TagStrAsciiShort, TagStrUtf8Short:
		n, err := d.r.ReadU8()
		if err != nil {
			return nil, err
		}
		raw, err := d.r.ReadBulk(int(n))
		if err != nil {
			return nil, err
		}
		s = string(raw)
	case TagStrAsciiLong, TagStrUtf8Long:
		n, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		raw, err := d.r.ReadBulk(int(n))
		if err != nil {
			return nil, err
		}
		s = string(raw)
	default:
		return nil, fmt.Errorf("%w: string tag 0x%02X", ErrUnknownTag, tag)
	}
	if len(s) > 3 {
		d.refs.registerString(s)
	}
	return s, nil
}

func unpackElement(tag Tag, raw []byte) float64 {
	switch tag {
	case TagArrPackI8:
		return float64(int8(raw[0]))
	case TagArrPackI16:
		return float64(int16(binary.LittleEndian.Uint16(raw)))
	case TagArrPackI32:
		return float64(int32(binary.LittleEndian.Uint32(raw)))
	case TagArrPackF32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(raw)))
	case TagArrPackF64:
		return math.Float64frombits(binary.LittleEndian.Uint64(raw))
	default:
		return 0
	}
}

func (d *decoder) readArray(tag Tag) (any, error) {
	switch tag {
	case TagArrEmpty:
		arr := &Array{}
		d.refs.registerObjectShell(arr)
		return arr, nil
	case TagArrDense:
		n, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		arr := &Array{Elems: make([]any, 0, n)}
		d.refs.registerObjectShell(arr)
		for i := uint32(0); i < n; i++ {
			v, err := d.readValue()
			if err != nil {
				return nil, err
			}
			arr.Elems = append(arr.Elems, v)
		}
		return arr, nil
	case TagArrSparse:
		total, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		filled, err := d.r.ReadVarint()
		if err != nil {
			return nil, err
		}
		arr := &Array{Elems: make([]any, total)}
		for i := range arr.Elems {
			arr.Elems[i] = HoleValue
		}
		d.refs.registerObjectShell(arr)
		for i := uint32(0); i < filled; i++ {
			idx, err := d.r.ReadVarint()
			if err != nil {
				return nil, err
			}
			v, err := d.readValue()
			if err != nil {
				return nil, err
			}
			if int(idx) >= len(arr.Elems) {
				return nil, fmt.Errorf("%w: sparse array index %d out of range", ErrBufferUnderflow, idx)
			}
			arr.Elems[idx] = v
		}
		return arr, nil
	default:
		elemSize := packedElemSize(tag)
		if elemSize == 0 {
			return nil, fmt.Errorf("%w: array tag 0x%02X", ErrUnknownTag, tag)
		}
		count, raw, err := d.r.ReadPackedArray(elemSize)
		if err != nil {
			return nil, err
		}
		arr := &Array{Elems: make([]any, count)}
		d.refs.registerObjectShell(arr)
		for i := 0; i < count; i++ {
			arr.Elems[i] = unpackElement(tag, raw[i*elemSize:(i+1)*elemSize])
		}
		return arr, nil
	}
}

func (d *decoder) readPlainObjectBodyInto(o *PlainObject) error {
	n, err := d.r.ReadVarint()
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		keyVal, err := d.readValue()
		if err != nil {
			return err
		}
		key, _ := keyVal.(string)
		val, err := d.readValue()
		if err != nil {
			return err
		}
		o.Fields[key] = val
	}
	return nil
}

func (d *decoder) readPlainObject(tag Tag) (any, error) {
	obj := NewPlainObject()
	d.refs.registerObjectShell(obj)
	if tag == TagObjEmpty {
		return obj, nil
	}
	if err := d.readPlainObjectBodyInto(obj); err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *decoder) readDescriptorObject() (any, error) {
	obj := &DescriptorObject{}
	d.refs.registerObjectShell(obj)
	n, err := d.r.ReadVarint()
	if err != nil {
		return nil, err
	}
	obj.Entries = make([]PropertyDescriptor, n)
	for i := range obj.Entries {
		keyVal, err := d.readValue()
		if err != nil {
			return nil, err
		}
		key, _ := keyVal.(string)
		flags, err := d.r.ReadU8()
		if err != nil {
			return nil, err
		}
		e := PropertyDescriptor{
			Key:          key,
			Enumerable:   flags&(1<<0) != 0,
			Writable:     flags&(1<<1) != 0,
			Configurable: flags&(1<<2) != 0,
			HasGetter:    flags&(1<<3) != 0,
			HasSetter:    flags&(1<<4) != 0,
		}
		if e.HasGetter {
			if e.Getter, err = d.readValue(); err != nil {
				return nil, err
			}
		}
		if e.HasSetter {
			if e.Setter, err = d.readValue(); err != nil {
				return nil, err
			}
		}
		if !e.HasGetter && !e.HasSetter {
			if e.Value, err = d.readValue(); err != nil {
				return nil, err
			}
		}
		obj.Entries[i] = e
	}
	return obj, nil
}

func (d *decoder) readMethodObject() (any, error) {
	obj := &MethodObject{}
	d.refs.registerObjectShell(obj)
	n, err := d.r.ReadVarint()
	if err != nil {
		return nil, err
	}
	obj.Entries = make([]MethodEntry, n)
	for i := range obj.Entries {
		keyVal, err := d.readValue()
		if err != nil {
			return nil, err
		}
		key, _ := keyVal.(string)
		isCallable, err := d.r.ReadBool()
		if err != nil {
			return nil, err
		}
		entry := MethodEntry{Key: key, IsCallable: isCallable}
		if !isCallable {
			if entry.Value, err = d.readValue(); err != nil {
				return nil, err
			}
			obj.Entries[i] = entry
			continue
		}
		markerTag, err := d.r.ReadU8()
		if err != nil {
			return nil, err
		}
		if markerTag == TagFunctionPlaceholder {
			entry.Func = Callable{}
			obj.Entries[i] = entry
			continue
		}
		srcVal, err := d.readTagged(markerTag)
		if err != nil {
			return nil, err
		}
		src, _ := srcVal.(string)
		nameVal, err := d.readValue()
		if err != nil {
			return nil, err
		}
		name, _ := nameVal.(string)
		entry.Func = Callable{Name: name, Source: src, HasSource: true}
		obj.Entries[i] = entry
	}
	return obj, nil
}

func (d *decoder) readConstructor() (any, error) {
	obj := &ConstructorObject{}
	d.refs.registerObjectShell(obj)
	nameVal, err := d.readValue()
	if err != nil {
		return nil, err
	}
	obj.Name, _ = nameVal.(string)
	obj.Body = NewPlainObject()
	if err := d.readPlainObjectBodyInto(obj.Body); err != nil {
		return nil, err
	}
	return obj, nil
}

// readBufferPayload mirrors writer.bufferPayloadHeader: it reads the
// share-flag prefix and either resolves an existing buffer by id or reads
// the whole backing buffer's raw bytes into a freshly registered
// *ArrayBuffer. align <= 1 skips alignment (DataView has no fixed element
// width). On the shared branch the wire order is buffer_ref, byte_offset,
// length, matching the writer exactly. Either branch validates that the
// requested [byteOffset, byteOffset+length*elemSize) view actually fits
// inside the resolved buffer, since a share id or an embedded length can
// come from a corrupt or adversarial stream.
func (d *decoder) readBufferPayload(elemSize, align int) (buf *ArrayBuffer, byteOffset, length int, err error) {
	shareFlag, err := d.r.ReadU8()
	if err != nil {
		return nil, 0, 0, err
	}
	if shareFlag == 1 {
		id, err := d.r.ReadVarint()
		if err != nil {
			return nil, 0, 0, err
		}
		off, err := d.r.ReadVarint()
		if err != nil {
			return nil, 0, 0, err
		}
		ln, err := d.r.ReadVarint()
		if err != nil {
			return nil, 0, 0, err
		}
		buf, err = d.refs.getBuffer(id)
		if err != nil {
			return nil, 0, 0, err
		}
		if err := checkViewBounds(buf, off, ln, elemSize); err != nil {
			return nil, 0, 0, err
		}
		return buf, int(off), int(ln), nil
	}

	off, err := d.r.ReadVarint()
	if err != nil {
		return nil, 0, 0, err
	}
	ln, err := d.r.ReadVarint()
	if err != nil {
		return nil, 0, 0, err
	}
	bufLen, err := d.r.ReadVarint()
	if err != nil {
		return nil, 0, 0, err
	}
	if align > 1 {
		if err := d.r.align(align); err != nil {
			return nil, 0, 0, err
		}
	}
	raw, err := d.r.ReadBulk(int(bufLen))
	if err != nil {
		return nil, 0, 0, err
	}
	data := make([]byte, len(raw))
	copy(data, raw)
	buf = &ArrayBuffer{Data: data}
	d.refs.registerBuffer(buf)
	if err := checkViewBounds(buf, off, ln, elemSize); err != nil {
		return nil, 0, 0, err
	}
	return buf, int(off), int(ln), nil
}

// checkViewBounds validates that a [byteOffset, byteOffset+length*elemSize)
// view fits inside buf, rejecting a share id or embedded length that would
// otherwise silently produce an out-of-bounds view.
func checkViewBounds(buf *ArrayBuffer, byteOffset, length uint32, elemSize int) error {
	end := uint64(byteOffset) + uint64(length)*uint64(elemSize)
	if end > uint64(len(buf.Data)) {
		return fmt.Errorf("%w: view [%d,%d) exceeds buffer size %d", ErrInvalidReference, byteOffset, end, len(buf.Data))
	}
	return nil
}

func (d *decoder) readTypedArray(tag Tag) (any, error) {
	kind, ok := tagToTypedArrayKind[tag]
	if !ok {
		return nil, fmt.Errorf("%w: typed array tag 0x%02X", ErrUnknownTag, tag)
	}
	ta := &TypedArray{Kind: kind}
	d.refs.registerObjectShell(ta)
	elemSize := typedArrayElemSize[kind]
	buf, off, length, err := d.readBufferPayload(elemSize, elemSize)
	if err != nil {
		return nil, err
	}
	ta.Buffer, ta.ByteOffset, ta.Length = buf, off, length
	return ta, nil
}

func (d *decoder) readDataView() (any, error) {
	dv := &DataView{}
	d.refs.registerObjectShell(dv)
	buf, off, length, err := d.readBufferPayload(1, 0)
	if err != nil {
		return nil, err
	}
	dv.Buffer, dv.ByteOffset, dv.Length = buf, off, length
	return dv, nil
}

func (d *decoder) readArrayBuffer(tag Tag) (any, error) {
	n, err := d.r.ReadVarint()
	if err != nil {
		return nil, err
	}
	raw, err := d.r.ReadBulk(int(n))
	if err != nil {
		return nil, err
	}
	data := make([]byte, len(raw))
	copy(data, raw)
	buf := &ArrayBuffer{Data: data, Shared: tag == TagSharedArrayBuffer}
	d.refs.registerBuffer(buf)
	return buf, nil
}

func (d *decoder) readMap() (any, error) {
	n, err := d.r.ReadVarint()
	if err != nil {
		return nil, err
	}
	m := &OrderedMap{Entries: make([]MapEntry, n)}
	d.refs.registerObjectShell(m)
	for i := range m.Entries {
		k, err := d.readValue()
		if err != nil {
			return nil, err
		}
		v, err := d.readValue()
		if err != nil {
			return nil, err
		}
		m.Entries[i] = MapEntry{Key: k, Value: v}
	}
	return m, nil
}

func (d *decoder) readSet() (any, error) {
	n, err := d.r.ReadVarint()
	if err != nil {
		return nil, err
	}
	s := &OrderedSet{Elems: make([]any, n)}
	d.refs.registerObjectShell(s)
	for i := range s.Elems {
		v, err := d.readValue()
		if err != nil {
			return nil, err
		}
		s.Elems[i] = v
	}
	return s, nil
}

func (d *decoder) readDate(tag Tag) (any, error) {
	date := &Date{}
	d.refs.registerObjectShell(date)
	if tag == TagDateInvalid {
		date.Millis = math.NaN()
		return date, nil
	}
	millis, err := d.r.ReadF64()
	if err != nil {
		return nil, err
	}
	date.Millis = millis
	return date, nil
}

func (d *decoder) readRegex() (any, error) {
	rx := &Regexp{}
	d.refs.registerObjectShell(rx)
	srcVal, err := d.readValue()
	if err != nil {
		return nil, err
	}
	rx.Source, _ = srcVal.(string)
	flagsVal, err := d.readValue()
	if err != nil {
		return nil, err
	}
	rx.Flags, _ = flagsVal.(string)
	return rx, nil
}

func (d *decoder) readError(tag Tag) (any, error) {
	kind, ok := tagToErrorKind[tag]
	if !ok {
		return nil, fmt.Errorf("%w: error tag 0x%02X", ErrUnknownTag, tag)
	}
	e := &ErrorValue{Kind: kind}
	d.refs.registerObjectShell(e)
	msgVal, err := d.readValue()
	if err != nil {
		return nil, err
	}
	e.Message, _ = msgVal.(string)
	stackVal, err := d.readValue()
	if err != nil {
		return nil, err
	}
	e.Stack, _ = stackVal.(string)
	if kind != ErrKindAggregate {
		return e, nil
	}
	n, err := d.r.ReadVarint()
	if err != nil {
		return nil, err
	}
	e.Errors = make([]any, n)
	for i := range e.Errors {
		v, err := d.readValue()
		if err != nil {
			return nil, err
		}
		e.Errors[i] = v
	}
	return e, nil
}

func (d *decoder) readBlob() (any, error) {
	b := &Blob{}
	d.refs.registerObjectShell(b)
	if _, err := d.r.ReadVarint(); err != nil {
		return nil, err
	}
	if _, err := d.r.ReadVarint(); err != nil {
		return nil, err
	}
	return b, nil
}

func (d *decoder) readFile() (any, error) {
	f := &File{}
	d.refs.registerObjectShell(f)
	if _, err := d.r.ReadVarint(); err != nil {
		return nil, err
	}
	if _, err := d.r.ReadVarint(); err != nil {
		return nil, err
	}
	return f, nil
}

func (d *decoder) readSymbol(tag Tag) (any, error) {
	sym := &Symbol{}
	d.refs.registerObjectShell(sym)
	switch tag {
	case TagSymbolNoDesc:
		sym.Kind = SymbolPlain
		return sym, nil
	case TagSymbol, TagSymbolGlobal, TagSymbolWellKnown:
		switch tag {
		case TagSymbolGlobal:
			sym.Kind = SymbolGlobal
		case TagSymbolWellKnown:
			sym.Kind = SymbolWellKnown
		default:
			sym.Kind = SymbolPlain
		}
		descVal, err := d.readValue()
		if err != nil {
			return nil, err
		}
		sym.Description, _ = descVal.(string)
		sym.HasDescription = true
		return sym, nil
	default:
		return nil, fmt.Errorf("%w: symbol tag 0x%02X", ErrUnknownTag, tag)
	}
}
