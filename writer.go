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

// writer is the encode-side driver (C8, §4.6). One instance is scoped to a
// single Codec.Serialize call; it never outlives it.
type writer struct {
	buf  *Buffer
	refs *encodeRefTracker
	cfg  Config
}

// heapChildren enumerates the direct values reachable from a heap node, in
// no particular order — prewalk only needs to visit every child, not in
// wire order. Leaf values (numbers, strings, bools, bigints, callables,
// null/undefined) have no children and never appear here.
func heapChildren(v any) []any {
	switch val := v.(type) {
	case *Array:
		return val.Elems
	case *PlainObject:
		out := make([]any, 0, len(val.Fields))
		for _, f := range val.Fields {
			out = append(out, f)
		}
		return out
	case *DescriptorObject:
		var out []any
		for _, e := range val.Entries {
			switch {
			case e.HasGetter || e.HasSetter:
				if e.HasGetter {
					out = append(out, e.Getter)
				}
				if e.HasSetter {
					out = append(out, e.Setter)
				}
			default:
				out = append(out, e.Value)
			}
		}
		return out
	case *MethodObject:
		var out []any
		for _, e := range val.Entries {
			if !e.IsCallable {
				out = append(out, e.Value)
			}
		}
		return out
	case *ConstructorObject:
		return []any{val.Body}
	case *OrderedMap:
		out := make([]any, 0, 2*len(val.Entries))
		for _, e := range val.Entries {
			out = append(out, e.Key, e.Value)
		}
		return out
	case *OrderedSet:
		return val.Elems
	case *ErrorValue:
		return val.Errors
	default:
		// *TypedArray, *DataView, *Date, *Regexp, *Symbol, *Blob, *File carry
		// no further heap-graph children (their backing *ArrayBuffer lives in
		// the separate buffer table and cannot itself participate in a cycle:
		// it has no children).
		return nil
	}
}

// prewalk is the pre-walk cycle detector (§4.6 step 1 / §3.2's two-pass
// design): a DFS over the value graph that marks every node revisited while
// still on the current path into refs.cycleSet. Nodes reachable more than
// once via disjoint paths (a diamond, not a cycle) are left for the main
// walk's ordinary reference table to handle.
func (w *writer) prewalk(v any, onPath map[any]bool) {
	if !isObjectTableHeap(v) {
		return
	}
	if onPath[v] {
		w.refs.markCycle(v)
		return
	}
	onPath[v] = true
	for _, child := range heapChildren(v) {
		w.prewalk(child, onPath)
	}
	delete(onPath, v)
}

// writeValue is the main walk (§4.6 steps 1-5): circular-ref check, dedup
// reference check, string-ref check, buffer-ref check, then classify and
// emit. Each step either finishes the value with a reference tag or falls
// through to the next.
func (w *writer) writeValue(v any) error {
	if isObjectTableHeap(v) {
		if w.refs.inCycleSet(v) {
			if id, ok := w.refs.lookupObject(v); ok {
				w.buf.WriteU8(TagCircularRef)
				w.buf.WriteVarint(id)
				return nil
			}
			w.refs.assignObject(v)
			return w.emit(v)
		}
		// An object id is assigned on every full emission regardless of
		// Deduplication: the decoder registers a shell for every
		// object-table tag it decodes unconditionally (§4.8 step 4), so
		// the encode-side counter must stay in lockstep or a later
		// CIRCULAR_REF/REFERENCE id resolves against the wrong shell.
		// Deduplication only gates whether a repeat sighting short-circuits
		// into a REFERENCE instead of a full re-emission.
		if w.cfg.Deduplication {
			if id, ok := w.refs.lookupObject(v); ok {
				w.buf.WriteU8(TagReference)
				w.buf.WriteVarint(id)
				return nil
			}
		}
		w.refs.assignObject(v)
		return w.emit(v)
	}

	if s, ok := v.(string); ok && w.cfg.Deduplication && len(s) > 3 {
		if id, ok := w.refs.lookupString(s); ok {
			w.buf.WriteU8(TagStrRef)
			w.buf.WriteVarint(id)
			return nil
		}
		w.refs.assignString(s)
		return w.emit(v)
	}

	if b, ok := v.(*ArrayBuffer); ok && w.cfg.ShareArrayBuffers {
		if id, ok := w.refs.lookupBuffer(b); ok {
			w.buf.WriteU8(TagBufferRef)
			w.buf.WriteVarint(id)
			return nil
		}
		w.refs.assignBuffer(b)
		return w.emit(v)
	}

	return w.emit(v)
}

// emit classifies v, writes its tag byte, and dispatches to the matching
// payload writer.
func (w *writer) emit(v any) error {
	tag := classify(v, w.cfg)
	w.buf.WriteU8(tag)
	return w.writePayload(tag, v)
}

func (w *writer) writePayload(tag Tag, v any) error {
	switch val := v.(type) {
	case nil, Undefined, bool:
		return nil // leaf tags carry no payload
	case string:
		return w.writeStringPayload(tag, val)
	case *BigInt:
		return w.writeBigIntPayload(tag, val)
	case *Array:
		return w.writeArrayPayload(tag, val)
	case *PlainObject:
		return w.writePlainObjectPayload(tag, val)
	case *DescriptorObject:
		// classify (§4.5) may have downgraded val to TagObjLiteral or
		// TagObjWithMethods when PreservePropertyDescriptors is off — the
		// payload written here must match the tag actually on the wire,
		// not val's Go type, or the decoder misreads the body.
		switch tag {
		case TagObjWithDescriptors:
			return w.writeDescriptorPayload(val)
		case TagObjWithMethods:
			return w.writeMethodPayload(descriptorAsMethodObject(val))
		default:
			return w.writePlainObjectBody(descriptorAsPlainObject(val))
		}
	case *MethodObject:
		return w.writeMethodPayload(val)
	case *ConstructorObject:
		return w.writeConstructorPayload(val)
	case *TypedArray:
		return w.writeTypedArrayPayload(val)
	case *DataView:
		return w.writeDataViewPayload(val)
	case *ArrayBuffer:
		return w.writeArrayBufferPayload(val)
	case *OrderedMap:
		return w.writeMapPayload(val)
	case *OrderedSet:
		return w.writeSetPayload(val)
	case *Date:
		return w.writeDatePayload(tag, val)
	case *Regexp:
		return w.writeRegexPayload(val)
	case *ErrorValue:
		return w.writeErrorPayload(val)
	case *Blob:
		w.buf.WriteVarint(0)
		w.buf.WriteVarint(0)
		return nil
	case *File:
		w.buf.WriteVarint(0)
		w.buf.WriteVarint(0)
		return nil
	case *Symbol:
		return w.writeSymbolPayload(tag, val)
	case Callable:
		return nil
	default:
		if f, ok := toNumber(v); ok {
			return w.writeNumberPayload(tag, f)
		}
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

func (w *writer) writeNumberPayload(tag Tag, f float64) error {
	switch tag {
	case TagI8:
		w.buf.WriteU8(byte(int8(f)))
	case TagI16:
		w.buf.WriteI16(int16(f))
	case TagI32:
		w.buf.WriteI32(int32(f))
	case TagU32:
		w.buf.WriteU32(uint32(f))
	case TagF32:
		w.buf.WriteF32(float32(f))
	case TagF64:
		w.buf.WriteF64(f)
	case TagVarint:
		w.buf.WriteVarint(uint32(f))
	// TagNaN, TagPosInf, TagNegInf, TagNegZero carry no payload.
	default:
	}
	return nil
}

func (w *writer) writeBigIntPayload(tag Tag, b *BigInt) error {
	switch tag {
	case TagBigIntPosSmall, TagBigIntNegSmall:
		mag := new(big.Int).Abs(b.Value)
		w.buf.WriteU64(mag.Uint64())
	case TagBigIntPosLarge, TagBigIntNegLarge:
		mag := new(big.Int).Abs(b.Value).Bytes()
		if uint64(len(mag)) > math.MaxUint32 {
			return fmt.Errorf("%w: bigint magnitude of %d bytes", ErrUnsupportedValue, len(mag))
		}
		w.buf.WriteVarint(uint32(len(mag)))
		w.buf.WriteBulk(mag)
	}
	return nil
}

func (w *writer) writeStringPayload(tag Tag, s string) error {
	switch tag {
	case TagStrEmpty:
		return nil
	case TagStrAsciiTiny, TagStrUtf8Tiny, TagStrAsciiShort, TagStrUtf8Short:
		w.buf.WriteU8(byte(len(s)))
		w.buf.WriteBulk([]byte(s))
	case TagStrAsciiLong, TagStrUtf8Long:
		w.buf.WriteVarint(uint32(len(s)))
		w.buf.WriteBulk([]byte(s))
	}
	return nil
}

func (w *writer) writeArrayPayload(tag Tag, a *Array) error {
	switch tag {
	case TagArrEmpty:
		return nil
	case TagArrDense:
		w.buf.WriteVarint(uint32(len(a.Elems)))
		for _, e := range a.Elems {
			if err := w.writeValue(e); err != nil {
				return err
			}
		}
		return nil
	case TagArrSparse:
		w.buf.WriteVarint(uint32(len(a.Elems)))
		filled := 0
		for _, e := range a.Elems {
			if _, isHole := e.(Hole); !isHole {
				filled++
			}
		}
		w.buf.WriteVarint(uint32(filled))
		for i, e := range a.Elems {
			if _, isHole := e.(Hole); isHole {
				continue
			}
			w.buf.WriteVarint(uint32(i))
			if err := w.writeValue(e); err != nil {
				return err
			}
		}
		return nil
	default: // packed numeric tags
		return w.writePackedArray(tag, a.Elems)
	}
}

func (w *writer) writePackedArray(tag Tag, elems []any) error {
	elemSize := packedElemSize(tag)
	raw := make([]byte, 0, elemSize*len(elems))
	for _, e := range elems {
		f, _ := toNumber(e)
		switch tag {
		case TagArrPackI8:
			raw = append(raw, byte(int8(f)))
		case TagArrPackI16:
			var b [2]byte
			binary.LittleEndian.PutUint16(b[:], uint16(int16(f)))
			raw = append(raw, b[:]...)
		case TagArrPackI32:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], uint32(int32(f)))
			raw = append(raw, b[:]...)
		case TagArrPackF32:
			var b [4]byte
			binary.LittleEndian.PutUint32(b[:], math.Float32bits(float32(f)))
			raw = append(raw, b[:]...)
		case TagArrPackF64:
			var b [8]byte
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
			raw = append(raw, b[:]...)
		}
	}
	w.buf.WritePackedArray(len(elems), elemSize, raw)
	return nil
}

// plainObjectKeys returns the wire key order for a data-only object body:
// sorted ascending, callables filtered out (§3.4/§4.6). A PlainObject in
// this codec's value model never actually holds a Callable, but the filter
// is kept because the wire rule is stated generally over "own string keys".
func plainObjectKeys(fields map[string]any) []string {
	keys := globalShapeCache.sortedKeys(fields)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if _, isCallable := fields[k].(Callable); isCallable {
			continue
		}
		out = append(out, k)
	}
	return out
}

func (w *writer) writePlainObjectBody(o *PlainObject) error {
	keys := plainObjectKeys(o.Fields)
	w.buf.WriteVarint(uint32(len(keys)))
	for _, k := range keys {
		if err := w.writeValue(k); err != nil {
			return err
		}
		if err := w.writeValue(o.Fields[k]); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writePlainObjectPayload(tag Tag, o *PlainObject) error {
	if tag == TagObjEmpty {
		return nil
	}
	return w.writePlainObjectBody(o)
}

// descriptorEntryValue collapses a PropertyDescriptor down to a single
// value, discarding the descriptor flags: an accessor contributes its
// getter's value, falling back to the setter's when there is no getter.
// Used when PreservePropertyDescriptors is off and classify has already
// downgraded the object to a data-only tag.
func descriptorEntryValue(e PropertyDescriptor) any {
	switch {
	case e.HasGetter:
		return e.Getter
	case e.HasSetter:
		return e.Setter
	default:
		return e.Value
	}
}

// descriptorAsPlainObject builds the TagObjLiteral-shaped body a
// downgraded DescriptorObject with no callable entries is classified as.
func descriptorAsPlainObject(o *DescriptorObject) *PlainObject {
	fields := make(map[string]any, len(o.Entries))
	for _, e := range o.Entries {
		fields[e.Key] = descriptorEntryValue(e)
	}
	return &PlainObject{Fields: fields}
}

// descriptorAsMethodObject builds the TagObjWithMethods-shaped body a
// downgraded DescriptorObject with at least one callable-valued entry is
// classified as (§4.5's descriptorsHaveCallable case).
func descriptorAsMethodObject(o *DescriptorObject) *MethodObject {
	entries := make([]MethodEntry, len(o.Entries))
	for i, e := range o.Entries {
		v := descriptorEntryValue(e)
		if fn, ok := v.(Callable); ok {
			entries[i] = MethodEntry{Key: e.Key, IsCallable: true, Func: fn}
			continue
		}
		entries[i] = MethodEntry{Key: e.Key, Value: v}
	}
	return &MethodObject{Entries: entries}
}

func (w *writer) writeDescriptorPayload(o *DescriptorObject) error {
	w.buf.WriteVarint(uint32(len(o.Entries)))
	for _, e := range o.Entries {
		if err := w.writeValue(e.Key); err != nil {
			return err
		}
		var flags byte
		if e.Enumerable {
			flags |= 1 << 0
		}
		if e.Writable {
			flags |= 1 << 1
		}
		if e.Configurable {
			flags |= 1 << 2
		}
		if e.HasGetter {
			flags |= 1 << 3
		}
		if e.HasSetter {
			flags |= 1 << 4
		}
		w.buf.WriteU8(flags)
		if e.HasGetter {
			if err := w.writeValue(e.Getter); err != nil {
				return err
			}
		}
		if e.HasSetter {
			if err := w.writeValue(e.Setter); err != nil {
				return err
			}
		}
		if !e.HasGetter && !e.HasSetter {
			if err := w.writeValue(e.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *writer) writeMethodPayload(o *MethodObject) error {
	w.buf.WriteVarint(uint32(len(o.Entries)))
	for _, e := range o.Entries {
		if err := w.writeValue(e.Key); err != nil {
			return err
		}
		w.buf.WriteBool(e.IsCallable)
		if !e.IsCallable {
			if err := w.writeValue(e.Value); err != nil {
				return err
			}
			continue
		}
		if !w.cfg.SerializeFunctions {
			w.buf.WriteU8(TagFunctionPlaceholder)
			continue
		}
		if err := w.writeValue(e.Func.Source); err != nil {
			return err
		}
		if err := w.writeValue(e.Func.Name); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeConstructorPayload(o *ConstructorObject) error {
	if err := w.writeValue(o.Name); err != nil {
		return err
	}
	return w.writePlainObjectBody(o.Body)
}

// bufferPayloadHeader writes the typed-array/data-view share-flag prefix
// (§4.6): if the backing buffer was already emitted (or this call is the
// one registering it for the first time under buffer sharing), the caller
// still needs to know whether to embed the backing buffer's raw bytes or
// reference it by id. On the shared branch the wire order is
// buffer_ref, byte_offset, length. On the embed branch, byte_offset and
// length describe this view, followed by the *whole* backing buffer's
// byte length — embedding only this view's slice would strand any later
// view that aliases a different, non-overlapping offset (§4.6). Returns
// embed=true when the caller must write the full buffer's raw bytes.
func (w *writer) bufferPayloadHeader(buf *ArrayBuffer, byteOffset, length int) (embed bool) {
	if w.cfg.ShareArrayBuffers {
		if id, ok := w.refs.lookupBuffer(buf); ok {
			w.buf.WriteU8(1)
			w.buf.WriteVarint(id)
			w.buf.WriteVarint(uint32(byteOffset))
			w.buf.WriteVarint(uint32(length))
			return false
		}
		w.refs.assignBuffer(buf)
	}
	w.buf.WriteU8(0)
	w.buf.WriteVarint(uint32(byteOffset))
	w.buf.WriteVarint(uint32(length))
	w.buf.WriteVarint(uint32(len(buf.Data)))
	return true
}

func (w *writer) writeTypedArrayPayload(t *TypedArray) error {
	elemSize := typedArrayElemSize[t.Kind]
	if !w.bufferPayloadHeader(t.Buffer, t.ByteOffset, t.Length) {
		return nil
	}
	w.buf.align(elemSize)
	w.buf.WriteBulk(t.Buffer.Data)
	return nil
}

func (w *writer) writeDataViewPayload(d *DataView) error {
	if !w.bufferPayloadHeader(d.Buffer, d.ByteOffset, d.Length) {
		return nil
	}
	w.buf.WriteBulk(d.Buffer.Data)
	return nil
}

func (w *writer) writeArrayBufferPayload(b *ArrayBuffer) error {
	w.buf.WriteVarint(uint32(len(b.Data)))
	w.buf.WriteBulk(b.Data)
	return nil
}

func (w *writer) writeMapPayload(m *OrderedMap) error {
	w.buf.WriteVarint(uint32(len(m.Entries)))
	for _, e := range m.Entries {
		if err := w.writeValue(e.Key); err != nil {
			return err
		}
		if err := w.writeValue(e.Value); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeSetPayload(s *OrderedSet) error {
	w.buf.WriteVarint(uint32(len(s.Elems)))
	for _, e := range s.Elems {
		if err := w.writeValue(e); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeDatePayload(tag Tag, d *Date) error {
	if tag == TagDateInvalid {
		return nil
	}
	w.buf.WriteF64(d.Millis)
	return nil
}

func (w *writer) writeRegexPayload(r *Regexp) error {
	if err := w.writeValue(r.Source); err != nil {
		return err
	}
	return w.writeValue(r.Flags)
}

func (w *writer) writeErrorPayload(e *ErrorValue) error {
	if err := w.writeValue(e.Message); err != nil {
		return err
	}
	if err := w.writeValue(e.Stack); err != nil {
		return err
	}
	if e.Kind != ErrKindAggregate {
		return nil
	}
	w.buf.WriteVarint(uint32(len(e.Errors)))
	for _, inner := range e.Errors {
		if err := w.writeValue(inner); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeSymbolPayload(tag Tag, s *Symbol) error {
	if tag == TagSymbolNoDesc {
		return nil
	}
	return w.writeValue(s.Description)
}
