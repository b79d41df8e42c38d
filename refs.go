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

import "fmt"

// isObjectTableHeap reports whether v is one of the pointer-identity
// shapes that participate in the object/array/collection reference table
// (§3.3). Go pointer equality gives us the identity-keyed hashing §9's
// design notes ask for, with no shadow ids needed. *ArrayBuffer is
// deliberately excluded: its identity lives in the separate buffer table
// (see isBufferStore).
func isObjectTableHeap(v any) bool {
	switch v.(type) {
	case *Array, *PlainObject, *DescriptorObject, *MethodObject, *ConstructorObject,
		*OrderedMap, *OrderedSet, *TypedArray, *DataView,
		*Date, *Regexp, *ErrorValue, *Symbol, *Blob, *File:
		return true
	default:
		return false
	}
}

// isBufferStore reports whether v is a contiguous byte store keyed by the
// buffer table (§3.3).
func isBufferStore(v any) bool {
	_, ok := v.(*ArrayBuffer)
	return ok
}

// encodeRefTracker holds the three encode-side identity-keyed tables
// (C7, §3.3) plus the cycle set computed by the writer's pre-walk. It has
// no lifetime beyond a single encode call (§3.3's "no cross-call
// lifetime" invariant): Reset clears every table.
type encodeRefTracker struct {
	objects   map[any]uint32
	nextObjID uint32

	strings   map[string]uint32
	nextStrID uint32

	buffers   map[*ArrayBuffer]uint32
	nextBufID uint32

	cycleSet map[any]bool
}

func newEncodeRefTracker() *encodeRefTracker {
	return &encodeRefTracker{
		objects: make(map[any]uint32),
		strings: make(map[string]uint32),
		buffers: make(map[*ArrayBuffer]uint32),
	}
}

func (t *encodeRefTracker) Reset() {
	clear(t.objects)
	clear(t.strings)
	clear(t.buffers)
	t.nextObjID, t.nextStrID, t.nextBufID = 0, 0, 0
	t.cycleSet = nil
}

func (t *encodeRefTracker) markCycle(v any) {
	if t.cycleSet == nil {
		t.cycleSet = make(map[any]bool)
	}
	t.cycleSet[v] = true
}

func (t *encodeRefTracker) inCycleSet(v any) bool {
	return t.cycleSet != nil && t.cycleSet[v]
}

// lookupObject returns the previously assigned id for v, if any.
func (t *encodeRefTracker) lookupObject(v any) (uint32, bool) {
	id, ok := t.objects[v]
	return id, ok
}

// assignObject assigns the next id in first-seen order and returns it.
func (t *encodeRefTracker) assignObject(v any) uint32 {
	id := t.nextObjID
	t.objects[v] = id
	t.nextObjID++
	return id
}

func (t *encodeRefTracker) lookupString(s string) (uint32, bool) {
	id, ok := t.strings[s]
	return id, ok
}

func (t *encodeRefTracker) assignString(s string) uint32 {
	id := t.nextStrID
	t.strings[s] = id
	t.nextStrID++
	return id
}

func (t *encodeRefTracker) lookupBuffer(b *ArrayBuffer) (uint32, bool) {
	id, ok := t.buffers[b]
	return id, ok
}

func (t *encodeRefTracker) assignBuffer(b *ArrayBuffer) uint32 {
	id := t.nextBufID
	t.buffers[b] = id
	t.nextBufID++
	return id
}

// decodeRefTracker mirrors encodeRefTracker on the read side: dense
// vectors indexed by id, populated in first-seen order (§4.8). Container
// shells are registered before their contents are filled, which is what
// makes CIRCULAR_REF and forward REFERENCE tags resolvable (§4.9).
type decodeRefTracker struct {
	objects []any
	strings []string
	buffers []*ArrayBuffer
}

func newDecodeRefTracker() *decodeRefTracker {
	return &decodeRefTracker{}
}

func (t *decodeRefTracker) Reset() {
	t.objects = t.objects[:0]
	t.strings = t.strings[:0]
	t.buffers = t.buffers[:0]
}

// registerObjectShell appends a new (possibly still-empty) heap value and
// returns its id.
func (t *decodeRefTracker) registerObjectShell(v any) uint32 {
	id := uint32(len(t.objects))
	t.objects = append(t.objects, v)
	return id
}

func (t *decodeRefTracker) getObject(id uint32) (any, error) {
	if int(id) >= len(t.objects) {
		return nil, fmt.Errorf("%w: object id %d (table size %d)", ErrInvalidReference, id, len(t.objects))
	}
	return t.objects[id], nil
}

func (t *decodeRefTracker) registerString(s string) uint32 {
	id := uint32(len(t.strings))
	t.strings = append(t.strings, s)
	return id
}

func (t *decodeRefTracker) getString(id uint32) (string, error) {
	if int(id) >= len(t.strings) {
		return "", fmt.Errorf("%w: string id %d (table size %d)", ErrInvalidReference, id, len(t.strings))
	}
	return t.strings[id], nil
}

func (t *decodeRefTracker) registerBuffer(b *ArrayBuffer) uint32 {
	id := uint32(len(t.buffers))
	t.buffers = append(t.buffers, b)
	return id
}

func (t *decodeRefTracker) getBuffer(id uint32) (*ArrayBuffer, error) {
	if int(id) >= len(t.buffers) {
		return nil, fmt.Errorf("%w: buffer id %d (table size %d)", ErrInvalidReference, id, len(t.buffers))
	}
	return t.buffers[id], nil
}
