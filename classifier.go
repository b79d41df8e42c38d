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
	"sort"
	"sync"

	"github.com/spaolacci/murmur3"
)

// shapeCache memoizes the sorted key slice for a given plain-object key
// set, fingerprinted with murmur3 exactly the way the teacher fingerprints
// struct schemas in type_def.go's prependGlobalHeader (same seed, 47).
// This changes no wire bytes. The keys are sorted on every call before the
// fingerprint is taken; a hit returns the previously stored slice for that
// key set instead of the freshly sorted one.
type shapeCache struct {
	mu    sync.Mutex
	byFP  map[uint64][]string
}

var globalShapeCache = &shapeCache{byFP: make(map[uint64][]string)}

func (c *shapeCache) sortedKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if len(keys) == 0 {
		return keys
	}
	blob := shapeBlob(keys)
	fp := murmur3.Sum64WithSeed(blob, 47)

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.byFP[fp]; ok && sameStrings(cached, keys) {
		debugf("shape cache hit fp=%d keys=%v", fp, keys)
		return cached
	}
	c.byFP[fp] = keys
	debugf("shape cache store fp=%d keys=%v", fp, keys)
	return keys
}

func shapeBlob(sortedKeys []string) []byte {
	var out []byte
	for _, k := range sortedKeys {
		out = append(out, k...)
		out = append(out, 0)
	}
	return out
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// classify maps a runtime value to a wire tag (C6, §4.5). It never
// touches the buffer or the reference tables — those are the writer
// driver's job (§4.6); classify is a pure function of the value and the
// active configuration.
func classify(v any, cfg Config) Tag {
	switch val := v.(type) {
	case nil:
		return TagNull
	case Undefined:
		return TagUndefined
	case bool:
		if val {
			return TagTrue
		}
		return TagFalse
	case string:
		return classifyString(val)
	case *BigInt:
		return classifyBigInt(val)
	case *Array:
		return classifyArray(val, cfg)
	case *PlainObject:
		if len(val.Fields) == 0 {
			return TagObjEmpty
		}
		return TagObjLiteral
	case *DescriptorObject:
		if !cfg.PreservePropertyDescriptors {
			if descriptorsHaveCallable(val) {
				return TagObjWithMethods
			}
			return TagObjLiteral
		}
		return TagObjWithDescriptors
	case *MethodObject:
		return TagObjWithMethods
	case *ConstructorObject:
		return TagObjConstructor
	case *TypedArray:
		return typedArrayTag[val.Kind]
	case *DataView:
		return TagDataView
	case *ArrayBuffer:
		if val.Shared {
			return TagSharedArrayBuffer
		}
		return TagArrayBuffer
	case *OrderedMap:
		return TagMap
	case *OrderedSet:
		return TagSet
	case *Date:
		if math.IsNaN(val.Millis) || math.IsInf(val.Millis, 0) {
			return TagDateInvalid
		}
		return TagDate
	case *Regexp:
		return TagRegex
	case *ErrorValue:
		return classifyError(val)
	case *Blob:
		return TagBlob
	case *File:
		return TagFile
	case *Symbol:
		switch {
		case val.Kind == SymbolGlobal:
			return TagSymbolGlobal
		case val.Kind == SymbolWellKnown:
			return TagSymbolWellKnown
		case !val.HasDescription:
			return TagSymbolNoDesc
		default:
			return TagSymbol
		}
	case Callable:
		// Standalone callables are not serialised (§4.5): they classify
		// the same as an absent value.
		return TagUndefined
	default:
		if _, isNum := toNumber(v); isNum {
			return classifyNumber(v)
		}
		return TagUndefined
	}
}

func descriptorsHaveCallable(d *DescriptorObject) bool {
	for _, e := range d.Entries {
		if _, ok := e.Value.(Callable); ok {
			return true
		}
	}
	return false
}

func classifyNumber(v any) Tag {
	f, _ := toNumber(v)
	switch {
	case math.IsNaN(f):
		return TagNaN
	case math.IsInf(f, 1):
		return TagPosInf
	case math.IsInf(f, -1):
		return TagNegInf
	case f == 0 && math.Signbit(f):
		return TagNegZero
	}

	if f == math.Trunc(f) {
		abs := math.Abs(f)
		switch {
		case abs <= math.MaxInt8:
			return TagI8
		case abs <= math.MaxInt16:
			return TagI16
		case abs <= math.MaxInt32:
			return TagI32
		case f >= 0 && f <= math.MaxUint32:
			return TagU32
		}
	}

	if float64(float32(f)) == f {
		return TagF32
	}
	return TagF64
}

func classifyBigInt(b *BigInt) Tag {
	if b.Value.Sign() < 0 {
		if b.Value.IsInt64() {
			return TagBigIntNegSmall
		}
		return TagBigIntNegLarge
	}
	if b.Value.IsUint64() && b.Value.BitLen() <= 63 {
		return TagBigIntPosSmall
	}
	return TagBigIntPosLarge
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 127 {
			return false
		}
	}
	return true
}

func classifyString(s string) Tag {
	if len(s) == 0 {
		return TagStrEmpty
	}
	if isASCII(s) {
		switch {
		case len(s) <= tinyStringLimit:
			return TagStrAsciiTiny
		case len(s) < shortStringLimit:
			return TagStrAsciiShort
		default:
			return TagStrAsciiLong
		}
	}
	n := len(s) // string is already UTF-8 encoded bytes in Go
	switch {
	case n <= tinyStringLimit:
		return TagStrUtf8Tiny
	case n < shortStringLimit:
		return TagStrUtf8Short
	default:
		return TagStrUtf8Long
	}
}

func classifyArray(a *Array, cfg Config) Tag {
	length := len(a.Elems)
	if length == 0 {
		return TagArrEmpty
	}

	holeCount := 0
	for _, e := range a.Elems {
		if _, isHole := e.(Hole); isHole {
			holeCount++
		}
	}
	filled := length - holeCount
	threshold := (3*length + 3) / 4 // ceil(3*len/4)
	if holeCount > 0 || filled < threshold {
		return TagArrSparse
	}

	if cfg.SimdOptimization {
		if tag, ok := analyzeNumericArray(a.Elems); ok {
			return tag
		}
	}
	return TagArrDense
}

func classifyError(e *ErrorValue) Tag {
	switch e.Kind {
	case ErrKindEval:
		return TagEvalErr
	case ErrKindRange:
		return TagRangeErr
	case ErrKindRef:
		return TagRefErr
	case ErrKindSyntax:
		return TagSyntaxErr
	case ErrKindType:
		return TagTypeErr
	case ErrKindURI:
		return TagURIErr
	case ErrKindAggregate:
		return TagAggregate
	case ErrKindCustom:
		return TagCustomErr
	default:
		return TagError
	}
}
