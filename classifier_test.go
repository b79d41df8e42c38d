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
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyPrimitives(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagNull, classify(nil, cfg))
	require.Equal(t, TagUndefined, classify(UndefinedValue, cfg))
	require.Equal(t, TagTrue, classify(true, cfg))
	require.Equal(t, TagFalse, classify(false, cfg))
}

func TestClassifyStringBoundaries(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagStrEmpty, classify("", cfg))
	require.Equal(t, TagStrAsciiTiny, classify(strings.Repeat("a", tinyStringLimit), cfg))
	require.Equal(t, TagStrAsciiShort, classify(strings.Repeat("a", tinyStringLimit+1), cfg))
	require.Equal(t, TagStrAsciiShort, classify(strings.Repeat("a", shortStringLimit-1), cfg))
	require.Equal(t, TagStrAsciiLong, classify(strings.Repeat("a", shortStringLimit), cfg))

	require.Equal(t, TagStrUtf8Tiny, classify(strings.Repeat("é", tinyStringLimit/2), cfg))
	require.Equal(t, TagStrUtf8Long, classify(strings.Repeat("é", shortStringLimit), cfg))
}

func TestClassifyNumberLadder(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagNaN, classify(math.NaN(), cfg))
	require.Equal(t, TagPosInf, classify(math.Inf(1), cfg))
	require.Equal(t, TagNegInf, classify(math.Inf(-1), cfg))
	require.Equal(t, TagNegZero, classify(math.Copysign(0, -1), cfg))
	require.Equal(t, TagI8, classify(float64(100), cfg))
	require.Equal(t, TagI16, classify(float64(1000), cfg))
	require.Equal(t, TagI32, classify(float64(1<<20), cfg))
	require.Equal(t, TagU32, classify(float64(1<<31), cfg))
	require.Equal(t, TagF32, classify(float64(float32(3.5)), cfg))
	require.Equal(t, TagF64, classify(math.Pi, cfg))
}

func TestClassifyBigInt(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagBigIntPosSmall, classify(&BigInt{Value: big.NewInt(42)}, cfg))
	require.Equal(t, TagBigIntNegSmall, classify(&BigInt{Value: big.NewInt(-42)}, cfg))

	huge := new(big.Int)
	huge.SetString("123456789012345678901234567890", 10)
	require.Equal(t, TagBigIntPosLarge, classify(&BigInt{Value: huge}, cfg))
	negHuge := new(big.Int).Neg(huge)
	require.Equal(t, TagBigIntNegLarge, classify(&BigInt{Value: negHuge}, cfg))
}

func TestClassifyArrayShapes(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagArrEmpty, classify(&Array{}, cfg))
	require.Equal(t, TagArrDense, classify(&Array{Elems: []any{float64(1), "a"}}, cfg))
	require.Equal(t, TagArrSparse, classify(&Array{Elems: []any{float64(1), HoleValue, float64(3)}}, cfg))

	// A fully dense mixed-type array of length 16 is not eligible for
	// packing (first element is a string), so it stays ARR_DENSE even with
	// SimdOptimization on.
	mixed := make([]any, 16)
	mixed[0] = "not numeric"
	for i := 1; i < 16; i++ {
		mixed[i] = float64(i)
	}
	require.Equal(t, TagArrDense, classify(&Array{Elems: mixed}, cfg))

	nums := make([]any, 16)
	for i := range nums {
		nums[i] = float64(i)
	}
	require.Equal(t, TagArrPackI8, classify(&Array{Elems: nums}, cfg))
}

func TestClassifyObjectShapes(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagObjEmpty, classify(NewPlainObject(), cfg))
	require.Equal(t, TagObjLiteral, classify(&PlainObject{Fields: map[string]any{"a": float64(1)}}, cfg))
	require.Equal(t, TagObjWithMethods, classify(&MethodObject{}, cfg))
	require.Equal(t, TagObjConstructor, classify(&ConstructorObject{Name: "Point", Body: NewPlainObject()}, cfg))

	descriptors := &DescriptorObject{Entries: []PropertyDescriptor{{Key: "x", Value: float64(1)}}}
	require.Equal(t, TagObjWithDescriptors, classify(descriptors, cfg))

	noDescriptors := defaultConfig()
	noDescriptors.PreservePropertyDescriptors = false
	require.Equal(t, TagObjLiteral, classify(descriptors, noDescriptors))
}

func TestClassifyDate(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagDate, classify(&Date{Millis: 12345}, cfg))
	require.Equal(t, TagDateInvalid, classify(&Date{Millis: math.NaN()}, cfg))
}

func TestClassifySymbolVariants(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagSymbolNoDesc, classify(&Symbol{Kind: SymbolPlain}, cfg))
	require.Equal(t, TagSymbol, classify(&Symbol{Kind: SymbolPlain, HasDescription: true, Description: "x"}, cfg))
	require.Equal(t, TagSymbolGlobal, classify(&Symbol{Kind: SymbolGlobal, HasDescription: true}, cfg))
	require.Equal(t, TagSymbolWellKnown, classify(&Symbol{Kind: SymbolWellKnown, HasDescription: true}, cfg))
}

func TestClassifyErrorKinds(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagTypeErr, classify(&ErrorValue{Kind: ErrKindType}, cfg))
	require.Equal(t, TagRangeErr, classify(&ErrorValue{Kind: ErrKindRange}, cfg))
	require.Equal(t, TagAggregate, classify(&ErrorValue{Kind: ErrKindAggregate}, cfg))
	require.Equal(t, TagError, classify(&ErrorValue{Kind: ErrKindPlain}, cfg))
}

func TestClassifyStandaloneCallableIsUndefined(t *testing.T) {
	cfg := defaultConfig()
	require.Equal(t, TagUndefined, classify(Callable{Name: "f"}, cfg))
}

func TestShapeCacheStableForSameKeySet(t *testing.T) {
	fields := map[string]any{"b": float64(1), "a": float64(2)}
	keys1 := globalShapeCache.sortedKeys(fields)
	keys2 := globalShapeCache.sortedKeys(fields)
	require.Equal(t, []string{"a", "b"}, keys1)
	require.Equal(t, keys1, keys2)
}
