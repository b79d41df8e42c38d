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
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNumericArrayPacking exercises the §8 "numeric-array packing"
// testable property literally.
func TestNumericArrayPacking(t *testing.T) {
	small := make([]any, 16)
	for i := range small {
		small[i] = float64(i)
	}
	tag, ok := analyzeNumericArray(small)
	require.True(t, ok)
	require.Equal(t, TagArrPackI8, tag)

	withHalf := make([]any, 16)
	copy(withHalf, small)
	withHalf[0] = 0.5
	tag, ok = analyzeNumericArray(withHalf)
	require.True(t, ok)
	require.Equal(t, TagArrPackF32, tag)

	withPi := make([]any, 16)
	copy(withPi, small)
	withPi[0] = math.Pi
	tag, ok = analyzeNumericArray(withPi)
	require.True(t, ok)
	require.Equal(t, TagArrPackF64, tag)
}

func TestNumericArrayBelowEligibilityGate(t *testing.T) {
	elems := make([]any, 7) // below length-8 floor
	for i := range elems {
		elems[i] = float64(i)
	}
	_, ok := analyzeNumericArray(elems)
	require.False(t, ok)
}

func TestNumericArrayRejectsMixedContent(t *testing.T) {
	elems := make([]any, 16)
	for i := range elems {
		elems[i] = float64(i)
	}
	elems[15] = "not a number"
	_, ok := analyzeNumericArray(elems)
	require.False(t, ok)
}

func TestNumericArraySymmetricIntBound(t *testing.T) {
	// -128 alone should NOT fit i8 under the symmetric max(|min|,|max|)
	// rule: max(128, 15) = 128 > MaxInt8 (127), so this promotes to i16.
	elems := make([]any, 16)
	for i := range elems {
		elems[i] = float64(i)
	}
	elems[0] = float64(-128)
	tag, ok := analyzeNumericArray(elems)
	require.True(t, ok)
	require.Equal(t, TagArrPackI16, tag)
}

func TestNumericArrayI32Overflow(t *testing.T) {
	elems := make([]any, 16)
	for i := range elems {
		elems[i] = float64(i)
	}
	elems[0] = float64(int64(1) << 40)
	tag, ok := analyzeNumericArray(elems)
	require.True(t, ok)
	require.Equal(t, TagArrPackF64, tag)
}
