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

import "math"

// toNumber reports whether v is one of the numeric Go kinds this codec
// treats as a host Number, converting it to float64 for analysis. This is
// the type-directed match the classifier's design note (§9) asks for
// instead of a reflection-driven dispatch chain.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// analyzeNumericArray implements the numeric-array analyzer (C5, §4.4). It
// is a pure function: it never touches a Buffer. ok is false whenever the
// caller should fall back to ARRAY_DENSE.
func analyzeNumericArray(elems []any) (tag Tag, ok bool) {
	length := len(elems)
	if length == 0 {
		return 0, false
	}

	// Step 1: sample the first element's category.
	if _, isNum := toNumber(elems[0]); !isNum {
		return 0, false
	}

	// Step 2: eligibility gate.
	if !(length >= 8 && (isPowerOfTwo(length) || length >= 16)) {
		return 0, false
	}

	// Step 3: sample homogeneity, stepping every max(1, len/32) indices.
	step := length / 32
	if step < 1 {
		step = 1
	}
	for i := 0; i < length; i += step {
		if _, isNum := toNumber(elems[i]); !isNum {
			return 0, false
		}
	}

	// Step 4: full scan.
	allInteger := true
	allF32 := true
	min, max := math.Inf(1), math.Inf(-1)
	for _, e := range elems {
		v, isNum := toNumber(e)
		if !isNum {
			return 0, false
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		if allInteger && (math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v)) {
			allInteger = false
		}
		if allF32 && float64(float32(v)) != v {
			allF32 = false
		}
	}

	if allInteger {
		// §4.4 step 5: pick the narrowest signed int type that accommodates
		// max(|min|, |max|) — a symmetric bound, so e.g. -128 promotes to
		// i16 rather than relying on two's-complement asymmetry.
		maxAbs := math.Max(math.Abs(min), math.Abs(max))
		switch {
		case maxAbs <= math.MaxInt8:
			return TagArrPackI8, true
		case maxAbs <= math.MaxInt16:
			return TagArrPackI16, true
		case maxAbs <= math.MaxInt32:
			return TagArrPackI32, true
		default:
			return TagArrPackF64, true
		}
	}

	if allF32 {
		return TagArrPackF32, true
	}
	return TagArrPackF64, true
}

// packedElemSize returns the on-wire element width for a packed-array tag.
func packedElemSize(tag Tag) int {
	switch tag {
	case TagArrPackI8:
		return 1
	case TagArrPackI16:
		return 2
	case TagArrPackI32, TagArrPackF32:
		return 4
	case TagArrPackF64:
		return 8
	default:
		return 0
	}
}
