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

// Package hostclone implements a binary serialization codec for rich
// in-memory values from a dynamically-typed host environment: null,
// undefined, numbers, bigints, strings, arrays (dense/sparse/packed),
// plain and constructed objects, property-descriptor and method-bearing
// objects, typed arrays and array buffers, maps, sets, dates, errors,
// regular expressions and symbols.
//
// A Codec converts an arbitrary value graph — including cyclic and
// shared-reference graphs — into a self-describing byte sequence and
// reconstructs a semantically equivalent graph from those bytes. The wire
// format is a tagged-union stream: every value is preceded by a one-byte
// tag identifying its encoding, so a decoder needs no external schema.
//
//	c := hostclone.New()
//	data, err := c.Serialize(value)
//	...
//	back, err := c.Deserialize(data)
//
// A Codec instance is not safe for concurrent use (its reference tables
// and output buffer are shared mutable state); see the threadsafe
// subpackage for a pooled, concurrency-safe wrapper.
package hostclone
