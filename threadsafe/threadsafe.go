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

// Package threadsafe provides a thread-safe wrapper around hostclone.Codec
// using sync.Pool.
package threadsafe

import (
	"sync"

	"github.com/hostclone/hostclone"
)

// Codec is a thread-safe wrapper around hostclone.Codec using sync.Pool. It
// provides the same API as hostclone.Codec but is safe for concurrent use,
// since a bare Codec's reference tables and output buffer are not (§5).
type Codec struct {
	pool sync.Pool
}

// New creates a thread-safe Codec wrapper.
func New(opts ...hostclone.Option) *Codec {
	c := &Codec{}
	c.pool = sync.Pool{
		New: func() any {
			return hostclone.New(opts...)
		},
	}
	return c
}

func (c *Codec) acquire() *hostclone.Codec {
	return c.pool.Get().(*hostclone.Codec)
}

func (c *Codec) release(inner *hostclone.Codec) {
	inner.Reset()
	c.pool.Put(inner)
}

// Serialize serializes value using a pooled Codec instance.
func (c *Codec) Serialize(value any) ([]byte, error) {
	inner := c.acquire()
	defer c.release(inner)
	return inner.Serialize(value)
}

// Deserialize deserializes data using a pooled Codec instance.
func (c *Codec) Deserialize(data []byte) (any, error) {
	inner := c.acquire()
	defer c.release(inner)
	return inner.Deserialize(data)
}

// Global thread-safe Codec instance for convenience, mirroring the
// teacher's package-level globalFory.
var globalCodec = New()

// Marshal serializes value using the global thread-safe instance.
func Marshal(value any) ([]byte, error) {
	return globalCodec.Serialize(value)
}

// Unmarshal deserializes data using the global thread-safe instance.
func Unmarshal(data []byte) (any, error) {
	return globalCodec.Deserialize(data)
}
