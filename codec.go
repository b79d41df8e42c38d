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

// Config holds the encoder/decoder options from §6.2. Every field has the
// documented default; disabling an option only ever weakens the encoder
// — the decoder accepts output produced under any configuration.
type Config struct {
	Deduplication               bool
	ShareArrayBuffers            bool
	SimdOptimization             bool
	DetectCircular               bool
	SerializeFunctions           bool
	PreservePropertyDescriptors  bool
	MemoryPoolSize               int
}

// defaultConfig returns the §6.2 default table.
func defaultConfig() Config {
	return Config{
		Deduplication:               true,
		ShareArrayBuffers:           true,
		SimdOptimization:            true,
		DetectCircular:              true,
		SerializeFunctions:          false,
		PreservePropertyDescriptors: true,
		MemoryPoolSize:              65536,
	}
}

// Option configures a Codec at construction time.
type Option func(*Config)

// WithDeduplication toggles REFERENCE/STRING_REF emission.
func WithDeduplication(enabled bool) Option {
	return func(c *Config) { c.Deduplication = enabled }
}

// WithShareArrayBuffers toggles BUFFER_REF emission across aliasing
// typed-array views.
func WithShareArrayBuffers(enabled bool) Option {
	return func(c *Config) { c.ShareArrayBuffers = enabled }
}

// WithSimdOptimization toggles the packed-array classifier (§4.4).
func WithSimdOptimization(enabled bool) Option {
	return func(c *Config) { c.SimdOptimization = enabled }
}

// WithDetectCircular toggles the pre-walk cycle detector. Disabling it on
// a cyclic graph causes stack exhaustion — that is the caller's
// responsibility per §6.2.
func WithDetectCircular(enabled bool) Option {
	return func(c *Config) { c.DetectCircular = enabled }
}

// WithSerializeFunctions toggles source-text capture for method-object
// callables. This is a host-trust decision (§9): reconstructing callables
// from source text on decode is security-sensitive.
func WithSerializeFunctions(enabled bool) Option {
	return func(c *Config) { c.SerializeFunctions = enabled }
}

// WithPreservePropertyDescriptors toggles whether the classifier may
// choose OBJECT_WITH_DESCRIPTORS.
func WithPreservePropertyDescriptors(enabled bool) Option {
	return func(c *Config) { c.PreservePropertyDescriptors = enabled }
}

// WithMemoryPoolSize sets the initial output buffer capacity hint.
func WithMemoryPoolSize(bytes int) Option {
	return func(c *Config) { c.MemoryPoolSize = bytes }
}

// Codec is a single-threaded, synchronous encode/decode instance (§5). It
// is NOT re-entrant: the reference tables and buffer are instance state,
// and a second concurrent call on the same instance corrupts that state.
// Use the threadsafe subpackage for concurrent use.
type Codec struct {
	config Config

	buffer      *Buffer
	encodeRefs  *encodeRefTracker
	decodeRefs  *decodeRefTracker
}

// New creates a Codec with the given options applied over the §6.2
// defaults.
func New(opts ...Option) *Codec {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Codec{
		config:     cfg,
		buffer:     NewBuffer(cfg.MemoryPoolSize),
		encodeRefs: newEncodeRefTracker(),
		decodeRefs: newDecodeRefTracker(),
	}
}

// Serialize converts value into a self-describing byte sequence (§6.2). It
// is a pure function of value and the codec's configuration: (a) resets
// the buffer, reference tables and cycle set; (b) emits the magic/version
// header; (c) runs the cycle pre-walk if enabled; (d) runs the main walk;
// (e) returns the live prefix of the buffer. A failed call leaves the
// instance free to reuse on the next call.
func (c *Codec) Serialize(value any) ([]byte, error) {
	c.buffer.Reset()
	c.encodeRefs.Reset()

	c.buffer.WriteU32(MagicNumber)
	c.buffer.WriteU8(Version)

	w := &writer{buf: c.buffer, refs: c.encodeRefs, cfg: c.config}
	if c.config.DetectCircular {
		w.prewalk(value, map[any]bool{})
	}
	if err := w.writeValue(value); err != nil {
		return nil, err
	}
	return c.buffer.Bytes(), nil
}

// Deserialize reconstructs a value graph from bytes produced by Serialize
// (possibly by a differently-configured Codec — decoding never depends on
// the decoder's own configuration, only on what is actually on the wire).
func (c *Codec) Deserialize(data []byte) (any, error) {
	c.decodeRefs.Reset()
	r := NewReader(data)

	magic, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if magic != MagicNumber {
		return nil, ErrInvalidMagic
	}
	version, err := r.ReadU8()
	if err != nil {
		return nil, err
	}
	if version != Version {
		return nil, ErrUnsupportedFormat
	}

	d := &decoder{r: r, refs: c.decodeRefs, cfg: c.config}
	return d.readValue()
}

// Reset clears internal state for reuse. Serialize/Deserialize already
// reset on entry. Reset empties the buffer cursor and the reference tables
// but keeps their allocated storage; it does not free memory.
func (c *Codec) Reset() {
	c.buffer.Reset()
	c.encodeRefs.Reset()
	c.decodeRefs.Reset()
}

// Concurrent use of a single Codec is not supported (§5): the reference
// tables and output buffer are instance state shared across calls with no
// locking. Use the threadsafe subpackage, which pools *Codec instances
// behind sync.Pool the same way fory/threadsafe.Fory pools *fory.Fory.
