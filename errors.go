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

import "errors"

// Error kinds (§7). Each is fatal to the current call; no partial result
// is ever returned. Wrap with fmt.Errorf("...: %w", ErrX) for call-site
// context, and unwrap with errors.Is against these sentinels.
var (
	// ErrBufferUnderflow: a read requested more bytes than remain.
	ErrBufferUnderflow = errors.New("hostclone: buffer underflow")

	// ErrInvalidMagic: header does not start with MagicNumber.
	ErrInvalidMagic = errors.New("hostclone: invalid magic number")

	// ErrUnsupportedFormat: version byte does not equal Version.
	ErrUnsupportedFormat = errors.New("hostclone: unsupported format version")

	// ErrUnknownTag: a tag byte falls outside the §6.1 enumeration.
	ErrUnknownTag = errors.New("hostclone: unknown wire tag")

	// ErrInvalidReference: a reference id is >= the current table size.
	ErrInvalidReference = errors.New("hostclone: invalid reference id")

	// ErrUnsupportedValue: an encoder-side input is outside the specified
	// domain (e.g. a big.Int magnitude the wire format cannot carry).
	ErrUnsupportedValue = errors.New("hostclone: unsupported value")
)
