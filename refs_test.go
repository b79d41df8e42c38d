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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsObjectTableHeapExcludesArrayBuffer(t *testing.T) {
	require.False(t, isObjectTableHeap(&ArrayBuffer{}))
	require.True(t, isBufferStore(&ArrayBuffer{}))
	require.True(t, isObjectTableHeap(&Array{}))
	require.True(t, isObjectTableHeap(NewPlainObject()))
	require.False(t, isBufferStore(NewPlainObject()))
}

func TestEncodeRefTrackerAssignsInFirstSeenOrder(t *testing.T) {
	tr := newEncodeRefTracker()
	a := NewPlainObject()
	b := NewPlainObject()

	_, ok := tr.lookupObject(a)
	require.False(t, ok)

	id0 := tr.assignObject(a)
	id1 := tr.assignObject(b)
	require.Equal(t, uint32(0), id0)
	require.Equal(t, uint32(1), id1)

	got, ok := tr.lookupObject(a)
	require.True(t, ok)
	require.Equal(t, id0, got)
}

func TestEncodeRefTrackerResetClearsTables(t *testing.T) {
	tr := newEncodeRefTracker()
	a := NewPlainObject()
	tr.assignObject(a)
	tr.assignString("hello")
	tr.assignBuffer(&ArrayBuffer{})
	tr.markCycle(a)

	tr.Reset()

	_, ok := tr.lookupObject(a)
	require.False(t, ok)
	require.False(t, tr.inCycleSet(a))
	require.Equal(t, uint32(0), tr.assignObject(a))
}

func TestEncodeRefTrackerCycleSet(t *testing.T) {
	tr := newEncodeRefTracker()
	v := NewPlainObject()
	require.False(t, tr.inCycleSet(v))
	tr.markCycle(v)
	require.True(t, tr.inCycleSet(v))
}

func TestDecodeRefTrackerShellRegistrationAndLookup(t *testing.T) {
	tr := newDecodeRefTracker()
	shell := NewPlainObject()
	id := tr.registerObjectShell(shell)
	require.Equal(t, uint32(0), id)

	got, err := tr.getObject(id)
	require.NoError(t, err)
	require.Same(t, shell, got)
}

func TestDecodeRefTrackerOutOfRangeIsInvalidReference(t *testing.T) {
	tr := newDecodeRefTracker()
	_, err := tr.getObject(0)
	require.ErrorIs(t, err, ErrInvalidReference)

	tr.registerString("x")
	_, err = tr.getString(1)
	require.ErrorIs(t, err, ErrInvalidReference)

	_, err = tr.getBuffer(0)
	require.ErrorIs(t, err, ErrInvalidReference)
}

func TestDecodeRefTrackerResetClearsTables(t *testing.T) {
	tr := newDecodeRefTracker()
	tr.registerObjectShell(NewPlainObject())
	tr.registerString("s")
	tr.registerBuffer(&ArrayBuffer{})

	tr.Reset()

	_, err := tr.getObject(0)
	require.ErrorIs(t, err, ErrInvalidReference)
	_, err = tr.getString(0)
	require.ErrorIs(t, err, ErrInvalidReference)
	_, err = tr.getBuffer(0)
	require.ErrorIs(t, err, ErrInvalidReference)
}
