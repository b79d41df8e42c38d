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

// TestShapeCacheSortsKeysScenarioS3 is the internal half of §8 scenario S3:
// globalShapeCache.sortedKeys must return object keys in sorted order
// regardless of Go map iteration order. Split out from codec_test.go (which
// moved to package hostclone_test to avoid an import cycle through
// internal/testvalues) because sortedKeys is unexported.
func TestShapeCacheSortsKeysScenarioS3(t *testing.T) {
	fields := map[string]any{"b": float64(1), "a": float64(2)}
	keys := globalShapeCache.sortedKeys(fields)
	require.Equal(t, []string{"a", "b"}, keys)
}
