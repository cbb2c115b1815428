// Copyright 2025 BINARY Members
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromSource(t *testing.T) {
	s := FromSource(Source{
		Page:              7,
		UpdatesSeen:       12,
		UpdatesUnstable:   3,
		ChainBytes:        4096,
		SavedBytes:        2048,
		OutOfOrderRepairs: 1,
		CacheWriteRestore: true,
	})

	assert.Equal(t, uint64(7), s.Page)
	assert.Equal(t, int64(12), s.UpdatesSeen)
	assert.True(t, s.CacheWriteRestore)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	s := FromSource(Source{Page: 1, UpdatesSeen: 5, SavedBytes: 100})

	data, err := Encode(s)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, s.Page, decoded.Page)
	assert.Equal(t, s.UpdatesSeen, decoded.UpdatesSeen)
	assert.Equal(t, s.SavedBytes, decoded.SavedBytes)
}
