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

package historystore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreSpillAndRestore(t *testing.T) {
	s := NewStore(1 << 20)

	_, _, err := s.Spill([]Record{
		{Page: 1, Slot: 1, StartTS: 100, Payload: []byte("first")},
	})
	assert.NoError(t, err)

	rec, ok := s.Restore(1, 1)
	assert.True(t, ok)
	assert.Equal(t, []byte("first"), rec.Payload)

	_, ok = s.Restore(9, 9)
	assert.False(t, ok)
}

func TestStoreNewerBatchShadowsOlder(t *testing.T) {
	s := NewStore(1 << 20)

	_, _, err := s.Spill([]Record{{Page: 1, Slot: 1, StartTS: 100, Payload: []byte("old")}})
	assert.NoError(t, err)
	_, _, err = s.Spill([]Record{{Page: 1, Slot: 1, StartTS: 200, Payload: []byte("new")}})
	assert.NoError(t, err)

	rec, ok := s.Restore(1, 1)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), rec.Payload)
	assert.Equal(t, 2, s.BatchCount())
}

func TestStoreLoadBatch(t *testing.T) {
	producer := NewStore(0)
	encoded, compressed, err := producer.Spill([]Record{
		{Page: 3, Slot: 1, StartTS: 50, Payload: []byte("spilled")},
	})
	assert.NoError(t, err)

	consumer := NewStore(0)
	assert.NoError(t, consumer.LoadBatch(encoded, compressed))

	rec, ok := consumer.Restore(3, 1)
	assert.True(t, ok)
	assert.Equal(t, []byte("spilled"), rec.Payload)
}

func TestRestoreIndex(t *testing.T) {
	idx := NewRestoreIndex()
	rec := Record{Page: 1, Slot: 1, Payload: []byte("cached")}

	idx.Put(1, 1, rec)
	got, ok := idx.Get(1, 1)
	assert.True(t, ok)
	assert.Equal(t, rec, got)
	assert.Equal(t, 1, idx.Len())

	assert.True(t, idx.Evict(1, 1))
	_, ok = idx.Get(1, 1)
	assert.False(t, ok)
}
