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

func sampleRecords() []Record {
	return []Record{
		{Page: 1, Slot: 1, TxnID: 10, StartTS: 100, Payload: []byte("v1")},
		{Page: 1, Slot: 2, TxnID: 11, StartTS: 101, Payload: []byte("v2")},
		{Page: 2, Slot: 1, TxnID: 12, StartTS: 102, Payload: []byte("v3")},
	}
}

func TestBatchSearch(t *testing.T) {
	b := NewBatch(sampleRecords())

	rec, ok := b.Search(1, 1)
	assert.True(t, ok)
	assert.Equal(t, []byte("v1"), rec.Payload)

	rec, ok = b.Search(2, 1)
	assert.True(t, ok)
	assert.Equal(t, []byte("v3"), rec.Payload)

	_, ok = b.Search(9, 9)
	assert.False(t, ok)
}

func TestBatchSearchNewestWins(t *testing.T) {
	records := []Record{
		{Page: 1, Slot: 1, StartTS: 100, Payload: []byte("old")},
		{Page: 1, Slot: 1, StartTS: 200, Payload: []byte("new")},
	}
	b := NewBatch(records)

	rec, ok := b.Search(1, 1)
	assert.True(t, ok)
	assert.Equal(t, []byte("new"), rec.Payload)
}

func TestBatchEncodeDecodeUncompressed(t *testing.T) {
	b := NewBatch(sampleRecords())

	encoded, compressed, err := b.Encode(1 << 20)
	assert.NoError(t, err)
	assert.False(t, compressed)

	decoded, err := DecodeBatch(encoded, compressed)
	assert.NoError(t, err)
	assert.Equal(t, b.Records, decoded.Records)
}

func TestBatchEncodeDecodeCompressed(t *testing.T) {
	b := NewBatch(sampleRecords())

	encoded, compressed, err := b.Encode(0)
	assert.NoError(t, err)
	assert.True(t, compressed)

	decoded, err := DecodeBatch(encoded, compressed)
	assert.NoError(t, err)
	assert.Equal(t, b.Records, decoded.Records)
}

func TestBatchMayContain(t *testing.T) {
	b := NewBatch(sampleRecords())
	assert.True(t, b.MayContain(1, 1))
	assert.False(t, b.MayContain(500, 500))
}
