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
	"sync"

	"github.com/B1NARY-GR0UP/reconcile/pkg/logger"
)

// Store is an append-only sequence of batches, one per reconciliation
// pass that decided to spill updates instead of keeping them on the page.
// Batches are searched newest-first so a more recent spill always shadows
// an older one for the same slot.
type Store struct {
	mu                   sync.RWMutex
	batches              []*Batch
	compressionThreshold int
	log                  logger.Logger
}

func NewStore(compressionThreshold int) *Store {
	return &Store{
		compressionThreshold: compressionThreshold,
		log:                  logger.GetLogger(),
	}
}

// Spill appends a new batch built from records and returns its encoded
// form so a caller can persist it (a file, an object store, whatever
// backs the history store in a given deployment).
func (s *Store) Spill(records []Record) ([]byte, bool, error) {
	batch := NewBatch(records)
	encoded, compressed, err := batch.Encode(s.compressionThreshold)
	if err != nil {
		return nil, false, err
	}

	s.mu.Lock()
	s.batches = append(s.batches, batch)
	s.mu.Unlock()

	s.log.Infof("historystore: spilled %d records (%d bytes, compressed=%v)", len(records), len(encoded), compressed)
	return encoded, compressed, nil
}

// LoadBatch registers an already-encoded batch read back from storage,
// preserving spill order.
func (s *Store) LoadBatch(data []byte, compressed bool) error {
	batch, err := DecodeBatch(data, compressed)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.batches = append(s.batches, batch)
	s.mu.Unlock()
	return nil
}

// Restore returns the newest record for (page, slot) across every spilled
// batch, or false if the slot was never spilled.
func (s *Store) Restore(page, slot uint64) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.batches) - 1; i >= 0; i-- {
		if rec, ok := s.batches[i].Search(page, slot); ok {
			return rec, true
		}
	}
	return Record{}, false
}

// BatchCount reports how many batches have been spilled, mainly for tests
// and operational telemetry.
func (s *Store) BatchCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.batches)
}
