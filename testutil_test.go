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

package reconcile

import (
	"bytes"
	"errors"
)

var errAllocFailure = errors.New("stub: allocator out of memory")

// stubTxnManager is a hand-controlled TxnManager for exercising the
// Visibility Oracle without a real transaction subsystem: tests decide
// exactly which transactions are committed and what last_running reads.
type stubTxnManager struct {
	lastRunning  uint64
	committed    map[uint64]bool
	checkpointID uint64
}

func newStubTxnManager() *stubTxnManager {
	return &stubTxnManager{committed: make(map[uint64]bool)}
}

func (s *stubTxnManager) commit(txn uint64) *stubTxnManager {
	s.committed[txn] = true
	return s
}

func (s *stubTxnManager) LastRunning() uint64 { return s.lastRunning }

func (s *stubTxnManager) VisibleAll(txn, ts uint64) bool {
	return txn < s.lastRunning
}

func (s *stubTxnManager) VisibleToSnapshot(txn, ts uint64) bool {
	return s.committed[txn]
}

func (s *stubTxnManager) Committed(txn uint64) bool {
	return s.committed[txn]
}

func (s *stubTxnManager) CheckpointTxnID() uint64 { return s.checkpointID }

// stubPageProvider serves a single on-disk cell's bytes and reports a
// configurable overflow flag; LookupChain is unused by Select directly
// (the chain head is passed in) so it is left returning nil.
type stubPageProvider struct {
	overflow bool
}

func (p *stubPageProvider) LookupChain(PageID, SlotID) *Update { return nil }

func (p *stubPageProvider) ReadCellPayload(cell *OnDiskCell, buf *bytes.Buffer) error {
	_, err := buf.Write(cell.Payload())
	return err
}

func (p *stubPageProvider) Overflow(cell *OnDiskCell) bool { return p.overflow }

func (p *stubPageProvider) PageMemIncr(PageID, int) {}

// stubAllocator hands out plain heap Updates and never fails.
type stubAllocator struct {
	failOn Kind
	fail   bool
}

func (a *stubAllocator) AllocUpdate(kind Kind, payload []byte) (*Update, int, error) {
	if a.fail && kind == a.failOn {
		return nil, 0, errAllocFailure
	}
	u := NewUpdate(kind, payload)
	return u, u.Size(), nil
}

func (a *stubAllocator) FreeUpdate(*Update) {}

// chain links updates newest-first (updates[0] is the head) and returns the
// head, mirroring how a real write path builds a chain one commit at a time.
func chain(updates ...*Update) *Update {
	for i := 0; i < len(updates)-1; i++ {
		updates[i].SetNext(updates[i+1])
	}
	if len(updates) == 0 {
		return nil
	}
	return updates[0]
}

// committedUpdate builds a committed chain entry with the given identity.
func committedUpdate(kind Kind, txn, ts uint64, payload []byte) *Update {
	u := NewUpdate(kind, payload)
	u.SetTxn(txn, ts, ts)
	return u
}
