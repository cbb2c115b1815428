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

import "bytes"

// PageProvider is the write path's view of the page being reconciled. It
// is the only source of I/O this package ever triggers, and only for
// copying bytes already resident in a cell into a scratch buffer — no
// disk access happens behind this interface from the reconciliation core's
// point of view.
type PageProvider interface {
	LookupChain(page PageID, slot SlotID) *Update
	ReadCellPayload(cell *OnDiskCell, buf *bytes.Buffer) error
	Overflow(cell *OnDiskCell) bool
	PageMemIncr(page PageID, bytes int)
}

// TxnManager is the transaction manager's view exposed to the Visibility
// Oracle. Its own commit/abort machinery and snapshot acquisition are out
// of scope for this package; it is consulted, never driven.
type TxnManager interface {
	LastRunning() uint64
	VisibleAll(txn, ts uint64) bool
	VisibleToSnapshot(txn, ts uint64) bool
	Committed(txn uint64) bool
	CheckpointTxnID() uint64
}

// Allocator produces and releases Update nodes for the Original-Value
// Appender. Its own memory accounting policy is the caller's concern;
// AllocUpdate returns the number of bytes the caller should charge to the
// owning page.
type Allocator interface {
	AllocUpdate(kind Kind, payload []byte) (*Update, int, error)
	FreeUpdate(u *Update)
}
