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
	"math"
	"sync/atomic"
	"unsafe"
)

// Kind classifies an entry in a key's update chain.
type Kind uint8

const (
	KindStandard Kind = iota
	KindModify
	KindTombstone
	// KindReserve marks a placeholder entry. A RESERVE must never be
	// selected; it exists only to claim a slot in the chain.
	KindReserve
)

// PrepareState models the two-phase-commit state of an update.
type PrepareState uint8

const (
	PrepareNone PrepareState = iota
	PrepareLocked
	PrepareInProgress
	PrepareResolved
)

// Reserved transaction and timestamp sentinels, mirroring the source
// engine's WT_TXN_NONE / WT_TXN_ABORTED / WT_TS_NONE / WT_TS_MAX. ABORTED
// and MAX share the same numeric sentinel, as in the source: the two are
// never read from the same field, so there is no ambiguity in practice.
const (
	TxnNone    uint64 = 0
	TxnAborted uint64 = math.MaxUint64
	TxnMax     uint64 = math.MaxUint64

	TsNone uint64 = 0
	TsMax  uint64 = math.MaxUint64
)

// Update is one entry in a key's newest-first modification chain. txnID,
// startTS, durableTS and prepareState are read and written as atomic
// scalars: a reconciling worker walks the chain while other transactions
// may concurrently commit, abort, or resolve a prepare (see §5 of the
// design: the walker treats whatever it observes as authoritative for the
// remainder of the walk). next is published with a release store and read
// with an acquire load so a concurrent reader never observes a
// partially-initialised appended node.
type Update struct {
	kind         Kind
	txnID        atomic.Uint64
	startTS      atomic.Uint64
	durableTS    atomic.Uint64
	prepareState atomic.Uint32
	next         atomic.Pointer[Update]

	payload []byte

	// restoredFromHistory marks an entry reconstructed from the history
	// store for a rollback-to-stable; the Appender must not re-synthesise
	// the on-disk value when one of these is present anywhere in the chain.
	restoredFromHistory bool
	// fromDiskCell marks an entry the Appender itself produced straight
	// from an on-disk cell's bytes: it echoes the existing page image
	// rather than a value written this reconciliation.
	fromDiskCell bool
}

// NewUpdate constructs a chain entry. txn and ts default to TxnNone/TsNone
// until SetTxn is called (by the transaction manager, not by this
// package).
func NewUpdate(kind Kind, payload []byte) *Update {
	return &Update{kind: kind, payload: payload}
}

func (u *Update) Kind() Kind                    { return u.kind }
func (u *Update) TxnID() uint64                 { return u.txnID.Load() }
func (u *Update) StartTS() uint64               { return u.startTS.Load() }
func (u *Update) DurableTS() uint64             { return u.durableTS.Load() }
func (u *Update) PrepareState() PrepareState    { return PrepareState(u.prepareState.Load()) }
func (u *Update) Next() *Update                 { return u.next.Load() }
func (u *Update) Payload() []byte               { return u.payload }
func (u *Update) RestoredFromHistory() bool     { return u.restoredFromHistory }
func (u *Update) FromDiskCell() bool            { return u.fromDiskCell }

// SetTxn assigns the commit identity of the update. Called by the
// reference transaction manager (or, in production, the real commit
// path) — never by the reconciliation core itself.
func (u *Update) SetTxn(txn, startTS, durableTS uint64) {
	u.txnID.Store(txn)
	u.startTS.Store(startTS)
	u.durableTS.Store(durableTS)
}

// MarkAborted overwrites the transaction identity with the ABORTED
// sentinel, exactly like the source engine's abort path; a walker that
// observes it afterwards skips the entry unconditionally.
func (u *Update) MarkAborted() {
	u.txnID.Store(TxnAborted)
}

// SetPrepare transitions the prepare state, e.g. IN_PROGRESS -> RESOLVED
// when the owning transaction commits or aborts a prepared update.
func (u *Update) SetPrepare(state PrepareState) {
	u.prepareState.Store(uint32(state))
}

// SetNext publishes n as u's successor via a release store, making n
// visible to any concurrent reader walking the chain with Next(). It is
// how the transactional write path prepends a freshly committed update
// onto the head of a key's chain; the reconciliation core calls the
// unexported setNext alias for the same purpose when the Appender
// synthesizes an on-disk value.
func (u *Update) SetNext(n *Update) {
	u.next.Store(n)
}

func (u *Update) setNext(n *Update) {
	u.SetNext(n)
}

// markFromDiskCell marks an Appender-created entry so the overflow check in
// select.go can tell it apart from a real in-memory write.
func (u *Update) markFromDiskCell() {
	u.fromDiskCell = true
}

func (u *Update) markRestoredFromHistory() {
	u.restoredFromHistory = true
}

// Size estimates the update's contribution to the page's in-memory
// footprint, the same rough accounting the teacher's skiplist.Set performs
// for its own elements (key/value/flag bytes plus pointer overhead).
func (u *Update) Size() int {
	return len(u.payload) + int(unsafe.Sizeof(*u))
}
