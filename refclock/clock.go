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

// Package refclock is a minimal, in-memory transaction manager used to
// drive and test the reconciliation core: it tracks begin/commit/abort
// and the running-transaction watermark a real engine's txn subsystem
// would otherwise provide.
package refclock

import (
	"context"
	"sync"

	"github.com/B1NARY-GR0UP/reconcile/pkg/watermark"
)

type txnState uint8

const (
	stateRunning txnState = iota
	stateCommitted
	stateAborted
)

type txnRecord struct {
	startTS uint64
	state   txnState
}

// Clock is a reconcile.TxnManager backed by a pair of watermarks, the same
// shape a real engine uses to track the oldest still-needed snapshot: one
// for transactions in flight, one for the timestamps they commit at.
type Clock struct {
	mu sync.Mutex

	nextTxn uint64
	nextTS  uint64

	running *watermark.TxnWatermark
	commit  *watermark.TxnWatermark

	txns map[uint64]*txnRecord

	checkpointTxnID uint64
	stableTimestamp uint64
}

func New() *Clock {
	return &Clock{
		nextTxn: 1,
		nextTS:  1,
		running: watermark.New(),
		commit:  watermark.New(),
		txns:    make(map[uint64]*txnRecord),
	}
}

// Begin starts a new transaction and returns its id.
func (c *Clock) Begin() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	txn := c.nextTxn
	c.nextTxn++
	c.running.Begin(txn)
	c.txns[txn] = &txnRecord{state: stateRunning}
	return txn
}

// Commit assigns txn a commit timestamp, marks it committed, and returns
// the timestamp it was given.
func (c *Clock) Commit(txn uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.txns[txn]
	if rec == nil {
		return 0
	}

	ts := c.nextTS
	c.nextTS++
	c.commit.Begin(ts)

	rec.state = stateCommitted
	rec.startTS = ts

	c.running.Done(txn)
	c.commit.Done(ts)
	return ts
}

// Abort marks txn aborted without assigning it a timestamp.
func (c *Clock) Abort(txn uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.txns[txn]
	if rec == nil {
		return
	}
	rec.state = stateAborted
	c.running.Done(txn)
}

// SetCheckpointTxnID records the transaction id the last checkpoint ran
// under; reconciliation needs this to decide what a checkpoint already saw.
func (c *Clock) SetCheckpointTxnID(txn uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkpointTxnID = txn
}

// SetStableTimestamp records the timestamp rollback-to-stable would roll
// back to; reference use only, never consulted by the visibility oracle.
func (c *Clock) SetStableTimestamp(ts uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stableTimestamp = ts
}

func (c *Clock) StableTimestamp() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stableTimestamp
}

// LastRunning returns the oldest transaction id that may still be running,
// i.e. one past the highest id every prior transaction has finished with.
func (c *Clock) LastRunning() uint64 {
	return c.running.DoneUntil() + 1
}

// VisibleAll reports whether every transaction that could still produce a
// version at or below (txn, ts) has finished — the no-readers-left check
// eviction and checkpoint reconciliation use.
func (c *Clock) VisibleAll(txn, ts uint64) bool {
	return txn < c.LastRunning()
}

// VisibleToSnapshot reports whether txn's write, with start timestamp ts,
// is visible to the reconciler's own implicit snapshot: committed, and with
// its commit watermark fully passed so no concurrent commit at the same
// timestamp is still in flight.
func (c *Clock) VisibleToSnapshot(txn, ts uint64) bool {
	c.mu.Lock()
	rec := c.txns[txn]
	committed := rec != nil && rec.state == stateCommitted
	c.mu.Unlock()

	if !committed {
		return false
	}
	return ts <= c.commit.DoneUntil()
}

// Committed reports whether txn reached a committed state.
func (c *Clock) Committed(txn uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := c.txns[txn]
	return rec != nil && rec.state == stateCommitted
}

func (c *Clock) CheckpointTxnID() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.checkpointTxnID
}

// WaitForRunning blocks until every transaction up to and including txn
// has left the running set. Mirrors the read-side wait a real snapshot
// acquisition performs before handing a reader its view.
func (c *Clock) WaitForRunning(ctx context.Context, txn uint64) error {
	return c.running.WaitForMark(ctx, txn)
}

func (c *Clock) Stop() {
	c.running.Stop()
	c.commit.Stop()
}
