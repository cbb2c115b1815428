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
	"github.com/B1NARY-GR0UP/reconcile/pkg/bufferpool"
	"github.com/B1NARY-GR0UP/reconcile/pkg/logger"
)

// appendOriginalValue is the Original-Value Appender (component 4.5). It
// rematerialises the on-disk cell's value as a real chain entry at the
// tail of head, so later readers and the history store have something to
// point at instead of a stale on-disk cell. It is a no-op (returns nil,
// nil) whenever the rematerialisation would be redundant or unsafe:
//
//   - a restored-from-history entry already exists anywhere in the chain;
//   - a live entry already carries the cell's exact start identity;
//   - a standard entry in the chain is already globally visible;
//   - the cell itself is prepared and the chain's head isn't a tombstone;
//   - the cell's stop pair is non-trivial and already globally visible.
func appendOriginalValue(ctx *ReconcileContext, pp PageProvider, alloc Allocator, oracle *Oracle, head *Update, cell *OnDiskCell, log logger.Logger) (*Update, error) {
	if cell == nil {
		return nil, nil
	}

	skip := false
	var tail *Update
	for u := head; u != nil; u = u.Next() {
		if u.TxnID() == TxnAborted {
			continue
		}
		if u.RestoredFromHistory() {
			skip = true
		}
		if u.Kind() != KindTombstone && u.StartTS() == cell.Window.StartTS && u.TxnID() == cell.Window.StartTxn {
			skip = true
		}
		if u.Kind() == KindStandard && oracle.VisibleAll(u.TxnID(), u.StartTS()) {
			skip = true
		}
		tail = u
	}

	if !skip && cell.Window.Prepare && (head == nil || head.Kind() != KindTombstone) {
		skip = true
	}

	if !skip && cell.Window.HasStop() && oracle.VisibleAll(cell.Window.StopTxn, cell.Window.StopTS) {
		skip = true
	}

	if skip {
		return nil, nil
	}

	buf := bufferpool.Records.Get()
	defer bufferpool.Records.Put(buf)
	if err := pp.ReadCellPayload(cell, buf); err != nil {
		return nil, err
	}
	payload := append([]byte(nil), buf.Bytes()...)

	std, stdBytes, err := alloc.AllocUpdate(KindStandard, payload)
	if err != nil {
		return nil, &AllocError{Op: "append original value (standard)", Err: err}
	}
	std.SetTxn(cell.Window.StartTxn, cell.Window.StartTS, cell.Window.DurableStartTS)
	std.markFromDiskCell()
	total := stdBytes

	newTail := std
	if cell.Window.HasStop() && (tail == nil || tail.Kind() != KindTombstone) {
		tomb, tombBytes, err := alloc.AllocUpdate(KindTombstone, nil)
		if err != nil {
			alloc.FreeUpdate(std)
			return nil, &AllocError{Op: "append original value (tombstone)", Err: err}
		}
		tomb.SetTxn(cell.Window.StopTxn, cell.Window.StopTS, cell.Window.DurableStopTS)
		tomb.markFromDiskCell()
		tomb.setNext(std)
		newTail = tomb
		total += tombBytes
	}

	if tail != nil {
		tail.setNext(newTail)
	}

	pp.PageMemIncr(ctx.Page, total)
	log.Debugf("reconcile: appended original value from on-disk cell, bytes=%d", total)

	return std, nil
}
