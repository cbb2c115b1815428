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

import "github.com/B1NARY-GR0UP/reconcile/pkg/logger"

// timePair orders (timestamp, transaction) lexicographically: timestamp
// first, transaction id as tiebreak.
type timePair struct {
	ts  uint64
	txn uint64
}

func (p timePair) less(o timePair) bool {
	if p.ts != o.ts {
		return p.ts < o.ts
	}
	return p.txn < o.txn
}

func (p timePair) equal(o timePair) bool {
	return p.ts == o.ts && p.txn == o.txn
}

// TimeWindow is the visibility window a selected value is valid for: born
// at (StartTS, StartTxn), superseded at (StopTS, StopTxn). A default
// TimeWindow is unbounded on both ends until narrowed by SetStart/SetStop.
type TimeWindow struct {
	StartTS        uint64
	StartTxn       uint64
	DurableStartTS uint64

	StopTS        uint64
	StopTxn       uint64
	DurableStopTS uint64

	Prepare bool
}

// NewTimeWindow returns the default window: born at the beginning of time,
// never superseded.
func NewTimeWindow() TimeWindow {
	return TimeWindow{
		StartTS:  TsNone,
		StartTxn: TxnNone,
		StopTS:   TsMax,
		StopTxn:  TxnMax,
	}
}

// SetStart narrows the window's birth to u's commit identity.
func (w *TimeWindow) SetStart(u *Update) {
	w.StartTS = u.StartTS()
	w.StartTxn = u.TxnID()
	w.DurableStartTS = u.DurableTS()
}

// SetStop narrows the window's death to tomb's commit identity.
func (w *TimeWindow) SetStop(tomb *Update) {
	w.StopTS = tomb.StartTS()
	w.StopTxn = tomb.TxnID()
	w.DurableStopTS = tomb.DurableTS()
}

// HasStop reports whether the window's stop pair has been narrowed from
// its unbounded default.
func (w TimeWindow) HasStop() bool {
	return w.StopTS != TsMax || w.StopTxn != TxnMax
}

// Repair detects a stop pair that sorts before the start pair — an
// out-of-order commit between the value's birth and its tombstone — and
// collapses the window to a degenerate (start == stop) point rather than
// let a reader observe a negative-duration window. Equal start/stop pairs
// from the same transaction (insert-then-delete in one commit) are not
// out-of-order and are left untouched. repairs counts every collapse
// performed for this reconciliation pass.
func (w *TimeWindow) Repair(log logger.Logger, repairs *uint64) {
	start := timePair{w.StartTS, w.StartTxn}
	stop := timePair{w.StopTS, w.StopTxn}

	outOfOrder := stop.ts < start.ts || (stop.ts == start.ts && stop.txn < start.txn)
	if !outOfOrder {
		return
	}

	log.Warnf("reconcile: out-of-order time window repaired, start=%+v stop=%+v", start, stop)
	w.StartTS = w.StopTS
	w.StartTxn = w.StopTxn
	w.DurableStartTS = w.DurableStopTS
	*repairs++
}
