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

// Oracle is the Visibility Oracle (component 4.1): it wraps a TxnManager
// and caches last_running exactly once per reconciliation pass, so a
// VISIBLE_ALL-mode walk judges every update against the same watermark
// even as other transactions keep committing underneath it.
//
// A page belonging to the history store itself is exempt from every
// visibility check: updates written to the history store are considered
// already globally visible, since nothing ever reads them except a
// restore that is itself gated elsewhere.
type Oracle struct {
	tm          TxnManager
	lastRunning uint64
	hsPage      bool
}

// NewOracle snapshots tm.LastRunning() once; this is the cached watermark
// referred to throughout §4 as last_running.
func NewOracle(tm TxnManager, hsPage bool) *Oracle {
	return &Oracle{tm: tm, lastRunning: tm.LastRunning(), hsPage: hsPage}
}

func (o *Oracle) LastRunning() uint64 { return o.lastRunning }

func (o *Oracle) VisibleAll(txn, ts uint64) bool {
	if o.hsPage {
		return true
	}
	return o.tm.VisibleAll(txn, ts)
}

func (o *Oracle) VisibleToSnapshot(txn, ts uint64) bool {
	if o.hsPage {
		return true
	}
	return o.tm.VisibleToSnapshot(txn, ts)
}

func (o *Oracle) Committed(txn uint64) bool {
	if o.hsPage {
		return true
	}
	return o.tm.Committed(txn)
}

// Uncommitted classifies u for the walker:
//
// 1. A history-store page never has uncommitted entries by definition.
// 2. Under VISIBLE_ALL mode the walk must judge every entry against the
//    same cached last_running watermark, not a live-advancing one, or two
//    entries walked microseconds apart could disagree about what counts
//    as committed.
// 3. Otherwise judge against the live snapshot: an entry is uncommitted
//    to this walk unless it is visible to it.
func (o *Oracle) Uncommitted(u *Update, visibleAllMode bool) bool {
	if o.hsPage {
		return false
	}
	txn := u.TxnID()
	if visibleAllMode {
		return txn >= o.lastRunning
	}
	return !o.tm.VisibleToSnapshot(txn, u.StartTS())
}
