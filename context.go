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

// Flag is a bitset of reconciliation modes, mirrored from the driver onto
// ReconcileContext for the duration of one Select call.
type Flag uint32

const (
	// FlagVisibleAll puts the walker in checkpoint/visible-all mode: an
	// update is uncommitted whenever its txn id is not below the cached
	// last_running watermark, rather than checked against a live snapshot.
	FlagVisibleAll Flag = 1 << iota
	// FlagEvict marks this pass as page eviction: prepared updates in
	// PrepareInProgress state may be selected, and the walk continues past
	// the selected update solely to count instability.
	FlagEvict
	// FlagCheckpoint marks this pass as a checkpoint write.
	FlagCheckpoint
	// FlagHS marks this pass as writing to the history store itself: the
	// oracle treats every update on such a page as already globally visible.
	FlagHS
	// FlagInMemory marks an in-memory database: there is no history store
	// to spill saved updates to.
	FlagInMemory
	// FlagCleanAfterRec asks Select to fail with ErrBusy, instead of
	// succeeding, when the walk observed any non-visible update.
	FlagCleanAfterRec
	// FlagVisibilityErr asks Select to fail with ErrVisibility instead of
	// succeeding when the walk observed any non-visible update — a
	// PANIC-class invariant violation for a caller that expected none.
	FlagVisibilityErr
)

func (f Flag) has(bit Flag) bool { return f&bit != 0 }

// SavedUpdateEntry records one key's reconciliation-time decision to spill
// its selected update to the history store, for the Save-Decision &
// Persister component (§4.6).
type SavedUpdateEntry struct {
	Slot            SlotID
	OnPageUpdateRef *Update
	RestoreFlag     bool
}

// Selection is the result of reconciling one key's update chain against an
// optional on-disk cell.
type Selection struct {
	SelectedUpdate *Update
	Window         TimeWindow
	Prepare        bool
}

// ReconcileContext carries one reconciliation pass's mode flags and
// accumulates its side effects: visibility watermarks, saved-update
// entries, and instability counters. A fresh ReconcileContext is reused
// across every key on the same page, the way a single page-level struct
// would be in a real write path.
type ReconcileContext struct {
	Flags Flag

	Page PageID

	// FixedLengthColumnStore marks a table type that never spills to the
	// history store, distinct from FlagInMemory (a database-wide setting).
	FixedLengthColumnStore bool

	// StableTimestamp is the checkpoint's stable timestamp, used only to
	// classify entries walked past a selection under eviction as stable or
	// not for UpdatesUnstable accounting.
	StableTimestamp uint64

	MaxTxn       uint64
	MaxTS        uint64
	MaxOndiskTS  uint64
	MinSkippedTS uint64

	// FirstTxnUpd is the oldest non-aborted transaction id seen so far
	// while walking the chain; TxnNone until the first one is recorded.
	FirstTxnUpd uint64

	UpdatesSeen     int
	UpdatesUnstable int
	ChainBytes      int

	Saved             []SavedUpdateEntry
	SavedBytes        int
	CacheWriteRestore bool

	LastRunning uint64

	OutOfOrderRepairs uint64

	Logger logger.Logger
}

func (c *ReconcileContext) logger() logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.GetLogger()
}
