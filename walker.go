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

// walkResult is the Chain Walker's (component 4.3) output, consumed by
// the Selector.
type walkResult struct {
	// Candidate is the first committed, non-prepared, non-reserve,
	// non-aborted update found walking newest to oldest; under eviction a
	// PrepareInProgress update also counts as selectable. Nil means nothing
	// in the chain was selectable.
	Candidate *Update
	// HasNewerUpdates is set whenever any entry was skipped for being
	// uncommitted or prepared-and-unselectable.
	HasNewerUpdates bool
}

// walkChain traverses head newest-first, classifying every live entry via
// oracle and stopping at the first selectable one — except under eviction,
// where it keeps walking past the selection solely to count instability.
func walkChain(ctx *ReconcileContext, oracle *Oracle, head *Update) (*walkResult, error) {
	res := &walkResult{}
	visibleAllMode := ctx.Flags.has(FlagVisibleAll)
	evict := ctx.Flags.has(FlagEvict)

	for u := head; u != nil; u = u.Next() {
		if u.TxnID() == TxnAborted {
			continue
		}

		ctx.UpdatesSeen++
		ctx.ChainBytes += u.Size()

		if ctx.FirstTxnUpd == TxnNone || u.TxnID() < ctx.FirstTxnUpd {
			ctx.FirstTxnUpd = u.TxnID()
		}
		if u.TxnID() > ctx.MaxTxn {
			ctx.MaxTxn = u.TxnID()
		}

		if oracle.Uncommitted(u, visibleAllMode) {
			res.HasNewerUpdates = true
			if res.Candidate != nil {
				// An already-selected committed update has an older,
				// still-uncommitted successor: this would require moving
				// an uncommitted value to the history store, which has no
				// representation for one.
				return nil, ErrBusy
			}
			continue
		}

		if u.Kind() == KindReserve {
			// RESERVE placeholders are never selected; they carry no value.
			continue
		}

		prep := u.PrepareState()
		if prep == PrepareLocked || (prep == PrepareInProgress && !evict) {
			res.HasNewerUpdates = true
			if u.StartTS() > ctx.MaxTS {
				ctx.MaxTS = u.StartTS()
			}
			if ctx.MinSkippedTS == TsNone || u.StartTS() < ctx.MinSkippedTS {
				ctx.MinSkippedTS = u.StartTS()
			}
			continue
		}

		if u.StartTS() > ctx.MaxTS {
			ctx.MaxTS = u.StartTS()
		}

		if res.Candidate == nil {
			res.Candidate = u
			if !evict {
				break
			}
			continue
		}

		// Already selected; under eviction keep walking the remainder of
		// the chain purely to count entries not yet stable.
		if !(oracle.Committed(u.TxnID()) && u.StartTS() <= ctx.StableTimestamp) {
			ctx.UpdatesUnstable++
		}
	}

	return res, nil
}
