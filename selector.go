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

// runSelector is the Selector (component 4.4). Given the Chain Walker's
// candidate, it resolves a tombstone candidate to its pre-tombstone value
// (or to a synthesised original value via the Appender, or to nothing),
// narrows the window, repairs it if out of order, and raises the
// max_ondisk_ts watermark.
func runSelector(ctx *ReconcileContext, oracle *Oracle, pp PageProvider, alloc Allocator, head *Update, wr *walkResult, cell *OnDiskCell) (Selection, error) {
	window := NewTimeWindow()
	cand := wr.Candidate
	if cand == nil {
		return Selection{Window: window}, nil
	}

	var sel *Update
	if cand.Kind() == KindTombstone {
		window.SetStop(cand)

		visibleAll := oracle.VisibleAll(cand.TxnID(), cand.StartTS())
		onlyLive := true
		for n := cand.Next(); n != nil; n = n.Next() {
			if n.TxnID() == TxnAborted || n.Kind() == KindReserve {
				continue
			}
			onlyLive = false
			if !visibleAll {
				sel = n
			}
			break
		}

		switch {
		case sel != nil:
			window.SetStart(sel)
		case !onlyLive:
			// A globally visible tombstone over older live entries: no
			// reader can need the pre-tombstone value, so nothing is
			// selected and only the stop window is kept.
		case cell != nil:
			synth, err := appendOriginalValue(ctx, pp, alloc, oracle, head, cell, ctx.logger())
			if err != nil {
				return Selection{}, err
			}
			if synth != nil {
				sel = synth
				window.SetStart(synth)
			}
		default:
			// A tombstone left as the only live entry implies an on-disk
			// cell exists to recover the prior value from; its absence is
			// an invariant bug in the caller, not a condition this package
			// can recover from.
			panic("reconcile: tombstone-only chain has no on-disk cell to recover from")
		}
	} else {
		sel = cand
		window.SetStart(cand)
	}

	prepare := sel != nil && sel.PrepareState() == PrepareInProgress

	window.Repair(ctx.logger(), &ctx.OutOfOrderRepairs)

	if sel != nil && sel.StartTS() > ctx.MaxOndiskTS {
		ctx.MaxOndiskTS = sel.StartTS()
	}

	return Selection{SelectedUpdate: sel, Window: window, Prepare: prepare}, nil
}
