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

import "github.com/B1NARY-GR0UP/reconcile/pkg/kway"

// decideSave is the Save-Decision half of component 4.6. The checks are
// ordered; the first one that applies decides the outcome:
//
//  1. A prepared selection is always saved (a reader must be able to find
//     it again once the prepare resolves).
//  2. Eviction with newer updates still pending is always saved (nothing
//     else will ever get a chance to persist them).
//  3. No history store and no page type that tolerates living without one
//     means nothing can be saved at all.
//  4. A checkpoint with an empty selection has nothing to save.
//  5. Otherwise: save only when neither the window's start nor its stop is
//     globally visible; if either one is, nothing is lost by skipping it.
//
// restoreFlag is set whenever a save happens with nowhere to spill to
// (in-memory database, fixed-length column store) or whenever eviction is
// stranding newer updates — both cases need the saved entry restored
// straight back into an in-memory chain rather than written to the
// history store.
func decideSave(ctx *ReconcileContext, oracle *Oracle, sel Selection, hasNewerUpdates bool) (save, restoreFlag bool) {
	noHistoryStore := ctx.Flags.has(FlagInMemory) || ctx.FixedLengthColumnStore

	switch {
	case sel.Prepare:
		save = true
	case ctx.Flags.has(FlagEvict) && hasNewerUpdates:
		save = true
	case !ctx.Flags.has(FlagHS) && noHistoryStore:
		return false, false
	case ctx.Flags.has(FlagCheckpoint) && sel.SelectedUpdate == nil:
		return false, false
	default:
		startVisible := sel.SelectedUpdate != nil && oracle.VisibleAll(sel.Window.StartTxn, sel.Window.StartTS)
		stopVisible := oracle.VisibleAll(sel.Window.StopTxn, sel.Window.StopTS)
		save = !startVisible && !stopVisible
	}

	if !save {
		return false, false
	}
	restoreFlag = (ctx.Flags.has(FlagEvict) && hasNewerUpdates) || noHistoryStore
	return true, restoreFlag
}

// persistSave records the Persister's (component 4.6) side effect on ctx
// once decideSave says to save.
func persistSave(ctx *ReconcileContext, slot SlotID, sel Selection, restoreFlag bool) {
	var ref *Update
	if sel.SelectedUpdate != nil {
		ref = sel.SelectedUpdate
	}
	entry := SavedUpdateEntry{
		Slot:            slot,
		OnPageUpdateRef: ref,
		RestoreFlag:     restoreFlag,
	}
	ctx.Saved = append(ctx.Saved, entry)
	if ref != nil {
		ctx.SavedBytes += ref.Size()
	}
	if restoreFlag {
		ctx.CacheWriteRestore = true
	}
}

// RestoreHistoryBatches k-way merges saved-update batches recovered from
// several history-store spills into one list ordered by slot, keeping one
// entry per slot: the one from the latest batch (the highest argument
// index) that holds that slot.
func RestoreHistoryBatches(batches ...[]SavedUpdateEntry) []SavedUpdateEntry {
	lists := make([][]kway.SavedEntry, 0, len(batches))
	for _, batch := range batches {
		converted := make([]kway.SavedEntry, 0, len(batch))
		for _, e := range batch {
			converted = append(converted, kway.SavedEntry{
				Slot:     uint64(e.Slot),
				Update:   e.OnPageUpdateRef,
				Restored: e.RestoreFlag,
			})
		}
		lists = append(lists, converted)
	}

	merged := kway.Merge(lists...)
	out := make([]SavedUpdateEntry, 0, len(merged))
	for _, m := range merged {
		var ref *Update
		if m.Update != nil {
			ref, _ = m.Update.(*Update)
		}
		out = append(out, SavedUpdateEntry{
			Slot:            SlotID(m.Slot),
			OnPageUpdateRef: ref,
			RestoreFlag:     m.Restored,
		})
	}
	return out
}
