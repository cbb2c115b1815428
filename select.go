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

// Select is the public entry point (equivalent to upd_select): given a
// key's update chain head and an optional on-disk cell, it runs the
// Visibility Oracle, Chain Walker, Selector, and Save-Decision &
// Persister in sequence and returns the resulting Selection.
//
// chainHead and cell may not both be nil. tm, pp and alloc are the
// external collaborators this package never owns: the live transaction
// manager, the page/cell provider, and the update allocator.
func Select(ctx *ReconcileContext, tm TxnManager, pp PageProvider, alloc Allocator, slot SlotID, chainHead *Update, cell *OnDiskCell) (Selection, error) {
	if chainHead == nil && cell == nil {
		return Selection{}, ErrEmptyChain
	}

	oracle := NewOracle(tm, ctx.Flags.has(FlagHS))
	ctx.LastRunning = oracle.LastRunning()

	wr, err := walkChain(ctx, oracle, chainHead)
	if err != nil {
		ctx.logger().Warnf("reconcile: select busy for slot %d: %v", slot, err)
		return Selection{}, err
	}

	sel, err := runSelector(ctx, oracle, pp, alloc, chainHead, wr, cell)
	if err != nil {
		return Selection{}, err
	}

	save, restoreFlag := decideSave(ctx, oracle, sel, wr.HasNewerUpdates)
	if save {
		persistSave(ctx, slot, sel, restoreFlag)
	}

	if sel.SelectedUpdate != nil && cell != nil {
		writingNewValue := save || (pp.Overflow(cell) && !sel.SelectedUpdate.FromDiskCell())
		if writingNewValue {
			if _, err := appendOriginalValue(ctx, pp, alloc, oracle, chainHead, cell, ctx.logger()); err != nil {
				return Selection{}, err
			}
		}
	}

	if wr.HasNewerUpdates {
		if ctx.Flags.has(FlagVisibilityErr) {
			ctx.logger().Errorf("reconcile: visibility invariant violated for slot %d", slot)
			return Selection{}, ErrVisibility
		}
		if ctx.Flags.has(FlagCleanAfterRec) {
			return Selection{}, ErrBusy
		}
	}

	ctx.logger().Infof("reconcile: selected slot=%d updates_seen=%d saved=%d", slot, ctx.UpdatesSeen, len(ctx.Saved))
	return sel, nil
}
