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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSelectorNilCandidateYieldsEmptySelection(t *testing.T) {
	tm := newStubTxnManager()
	oracle := NewOracle(tm, false)
	ctx := &ReconcileContext{}

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, nil, &walkResult{}, nil)

	require.NoError(t, err)
	assert.Nil(t, sel.SelectedUpdate)
}

func TestRunSelectorStandardCandidatePassesThrough(t *testing.T) {
	tm := newStubTxnManager().commit(5)
	cand := committedUpdate(KindStandard, 5, 30, []byte("v"))

	ctx := &ReconcileContext{}
	oracle := NewOracle(tm, false)

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, cand, &walkResult{Candidate: cand}, nil)

	require.NoError(t, err)
	assert.Same(t, cand, sel.SelectedUpdate)
	assert.Equal(t, uint64(30), sel.Window.StartTS)
	assert.Equal(t, uint64(5), sel.Window.StartTxn)
}

func TestRunSelectorTombstoneResolvesToOlderLiveValue(t *testing.T) {
	tm := newStubTxnManager().commit(5).commit(3)
	older := committedUpdate(KindStandard, 3, 20, []byte("old"))
	tomb := committedUpdate(KindTombstone, 5, 30, nil)
	head := chain(tomb, older)

	ctx := &ReconcileContext{}
	oracle := NewOracle(tm, false)

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, head, &walkResult{Candidate: tomb}, nil)

	require.NoError(t, err)
	require.NotNil(t, sel.SelectedUpdate)
	assert.Same(t, older, sel.SelectedUpdate)
	assert.Equal(t, uint64(30), sel.Window.StopTS)
	assert.Equal(t, uint64(5), sel.Window.StopTxn)
	assert.Equal(t, uint64(20), sel.Window.StartTS)
}

func TestRunSelectorTombstoneVisibleAllLeavesNothingSelected(t *testing.T) {
	// Under VISIBLE_ALL, a tombstone that is itself globally visible has no
	// reason to resurrect an older value: the delete is permanent.
	tm := newStubTxnManager().commit(3)
	tm.lastRunning = 100
	older := committedUpdate(KindStandard, 3, 20, []byte("old"))
	tomb := committedUpdate(KindTombstone, 5, 30, nil)
	head := chain(tomb, older)

	ctx := &ReconcileContext{Flags: FlagVisibleAll}
	oracle := NewOracle(tm, false)

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, head, &walkResult{Candidate: tomb}, nil)

	require.NoError(t, err)
	assert.Nil(t, sel.SelectedUpdate)
}

func TestRunSelectorTombstoneSynthesizesFromCell(t *testing.T) {
	tm := newStubTxnManager()
	tm.lastRunning = 100
	tomb := committedUpdate(KindTombstone, 5, 30, nil)
	head := chain(tomb)

	cellWindow := TimeWindow{StartTS: 10, StartTxn: 1, StopTS: TsMax, StopTxn: TxnMax}
	cell := NewOnDiskCell(cellWindow, []byte("on-disk"), false)

	ctx := &ReconcileContext{}
	oracle := NewOracle(tm, false)

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, head, &walkResult{Candidate: tomb}, cell)

	require.NoError(t, err)
	require.NotNil(t, sel.SelectedUpdate)
	assert.Equal(t, []byte("on-disk"), sel.SelectedUpdate.Payload())
	assert.True(t, sel.SelectedUpdate.FromDiskCell())
}

func TestRunSelectorTombstoneOnlyChainWithoutCellPanics(t *testing.T) {
	tm := newStubTxnManager()
	tm.lastRunning = 100
	tomb := committedUpdate(KindTombstone, 5, 30, nil)
	head := chain(tomb)

	ctx := &ReconcileContext{}
	oracle := NewOracle(tm, false)

	assert.Panics(t, func() {
		_, _ = runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, head, &walkResult{Candidate: tomb}, nil)
	})
}

func TestRunSelectorMarksPrepareInProgress(t *testing.T) {
	tm := newStubTxnManager().commit(9)
	cand := committedUpdate(KindStandard, 9, 40, []byte("v"))
	cand.SetPrepare(PrepareInProgress)

	ctx := &ReconcileContext{Flags: FlagEvict}
	oracle := NewOracle(tm, false)

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, cand, &walkResult{Candidate: cand}, nil)

	require.NoError(t, err)
	assert.True(t, sel.Prepare)
}

func TestRunSelectorRepairsOutOfOrderWindow(t *testing.T) {
	tm := newStubTxnManager().commit(5).commit(3)
	// The tombstone's commit (txn=3, ts=20) sorts before the value it
	// supersedes (txn=5, ts=30): an out-of-order commit sequence.
	older := committedUpdate(KindStandard, 5, 30, []byte("old"))
	tomb := committedUpdate(KindTombstone, 3, 20, nil)
	head := chain(tomb, older)

	ctx := &ReconcileContext{}
	oracle := NewOracle(tm, false)

	sel, err := runSelector(ctx, oracle, &stubPageProvider{}, &stubAllocator{}, head, &walkResult{Candidate: tomb}, nil)

	require.NoError(t, err)
	assert.Equal(t, uint64(1), ctx.OutOfOrderRepairs)
	assert.Equal(t, sel.Window.StopTS, sel.Window.StartTS)
	assert.Equal(t, sel.Window.StopTxn, sel.Window.StartTxn)
}
