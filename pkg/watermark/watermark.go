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

// Package watermark tracks the low watermark of a set of in-flight
// transaction or commit-timestamp markers, the primitive refclock.Clock
// uses to answer "has everything up to txn/ts finished" without scanning
// every transaction on every query.
package watermark

import (
	"container/heap"
	"context"
	"sync"
	"sync/atomic"
)

// txnQueueCapacity bounds how many begin/done/wait markers can be in
// flight before Begin/Done/WaitForMark block on the channel.
const txnQueueCapacity = 100

// TxnWatermark tracks the highest transaction or commit id below which
// every marked txn has called Done.
type TxnWatermark struct {
	wg sync.WaitGroup

	doneUntil atomic.Uint64

	markC chan txnMark
	stopC chan struct{}
}

type txnMark struct {
	txn    uint64
	done   bool
	waiter chan struct{}
}

func New() *TxnWatermark {
	w := &TxnWatermark{
		markC: make(chan txnMark, txnQueueCapacity),
		stopC: make(chan struct{}),
	}

	w.wg.Add(1)
	go w.process()

	return w
}

// Stop shuts the watermark down. Do not call Begin/Done/WaitForMark afterward.
func (w *TxnWatermark) Stop() {
	close(w.stopC)
	w.wg.Wait()
}

// Begin records that txn has started and has not yet finished.
func (w *TxnWatermark) Begin(txn uint64) {
	w.markC <- txnMark{
		txn: txn,
	}
}

// Done records that txn has finished (committed or aborted).
func (w *TxnWatermark) Done(txn uint64) {
	w.markC <- txnMark{
		txn:  txn,
		done: true,
	}
}

// DoneUntil returns the highest txn id below which every marked txn has
// finished.
func (w *TxnWatermark) DoneUntil() uint64 {
	return w.doneUntil.Load()
}

// WaitForMark blocks until txn has finished or ctx is done.
func (w *TxnWatermark) WaitForMark(ctx context.Context, txn uint64) error {
	if w.DoneUntil() >= txn {
		return nil
	}

	waiter := make(chan struct{})
	w.markC <- txnMark{
		txn:    txn,
		waiter: waiter,
	}

	select {
	case <-waiter:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *TxnWatermark) process() {
	defer w.wg.Done()

	var pendingTxns lowHeap
	inFlight := make(map[uint64]int)
	waiters := make(map[uint64][]chan struct{})

	heap.Init(&pendingTxns)
	for {
		select {
		case <-w.stopC:
			close(w.markC)
			return
		case m := <-w.markC:
			if m.waiter != nil {
				if w.DoneUntil() >= m.txn {
					close(m.waiter)
				} else {
					waiters[m.txn] = append(waiters[m.txn], m.waiter)
				}
				continue
			}

			txn := m.txn
			prev, tracked := inFlight[txn]
			if !tracked {
				heap.Push(&pendingTxns, txn)
			}

			delta := 1
			if m.done {
				delta = -1
			}
			inFlight[txn] = prev + delta

			currDoneUntil := w.DoneUntil()
			doneUntil := currDoneUntil

			for pendingTxns.Len() > 0 {
				lowest := pendingTxns[0]
				if inFlight[lowest] > 0 {
					break
				}
				heap.Pop(&pendingTxns)
				delete(inFlight, lowest)
				doneUntil = lowest
			}

			if doneUntil > currDoneUntil {
				w.doneUntil.Store(doneUntil)

				for txn, waiting := range waiters {
					if txn > doneUntil {
						continue
					}
					for _, ch := range waiting {
						close(ch)
					}
					delete(waiters, txn)
				}
			}
		}
	}
}

// lowHeap is a min-heap of transaction ids, used to find the lowest
// still-pending txn without a full scan on every Begin/Done.
type lowHeap []uint64

func (h *lowHeap) Len() int { return len(*h) }

func (h *lowHeap) Less(i, j int) bool { return (*h)[i] < (*h)[j] }

func (h *lowHeap) Swap(i, j int) { (*h)[i], (*h)[j] = (*h)[j], (*h)[i] }

func (h *lowHeap) Push(x any) {
	*h = append(*h, x.(uint64))
}

// Pop removes and returns the lowest tracked txn id.
func (h *lowHeap) Pop() any {
	curr := *h
	n := len(curr)
	e := curr[n-1]
	*h = curr[0 : n-1]
	return e
}
