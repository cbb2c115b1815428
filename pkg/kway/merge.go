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

package kway

import (
	"cmp"
	"container/heap"
	"slices"
)

// Merge k-way merges several slot-ordered history-store batches into one,
// keeping the most-recently-seen entry for any slot saved in more than one
// batch. Later lists (higher index) are treated as the more recent batch.
func Merge(lists ...[]SavedEntry) []SavedEntry {
	h := &Heap{}
	heap.Init(h)

	for i, list := range lists {
		if len(list) > 0 {
			heap.Push(h, Element{Entry: list[0], LI: i})
			lists[i] = list[1:]
		}
	}

	latest := make(map[uint64]SavedEntry)

	for h.Len() > 0 {
		e := heap.Pop(h).(Element)
		latest[e.Entry.Slot] = e.Entry
		if len(lists[e.LI]) > 0 {
			heap.Push(h, Element{Entry: lists[e.LI][0], LI: e.LI})
			lists[e.LI] = lists[e.LI][1:]
		}
	}

	merged := make([]SavedEntry, 0, len(latest))
	for _, entry := range latest {
		merged = append(merged, entry)
	}

	slices.SortFunc(merged, func(a, b SavedEntry) int {
		return cmp.Compare(a.Slot, b.Slot)
	})

	return merged
}
