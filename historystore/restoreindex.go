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

package historystore

import "github.com/B1NARY-GR0UP/reconcile/pkg/skiplist"

const (
	_restoreIndexMaxLevel = 16
	_restoreIndexP        = 0.5
)

// RestoreIndex caches chains rebuilt from history-store records so a page
// that is reconciled again soon after a restore doesn't have to search the
// store's batches a second time. It holds only what callers Put into it;
// nothing in this repository fills it automatically or ties it to a
// reconcile pass's cache-write-restore flag.
type RestoreIndex struct {
	list *skiplist.SkipList
}

func NewRestoreIndex() *RestoreIndex {
	return &RestoreIndex{list: skiplist.New(_restoreIndexMaxLevel, _restoreIndexP)}
}

// Put caches the record restored for (page, slot).
func (i *RestoreIndex) Put(page, slot uint64, rec Record) {
	i.list.Set(skiplist.Entry{
		Key:   skiplist.Key{Page: page, Slot: slot},
		Value: rec,
	})
}

// Get returns the cached record for (page, slot), if any.
func (i *RestoreIndex) Get(page, slot uint64) (Record, bool) {
	e, ok := i.list.Get(skiplist.Key{Page: page, Slot: slot})
	if !ok {
		return Record{}, false
	}
	return e.Value.(Record), true
}

// Evict drops the cached record for (page, slot).
func (i *RestoreIndex) Evict(page, slot uint64) bool {
	return i.list.Delete(skiplist.Key{Page: page, Slot: slot})
}

// Len reports how many chains are currently cached.
func (i *RestoreIndex) Len() int {
	return len(i.list.All())
}
