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

// Command reconcilesim drives reconcile.Select against a small synthetic
// chain so its behaviour can be inspected without wiring up a real page
// store or transaction manager.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"

	"github.com/B1NARY-GR0UP/reconcile"
	"github.com/B1NARY-GR0UP/reconcile/historystore"
	"github.com/B1NARY-GR0UP/reconcile/pkg/telemetry"
	"github.com/B1NARY-GR0UP/reconcile/refclock"
)

func main() {
	var (
		writes = flag.Int("writes", 3, "number of committed writes to chain before reconciling")
		evict  = flag.Bool("evict", false, "reconcile under eviction mode")
		tomb   = flag.Bool("tombstone", false, "end the chain with a tombstone")
		page   = flag.Uint64("page", 1, "synthetic page id")
		slot   = flag.Uint64("slot", 1, "synthetic slot id")
	)
	flag.Parse()

	clock := refclock.New()
	defer clock.Stop()

	var head *reconcile.Update
	for i := 0; i < *writes; i++ {
		payload := []byte(fmt.Sprintf("value-%d", i))
		kind := reconcile.KindStandard
		if *tomb && i == *writes-1 {
			kind = reconcile.KindTombstone
		}
		u := reconcile.NewUpdate(kind, payload)

		txn := clock.Begin()
		ts := clock.Commit(txn)
		u.SetTxn(txn, ts, ts)

		if head != nil {
			u.SetNext(head)
		}
		head = u
	}

	store := historystore.NewStore(reconcile.DefaultConfig.HistoryStoreCompressionThreshold)
	pp := &simPageProvider{store: store}
	alloc := &simAllocator{}

	ctx := &reconcile.ReconcileContext{Page: reconcile.PageID(*page)}
	if *evict {
		ctx.Flags |= reconcile.FlagEvict
	}

	sel, err := reconcile.Select(ctx, clock, pp, alloc, reconcile.SlotID(*slot), head, nil)
	if err != nil {
		log.Fatalf("select failed: %v", err)
	}

	if len(ctx.Saved) > 0 {
		records := make([]historystore.Record, 0, len(ctx.Saved))
		for _, e := range ctx.Saved {
			if e.OnPageUpdateRef == nil {
				continue
			}
			records = append(records, historystore.Record{
				Page:    uint64(ctx.Page),
				Slot:    uint64(e.Slot),
				TxnID:   e.OnPageUpdateRef.TxnID(),
				StartTS: e.OnPageUpdateRef.StartTS(),
				Kind:    uint8(e.OnPageUpdateRef.Kind()),
				Payload: e.OnPageUpdateRef.Payload(),
			})
		}
		if len(records) > 0 {
			if _, _, err := store.Spill(records); err != nil {
				log.Fatalf("spill failed: %v", err)
			}
		}
	}

	snap := telemetry.FromSource(telemetry.Source{
		Page:              uint64(ctx.Page),
		UpdatesSeen:       ctx.UpdatesSeen,
		UpdatesUnstable:   ctx.UpdatesUnstable,
		ChainBytes:        ctx.ChainBytes,
		SavedBytes:        ctx.SavedBytes,
		OutOfOrderRepairs: ctx.OutOfOrderRepairs,
		CacheWriteRestore: ctx.CacheWriteRestore,
	})

	fmt.Printf("selected payload: %q\n", payloadOf(sel.SelectedUpdate))
	fmt.Printf("window: %+v\n", sel.Window)
	fmt.Println(snap.String())
}

func payloadOf(u *reconcile.Update) string {
	if u == nil {
		return ""
	}
	return string(u.Payload())
}

// simPageProvider is a tiny stand-in for a real engine's page/cell access.
type simPageProvider struct {
	store *historystore.Store
}

func (p *simPageProvider) LookupChain(reconcile.PageID, reconcile.SlotID) *reconcile.Update {
	return nil
}

func (p *simPageProvider) ReadCellPayload(cell *reconcile.OnDiskCell, buf *bytes.Buffer) error {
	_, err := buf.Write(cell.Payload())
	return err
}

func (p *simPageProvider) Overflow(cell *reconcile.OnDiskCell) bool {
	return cell != nil && cell.Overflow()
}

func (p *simPageProvider) PageMemIncr(reconcile.PageID, int) {}

// simAllocator hands out plain heap-allocated updates; a real engine would
// charge these against a page-level memory budget.
type simAllocator struct{}

func (a *simAllocator) AllocUpdate(kind reconcile.Kind, payload []byte) (*reconcile.Update, int, error) {
	u := reconcile.NewUpdate(kind, payload)
	return u, u.Size(), nil
}

func (a *simAllocator) FreeUpdate(*reconcile.Update) {}
