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

// Package historystore holds updates spilled out of a page's update chain
// during reconciliation so they can be restored into a fresh chain later.
package historystore

import (
	"bytes"
	"encoding/binary"

	"github.com/B1NARY-GR0UP/reconcile/pkg/bufferpool"
	"github.com/B1NARY-GR0UP/reconcile/pkg/utils"
)

// Record is the on-disk form of one spilled update. It carries enough of
// the update's identity and time window to be re-selected against a
// snapshot once restored.
type Record struct {
	Page uint64
	Slot uint64

	TxnID          uint64
	StartTS        uint64
	DurableStartTS uint64
	StopTS         uint64
	StopTxn        uint64
	DurableStopTS  uint64
	HasStop        bool

	Kind    uint8
	Payload []byte
}

func (r Record) key() uint64 {
	return combineKey(r.Page, r.Slot)
}

// combineKey folds a (page, slot) pair into a single key suitable for
// ordering and bloom filter membership. It is not meant to be collision
// free across arbitrary inputs, only stable and monotonic per page.
func combineKey(page, slot uint64) uint64 {
	return page*1_000_003 + slot
}

func lessKey(a, b Record) bool {
	ak, bk := a.key(), b.key()
	if ak != bk {
		return ak < bk
	}
	// newer start timestamp sorts after an older one sharing a slot key,
	// so the last record written for a slot is also the last one decoded.
	return a.StartTS < b.StartTS
}

func encodeRecord(w *utils.ErrorWriter, r Record) {
	w.Write(binary.LittleEndian, r.Page)
	w.Write(binary.LittleEndian, r.Slot)
	w.Write(binary.LittleEndian, r.TxnID)
	w.Write(binary.LittleEndian, r.StartTS)
	w.Write(binary.LittleEndian, r.DurableStartTS)
	w.Write(binary.LittleEndian, r.StopTS)
	w.Write(binary.LittleEndian, r.StopTxn)
	w.Write(binary.LittleEndian, r.DurableStopTS)
	hasStop := uint8(0)
	if r.HasStop {
		hasStop = 1
	}
	w.Write(binary.LittleEndian, hasStop)
	w.Write(binary.LittleEndian, r.Kind)
	w.Write(binary.LittleEndian, uint32(len(r.Payload)))
	w.Write(binary.LittleEndian, r.Payload)
}

func decodeRecord(r *utils.ErrorReader) Record {
	var rec Record
	r.Read(binary.LittleEndian, &rec.Page)
	r.Read(binary.LittleEndian, &rec.Slot)
	r.Read(binary.LittleEndian, &rec.TxnID)
	r.Read(binary.LittleEndian, &rec.StartTS)
	r.Read(binary.LittleEndian, &rec.DurableStartTS)
	r.Read(binary.LittleEndian, &rec.StopTS)
	r.Read(binary.LittleEndian, &rec.StopTxn)
	r.Read(binary.LittleEndian, &rec.DurableStopTS)
	var hasStop uint8
	r.Read(binary.LittleEndian, &hasStop)
	rec.HasStop = hasStop == 1
	r.Read(binary.LittleEndian, &rec.Kind)
	var payloadLen uint32
	r.Read(binary.LittleEndian, &payloadLen)
	payload := make([]byte, payloadLen)
	r.Read(binary.LittleEndian, &payload)
	rec.Payload = payload
	return rec
}

func compress(raw *bytes.Buffer) ([]byte, error) {
	out := bufferpool.Records.Get()
	defer bufferpool.Records.Put(out)
	if err := utils.Compress(raw, out); err != nil {
		return nil, err
	}
	cp := make([]byte, out.Len())
	copy(cp, out.Bytes())
	return cp, nil
}

func decompress(data []byte, dst *bytes.Buffer) error {
	return utils.Decompress(bytes.NewReader(data), dst)
}
