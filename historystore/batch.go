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

import (
	"bytes"
	"sort"

	"github.com/B1NARY-GR0UP/reconcile/pkg/bufferpool"
	"github.com/B1NARY-GR0UP/reconcile/pkg/filter"
	"github.com/B1NARY-GR0UP/reconcile/pkg/utils"
)

// Batch is one spill's worth of records, sorted by (page, slot, startTS)
// and fronted by a bloom filter so a lookup that misses never has to pay
// for a decompress.
type Batch struct {
	Records []Record
	filter  *filter.Filter
}

// NewBatch sorts records and builds the membership filter. Whether the
// batch is s2-compressed is decided later, by Encode.
func NewBatch(records []Record) *Batch {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return lessKey(sorted[i], sorted[j]) })

	keys := make([]uint64, len(sorted))
	for i, r := range sorted {
		keys[i] = r.key()
	}
	return &Batch{Records: sorted, filter: filter.Build(keys)}
}

// MayContain reports whether (page, slot) could be present in this batch.
// A false result is certain; a true result still needs Search to confirm.
func (b *Batch) MayContain(page, slot uint64) bool {
	return b.filter.Contains(combineKey(page, slot))
}

// Search returns the newest record for (page, slot) in this batch.
func (b *Batch) Search(page, slot uint64) (Record, bool) {
	if !b.MayContain(page, slot) {
		return Record{}, false
	}
	target := combineKey(page, slot)
	low, high := 0, len(b.Records)-1
	found := -1
	for low <= high {
		mid := low + (high-low)>>1
		k := b.Records[mid].key()
		switch {
		case k < target:
			low = mid + 1
		case k > target:
			high = mid - 1
		default:
			found = mid
			low = mid + 1 // keep scanning right for a newer StartTS
		}
	}
	if found < 0 {
		return Record{}, false
	}
	return b.Records[found], true
}

// Encode serializes the batch's records, compressing above threshold bytes.
func (b *Batch) Encode(compressionThreshold int) ([]byte, bool, error) {
	buf := bufferpool.Records.Get()
	defer bufferpool.Records.Put(buf)

	w := utils.NewErrorWriter(buf)
	for _, r := range b.Records {
		encodeRecord(w, r)
	}
	if err := w.Error(); err != nil {
		return nil, false, err
	}

	if buf.Len() < compressionThreshold {
		out := make([]byte, buf.Len())
		copy(out, buf.Bytes())
		return out, false, nil
	}
	compressed, err := compress(buf)
	if err != nil {
		return nil, false, err
	}
	return compressed, true, nil
}

// DecodeBatch reverses Encode.
func DecodeBatch(data []byte, compressed bool) (*Batch, error) {
	raw := data
	var dst *bytes.Buffer
	if compressed {
		dst = bufferpool.Records.Get()
		defer bufferpool.Records.Put(dst)
		if err := decompress(data, dst); err != nil {
			return nil, err
		}
		raw = dst.Bytes()
	}

	reader := bytes.NewReader(raw)
	r := utils.NewErrorReader(reader)
	var records []Record
	for reader.Len() > 0 {
		records = append(records, decodeRecord(r))
		if err := r.Error(); err != nil {
			return nil, err
		}
	}
	return NewBatch(records), nil
}
