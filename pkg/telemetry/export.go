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

package telemetry

import "github.com/B1NARY-GR0UP/reconcile/pkg/utils"

// Source is the subset of reconcile.ReconcileContext this package reads to
// build a Snapshot. Defined locally, not embedded, so this package depends
// only on field values, never on reconcile's types.
type Source struct {
	Page              uint64
	UpdatesSeen       int
	UpdatesUnstable   int
	ChainBytes        int
	SavedBytes        int
	OutOfOrderRepairs uint64
	CacheWriteRestore bool
}

func FromSource(src Source) *Snapshot {
	return &Snapshot{
		Page:              src.Page,
		UpdatesSeen:       int64(src.UpdatesSeen),
		UpdatesUnstable:   int64(src.UpdatesUnstable),
		ChainBytes:        int64(src.ChainBytes),
		SavedBytes:        int64(src.SavedBytes),
		OutOfOrderRepairs: int64(src.OutOfOrderRepairs),
		CacheWriteRestore: src.CacheWriteRestore,
	}
}

// Encode marshals the snapshot via thrift/frugal for export.
func Encode(s *Snapshot) ([]byte, error) {
	return utils.TMarshal(s)
}

// Decode reverses Encode.
func Decode(data []byte) (*Snapshot, error) {
	s := &Snapshot{}
	if err := utils.TUnmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}
