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

// Package telemetry encodes a point-in-time view of a reconciliation pass's
// counters for export, independent of whatever exporter ships them out.
package telemetry

import (
	"context"
	"fmt"

	"github.com/apache/thrift/lib/go/thrift"
)

var _ thrift.TStruct = (*Snapshot)(nil)

// Snapshot mirrors the counters a reconcile.ReconcileContext accumulates
// over one pass. It is built by the caller from that context after Select
// returns, never by the reconciliation core itself.
type Snapshot struct {
	Page              uint64 `frugal:"1,default,i64"`
	UpdatesSeen       int64  `frugal:"2,default,i64"`
	UpdatesUnstable   int64  `frugal:"3,default,i64"`
	ChainBytes        int64  `frugal:"4,default,i64"`
	SavedBytes        int64  `frugal:"5,default,i64"`
	OutOfOrderRepairs int64  `frugal:"6,default,i64"`
	CacheWriteRestore bool   `frugal:"7,default,bool"`
}

// Read and Write are unused by frugal, which encodes by struct tag, but are
// kept so Snapshot satisfies thrift.TStruct the way generated thrift code
// would.
func (s *Snapshot) Read(_ context.Context, _ thrift.TProtocol) error {
	return fmt.Errorf("telemetry: Snapshot.Read is not implemented, use TUnmarshal")
}

func (s *Snapshot) Write(_ context.Context, _ thrift.TProtocol) error {
	return fmt.Errorf("telemetry: Snapshot.Write is not implemented, use TMarshal")
}

func (s *Snapshot) String() string {
	return fmt.Sprintf("Snapshot(page=%d seen=%d unstable=%d chainBytes=%d savedBytes=%d repairs=%d restore=%v)",
		s.Page, s.UpdatesSeen, s.UpdatesUnstable, s.ChainBytes, s.SavedBytes, s.OutOfOrderRepairs, s.CacheWriteRestore)
}
