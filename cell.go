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

// PageID and SlotID identify the location of a key on a reconciled page.
// Their encoding is the write path's concern; this package treats them as
// opaque comparable handles.
type PageID uint64
type SlotID uint64

// OnDiskCell is the already-unpacked on-disk representation of a key,
// borrowed for the duration of a Select call. Reading its payload never
// performs I/O here — by the time the reconciliation core sees a cell, its
// bytes are already resident; any disk access needed to get there is the
// PageProvider's concern, exercised through ReadCellPayload.
type OnDiskCell struct {
	Window   TimeWindow
	overflow bool
	payload  []byte
}

// NewOnDiskCell constructs a cell with the given visibility window and
// payload. overflow marks a value stored off-page, in a separate overflow
// block that checkpoint can reclaim once no cell references it.
func NewOnDiskCell(window TimeWindow, payload []byte, overflow bool) *OnDiskCell {
	return &OnDiskCell{Window: window, payload: payload, overflow: overflow}
}

func (c *OnDiskCell) Payload() []byte { return c.payload }
func (c *OnDiskCell) Overflow() bool  { return c.overflow }
