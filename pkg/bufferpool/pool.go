// Copyright 2024 BINARY Members
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

// Package bufferpool recycles the scratch buffers the reconciler and the
// history store use to stage update payloads and on-disk records, so a
// busy reconciliation pass doesn't allocate a fresh buffer per chain entry.
package bufferpool

import (
	"bytes"
	"sync"
)

// recordScratchCapacity is a starting capacity sized for a typical
// history-store record (key, window, and a small payload); buffers that
// outgrow it just reallocate like any other bytes.Buffer.
const recordScratchCapacity = 256

// Records is the shared pool callers reach for when staging an update
// payload or history-store record before it's copied out or written.
var Records = New()

// Recycler hands out reset, ready-to-write buffers and takes them back.
type Recycler struct {
	pool sync.Pool
}

func New() *Recycler {
	return &Recycler{
		pool: sync.Pool{
			New: func() any {
				buf := bytes.NewBuffer(make([]byte, 0, recordScratchCapacity))
				return buf
			},
		},
	}
}

// Get returns a zero-length buffer, either reused or freshly allocated.
func (r *Recycler) Get() *bytes.Buffer {
	return r.pool.Get().(*bytes.Buffer)
}

// Put resets buf and returns it to the pool for reuse.
func (r *Recycler) Put(buf *bytes.Buffer) {
	buf.Reset()
	r.pool.Put(buf)
}
