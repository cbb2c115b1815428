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

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy signals the caller should retry reconciliation later: either
	// a committed selection would strand an uncommitted, older successor,
	// or FlagCleanAfterRec demanded an all-visible page and found one that
	// isn't (yet).
	ErrBusy = errors.New("reconcile: busy, retry later")

	// ErrVisibility is the PANIC-class error: FlagVisibilityErr was set and
	// the walk found a non-visible update, an invariant violation for a
	// caller that asserted none could exist.
	ErrVisibility = errors.New("reconcile: visibility invariant violated")

	// ErrEmptyChain is returned when Select is asked to reconcile a nil
	// chain head with no on-disk cell to fall back on.
	ErrEmptyChain = errors.New("reconcile: empty chain and no on-disk cell")
)

// AllocError wraps an Allocator failure. The reconciliation core releases
// whatever partial state it had constructed before returning one of these;
// callers should treat it as a generic I/O-class error, not as BUSY or
// PANIC.
type AllocError struct {
	Op  string
	Err error
}

func (e *AllocError) Error() string {
	return fmt.Sprintf("reconcile: allocator failure during %s: %v", e.Op, e.Err)
}

func (e *AllocError) Unwrap() error { return e.Err }
