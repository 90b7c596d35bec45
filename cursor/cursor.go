// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package cursor defines the traversal contract over a batch (spec.md §4.2)
// and List, an N-way merge of cursors that presents them as a single
// logically sorted cursor.
package cursor

// Cursor walks a batch's (key, val, time, diff) trie in sorted order.
// Implementations hold four logical offsets — key, val-lower, val-upper,
// and the derived time range for the current (key, val) pair — and every
// method is undefined (implementations may panic) if called while the
// corresponding Valid method reports false, matching spec.md §7's
// programmer-contract-violation policy for cursor misuse.
type Cursor[K any, V any, T any, R any] interface {
	// KeyValid reports whether Key is safe to call.
	KeyValid() bool
	// ValValid reports whether Val is safe to call.
	ValValid() bool

	// Key returns the current key. Undefined if !KeyValid().
	Key() K
	// Val returns the current val under the current key. Undefined if
	// !ValValid().
	Val() V

	// MapTimes invokes f once per (time, diff) pair stored under the
	// current (key, val), in storage order. Undefined if !ValValid().
	MapTimes(f func(t T, r R))

	// StepKey advances to the next key, implicitly rewinding to that
	// key's first val, and reports the resulting KeyValid().
	StepKey() bool
	// StepVal advances to the next val under the current key and reports
	// the resulting ValValid().
	StepVal() bool

	// SeekKey advances to the least key >= k and reports KeyValid().
	SeekKey(k K) bool
	// SeekVal advances to the least val >= v under the current key and
	// reports ValValid().
	SeekVal(v V) bool

	// RewindKeys resets the cursor to its first key.
	RewindKeys()
	// RewindVals resets to the current key's first val.
	RewindVals()
}
