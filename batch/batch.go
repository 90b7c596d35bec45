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

package batch

import (
	"github.com/TimelyDataflow/differential-dataflow-sub001/cursor"
	"github.com/TimelyDataflow/differential-dataflow-sub001/ints"
)

// Batch is an immutable, trie-structured collection of (key, val, time,
// diff) tuples (spec.md §3 "Batch"): keys sorted and deduplicated, each
// key's vals sorted and deduplicated, each val's times sorted with one
// entry per distinct time. keyOff and valOff are the two offset arrays
// tying a key to its val range and a val to its time range; each has one
// more entry than the array it indexes, the final entry being the total
// count (standard CSR/"trie as parallel arrays" layout).
//
// A Batch is built once via Builder and never mutated afterward; every
// read access is safe for concurrent use by multiple cursors.
type Batch[K any, V any, T any, R any] struct {
	keys   []K
	keyOff []int
	vals   []V
	valOff []int
	times  []T
	diffs  []R

	desc Description

	cmpKey CompareFunc[K]
	cmpVal CompareFunc[V]
}

// Description returns the batch's time interval and compaction frontier.
func (b *Batch[K, V, T, R]) Description() Description { return b.desc }

// NumKeys returns the number of distinct keys stored in the batch.
func (b *Batch[K, V, T, R]) NumKeys() int { return len(b.keys) }

// NumVals returns the total number of distinct (key, val) pairs.
func (b *Batch[K, V, T, R]) NumVals() int { return len(b.vals) }

// Len returns the total number of (key, val, time, diff) tuples.
func (b *Batch[K, V, T, R]) Len() int { return len(b.times) }

// Empty reports whether the batch holds no tuples at all.
func (b *Batch[K, V, T, R]) Empty() bool { return len(b.times) == 0 }

// Cursor returns a fresh cursor positioned at the batch's first key.
func (b *Batch[K, V, T, R]) Cursor() cursor.Cursor[K, V, T, R] {
	c := &Cursor[K, V, T, R]{batch: b}
	c.RewindKeys()
	return c
}

// Cursor is the concrete cursor implementation over a Batch's trie arrays.
type Cursor[K any, V any, T any, R any] struct {
	batch *Batch[K, V, T, R]

	keyI int

	valLo, valHi, valI int

	timeLo, timeHi int
}

var _ cursor.Cursor[int, int, int, int] = (*Cursor[int, int, int, int])(nil)

func (c *Cursor[K, V, T, R]) setKeyBounds() {
	n := len(c.batch.keys)
	if c.keyI < 0 || c.keyI >= n {
		c.keyI = n
		c.valLo, c.valHi, c.valI = 0, 0, 0
		c.setValBounds()
		return
	}
	c.valLo = c.batch.keyOff[c.keyI]
	c.valHi = c.batch.keyOff[c.keyI+1]
	c.valI = c.valLo
	c.setValBounds()
}

func (c *Cursor[K, V, T, R]) setValBounds() {
	if c.valI < c.valLo || c.valI >= c.valHi {
		c.timeLo, c.timeHi = 0, 0
		return
	}
	c.timeLo = c.batch.valOff[c.valI]
	c.timeHi = c.batch.valOff[c.valI+1]
}

// KeyValid reports whether Key is safe to call.
func (c *Cursor[K, V, T, R]) KeyValid() bool {
	return c.keyI >= 0 && c.keyI < len(c.batch.keys)
}

// ValValid reports whether Val is safe to call.
func (c *Cursor[K, V, T, R]) ValValid() bool {
	return c.KeyValid() && c.valI >= c.valLo && c.valI < c.valHi
}

// Key returns the current key. Panics if !KeyValid().
func (c *Cursor[K, V, T, R]) Key() K { return c.batch.keys[c.keyI] }

// Val returns the current val. Panics if !ValValid().
func (c *Cursor[K, V, T, R]) Val() V { return c.batch.vals[c.valI] }

// MapTimes invokes f once per (time, diff) stored under the current
// (key, val) pair, in storage order.
func (c *Cursor[K, V, T, R]) MapTimes(f func(t T, r R)) {
	for i := c.timeLo; i < c.timeHi; i++ {
		f(c.batch.times[i], c.batch.diffs[i])
	}
}

// StepKey advances to the next key and rewinds to its first val.
func (c *Cursor[K, V, T, R]) StepKey() bool {
	if c.keyI < len(c.batch.keys) {
		c.keyI++
	}
	c.setKeyBounds()
	return c.KeyValid()
}

// StepVal advances to the next val under the current key.
func (c *Cursor[K, V, T, R]) StepVal() bool {
	if c.valI < c.valHi {
		c.valI++
	}
	c.setValBounds()
	return c.ValValid()
}

// SeekKey advances to the least key >= k.
func (c *Cursor[K, V, T, R]) SeekKey(k K) bool {
	c.keyI = advance(c.keyI, len(c.batch.keys), func(i int) K { return c.batch.keys[i] }, c.batch.cmpKey, k)
	c.setKeyBounds()
	return c.KeyValid()
}

// SeekVal advances to the least val >= v under the current key.
func (c *Cursor[K, V, T, R]) SeekVal(v V) bool {
	c.valI = advance(c.valI, c.valHi, func(i int) V { return c.batch.vals[i] }, c.batch.cmpVal, v)
	c.setValBounds()
	return c.ValValid()
}

// RewindKeys resets the cursor to the batch's first key.
func (c *Cursor[K, V, T, R]) RewindKeys() {
	c.keyI = 0
	c.setKeyBounds()
}

// RewindVals resets to the current key's first val.
func (c *Cursor[K, V, T, R]) RewindVals() {
	c.valI = c.valLo
	c.setValBounds()
}

// ValRange returns the current key's val range as indices into the
// batch's underlying vals array — the same [lo, hi) span ints.Interval
// models elsewhere in the teacher's codebase for bounds bookkeeping.
// Intended for diagnostics (e.g. reporting how wide a key's fan-out is)
// rather than for cursor traversal itself.
func (c *Cursor[K, V, T, R]) ValRange() ints.Interval {
	return ints.Interval{Start: c.valLo, End: c.valHi}
}

// TimeRange returns the current (key, val) pair's time range as indices
// into the batch's underlying times/diffs arrays.
func (c *Cursor[K, V, T, R]) TimeRange() ints.Interval {
	return ints.Interval{Start: c.timeLo, End: c.timeHi}
}
