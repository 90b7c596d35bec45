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

package cursor

import "github.com/TimelyDataflow/differential-dataflow-sub001/heap"

// CompareFunc orders two values of X, returning <0, 0, >0.
type CompareFunc[X any] func(a, b X) int

// List presents N underlying cursors as a single cursor over their merged,
// deduplicated key/val order (spec.md §4.2 "Cursor lists"). It never
// materializes the merged sequence: active holds the cursor indices not
// currently at the least key, ordered as a min-heap by Key() so the next
// least key is always found in O(log N); group holds the (typically few)
// cursor indices that share the current least key, scanned linearly to
// find the current least val, since a merge's fan-in is small in practice.
// This trades the source implementation's index-resorting algorithm for a
// plain heap plus linear scan, kept because it is far simpler to get right
// and performs the same asymptotically for realistic fan-ins.
type List[K any, V any, T any, R any] struct {
	cursors []Cursor[K, V, T, R]
	cmpKey  CompareFunc[K]
	cmpVal  CompareFunc[V]

	active []int
	group  []int

	valGroup []int
}

var _ Cursor[int, int, int, int] = (*List[int, int, int, int])(nil)

// NewList constructs a List over cursors, immediately rewinding it to the
// least key among them.
func NewList[K any, V any, T any, R any](cursors []Cursor[K, V, T, R], cmpKey CompareFunc[K], cmpVal CompareFunc[V]) *List[K, V, T, R] {
	l := &List[K, V, T, R]{cursors: cursors, cmpKey: cmpKey, cmpVal: cmpVal}
	l.RewindKeys()
	return l
}

func (l *List[K, V, T, R]) keyLess(i, j int) bool {
	return l.cmpKey(l.cursors[i].Key(), l.cursors[j].Key()) < 0
}

// rebuildGroup pops every active index sharing the current least key into
// group, then recomputes the val-level group under it.
func (l *List[K, V, T, R]) rebuildGroup() {
	l.group = l.group[:0]
	for len(l.active) > 0 {
		if len(l.group) == 0 {
			l.group = append(l.group, heap.PopSlice(&l.active, l.keyLess))
			continue
		}
		if l.cmpKey(l.cursors[l.active[0]].Key(), l.cursors[l.group[0]].Key()) != 0 {
			break
		}
		l.group = append(l.group, heap.PopSlice(&l.active, l.keyLess))
	}
	l.rebuildValGroup()
}

// rebuildValGroup scans group (bounded by the merge's fan-in) for the
// cursors currently holding the least val under the current key.
func (l *List[K, V, T, R]) rebuildValGroup() {
	l.valGroup = l.valGroup[:0]
	best := -1
	for _, idx := range l.group {
		if !l.cursors[idx].ValValid() {
			continue
		}
		switch {
		case best == -1 || l.cmpVal(l.cursors[idx].Val(), l.cursors[best].Val()) < 0:
			best = idx
			l.valGroup = append(l.valGroup[:0], idx)
		case l.cmpVal(l.cursors[idx].Val(), l.cursors[best].Val()) == 0:
			l.valGroup = append(l.valGroup, idx)
		}
	}
}

// KeyValid reports whether any underlying cursor still has a valid key.
func (l *List[K, V, T, R]) KeyValid() bool { return len(l.group) > 0 }

// ValValid reports whether any cursor sharing the current key has a valid val.
func (l *List[K, V, T, R]) ValValid() bool { return len(l.valGroup) > 0 }

// Key returns the least key among the underlying cursors.
func (l *List[K, V, T, R]) Key() K { return l.cursors[l.group[0]].Key() }

// Val returns the least val among cursors sharing the current key.
func (l *List[K, V, T, R]) Val() V { return l.cursors[l.valGroup[0]].Val() }

// MapTimes invokes f once per (time, diff) across every cursor sharing the
// current (key, val), in no particular cross-cursor order.
func (l *List[K, V, T, R]) MapTimes(f func(t T, r R)) {
	for _, idx := range l.valGroup {
		l.cursors[idx].MapTimes(f)
	}
}

// StepKey advances every cursor at the current key past it and recomputes
// the merged position.
func (l *List[K, V, T, R]) StepKey() bool {
	for _, idx := range l.group {
		if l.cursors[idx].StepKey() {
			heap.PushSlice(&l.active, idx, l.keyLess)
		}
	}
	l.rebuildGroup()
	return l.KeyValid()
}

// StepVal advances every cursor at the current val past it and recomputes
// the merged val position under the current key.
func (l *List[K, V, T, R]) StepVal() bool {
	for _, idx := range l.valGroup {
		l.cursors[idx].StepVal()
	}
	l.rebuildValGroup()
	return l.ValValid()
}

// SeekKey advances every underlying cursor to its least key >= k.
func (l *List[K, V, T, R]) SeekKey(k K) bool {
	all := make([]int, 0, len(l.group)+len(l.active))
	all = append(all, l.group...)
	all = append(all, l.active...)

	l.active = l.active[:0]
	for _, idx := range all {
		if l.cursors[idx].SeekKey(k) {
			l.active = append(l.active, idx)
		}
	}
	heap.OrderSlice(l.active, l.keyLess)
	l.rebuildGroup()
	return l.KeyValid()
}

// SeekVal advances every cursor sharing the current key to its least val >= v.
func (l *List[K, V, T, R]) SeekVal(v V) bool {
	for _, idx := range l.group {
		l.cursors[idx].SeekVal(v)
	}
	l.rebuildValGroup()
	return l.ValValid()
}

// RewindKeys resets every underlying cursor and recomputes the merged
// least-key position.
func (l *List[K, V, T, R]) RewindKeys() {
	for _, c := range l.cursors {
		c.RewindKeys()
	}
	l.active = l.active[:0]
	for i, c := range l.cursors {
		if c.KeyValid() {
			l.active = append(l.active, i)
		}
	}
	heap.OrderSlice(l.active, l.keyLess)
	l.rebuildGroup()
}

// RewindVals resets every cursor sharing the current key to its first val.
func (l *List[K, V, T, R]) RewindVals() {
	for _, idx := range l.group {
		l.cursors[idx].RewindVals()
	}
	l.rebuildValGroup()
}
