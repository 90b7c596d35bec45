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

// Package spine implements the log-structured trace of spec.md §4.4: an
// append-only sequence of immutable batches organized into geometrically
// sized levels, merged progressively in the background, with independent
// logical and physical compaction frontiers and multi-reader access.
//
// Batch lifetime here is ordinary Go garbage collection rather than the
// explicit reference counting spec.md §9 describes — a batch stays alive
// exactly as long as some slot or cursor.List still reaches it, which is
// what reference counting buys a non-GC'd language for free.
package spine

import (
	"github.com/TimelyDataflow/differential-dataflow-sub001/batch"
	"github.com/TimelyDataflow/differential-dataflow-sub001/cursor"
	"github.com/TimelyDataflow/differential-dataflow-sub001/diff"
	"github.com/TimelyDataflow/differential-dataflow-sub001/lattice"
)

// LevelStat summarizes one spine level for an Exert policy function.
type LevelStat struct {
	Level  int
	Count  int
	Length int
}

// Spine is a log-structured trace: a sequence of merge-state slots
// indexed by size class, with reader handles reserving logical and
// physical compaction frontiers (spec.md §4.4).
type Spine[K any, V any, T lattice.Timestamp, R diff.Diff[R]] struct {
	cmpKey  batch.CompareFunc[K]
	cmpVal  batch.CompareFunc[V]
	cmpTime batch.CompareFunc[T]

	mergeEffortMultiple int

	slots []slot[K, V, T, R]

	initialLower  lattice.Frontier
	expectedLower lattice.Frontier

	writerLogical  lattice.Frontier
	writerPhysical lattice.Frontier
	readers        []*Reader

	// Logf, if non-nil, is called on merge completion and reader
	// lifecycle events for operator-level diagnostics, keyed by the
	// involved Reader's UUID where applicable (db/queue.go's Logf
	// pattern).
	Logf func(format string, args ...interface{})
}

// New constructs an empty Spine whose first inserted batch must have
// Description.Lower equal to lower. mergeEffortMultiple is spec.md §6's
// "merge_effort_multiple" tunable: fuel issued per inserted tuple.
func New[K any, V any, T lattice.Timestamp, R diff.Diff[R]](cmpKey batch.CompareFunc[K], cmpVal batch.CompareFunc[V], cmpTime batch.CompareFunc[T], lower lattice.Frontier, mergeEffortMultiple int) *Spine[K, V, T, R] {
	if mergeEffortMultiple <= 0 {
		mergeEffortMultiple = 1
	}
	return &Spine[K, V, T, R]{
		cmpKey:              cmpKey,
		cmpVal:              cmpVal,
		cmpTime:             cmpTime,
		mergeEffortMultiple: mergeEffortMultiple,
		initialLower:        lower.Clone(),
		expectedLower:       lower.Clone(),
		writerLogical:       lattice.NewFrontier(),
		writerPhysical:      lattice.NewFrontier(),
	}
}

func (s *Spine[K, V, T, R]) logf(format string, args ...interface{}) {
	if s.Logf != nil {
		s.Logf(format, args...)
	}
}

func (s *Spine[K, V, T, R]) effectiveLogical() lattice.Frontier {
	f := s.writerLogical
	for _, r := range s.readers {
		f = f.Join(r.logical)
	}
	return f
}

func (s *Spine[K, V, T, R]) effectivePhysical() lattice.Frontier {
	f := s.writerPhysical
	for _, r := range s.readers {
		f = f.Join(r.physical)
	}
	return f
}

// Insert places batch b into the spine, synthesizing an empty filler
// batch first if b's lower doesn't abut the spine's current upper
// (spec.md §4.4 "Insertion" step 1), then opportunistically cascading
// fuel to in-progress mergers (step 3). Insert panics if b.Lower precedes
// the spine's expected lower — a programmer contract violation (spec.md
// §7).
func (s *Spine[K, V, T, R]) Insert(b *batch.Batch[K, V, T, R]) {
	lower := b.Description().Lower
	if !s.expectedLower.LessEqual(lower) {
		panic("spine: Insert called with a batch whose lower precedes the spine's expected lower")
	}
	if !s.expectedLower.Equal(lower) {
		gap := batch.Seal[K, V, T, R](s.cmpKey, s.cmpVal, nil, batch.NewDescription(s.expectedLower, lower, s.effectiveLogical()))
		s.placeAt(sizeClass(gap.Len()), gap)
	}
	s.placeAt(sizeClass(b.Len()), b)
	s.cascadeFuel(b.Len())
}

// placeAt installs b at level k, pairing it with a resident Single into a
// Double (in-progress merger) or, if level k already holds an in-progress
// merger, cascading b to the next level up (spec.md §4.4 "Structure": at
// most one in-progress merge per level).
func (s *Spine[K, V, T, R]) placeAt(k int, b *batch.Batch[K, V, T, R]) {
	for k >= len(s.slots) {
		s.slots = append(s.slots, slot[K, V, T, R]{})
	}
	sl := &s.slots[k]
	switch {
	case sl.empty():
		sl.single = b
	case sl.merger != nil:
		s.placeAt(k+1, b)
		return
	default:
		resident := sl.single
		sl.single = nil
		sl.merger = newMerger(resident, b, s.effectiveLogical(), s.cmpKey, s.cmpVal, s.cmpTime, k)
	}
	s.expectedLower = b.Description().Upper.Clone()
}

// cascadeFuel distributes mergeEffortMultiple * newBatchLen fuel across
// every in-progress merger, deepest level first (spec.md §4.4 "Fueled
// merging").
func (s *Spine[K, V, T, R]) cascadeFuel(newBatchLen int) {
	total := s.mergeEffortMultiple * newBatchLen
	if total <= 0 {
		return
	}
	var active []int
	for lvl := len(s.slots) - 1; lvl >= 0; lvl-- {
		if s.slots[lvl].merger != nil {
			active = append(active, lvl)
		}
	}
	if len(active) == 0 {
		return
	}
	share := total / len(active)
	if share == 0 {
		share = total
	}
	for _, lvl := range active {
		sl := &s.slots[lvl]
		if sl.merger == nil {
			continue
		}
		if sl.merger.work(share) {
			sl.single = sl.merger.result
			sl.merger = nil
			s.logf("spine merge complete: level=%d", lvl)
		}
	}
}

// Exert offers the spine a chance to do merge work absent a new insert
// (spec.md §4.4 "Exertion"). policy receives a snapshot of every level's
// occupancy and returns a fuel amount to spend on the deepest non-trivial
// merger, or ok=false to decline.
func (s *Spine[K, V, T, R]) Exert(policy func(levels []LevelStat) (fuel int, ok bool)) {
	levels := make([]LevelStat, len(s.slots))
	for lvl := range s.slots {
		sl := &s.slots[lvl]
		switch {
		case sl.single != nil:
			levels[lvl] = LevelStat{Level: lvl, Count: 1, Length: sl.single.Len()}
		case sl.merger != nil:
			levels[lvl] = LevelStat{Level: lvl, Count: 2}
		default:
			levels[lvl] = LevelStat{Level: lvl}
		}
	}
	fuel, ok := policy(levels)
	if !ok || fuel <= 0 {
		return
	}
	for lvl := len(s.slots) - 1; lvl >= 0; lvl-- {
		sl := &s.slots[lvl]
		if sl.merger == nil {
			continue
		}
		if sl.merger.work(fuel) {
			sl.single = sl.merger.result
			sl.merger = nil
			s.logf("spine merge complete (exert): level=%d", lvl)
		}
		return
	}
}

// Cursor snapshots every currently live batch — including both inputs of
// any in-progress merger — and returns a merged cursor over them (spec.md
// §4.4 "Cursor acquisition").
func (s *Spine[K, V, T, R]) Cursor() (*cursor.List[K, V, T, R], []*batch.Batch[K, V, T, R]) {
	var batches []*batch.Batch[K, V, T, R]
	for lvl := range s.slots {
		sl := &s.slots[lvl]
		if sl.single != nil {
			batches = append(batches, sl.single)
		}
		if sl.merger != nil {
			batches = append(batches, sl.merger.a, sl.merger.b)
		}
	}
	cursors := make([]cursor.Cursor[K, V, T, R], len(batches))
	for i, b := range batches {
		cursors[i] = b.Cursor()
	}
	return cursor.NewList(cursors, s.cmpKey, s.cmpVal), batches
}

// CursorThrough restricts the snapshot to resting (Single) batches whose
// Upper is <= upper, succeeding only if that set forms a contiguous,
// gapless run from the spine's initial lower to exactly upper — a "clean
// cut" in spec.md §4.4's terms. It does not look inside in-progress
// mergers, so a boundary hidden behind an active merge is reported as "no
// clean cut" rather than reconstructed from the merger's inputs.
func (s *Spine[K, V, T, R]) CursorThrough(upper lattice.Frontier) (*cursor.List[K, V, T, R], []*batch.Batch[K, V, T, R], bool) {
	var resting []*batch.Batch[K, V, T, R]
	for lvl := range s.slots {
		if s.slots[lvl].single != nil {
			resting = append(resting, s.slots[lvl].single)
		}
	}
	ordered := orderContiguous(resting, s.initialLower)

	var prefix []*batch.Batch[K, V, T, R]
	cur := s.initialLower
	for _, b := range ordered {
		if !b.Description().Upper.LessEqual(upper) {
			break
		}
		prefix = append(prefix, b)
		cur = b.Description().Upper
	}
	if !cur.Equal(upper) {
		return nil, nil, false
	}
	cursors := make([]cursor.Cursor[K, V, T, R], len(prefix))
	for i, b := range prefix {
		cursors[i] = b.Cursor()
	}
	return cursor.NewList(cursors, s.cmpKey, s.cmpVal), prefix, true
}

// orderContiguous sorts batches into the chain order implied by
// lower==start, batches[i].Upper==batches[i+1].Lower.
func orderContiguous[K any, V any, T any, R any](batches []*batch.Batch[K, V, T, R], start lattice.Frontier) []*batch.Batch[K, V, T, R] {
	used := make([]bool, len(batches))
	ordered := make([]*batch.Batch[K, V, T, R], 0, len(batches))
	cur := start
	for len(ordered) < len(batches) {
		found := -1
		for i, b := range batches {
			if used[i] {
				continue
			}
			if b.Description().Lower.Equal(cur) {
				found = i
				break
			}
		}
		if found == -1 {
			break
		}
		used[found] = true
		ordered = append(ordered, batches[found])
		cur = batches[found].Description().Upper
	}
	return ordered
}

// MapBatches invokes f once per currently live batch, including both
// inputs of in-progress mergers (spec.md §6 "map_batches").
func (s *Spine[K, V, T, R]) MapBatches(f func(*batch.Batch[K, V, T, R])) {
	for lvl := range s.slots {
		sl := &s.slots[lvl]
		if sl.single != nil {
			f(sl.single)
		}
		if sl.merger != nil {
			f(sl.merger.a)
			f(sl.merger.b)
		}
	}
}

// ReadUpper reports the spine's current upper: the upper of the
// last-inserted batch, empty or otherwise (spec.md §6 "read_upper").
func (s *Spine[K, V, T, R]) ReadUpper() lattice.Frontier {
	return s.expectedLower.Clone()
}

// AddReader registers a new Reader with the given initial logical and
// physical reservations.
func (s *Spine[K, V, T, R]) AddReader(logical, physical lattice.Frontier) *Reader {
	r := newReader(logical, physical)
	s.readers = append(s.readers, r)
	s.logf("reader added: id=%s", r.ID)
	return r
}

// RemoveReader drops r's reservations, matching spec.md §4.4's "dropping
// the handle releases both."
func (s *Spine[K, V, T, R]) RemoveReader(r *Reader) {
	for i, x := range s.readers {
		if x == r {
			s.readers = append(s.readers[:i], s.readers[i+1:]...)
			s.logf("reader removed: id=%s", r.ID)
			return
		}
	}
}

// SetLogicalCompaction advances r's logical reservation. Panics if f
// moves the reservation backwards (spec.md §7).
func (s *Spine[K, V, T, R]) SetLogicalCompaction(r *Reader, f lattice.Frontier) {
	if !r.logical.LessEqual(f) {
		panic("spine: SetLogicalCompaction moved a reader's reservation backwards")
	}
	r.setLogicalCompaction(f)
}

// SetPhysicalCompaction advances r's physical reservation. Panics if f
// moves the reservation backwards (spec.md §7).
func (s *Spine[K, V, T, R]) SetPhysicalCompaction(r *Reader, f lattice.Frontier) {
	if !r.physical.LessEqual(f) {
		panic("spine: SetPhysicalCompaction moved a reader's reservation backwards")
	}
	r.setPhysicalCompaction(f)
}
