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

package spine

import (
	"github.com/TimelyDataflow/differential-dataflow-sub001/batch"
	"github.com/TimelyDataflow/differential-dataflow-sub001/consolidate"
	"github.com/TimelyDataflow/differential-dataflow-sub001/cursor"
	"github.com/TimelyDataflow/differential-dataflow-sub001/diff"
	"github.com/TimelyDataflow/differential-dataflow-sub001/lattice"
)

// merger holds the partial-progress state for combining two batches into
// one (spec.md §4.4 "Fueled merging"). It walks both inputs through a
// cursor.List, advancing each time against the compaction frontier in
// effect when the merger was created, consolidating the (now possibly
// colliding) times under each (key, val), and pushing the surviving
// tuples into a builder. work(fuel) resumes exactly where the previous
// call left off, since the underlying cursor.List is itself stateful.
type merger[K any, V any, T lattice.Timestamp, R diff.Diff[R]] struct {
	// a and b are the merger's two input batches, retained (beyond what
	// the cursor.List needs) so Spine.Cursor/MapBatches can still visit
	// both inputs of an in-progress merge (spec.md §4.4 "Cursor
	// acquisition": "visiting both inputs of an in-progress merge").
	a, b *batch.Batch[K, V, T, R]

	list    *cursor.List[K, V, T, R]
	builder *batch.Builder[K, V, T, R]
	desc    batch.Description

	cmpTime batch.CompareFunc[T]

	level int

	done   bool
	result *batch.Batch[K, V, T, R]
}

func newMerger[K any, V any, T lattice.Timestamp, R diff.Diff[R]](a, b *batch.Batch[K, V, T, R], compaction lattice.Frontier, cmpKey batch.CompareFunc[K], cmpVal batch.CompareFunc[V], cmpTime batch.CompareFunc[T], level int) *merger[K, V, T, R] {
	list := cursor.NewList([]cursor.Cursor[K, V, T, R]{a.Cursor(), b.Cursor()}, cmpKey, cmpVal)
	builder := batch.NewBuilder[K, V, T, R](cmpKey, cmpVal)
	desc := batch.NewDescription(a.Description().Lower, b.Description().Upper, compaction)
	return &merger[K, V, T, R]{
		a:       a,
		b:       b,
		list:    list,
		builder: builder,
		desc:    desc,
		cmpTime: cmpTime,
		level:   level,
	}
}

// work moves up to fuel output tuples from the merger's inputs to its
// builder, returning true once the merger has fully drained both inputs
// and installed its result. Safe to call repeatedly; each call picks up
// where the last left off (spec.md §4.4: "a work(fuel) call ... returns;
// ... re-entrant").
func (m *merger[K, V, T, R]) work(fuel int) bool {
	if m.done {
		return true
	}
	spent := 0
	for m.list.KeyValid() && spent < fuel {
		for m.list.ValValid() && spent < fuel {
			var times []consolidate.Update[struct{}, T, R]
			m.list.MapTimes(func(t T, r R) {
				advanced := m.desc.Since.Advance(t).(T)
				times = append(times, consolidate.Update[struct{}, T, R]{Time: advanced, Diff: r})
			})
			times = consolidate.Updates(times, func(a, b *consolidate.Update[struct{}, T, R]) int {
				return m.cmpTime(a.Time, b.Time)
			})
			if len(times) > 0 {
				chunk := make([]batch.Tuple[K, V, T, R], len(times))
				key, val := m.list.Key(), m.list.Val()
				for i, u := range times {
					chunk[i] = batch.Tuple[K, V, T, R]{Key: key, Val: val, Time: u.Time, Diff: u.Diff}
				}
				m.builder.Push(chunk)
				spent += len(chunk)
			}
			m.list.StepVal()
		}
		if m.list.ValValid() {
			// Fuel ran out part-way through this key's vals; the next
			// call resumes at the current val.
			break
		}
		m.list.StepKey()
	}
	if !m.list.KeyValid() {
		m.result = m.builder.Done(m.desc)
		m.done = true
		return true
	}
	return false
}
