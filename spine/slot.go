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

import "github.com/TimelyDataflow/differential-dataflow-sub001/batch"

// slot is one merge-state entry in the spine, indexed by size class
// (spec.md §4.4 "Structure"): Empty, a finished Single batch, or a Double
// holding the two inputs of an in-progress merger. A batch is placed at
// level sizeClass(len), so a newly placed Single at level k holds at most
// 2^k tuples. A merger occupies the same slot as its inputs and, on
// completion, its result stays in that slot as a Single; it is not moved to
// the next level, so a merged Single at level k can hold more than 2^k
// tuples.
type slot[K any, V any, T any, R any] struct {
	single *batch.Batch[K, V, T, R]
	merger *merger[K, V, T, R]
}

func (s *slot[K, V, T, R]) empty() bool { return s.single == nil && s.merger == nil }

// sizeClass returns the smallest k such that n <= 2^k, matching spec.md's
// "smallest size class >= its size" placement rule. Size 0 is the
// degenerate level 0, letting an empty or one-tuple batch sit at the
// bottom of the spine.
func sizeClass(n int) int {
	k := 0
	cap := 1
	for cap < n {
		cap *= 2
		k++
	}
	return k
}
