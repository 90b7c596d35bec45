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

package lattice

import "golang.org/x/exp/slices"

// Frontier is a minimal antichain of timestamps (spec.md §3): no element of
// a well-formed Frontier is LessEqual any other element. A nil or empty
// Frontier is the terminal frontier ("no such times").
//
// Frontier values returned by this package's own constructors
// (NewFrontier, Join, Advance's caller) are always minimal; callers that
// build a Frontier by hand (e.g. append-ing directly) are responsible for
// calling Minimize before relying on minimality.
type Frontier []Timestamp

// NewFrontier builds a minimal Frontier from an arbitrary set of
// timestamps, discarding any element dominated by another.
func NewFrontier(ts ...Timestamp) Frontier {
	return Frontier(ts).Minimize()
}

// Covers reports whether t is "at or after" the frontier: some element of
// the frontier is LessEqual t. An empty frontier covers nothing.
func (f Frontier) Covers(t Timestamp) bool {
	for _, e := range f {
		if e.LessEqual(t) {
			return true
		}
	}
	return false
}

// Advance returns the timestamp t should be coarsened to under logical
// compaction by this frontier (spec.md §4.4 "logical_compaction"): the
// smallest frontier element that dominates t, if one exists, else t
// unchanged. A time already at or beyond the frontier (no frontier element
// dominates it) needs no coarsening; this is the update spec.md §9 calls
// "replacing t with the meet of t and the compaction frontier" (the
// operation is a join of t up to the dominating frontier element, written
// "meet" in the spec's own phrasing of coarsening towards a frontier).
//
// This is exact for a total order. For a genuine partial order with
// several incomparable dominating frontier elements, this returns the
// first dominator found rather than their true meet; spec.md §9 flags this
// area as an open question and states the core's optimizations already
// assume cheap lattice joins, so callers requiring partial-order precision
// should not rely on Advance alone (see DESIGN.md).
func (f Frontier) Advance(t Timestamp) Timestamp {
	var result Timestamp
	for _, e := range f {
		if !t.LessEqual(e) {
			continue
		}
		if result == nil || e.LessEqual(result) {
			result = e
		}
	}
	if result == nil {
		return t
	}
	return result
}

// Join returns the union of two frontiers, minimized. This is how a
// writer's and several readers' reservations are combined into the spine's
// effective logical/physical frontier (spec.md §4.4: "the meet of the
// writer's and all readers' reservations" — implemented here, as
// elsewhere, as the pointwise minimal antichain of the union, which is the
// greatest lower bound of the reservations in the frontier order).
func (f Frontier) Join(other Frontier) Frontier {
	merged := make(Frontier, 0, len(f)+len(other))
	merged = append(merged, f...)
	merged = append(merged, other...)
	return merged.Minimize()
}

// Minimize removes every element dominated by another element of f,
// returning the resulting minimal antichain. The input slice is not
// mutated; Minimize allocates a new slice sized to the result.
func (f Frontier) Minimize() Frontier {
	out := make(Frontier, 0, len(f))
	for i, e := range f {
		dominated := false
		for j, o := range f {
			if i == j {
				continue
			}
			// o dominates e (o <= e) and, to break ties between
			// equal elements, only the earlier index survives.
			if o.LessEqual(e) && (!e.LessEqual(o) || j < i) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, e)
		}
	}
	return out
}

// LessEqual reports whether f is no later than other: every element of
// other is covered by f. The empty (terminal) frontier is therefore later
// than every non-empty one. This is the ordering batcher.Seal and
// spine.Insert use to reject a caller moving a frontier backwards (spec.md
// §7 "programmer contract violation").
func (f Frontier) LessEqual(other Frontier) bool {
	for _, o := range other {
		if !f.Covers(o) {
			return false
		}
	}
	return true
}

// IsEmpty reports whether the frontier is the terminal (empty) frontier.
func (f Frontier) IsEmpty() bool {
	return len(f) == 0
}

// Equal reports whether two frontiers describe the same antichain,
// irrespective of element order. Both frontiers are assumed minimal.
func (f Frontier) Equal(other Frontier) bool {
	if len(f) != len(other) {
		return false
	}
	used := make([]bool, len(other))
	for _, e := range f {
		found := false
		for j, o := range other {
			if used[j] {
				continue
			}
			if Equal(e, o) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the frontier.
func (f Frontier) Clone() Frontier {
	return slices.Clone(f)
}
