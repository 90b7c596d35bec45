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

// Package lattice defines the timestamp and frontier vocabulary that the
// trace/batch/cursor/batcher/spine core is generic over ("T" in the update
// tuple, spec.md §3). A Timestamp is partially ordered and has a join; the
// Timestamp interface offers LessEqual and Join only, with no meet and no
// minimum element. A Frontier is a minimal antichain of
// timestamps, interpreted as "the times at or above some element of the
// frontier" (spec.md §3 "Frontiers").
//
// The core's merge and consolidation algorithms are correct for any
// lattice, but several optimizations (short-circuiting a batch merge when
// two heads compare unequal) assume a total order; see the "partially
// ordered times" open question in spec.md §9, resolved in DESIGN.md.
package lattice

// Timestamp is any value that participates in the partial order and lattice
// operations the core needs: comparison (LessEqual) and least-upper-bound
// (Join). A concrete implementation is responsible for its own equality,
// typically via comparable struct fields or Go's built-in == on simple
// types wrapped by Scalar.
type Timestamp interface {
	// LessEqual reports whether the receiver is less than or equal to
	// other in the partial order. Implementations must panic if other is
	// not a timestamp of a compatible concrete type, the same contract
	// Join uses.
	LessEqual(other Timestamp) bool
	// Join returns the least upper bound of the receiver and other: the
	// smallest timestamp greater than or equal to both. This is the
	// operation spec.md §9 calls "meet" when describing logical
	// compaction coarsening a time up to a frontier element; concretely
	// it is a join (advancing forward), see Frontier.Advance.
	Join(other Timestamp) Timestamp
}

// Equal reports whether a and b denote the same point in the partial order,
// i.e. a <= b and b <= a. This is defined in terms of LessEqual so that
// concrete Timestamp types never need to implement a separate equality
// method.
func Equal(a, b Timestamp) bool {
	return a.LessEqual(b) && b.LessEqual(a)
}
