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

// Product is the lexicographic product of two timestamps, the shape
// spec.md §9 names for the "iterate until fixed point" pattern: an outer
// timestamp paired with an inner iteration counter, ordered first by Outer
// and, when Outer is equal, by Inner. This is exactly the timestamp a
// feedback loop around a subgraph needs: one component advances with the
// enclosing scope's input, the other increments on every trip around the
// loop.
//
// The core makes no use of Product itself (iteration is a property of the
// surrounding scheduler, out of scope per spec.md §1/§9); it is provided so
// that a scheduler embedding this core has a ready-made T to instantiate
// Batcher/Spine with.
type Product struct {
	Outer Timestamp
	Inner Scalar[int]
}

// LessEqual implements Timestamp using lexicographic order: Outer is
// compared first, and only consulted Inner when the two Outer components
// are equal.
func (p Product) LessEqual(other Timestamp) bool {
	o := other.(Product)
	if !Equal(p.Outer, o.Outer) {
		return p.Outer.LessEqual(o.Outer)
	}
	return p.Inner.LessEqual(o.Inner)
}

// Join implements Timestamp.
func (p Product) Join(other Timestamp) Timestamp {
	o := other.(Product)
	if Equal(p.Outer, o.Outer) {
		return Product{Outer: p.Outer, Inner: p.Inner.Join(o.Inner).(Scalar[int])}
	}
	if p.Outer.LessEqual(o.Outer) {
		return o
	}
	return p
}

// IncrementIteration returns a Product one trip further around a feedback
// loop: the same Outer timestamp with Inner advanced by one. This is the
// "feedback path that increments iteration_count" spec.md §9 requires of
// the embedding scheduler's timestamp type.
func (p Product) IncrementIteration() Product {
	return Product{Outer: p.Outer, Inner: Scalar[int]{Value: p.Inner.Value + 1}}
}

var _ Timestamp = Product{}
