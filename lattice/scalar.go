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

import "golang.org/x/exp/constraints"

// Scalar wraps any totally ordered built-in (golang.org/x/exp/
// constraints.Ordered, from the same constraints package whose Integer and
// Unsigned constraints ints/ uses for its bit and alignment helpers) as a
// Timestamp whose lattice operations are
// simply min/max. This is the natural T for dataflow programs that only
// need a plain logical clock (an integer epoch counter, a float sequence
// number, and so on).
type Scalar[T constraints.Ordered] struct {
	Value T
}

// LessEqual implements Timestamp.
func (s Scalar[T]) LessEqual(other Timestamp) bool {
	return s.Value <= other.(Scalar[T]).Value
}

// Join implements Timestamp: the join of two totally ordered scalars is
// simply their maximum.
func (s Scalar[T]) Join(other Timestamp) Timestamp {
	o := other.(Scalar[T])
	if o.Value > s.Value {
		return o
	}
	return s
}

var _ Timestamp = Scalar[int]{}

// Min returns the minimum Scalar timestamp for a zero-valued T. Callers
// needing a non-zero minimum (e.g. a custom epoch) should construct
// Scalar[T]{Value: v} directly; the core never assumes a particular
// minimum and always takes one as an explicit constructor argument (see
// batcher.New, spine.New), rather than deriving it from T's zero value.
func Min[T constraints.Ordered]() Scalar[T] {
	var zero T
	return Scalar[T]{Value: zero}
}
