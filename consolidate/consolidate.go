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

// Package consolidate reduces an arbitrary multiset of (data, time, diff)
// triples to canonical form: sorted by (data, time), one entry per distinct
// (data, time) holding the summed diff, with zero-diff entries discarded
// (spec.md §4.1). It underlies both the batcher's chunk merging and any
// reduce-shaped operator built atop the cursor/trace contracts.
package consolidate

import "golang.org/x/exp/slices"

// Update is the (data, time, diff) triple consolidation operates over. Data
// is typically itself a (key, val) pair once batch.Builder is the caller;
// consolidate has no opinion on its structure, only on the comparator the
// caller supplies.
type Update[D any, T any, R any] struct {
	Data D
	Time T
	Diff R
}

// diff is the minimal operation set consolidate needs from R, duplicated
// here (rather than imported from package diff) so that consolidate has no
// dependency on diff's package-level types; any R satisfying this shape
// works, including diff.Int64 and diff.Vector.
type diff[R any] interface {
	IsZero() bool
	Add(R) R
}

// Compare orders two Updates by (Data, Time) only, ignoring Diff, exactly
// the sort key spec.md §4.1 specifies. A zero result means the two updates
// share a (Data, Time) key and should be accumulated together.
type Compare[D any, T any, R any] func(a, b *Update[D, T, R]) int

// Slice sorts s by (Data, Time) and sums the Diff of every run of equal
// keys in place, returning the length of the surviving (non-zero) prefix.
// The caller is expected to reslice: s = s[:Slice(s, cmp)]. Slice never
// allocates beyond what the sort itself needs.
func Slice[D any, T any, R diff[R]](s []Update[D, T, R], cmp Compare[D, T, R]) int {
	if len(s) <= 1 {
		n := 0
		for i := range s {
			if !s[i].Diff.IsZero() {
				s[n] = s[i]
				n++
			}
		}
		return n
	}
	slices.SortFunc(s, func(a, b Update[D, T, R]) bool {
		return cmp(&a, &b) < 0
	})

	offset := 0
	accum := s[0].Diff
	for i := 1; i < len(s); i++ {
		if cmp(&s[i-1], &s[i]) == 0 {
			accum = accum.Add(s[i].Diff)
			continue
		}
		if !accum.IsZero() {
			s[offset], s[i-1] = s[i-1], s[offset]
			s[offset].Diff = accum
			offset++
		}
		accum = s[i].Diff
	}
	if !accum.IsZero() {
		s[offset], s[len(s)-1] = s[len(s)-1], s[offset]
		s[offset].Diff = accum
		offset++
	}
	return offset
}

// Updates sorts and consolidates s, returning the consolidated prefix
// (s[:n], reusing s's backing array — callers that need the original
// length preserved should pass a copy).
func Updates[D any, T any, R diff[R]](s []Update[D, T, R], cmp Compare[D, T, R]) []Update[D, T, R] {
	return s[:Slice(s, cmp)]
}
