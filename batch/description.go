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

// Package batch implements the immutable, trie-structured batch (spec.md
// §3 "Batch (trie layout)"), its Builder, and the cursor protocol over it
// (spec.md §4.2). A batch is a four-level trie stored as four parallel
// arrays — keys, vals, times, diffs — plus two offset arrays tying key to
// val range and val to time range.
package batch

import "github.com/TimelyDataflow/differential-dataflow-sub001/lattice"

// Description labels a batch with the half-open time interval it covers and
// its logical compaction frontier (spec.md §3 "Description"):
//
//   - Lower <= t < Upper for every update time t in the batch.
//   - Since is the logical compaction frontier: any two times that compare
//     identically to every time >= some element of Since may have been
//     coalesced.
type Description struct {
	Lower, Upper, Since lattice.Frontier
}

// NewDescription constructs a Description from its three frontiers.
func NewDescription(lower, upper, since lattice.Frontier) Description {
	return Description{Lower: lower, Upper: upper, Since: since}
}
