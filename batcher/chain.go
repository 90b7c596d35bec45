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

package batcher

import "github.com/TimelyDataflow/differential-dataflow-sub001/batch"

// Chunk is one fully consolidated, sorted run of tuples (spec.md §4.3
// "Internal representation").
type Chunk[K any, V any, T any, R any] []batch.Tuple[K, V, T, R]

// chain is a sorted vector of chunks whose concatenation is itself sorted
// and consolidated (spec.md §4.3). length caches the total tuple count so
// the geometric-invariant check never has to sum chunk lengths.
type chain[K any, V any, T any, R any] struct {
	chunks []Chunk[K, V, T, R]
	length int
}

// chainIter walks a chain's chunks as one flat tuple sequence.
type chainIter[K any, V any, T any, R any] struct {
	c      *chain[K, V, T, R]
	ci, ti int
}

func newChainIter[K any, V any, T any, R any](c *chain[K, V, T, R]) *chainIter[K, V, T, R] {
	it := &chainIter[K, V, T, R]{c: c}
	it.normalize()
	return it
}

func (it *chainIter[K, V, T, R]) normalize() {
	for it.ci < len(it.c.chunks) && it.ti >= len(it.c.chunks[it.ci]) {
		it.ci++
		it.ti = 0
	}
}

func (it *chainIter[K, V, T, R]) valid() bool {
	return it.ci < len(it.c.chunks)
}

func (it *chainIter[K, V, T, R]) cur() batch.Tuple[K, V, T, R] {
	return it.c.chunks[it.ci][it.ti]
}

func (it *chainIter[K, V, T, R]) advance() {
	it.ti++
	it.normalize()
}
