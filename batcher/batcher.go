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

// Package batcher stages an unbounded, out-of-order stream of updates into
// sorted, consolidated chains and seals them into batches on demand
// (spec.md §4.3). Chains are kept in ascending length order, and the two
// smallest are merged whenever the larger is less than twice the length of
// the smaller. Other adjacent pairs are not compared, so they can differ in
// length by less than a factor of two.
package batcher

import (
	"github.com/TimelyDataflow/differential-dataflow-sub001/batch"
	"github.com/TimelyDataflow/differential-dataflow-sub001/consolidate"
	"github.com/TimelyDataflow/differential-dataflow-sub001/diff"
	"github.com/TimelyDataflow/differential-dataflow-sub001/lattice"
)

// kv is the (key, val) pair consolidate.Update's generic Data is
// instantiated with here, since consolidate has no opinion on Data's shape.
type kv[K any, V any] struct {
	Key K
	Val V
}

// Batcher accumulates pushed containers into geometric chains and seals
// them into batches (spec.md §4.3). The zero value is not usable; construct
// one with New.
type Batcher[K any, V any, T lattice.Timestamp, R diff.Diff[R]] struct {
	cmpKey  batch.CompareFunc[K]
	cmpVal  batch.CompareFunc[V]
	cmpTime batch.CompareFunc[T]

	chunkCapacity int

	chains []*chain[K, V, T, R]
	stash  []Chunk[K, V, T, R]

	lower    lattice.Frontier
	frontier lattice.Frontier
	since    lattice.Frontier

	// Logf, if non-nil, receives one call when PushContainer inserts a
	// new chain (its record and chunk counts) and one per merge made by
	// restoreInvariant (the merged chain's record count). Merges and the
	// kept chain during Seal are not logged, and no size or capacity
	// deltas are reported. Pattern matches db/gc.go's Logf field.
	Logf func(format string, args ...interface{})
}

// New constructs an empty Batcher. lower is the batcher's starting lower
// frontier (typically the trace's minimum time); since is the frontier
// stamped as the Since of every sealed batch (spec.md §4.3 step 6,
// "[T::minimum]") — supplied by the caller since Go generics cannot
// synthesize T's lattice minimum without knowing T's concrete shape.
// chunkCapacity bounds the tuple count of every chunk the batcher produces.
func New[K any, V any, T lattice.Timestamp, R diff.Diff[R]](cmpKey batch.CompareFunc[K], cmpVal batch.CompareFunc[V], cmpTime batch.CompareFunc[T], lower, since lattice.Frontier, chunkCapacity int) *Batcher[K, V, T, R] {
	if chunkCapacity <= 0 {
		panic("batcher: chunkCapacity must be positive")
	}
	return &Batcher[K, V, T, R]{
		cmpKey:        cmpKey,
		cmpVal:        cmpVal,
		cmpTime:       cmpTime,
		chunkCapacity: chunkCapacity,
		lower:         lower.Clone(),
		frontier:      lower.Clone(),
		since:         since.Clone(),
	}
}

func (b *Batcher[K, V, T, R]) cmpKV(a, c kv[K, V]) int {
	if x := b.cmpKey(a.Key, c.Key); x != 0 {
		return x
	}
	return b.cmpVal(a.Val, c.Val)
}

func (b *Batcher[K, V, T, R]) cmpUpdate(a, c *consolidate.Update[kv[K, V], T, R]) int {
	if x := b.cmpKV(a.Data, c.Data); x != 0 {
		return x
	}
	return b.cmpTime(a.Time, c.Time)
}

func (b *Batcher[K, V, T, R]) lessTuple(a, c batch.Tuple[K, V, T, R]) bool {
	if x := b.cmpKey(a.Key, c.Key); x != 0 {
		return x < 0
	}
	if x := b.cmpVal(a.Val, c.Val); x != 0 {
		return x < 0
	}
	return b.cmpTime(a.Time, c.Time) < 0
}

func (b *Batcher[K, V, T, R]) takeChunk() Chunk[K, V, T, R] {
	if n := len(b.stash); n > 0 {
		c := b.stash[n-1]
		b.stash = b.stash[:n-1]
		return c[:0]
	}
	return make(Chunk[K, V, T, R], 0, b.chunkCapacity)
}

func (b *Batcher[K, V, T, R]) stashChunk(c Chunk[K, V, T, R]) {
	if cap(c) == 0 {
		return
	}
	b.stash = append(b.stash, c[:0])
}

func (b *Batcher[K, V, T, R]) stashChain(c *chain[K, V, T, R]) {
	for _, chunk := range c.chunks {
		b.stashChunk(chunk)
	}
}

// PushContainer consolidates input and routes it into a new one-chain
// chunk sequence (spec.md §4.3: "An incoming push is routed into a
// one-chunk chain"), then restores the geometric chain invariant.
func (b *Batcher[K, V, T, R]) PushContainer(input []batch.Tuple[K, V, T, R]) {
	if len(input) == 0 {
		return
	}
	updates := make([]consolidate.Update[kv[K, V], T, R], len(input))
	for i, t := range input {
		updates[i] = consolidate.Update[kv[K, V], T, R]{Data: kv[K, V]{Key: t.Key, Val: t.Val}, Time: t.Time, Diff: t.Diff}
	}
	updates = consolidate.Updates(updates, b.cmpUpdate)
	if len(updates) == 0 {
		return
	}

	tuples := make([]batch.Tuple[K, V, T, R], len(updates))
	for i, u := range updates {
		tuples[i] = batch.Tuple[K, V, T, R]{Key: u.Data.Key, Val: u.Data.Val, Time: u.Time, Diff: u.Diff}
	}

	c := &chain[K, V, T, R]{length: len(tuples)}
	for len(tuples) > 0 {
		n := len(tuples)
		if n > b.chunkCapacity {
			n = b.chunkCapacity
		}
		chunk := b.takeChunk()
		chunk = append(chunk, tuples[:n]...)
		c.chunks = append(c.chunks, chunk)
		tuples = tuples[n:]
	}

	b.logf("chain insert: records=%d size=%d", c.length, len(c.chunks))
	b.insertChainSorted(c)
	b.restoreInvariant()
}

func (b *Batcher[K, V, T, R]) logf(format string, args ...interface{}) {
	if b.Logf != nil {
		b.Logf(format, args...)
	}
}

// insertChainSorted inserts c keeping b.chains ascending by length. The
// number of live chains is O(log n) for n staged tuples, so a linear scan
// for the insertion point is cheap.
func (b *Batcher[K, V, T, R]) insertChainSorted(c *chain[K, V, T, R]) {
	i := 0
	for i < len(b.chains) && b.chains[i].length <= c.length {
		i++
	}
	b.chains = append(b.chains, nil)
	copy(b.chains[i+1:], b.chains[i:])
	b.chains[i] = c
}

// restoreInvariant merges the two smallest chains whenever they are too
// close in length to satisfy the geometric invariant, repeating until the
// invariant holds or one chain remains.
func (b *Batcher[K, V, T, R]) restoreInvariant() {
	for len(b.chains) >= 2 {
		smallest, next := b.chains[0], b.chains[1]
		if smallest.length > 0 && next.length >= smallest.length*2 {
			break
		}
		merged := b.mergeChains(smallest, next)
		b.chains = b.chains[2:]
		b.logf("chain merge: records=%d allocations_delta=-1", merged.length)
		b.insertChainSorted(merged)
	}
}

// mergeChains combines two sorted, consolidated chains into one via the
// chunk-by-chunk queue merge of spec.md §4.3 "Chunk merge": equal
// (key, val, time) triples are summed, and a resulting zero diff is
// dropped — the only place cross-chain consolidation happens.
func (b *Batcher[K, V, T, R]) mergeChains(x, y *chain[K, V, T, R]) *chain[K, V, T, R] {
	ix, iy := newChainIter(x), newChainIter(y)
	out := &chain[K, V, T, R]{}
	cur := b.takeChunk()

	flush := func() {
		if len(cur) > 0 {
			out.chunks = append(out.chunks, cur)
			out.length += len(cur)
			cur = b.takeChunk()
		}
	}

	for ix.valid() || iy.valid() {
		switch {
		case !iy.valid():
			cur = append(cur, ix.cur())
			ix.advance()
		case !ix.valid():
			cur = append(cur, iy.cur())
			iy.advance()
		case b.lessTuple(ix.cur(), iy.cur()):
			cur = append(cur, ix.cur())
			ix.advance()
		case b.lessTuple(iy.cur(), ix.cur()):
			cur = append(cur, iy.cur())
			iy.advance()
		default:
			merged := ix.cur()
			merged.Diff = merged.Diff.Add(iy.cur().Diff)
			ix.advance()
			iy.advance()
			if !merged.Diff.IsZero() {
				cur = append(cur, merged)
			}
		}
		if len(cur) == b.chunkCapacity {
			flush()
		}
	}
	if len(cur) > 0 {
		flush()
	} else {
		b.stashChunk(cur)
	}

	b.stashChain(x)
	b.stashChain(y)
	return out
}

// mergeAllChains greedily merges the two smallest chains until a single
// chain remains (spec.md §4.3 "Seal" step 2).
func (b *Batcher[K, V, T, R]) mergeAllChains() *chain[K, V, T, R] {
	for len(b.chains) > 1 {
		merged := b.mergeChains(b.chains[0], b.chains[1])
		b.chains = b.chains[2:]
		b.insertChainSorted(merged)
	}
	if len(b.chains) == 0 {
		return &chain[K, V, T, R]{}
	}
	return b.chains[0]
}

// Seal flushes all staged updates and returns exactly those with time not
// >= any element of upper, packaged as a batch with Description{lower: old
// lower, upper, since}; the remainder is retained as a single kept chain
// for future seals (spec.md §4.3 "Seal"). Seal panics if upper moves
// backwards relative to the batcher's current lower, a programmer contract
// violation (spec.md §7).
func (b *Batcher[K, V, T, R]) Seal(upper lattice.Frontier) *batch.Batch[K, V, T, R] {
	if !b.lower.LessEqual(upper) {
		panic("batcher: Seal called with upper earlier than current lower")
	}

	final := b.mergeAllChains()
	b.chains = b.chains[:0]

	var readied, kept []batch.Tuple[K, V, T, R]
	keptFrontier := lattice.NewFrontier()
	it := newChainIter(final)
	for it.valid() {
		t := it.cur()
		if upper.Covers(t.Time) {
			kept = append(kept, t)
			keptFrontier = keptFrontier.Join(lattice.NewFrontier(t.Time))
		} else {
			readied = append(readied, t)
		}
		it.advance()
	}
	b.stashChain(final)

	desc := batch.NewDescription(b.lower, upper.Clone(), b.since.Clone())
	sealed := batch.Seal(b.cmpKey, b.cmpVal, readied, desc)

	if len(kept) > 0 {
		keptChain := &chain[K, V, T, R]{length: len(kept)}
		for len(kept) > 0 {
			n := len(kept)
			if n > b.chunkCapacity {
				n = b.chunkCapacity
			}
			chunk := b.takeChunk()
			chunk = append(chunk, kept[:n]...)
			keptChain.chunks = append(keptChain.chunks, chunk)
			kept = kept[n:]
		}
		b.chains = append(b.chains, keptChain)
		b.frontier = keptFrontier
	} else {
		b.frontier = lattice.NewFrontier()
	}

	b.lower = upper.Clone()
	return sealed
}

// Frontier returns the lower envelope of times remaining in the batcher
// after the last Seal — the times scheduling should wait to advance past
// before a further Seal could produce non-empty output.
func (b *Batcher[K, V, T, R]) Frontier() lattice.Frontier {
	return b.frontier.Clone()
}
