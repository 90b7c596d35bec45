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

package batch

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"golang.org/x/crypto/blake2b"
)

// siphash key used to mix individual element hashes before the final
// blake2b digest. Fixed and arbitrary: Fingerprint is a self-consistency
// check, not a cryptographic commitment, so the key need not be secret or
// derived per-batch.
const (
	fingerprintK0 = 0x9ae16a3b2f90404f
	fingerprintK1 = 0xc949d7c7509e6557
)

// HashFuncs supplies the per-element hash a caller's K, V, T, R types need
// in order to compute a Fingerprint, since arbitrary generic types carry no
// byte representation of their own.
type HashFuncs[K any, V any, T any, R any] struct {
	Key  func(K) uint64
	Val  func(V) uint64
	Time func(T) uint64
	Diff func(R) uint64
}

// Fingerprint computes a content digest over the batch's trie arrays: each
// element is hashed with its HashFuncs entry, mixed through siphash with a
// fixed key, and the resulting stream of 8-byte mixed hashes is folded into
// a single blake2b-256 digest. Two batches with the same Fingerprint were
// very likely built from the same (key, val, time, diff) tuples in the same
// order. This package offers no way to combine the Fingerprints of two
// batches into the Fingerprint of their merge.
func (b *Batch[K, V, T, R]) Fingerprint(h HashFuncs[K, V, T, R]) [32]byte {
	buf := make([]byte, 0, 8*(len(b.keys)+len(b.vals)+len(b.times)+len(b.diffs)))
	mix := func(x uint64) {
		var in [8]byte
		binary.LittleEndian.PutUint64(in[:], x)
		mixed := siphash.Hash(fingerprintK0, fingerprintK1, in[:])
		var out [8]byte
		binary.LittleEndian.PutUint64(out[:], mixed)
		buf = append(buf, out[:]...)
	}
	for _, k := range b.keys {
		mix(h.Key(k))
	}
	for _, v := range b.vals {
		mix(h.Val(v))
	}
	for _, t := range b.times {
		mix(h.Time(t))
	}
	for _, d := range b.diffs {
		mix(h.Diff(d))
	}
	return blake2b.Sum256(buf)
}
