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
	"testing"

	"github.com/TimelyDataflow/differential-dataflow-sub001/lattice"
)

func cmpString(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int { return a - b }

func emptyDesc() Description {
	f := lattice.NewFrontier()
	return NewDescription(f, f, f)
}

func tuple(k string, v int, t, d int) Tuple[string, int, int, int] {
	return Tuple[string, int, int, int]{Key: k, Val: v, Time: t, Diff: d}
}

func buildSample(t *testing.T) *Batch[string, int, int, int] {
	chain := []Tuple[string, int, int, int]{
		tuple("a", 1, 0, 1),
		tuple("a", 1, 1, -1),
		tuple("a", 2, 0, 1),
		tuple("b", 1, 0, 1),
		tuple("b", 1, 1, 1),
		tuple("c", 3, 0, 2),
	}
	return Seal(cmpString, cmpInt, chain, emptyDesc())
}

func TestBuilderTrieShape(t *testing.T) {
	b := buildSample(t)
	if b.NumKeys() != 3 {
		t.Fatalf("expected 3 keys, got %d", b.NumKeys())
	}
	if b.NumVals() != 4 {
		t.Fatalf("expected 4 distinct (key,val) pairs, got %d", b.NumVals())
	}
	if b.Len() != 6 {
		t.Fatalf("expected 6 tuples, got %d", b.Len())
	}
}

func TestCursorWalksInOrder(t *testing.T) {
	b := buildSample(t)
	c := b.Cursor()

	var gotKeys []string
	for c.KeyValid() {
		gotKeys = append(gotKeys, c.Key())
		var gotVals []int
		for c.ValValid() {
			gotVals = append(gotVals, c.Val())
			var times []int
			c.MapTimes(func(tm int, d int) { times = append(times, tm) })
			if len(times) == 0 {
				t.Fatalf("val %d under key %s had no times", c.Val(), c.Key())
			}
			c.StepVal()
		}
		if len(gotVals) == 0 {
			t.Fatalf("key %s had no vals", c.Key())
		}
		c.StepKey()
	}
	want := []string{"a", "b", "c"}
	if len(gotKeys) != len(want) {
		t.Fatalf("got keys %v, want %v", gotKeys, want)
	}
	for i := range want {
		if gotKeys[i] != want[i] {
			t.Fatalf("got keys %v, want %v", gotKeys, want)
		}
	}
}

func TestCursorSeekKey(t *testing.T) {
	b := buildSample(t)
	c := b.Cursor()
	if !c.SeekKey("b") {
		t.Fatalf("expected SeekKey(b) to find a key")
	}
	if c.Key() != "b" {
		t.Fatalf("expected key b, got %v", c.Key())
	}
	if c.SeekKey("z") {
		t.Fatalf("expected SeekKey(z) past the end to invalidate the cursor")
	}
	if c.KeyValid() {
		t.Fatalf("cursor should be invalid after seeking past the last key")
	}
}

func TestCursorSeekValWithinKey(t *testing.T) {
	b := buildSample(t)
	c := b.Cursor()
	c.SeekKey("a")
	if !c.SeekVal(2) {
		t.Fatalf("expected SeekVal(2) under key a to succeed")
	}
	if c.Val() != 2 {
		t.Fatalf("expected val 2, got %v", c.Val())
	}
	if c.SeekVal(5) {
		t.Fatalf("expected SeekVal(5) to run off the end of key a's vals")
	}
}

func TestCursorRewind(t *testing.T) {
	b := buildSample(t)
	c := b.Cursor()
	c.StepKey()
	c.StepKey()
	c.RewindKeys()
	if c.Key() != "a" {
		t.Fatalf("RewindKeys should return to the first key, got %v", c.Key())
	}
	c.StepVal()
	c.RewindVals()
	if c.Val() != 1 {
		t.Fatalf("RewindVals should return to key a's first val, got %v", c.Val())
	}
}

func TestFingerprintStableAcrossEqualBatches(t *testing.T) {
	h := HashFuncs[string, int, int, int]{
		Key:  func(s string) uint64 { var x uint64; for i := 0; i < len(s); i++ { x = x*31 + uint64(s[i]) }; return x },
		Val:  func(v int) uint64 { return uint64(v) },
		Time: func(tm int) uint64 { return uint64(tm) },
		Diff: func(d int) uint64 { return uint64(d) },
	}
	b1 := buildSample(t)
	b2 := buildSample(t)
	if b1.Fingerprint(h) != b2.Fingerprint(h) {
		t.Fatalf("expected identical batches to fingerprint identically")
	}

	other := Seal(cmpString, cmpInt, []Tuple[string, int, int, int]{tuple("a", 1, 0, 1)}, emptyDesc())
	if b1.Fingerprint(h) == other.Fingerprint(h) {
		t.Fatalf("expected different batches to fingerprint differently")
	}
}

func TestBuilderPanicsOnOutOfOrderKeys(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on out-of-order keys")
		}
	}()
	Seal(cmpString, cmpInt, []Tuple[string, int, int, int]{
		tuple("b", 1, 0, 1),
		tuple("a", 1, 0, 1),
	}, emptyDesc())
}
