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

package cursor_test

import (
	"testing"

	"github.com/TimelyDataflow/differential-dataflow-sub001/batch"
	"github.com/TimelyDataflow/differential-dataflow-sub001/cursor"
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

func desc() batch.Description {
	f := lattice.NewFrontier()
	return batch.NewDescription(f, f, f)
}

func tuple(k string, v, t, d int) batch.Tuple[string, int, int, int] {
	return batch.Tuple[string, int, int, int]{Key: k, Val: v, Time: t, Diff: d}
}

func TestListMergesDisjointKeys(t *testing.T) {
	b1 := batch.Seal(cmpString, cmpInt, []batch.Tuple[string, int, int, int]{tuple("a", 1, 0, 1)}, desc())
	b2 := batch.Seal(cmpString, cmpInt, []batch.Tuple[string, int, int, int]{tuple("b", 1, 0, 1)}, desc())
	b3 := batch.Seal(cmpString, cmpInt, []batch.Tuple[string, int, int, int]{tuple("c", 1, 0, 1)}, desc())

	l := cursor.NewList([]cursor.Cursor[string, int, int, int]{b1.Cursor(), b2.Cursor(), b3.Cursor()}, cmpString, cmpInt)

	var got []string
	for l.KeyValid() {
		got = append(got, l.Key())
		l.StepKey()
	}
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestListMergesSharedKeysAndVals(t *testing.T) {
	b1 := batch.Seal(cmpString, cmpInt, []batch.Tuple[string, int, int, int]{
		tuple("a", 1, 0, 1),
		tuple("a", 2, 0, 1),
	}, desc())
	b2 := batch.Seal(cmpString, cmpInt, []batch.Tuple[string, int, int, int]{
		tuple("a", 1, 1, 1),
		tuple("b", 1, 0, 1),
	}, desc())

	l := cursor.NewList([]cursor.Cursor[string, int, int, int]{b1.Cursor(), b2.Cursor()}, cmpString, cmpInt)

	if !l.KeyValid() || l.Key() != "a" {
		t.Fatalf("expected key a first")
	}
	if !l.ValValid() || l.Val() != 1 {
		t.Fatalf("expected val 1 first under key a")
	}
	var times, diffs []int
	l.MapTimes(func(tm, d int) { times = append(times, tm); diffs = append(diffs, d) })
	if len(times) != 2 {
		t.Fatalf("expected both cursors' (a,1) entries merged, got %v", times)
	}

	if !l.StepVal() {
		t.Fatalf("expected a second val under key a")
	}
	if l.Val() != 2 {
		t.Fatalf("expected val 2 next, got %v", l.Val())
	}
	if l.StepVal() {
		t.Fatalf("expected only two distinct vals under key a")
	}

	if !l.StepKey() || l.Key() != "b" {
		t.Fatalf("expected key b after key a")
	}
}

func TestListSeekKeyAndVal(t *testing.T) {
	b1 := batch.Seal(cmpString, cmpInt, []batch.Tuple[string, int, int, int]{
		tuple("a", 1, 0, 1),
		tuple("b", 1, 0, 1),
		tuple("c", 3, 0, 1),
	}, desc())
	l := cursor.NewList([]cursor.Cursor[string, int, int, int]{b1.Cursor()}, cmpString, cmpInt)

	if !l.SeekKey("c") || l.Key() != "c" {
		t.Fatalf("expected SeekKey(c) to land on c")
	}
	if !l.SeekVal(2) || l.Val() != 3 {
		t.Fatalf("expected SeekVal(2) under key c to land on val 3")
	}
	if l.SeekKey("z") {
		t.Fatalf("expected SeekKey(z) past the end to invalidate the list")
	}
}
