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

package diff

import "testing"

func TestInt64(t *testing.T) {
	var d Int64 = 3
	d = d.Add(-3)
	if !d.IsZero() {
		t.Fatalf("expected zero, got %v", d)
	}
	d = Int64(5)
	if d.Negate() != -5 {
		t.Fatalf("negate: got %v", d.Negate())
	}
}

func TestVector(t *testing.T) {
	a := Vector{1, 2, 3}
	b := Vector{-1, -2, -3}
	sum := a.Add(b)
	if !sum.IsZero() {
		t.Fatalf("expected zero vector, got %v", sum)
	}
	c := Vector{1}
	d := Vector{1, 2}
	got := c.Add(d)
	want := Vector{2, 2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("padded add: got %v want %v", got, want)
	}
	if !(Vector{}).IsZero() {
		t.Fatalf("empty vector should be zero")
	}
}
