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

import (
	"testing"

	"github.com/TimelyDataflow/differential-dataflow-sub001/date"
)

func et(y, mo, d int) EventTime {
	return EventTime{Value: date.Date(y, mo, d, 0, 0, 0, 0)}
}

func TestEventTimeOrderAndJoin(t *testing.T) {
	early := et(2024, 1, 1)
	late := et(2024, 6, 1)
	if !early.LessEqual(late) {
		t.Fatal("2024-01-01 <= 2024-06-01")
	}
	if late.LessEqual(early) {
		t.Fatal("2024-06-01 <= 2024-01-01 should be false")
	}
	if early.Join(late) != Timestamp(late) {
		t.Fatal("join(early,late) != late")
	}
	if !Equal(early, et(2024, 1, 1)) {
		t.Fatal("two EventTimes built from the same date should be Equal")
	}
}

func TestEventTimeFrontierCovers(t *testing.T) {
	f := NewFrontier(et(2024, 3, 1))
	if f.Covers(et(2024, 1, 1)) {
		t.Fatal("frontier at 2024-03-01 should not cover an earlier date")
	}
	if !f.Covers(et(2024, 12, 31)) {
		t.Fatal("frontier at 2024-03-01 should cover a later date")
	}
}
