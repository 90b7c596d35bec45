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

import "github.com/TimelyDataflow/differential-dataflow-sub001/date"

// EventTime wraps date.Time (the teacher's nanosecond-precision calendar
// type) as a Timestamp, for dataflows whose logical clock is wall-clock
// event time rather than a bare epoch counter.
type EventTime struct {
	Value date.Time
}

// LessEqual implements Timestamp.
func (e EventTime) LessEqual(other Timestamp) bool {
	o := other.(EventTime)
	return e.Value.Before(o.Value) || e.Value.Equal(o.Value)
}

// Join implements Timestamp: the later of the two event times.
func (e EventTime) Join(other Timestamp) Timestamp {
	o := other.(EventTime)
	if o.Value.After(e.Value) {
		return o
	}
	return e
}

var _ Timestamp = EventTime{}
