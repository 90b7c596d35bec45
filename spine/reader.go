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

package spine

import (
	"github.com/TimelyDataflow/differential-dataflow-sub001/lattice"
	"github.com/google/uuid"
)

// Reader is a multi-tenant handle onto a Spine (spec.md §4.4 "Reader
// handles"): it holds a logical and a physical compaction reservation,
// both included in the meet that determines the spine's effective
// compaction frontiers. ID is a correlation identifier that the spine
// includes in its Logf calls when the reader is added or removed; merge
// log lines do not carry it.
type Reader struct {
	ID uuid.UUID

	logical  lattice.Frontier
	physical lattice.Frontier
}

func newReader(logical, physical lattice.Frontier) *Reader {
	return &Reader{ID: uuid.New(), logical: logical.Clone(), physical: physical.Clone()}
}

// GetLogicalCompaction returns this reader's current logical reservation.
func (r *Reader) GetLogicalCompaction() lattice.Frontier { return r.logical.Clone() }

// GetPhysicalCompaction returns this reader's current physical reservation.
func (r *Reader) GetPhysicalCompaction() lattice.Frontier { return r.physical.Clone() }

// SetLogicalCompaction advances this reader's logical reservation. The
// caller (the spine) is responsible for recomputing the effective
// frontier and rejecting a backwards move.
func (r *Reader) setLogicalCompaction(f lattice.Frontier) { r.logical = f.Clone() }

// SetPhysicalCompaction advances this reader's physical reservation.
func (r *Reader) setPhysicalCompaction(f lattice.Frontier) { r.physical = f.Clone() }
