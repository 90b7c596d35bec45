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

package config

import "testing"

func TestParseOverridesOnlyGivenFields(t *testing.T) {
	cfg, err := Parse([]byte("merge_effort_multiple: 8\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MergeEffortMultiple != 8 {
		t.Fatalf("expected merge_effort_multiple=8, got %d", cfg.MergeEffortMultiple)
	}
	if cfg.DefaultChunkCapacity != Default().DefaultChunkCapacity {
		t.Fatalf("expected default_chunk_capacity to keep its default, got %d", cfg.DefaultChunkCapacity)
	}
}

func TestParseEmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := Parse(nil)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected empty document to yield Default(), got %+v", cfg)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("default_chunk_capacity: [this is not an int\n"))
	if err == nil {
		t.Fatalf("expected an error parsing malformed YAML")
	}
}
