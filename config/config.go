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

// Package config loads the handful of tunables a long-lived
// batcher/spine pair needs at construction time, the way the teacher
// codebase configures its own long-lived components: a plain struct whose
// json tags name the YAML keys, decoded with sigs.k8s.io/yaml (which
// converts YAML to JSON and decodes it with encoding/json) rather than
// hand-rolled flag parsing.
package config

import "sigs.k8s.io/yaml"

// Config holds the tunables SPEC_FULL.md's Ambient Stack section assigns
// to configuration rather than call-site arguments.
type Config struct {
	// DefaultChunkCapacity is the batcher.New chunkCapacity used when no
	// caller-specific override applies: how many tuples a batcher.Chunk
	// holds before a chain link rolls over to the next chunk.
	DefaultChunkCapacity int `json:"default_chunk_capacity"`

	// MergeEffortMultiple is the spine.New mergeEffortMultiple: the fuel,
	// as a multiple of an inserted batch's tuple count, distributed
	// across in-progress spine mergers on every insert.
	MergeEffortMultiple int `json:"merge_effort_multiple"`
}

// Default returns the Config this package falls back to absent an
// explicit document: a modest chunk size and a 2x merge-effort multiple,
// conservative values suitable for tests and small dataflows.
func Default() Config {
	return Config{
		DefaultChunkCapacity: 1024,
		MergeEffortMultiple:  2,
	}
}

// Parse decodes a YAML document into a Config, starting from Default()
// so a document overriding only one field leaves the other at its
// default rather than zeroing it.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
