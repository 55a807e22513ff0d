// Copyright 2026 The Brewer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package block implements the block index (C2): the static,
// precomputed block→records and record→blocks mapping produced offline
// by inverted-index blocking and transitive closure, consumed here as a
// read-only fact rather than built from raw data.
package block

import "gopkg.in/src-d/go-errors.v1"

// ErrSchema is raised for malformed block files (a record referenced by
// record_blocks.txt that isn't in any block, a cost entry for an
// unknown block, etc).
var ErrSchema = errors.NewKind("schema error: %s")

// Index is the read-only block→records / record→blocks mapping (C2),
// already transitively closed: every candidate matching pair is
// guaranteed to lie inside at least one common block.
type Index struct {
	recordsOf map[string][]string // block id -> record ids
	blocksOf  map[string][]string // record id -> block ids
	cost      map[string]uint64   // block id -> comparison cost
}

// New builds an Index directly from a block→records mapping and a
// block→cost mapping. The record→blocks reverse mapping is derived.
func New(recordsOf map[string][]string, cost map[string]uint64) *Index {
	blocksOf := make(map[string][]string)
	for bid, rids := range recordsOf {
		for _, rid := range rids {
			blocksOf[rid] = append(blocksOf[rid], bid)
		}
	}
	return &Index{recordsOf: recordsOf, blocksOf: blocksOf, cost: cost}
}

// Unblocked builds a trivial single-block index containing every
// record in ids — the representation used when a dataset's blocking
// flag is off (e.g. task_definition.py's AltosightSigmodTask), so C6/C7
// run unmodified over an unblocked dataset.
func Unblocked(ids []string) *Index {
	const bid = "_all"
	cp := make([]string, len(ids))
	copy(cp, ids)
	n := uint64(len(ids))
	return New(map[string][]string{bid: cp}, map[string]uint64{bid: n * (n - 1) / 2})
}

// BlocksOf returns the block ids a record belongs to.
func (idx *Index) BlocksOf(rid string) []string {
	return idx.blocksOf[rid]
}

// RecordsOf returns the record ids belonging to a block.
func (idx *Index) RecordsOf(bid string) []string {
	return idx.recordsOf[bid]
}

// Cost returns the precomputed comparison cost of a block (n*(n-1)/2
// for a block of n records), or 0 if unknown.
func (idx *Index) Cost(bid string) uint64 {
	return idx.cost[bid]
}

// CoBlocked reports whether a and b share at least one block. The
// match oracle uses this to enforce its contract: callers must
// restrict lookups to co-blocked pairs.
func (idx *Index) CoBlocked(a, b string) bool {
	bsa := idx.blocksOf[a]
	if len(bsa) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(bsa))
	for _, bid := range bsa {
		set[bid] = struct{}{}
	}
	for _, bid := range idx.blocksOf[b] {
		if _, ok := set[bid]; ok {
			return true
		}
	}
	return false
}

// Neighbours returns every record co-blocked with rid, excluding rid
// itself and anything in the already-visited set. Used by the entity
// builder's BFS expansion.
func (idx *Index) Neighbours(rid string, visited map[string]bool) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, bid := range idx.blocksOf[rid] {
		for _, n := range idx.recordsOf[bid] {
			if n == rid || visited[n] {
				continue
			}
			if _, dup := seen[n]; dup {
				continue
			}
			seen[n] = struct{}{}
			out = append(out, n)
		}
	}
	return out
}
