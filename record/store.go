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

package record

import "gopkg.in/src-d/go-errors.v1"

// ErrSchema is raised for malformed or inconsistent record tables: a
// missing required column, a duplicate record id, and similar load-time
// problems. It is always fatal. Queries that reference an attribute the
// schema doesn't carry are reported with query.ErrSchema instead.
var ErrSchema = errors.NewKind("schema error: %s")

// Store is the read-only, in-memory record table (C1). It never
// mutates after NewStore returns; dataset order is preserved for
// tie-breaking purposes elsewhere in the engine.
type Store struct {
	records map[string]*Record
	order   []string
	index   map[string]int
}

// NewStore builds a Store from records in dataset order. Duplicate ids
// are a schema error: record ids must be globally unique.
func NewStore(records []*Record) (*Store, error) {
	s := &Store{
		records: make(map[string]*Record, len(records)),
		order:   make([]string, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if _, ok := s.records[r.ID]; ok {
			return nil, ErrSchema.New("duplicate record id " + r.ID)
		}
		s.records[r.ID] = r
		s.index[r.ID] = len(s.order)
		s.order = append(s.order, r.ID)
	}
	return s, nil
}

// Get looks up a record by id.
func (s *Store) Get(rid string) (*Record, bool) {
	r, ok := s.records[rid]
	return r, ok
}

// MustGet looks up a record by id, returning nil if absent. Used in
// hot paths where the caller has already established the id is valid
// (e.g. it came from the block index).
func (s *Store) MustGet(rid string) *Record {
	return s.records[rid]
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.order)
}

// IDs returns every record id in dataset load order.
func (s *Store) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// All calls fn for every record in dataset order, stopping early if fn
// returns false.
func (s *Store) All(fn func(*Record) bool) {
	for _, rid := range s.order {
		if !fn(s.records[rid]) {
			return
		}
	}
}

// Project returns the requested attributes for the requested record
// ids, in the order given. Unknown ids yield an all-null row.
func (s *Store) Project(rids []string, attrs []string) [][]Value {
	out := make([][]Value, len(rids))
	for i, rid := range rids {
		r := s.records[rid]
		row := make([]Value, len(attrs))
		for j, a := range attrs {
			row[j] = r.Get(a)
		}
		out[i] = row
	}
	return out
}

// Order returns the dataset-order index of rid, or -1 if unknown. Used
// as the scheduler's stable tiebreak for equal ordering-key values
// before falling back to canonical id.
func (s *Store) Order(rid string) int {
	if i, ok := s.index[rid]; ok {
		return i
	}
	return -1
}
