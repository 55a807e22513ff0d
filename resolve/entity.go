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

// Package resolve implements the entity builder (C6): given a seed
// record, expands its connected component via oracle calls restricted
// to co-blocked records, producing a fully-resolved entity.
package resolve

import (
	"sort"

	"github.com/brewer-db/brewer/block"
	"github.com/brewer-db/brewer/oracle"
)

// Entity is the result of closing a seed record's connected component:
// its members (dataset-unordered) and its canonical id, the
// lexicographically-smallest member.
type Entity struct {
	Canonical string
	Members   []string
}

// Build runs the BFS described in spec §4.6: starting from seed, it
// repeatedly pulls co-blocked neighbours of the frontier and asks the
// oracle whether they match, growing the entity until no new member is
// found. The result is independent of which seed in the true entity was
// used (confluence), because the oracle is symmetric and closure is
// applied uniformly: the local entity set accumulates every record
// reachable from seed regardless of discovery order, and the canonical
// id is derived from that set's sorted membership, not from the order
// records were visited in.
func Build(seed string, blocks *block.Index, matcher oracle.Matcher) (Entity, int, error) {
	entity := map[string]struct{}{seed: {}}
	frontier := []string{seed}
	calls := 0

	for len(frontier) > 0 {
		r := frontier[0]
		frontier = frontier[1:]

		visited := make(map[string]bool, len(entity))
		for m := range entity {
			visited[m] = true
		}
		neighbours := blocks.Neighbours(r, visited)
		for _, n := range neighbours {
			if _, already := entity[n]; already {
				continue
			}
			ok, err := matcher.Matches(r, n)
			calls++
			if err != nil {
				return Entity{}, calls, err
			}
			if ok {
				entity[n] = struct{}{}
				frontier = append(frontier, n)
			}
		}
	}

	members := make([]string, 0, len(entity))
	for m := range entity {
		members = append(members, m)
	}
	sort.Strings(members)

	return Entity{Canonical: members[0], Members: members}, calls, nil
}
