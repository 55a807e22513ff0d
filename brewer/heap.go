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

package brewer

import (
	"github.com/brewer-db/brewer/query"
	"github.com/brewer-db/brewer/record"
)

// head is one entry in the priority queue: either a fresh, unresolved
// candidate (Resolved == false, ID is a record id, Key is that record's
// raw ordering-key value) or a sentinel re-insertion for an
// already-resolved entity awaiting its correct-rank emission slot
// (Resolved == true, ID is a canonical id, Key is the entity's true
// aggregated ordering-key value).
type head struct {
	Key      record.Value
	ID       string
	Resolved bool
}

// pqueue is a container/heap.Interface over heads, ordered per mode:
// equal keys break ties by dataset load order (store.Order) where both
// ids are known records, falling back to id ascending when store is
// nil or an id isn't one of its records (a canonical id is always one,
// but this keeps Less total either way); at equal key+order a fresh
// head sorts before a sentinel (so fresh work is only preferred over a
// pending sentinel when it could actually change the ranking).
type pqueue struct {
	items []head
	mode  query.Mode
	store *record.Store
}

func (pq *pqueue) Len() int { return len(pq.items) }

func (pq *pqueue) Less(i, j int) bool {
	a, b := pq.items[i], pq.items[j]
	asc := pq.mode == query.Asc
	if record.Less(a.Key, b.Key, asc) {
		return true
	}
	if record.Less(b.Key, a.Key, asc) {
		return false
	}
	if a.ID != b.ID {
		if pq.store != nil {
			oa, ob := pq.store.Order(a.ID), pq.store.Order(b.ID)
			if oa != -1 && ob != -1 {
				return oa < ob
			}
		}
		return a.ID < b.ID
	}
	if a.Resolved != b.Resolved {
		return !a.Resolved
	}
	return false
}

func (pq *pqueue) Swap(i, j int) { pq.items[i], pq.items[j] = pq.items[j], pq.items[i] }

func (pq *pqueue) Push(x any) { pq.items = append(pq.items, x.(head)) }

func (pq *pqueue) Pop() any {
	old := pq.items
	n := len(old)
	item := old[n-1]
	pq.items = old[:n-1]
	return item
}

// noWorse reports whether value a ranks at-or-before value b under
// mode's direction — i.e. a is "no worse than" b, the scheduler's
// re-insertion correctness check.
func noWorse(a, b record.Value, mode query.Mode) bool {
	asc := mode == query.Asc
	return !record.Less(b, a, asc)
}
