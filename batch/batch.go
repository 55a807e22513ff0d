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

// Package batch implements the batch baseline (C8): the reference
// strategy that resolves every record upfront via full BFS closure,
// aggregates every entity, applies the post-filter, and sorts by the
// aggregated ordering key. It is the correctness oracle C7's lazy
// output is tested against (Testable Property 3).
package batch

import (
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/brewer-db/brewer/aggregate"
	"github.com/brewer-db/brewer/block"
	"github.com/brewer-db/brewer/oracle"
	"github.com/brewer-db/brewer/query"
	"github.com/brewer-db/brewer/record"
	"github.com/brewer-db/brewer/resolve"
)

// Stats reports batch-run cost metrics, mirroring the figures the
// scheduler exposes so the two engines can be compared directly
// (Testable Property 4: lazy oracle calls <= batch oracle calls).
// OracleCalls is the oracle's own deduplicated distinct-pair count
// (matcher.UncachedCalls), the same metric the lazy engine reports, so
// the two are comparable; it is not the raw, duplicate-counting number
// of Matches invocations resolve.Build issues while building entities.
type Stats struct {
	OracleCalls int64
	Entities    int
}

// Run resolves every record in store, aggregates each resulting
// entity, keeps the ones surviving spec's post-filter, and returns them
// sorted by the aggregated ordering key (ties broken by canonical id,
// matching the scheduler's tie rule so the two outputs compare cleanly).
//
// matcher is the concrete gold-backed oracle, not the abstract
// oracle.Matcher interface: Stats.OracleCalls is read off it directly
// so batch's reported cost uses the same deduplicated metric the lazy
// engine reports via its own matcher.UncachedCalls().
func Run(store *record.Store, blocks *block.Index, matcher *oracle.GoldMatcher, spec *query.Spec, rng *rand.Rand, log logrus.FieldLogger) ([]*query.AggregatedEntity, Stats, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	agg := aggregate.New(rng, log)

	seen := make(map[string]bool)
	entitiesByCanonical := make(map[string][]*record.Record)

	var resolveErr error
	store.All(func(r *record.Record) bool {
		if seen[r.ID] {
			return true
		}
		entity, _, err := resolve.Build(r.ID, blocks, matcher)
		if err != nil {
			resolveErr = err
			return false
		}
		members := make([]*record.Record, 0, len(entity.Members))
		for _, rid := range entity.Members {
			seen[rid] = true
			if mr, ok := store.Get(rid); ok {
				members = append(members, mr)
			}
		}
		entitiesByCanonical[entity.Canonical] = members
		return true
	})
	if resolveErr != nil {
		return nil, Stats{}, resolveErr
	}

	results := make([]*query.AggregatedEntity, 0, len(entitiesByCanonical))
	for canonical, members := range entitiesByCanonical {
		values := make(map[string]record.Value, len(spec.Aggregations))
		for attr, fn := range spec.Aggregations {
			values[attr] = agg.Attr(members, attr, fn, spec.IsNumeric(attr))
		}
		e := &query.AggregatedEntity{
			Canonical:   canonical,
			Values:      values,
			OrderingKey: values[spec.OrderingKey],
		}
		if spec.PostFilter(e) {
			results = append(results, e)
		}
	}

	asc := spec.OrderingMode == query.Asc
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if record.Less(a.OrderingKey, b.OrderingKey, asc) {
			return true
		}
		if record.Less(b.OrderingKey, a.OrderingKey, asc) {
			return false
		}
		return a.Canonical < b.Canonical
	})

	if spec.TopK > 0 && len(results) > spec.TopK {
		results = results[:spec.TopK]
	}

	return results, Stats{OracleCalls: matcher.UncachedCalls(), Entities: len(entitiesByCanonical)}, nil
}
