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

package query

import (
	"strings"

	"github.com/brewer-db/brewer/record"
)

// conditionHolds reports whether a single record satisfies c: a
// substring match against the stringified attribute, with a null
// attribute never matching (substring of "" is only true for an empty
// needle, which LIKE '%%' already covers correctly via strings.Contains).
func conditionHolds(r *record.Record, c Condition) bool {
	v := r.Get(c.Attribute)
	if v.Null {
		return false
	}
	return strings.Contains(v.String(), c.Substring)
}

// PreFilterOR reports whether any HAVING condition holds for r. Used
// for the OR seed-selection case (§4.5, §6 scenario S6): the engine
// admits the union of per-condition selections.
func (s *Spec) PreFilterOR(r *record.Record) bool {
	return conditionHolds(r, s.Having[0]) || conditionHolds(r, s.Having[1])
}

// PreFilterAND decides whether a record, or a co-blocked set of
// records, can possibly contribute to an AND-satisfying entity.
//
// When solved is true (the record has no neighbours left to explore,
// i.e. it's already a resolved singleton-ish case), a strict per-record
// AND is applied. Otherwise this is evaluated per final block: the
// block is admitted only if every condition is satisfied by at least
// one record in the set — rejecting a block outright would risk a
// false negative when each condition is carried by a different member
// of the eventual merged entity (scenario S1).
func (s *Spec) PreFilterAND(records []*record.Record, solved bool) bool {
	if solved {
		if len(records) != 1 {
			return false
		}
		r := records[0]
		return conditionHolds(r, s.Having[0]) && conditionHolds(r, s.Having[1])
	}
	return anySatisfies(records, s.Having[0]) && anySatisfies(records, s.Having[1])
}

func anySatisfies(records []*record.Record, c Condition) bool {
	for _, r := range records {
		if conditionHolds(r, c) {
			return true
		}
	}
	return false
}

// PreFilter dispatches to PreFilterOR or PreFilterAND based on Operator.
// solved and records are only meaningful for the AND case; OR ignores
// them (Design Note: "in OR case, no block-level AND restriction
// applied" — S6).
func (s *Spec) PreFilter(r *record.Record, block []*record.Record, solved bool) bool {
	if s.Operator == Or {
		return s.PreFilterOR(r)
	}
	return s.PreFilterAND(block, solved)
}

// AggregatedEntity is the post-aggregation tuple produced by C6+C4: a
// canonical id, the per-attribute aggregated values, and the
// aggregated ordering-key value singled out for convenient access.
type AggregatedEntity struct {
	Canonical   string
	Values      map[string]record.Value
	OrderingKey record.Value
}

func entityHolds(e *AggregatedEntity, c Condition) bool {
	v := e.Values[c.Attribute]
	if v.Null {
		return false
	}
	return strings.Contains(v.String(), c.Substring)
}

// PostFilter applies the HAVING predicate to a fully aggregated entity,
// plus the ignore_null rule on the ordering key (§4.5).
func (s *Spec) PostFilter(e *AggregatedEntity) bool {
	if s.IgnoreNull {
		if e.OrderingKey.Null || e.OrderingKey.IsNaN() {
			return false
		}
	}
	a := entityHolds(e, s.Having[0])
	b := entityHolds(e, s.Having[1])
	if s.Operator == And {
		return a && b
	}
	return a || b
}
