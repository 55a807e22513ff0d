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

// Package aggregate implements the aggregator (C4): per-attribute
// aggregate functions (min, max, avg, sum, vote, random, concat) over a
// set of records, as described in spec §4.4.
package aggregate

import (
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/spf13/cast"
	"github.com/sirupsen/logrus"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/brewer-db/brewer/record"
)

// ErrSchema is this package's schema error kind. Nothing in the package
// returns it: an illegal ordering-key aggregation is reported by
// query.Spec.Validate with query.ErrSchema.
var ErrSchema = errors.NewKind("schema error: %s")

// Func identifies one of the seven supported aggregate functions.
type Func int

const (
	Min Func = iota
	Max
	Avg
	Sum
	Vote
	Random
	Concat
)

// concatSeparator is the fixed separator concat() joins on.
const concatSeparator = "|"

func (f Func) String() string {
	switch f {
	case Min:
		return "min"
	case Max:
		return "max"
	case Avg:
		return "avg"
	case Sum:
		return "sum"
	case Vote:
		return "vote"
	case Random:
		return "random"
	case Concat:
		return "concat"
	default:
		return "unknown"
	}
}

// OrderingKeyAllowed reports whether fn is one of the aggregate
// functions permitted on an ordering key ({min, max, avg, vote}).
func OrderingKeyAllowed(fn Func) bool {
	switch fn {
	case Min, Max, Avg, Vote:
		return true
	default:
		return false
	}
}

// Aggregator computes aggregate values over a set of records. It owns
// the injectable RNG used by random(), so repeated runs of the same
// engine with the same seed make the same random picks. The lazy and
// batch engines each use their own RNG and aggregate entities in a
// different order, so their random picks can differ even with the same
// seed.
type Aggregator struct {
	rng *rand.Rand
	log logrus.FieldLogger
}

// New builds an Aggregator with an injected RNG. Pass a fresh
// rand.New(rand.NewSource(seed)) per query for reproducibility (open
// question: random aggregation seeds per query, not per entity).
func New(rng *rand.Rand, log logrus.FieldLogger) *Aggregator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Aggregator{rng: rng, log: log}
}

// Attr aggregates one attribute across records using fn. numeric tells
// the aggregator whether attr is a numeric column: min/max fall back
// to lexicographic comparison on text, while avg/sum/numeric-vote
// require numeric coercion (non-numeric values are treated as null and
// logged as a warning, ErrType's non-fatal policy).
func (a *Aggregator) Attr(records []*record.Record, attr string, fn Func, numeric bool) record.Value {
	switch fn {
	case Min:
		return a.minmax(records, attr, numeric, true)
	case Max:
		return a.minmax(records, attr, numeric, false)
	case Avg:
		return a.avg(records, attr)
	case Sum:
		return a.sum(records, attr)
	case Vote:
		return a.vote(records, attr, numeric)
	case Random:
		return a.random(records, attr)
	case Concat:
		return a.concat(records, attr)
	default:
		return record.NullValue()
	}
}

func (a *Aggregator) values(records []*record.Record, attr string) []record.Value {
	out := make([]record.Value, 0, len(records))
	for _, r := range records {
		v := r.Get(attr)
		if v.Null || v.IsNaN() {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (a *Aggregator) minmax(records []*record.Record, attr string, numeric, min bool) record.Value {
	vals := a.values(records, attr)
	if len(vals) == 0 {
		return record.NullValue()
	}
	best := vals[0]
	for _, v := range vals[1:] {
		if numeric {
			if (min && v.Num < best.Num) || (!min && v.Num > best.Num) {
				best = v
			}
		} else {
			if (min && v.Text < best.Text) || (!min && v.Text > best.Text) {
				best = v
			}
		}
	}
	return best
}

func (a *Aggregator) numericValues(records []*record.Record, attr string) []float64 {
	var out []float64
	for _, r := range records {
		v := r.Get(attr)
		if v.Null {
			continue
		}
		f, err := a.coerce(v)
		if err != nil {
			a.log.WithField("attr", attr).WithField("record", r.ID).Warn("non-numeric value treated as null: ", err)
			continue
		}
		if math.IsNaN(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (a *Aggregator) coerce(v record.Value) (float64, error) {
	if v.Numeric {
		return v.Num, nil
	}
	return cast.ToFloat64E(v.Text)
}

func (a *Aggregator) avg(records []*record.Record, attr string) record.Value {
	vals := a.numericValues(records, attr)
	if len(vals) == 0 {
		return record.NullValue()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return record.NumericValue(sum / float64(len(vals)))
}

func (a *Aggregator) sum(records []*record.Record, attr string) record.Value {
	vals := a.numericValues(records, attr)
	if len(vals) == 0 {
		return record.NullValue()
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return record.NumericValue(sum)
}

// vote returns the majority among non-null stringified values, ties
// broken by first-seen order (stable) — the open question's resolved
// answer. When numeric is set, the winning value is parsed back to a
// numeric Value, per spec §4.4 ("vote on ordering key treats the
// winning value as numeric").
func (a *Aggregator) vote(records []*record.Record, attr string, numeric bool) record.Value {
	type tally struct {
		count int
		first int
		value record.Value
	}
	counts := make(map[string]*tally)
	order := 0
	for _, r := range records {
		v := r.Get(attr)
		if v.Null {
			continue
		}
		if numeric && !v.Numeric {
			if _, err := a.coerce(v); err != nil {
				a.log.WithField("attr", attr).WithField("record", r.ID).Warn("non-numeric value treated as null: ", err)
				continue
			}
		}
		key := v.String()
		t, ok := counts[key]
		if !ok {
			t = &tally{first: order, value: v}
			counts[key] = t
		}
		t.count++
		order++
	}
	if len(counts) == 0 {
		return record.NullValue()
	}
	var winner *tally
	for _, t := range counts {
		if winner == nil || t.count > winner.count || (t.count == winner.count && t.first < winner.first) {
			winner = t
		}
	}
	if numeric && !winner.value.Numeric {
		f, err := a.coerce(winner.value)
		if err != nil {
			return record.NullValue()
		}
		return record.NumericValue(f)
	}
	return winner.value
}

func (a *Aggregator) random(records []*record.Record, attr string) record.Value {
	vals := a.values(records, attr)
	if len(vals) == 0 {
		return record.NullValue()
	}
	rng := a.rng
	if rng == nil {
		rng = rand.New(rand.NewSource(0))
	}
	return vals[rng.Intn(len(vals))]
}

func (a *Aggregator) concat(records []*record.Record, attr string) record.Value {
	set := make(map[string]struct{})
	for _, r := range records {
		v := r.Get(attr)
		if v.Null {
			continue
		}
		set[v.String()] = struct{}{}
	}
	if len(set) == 0 {
		return record.NullValue()
	}
	items := make([]string, 0, len(set))
	for s := range set {
		items = append(items, s)
	}
	sort.Strings(items)
	return record.TextValue(strings.Join(items, concatSeparator))
}
