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

// Package brewer implements the priority scheduler (C7), BrewER's core:
// a pull-based, lazily-resolving query engine that interleaves
// pre-filtering, entity building, aggregation, and post-filtering so
// that correct, fully-resolved top-ranked entities stream out in order
// while the dataset is only partially resolved.
package brewer

import (
	"container/heap"
	"context"
	"math/rand"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"

	"github.com/brewer-db/brewer/aggregate"
	"github.com/brewer-db/brewer/block"
	"github.com/brewer-db/brewer/oracle"
	"github.com/brewer-db/brewer/query"
	"github.com/brewer-db/brewer/record"
	"github.com/brewer-db/brewer/resolve"
)

// Mode and Asc/Desc are re-exported so callers don't need to import
// query just to build a Spec's OrderingMode.
type Mode = query.Mode

const (
	Asc  = query.Asc
	Desc = query.Desc
)

// Scheduler drives one query's lazy resolution. It owns the priority
// queue, resolved-membership map, oracle cache (via the injected
// Matcher), and emitted-entity set for the query's duration; the record
// store and block index it reads are shared, read-only, across
// concurrent queries.
type Scheduler struct {
	store   *record.Store
	blocks  *block.Index
	matcher oracle.Matcher
	spec    *query.Spec
	agg     *aggregate.Aggregator
	log     logrus.FieldLogger

	pq          *pqueue
	resolved    map[string]string // rid -> canonical
	emitted     map[string]bool   // canonical -> already emitted (pass or fail post-filter)
	entityCache map[string]*query.AggregatedEntity
	emittedN    int
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger overrides the default package logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Scheduler) { s.log = log }
}

// WithRand overrides the random() aggregate's source, for reproducible
// query runs (open question: random seeds per query).
func WithRand(rng *rand.Rand) Option {
	return func(s *Scheduler) { s.agg = aggregate.New(rng, s.log) }
}

// New builds a Scheduler and runs pre-filter seed selection (spec
// §4.7's Initialization). store and blocks are read-only and may be
// shared across concurrently running schedulers; matcher and spec are
// owned by this query.
func New(store *record.Store, blocks *block.Index, matcher oracle.Matcher, spec *query.Spec, opts ...Option) (*Scheduler, error) {
	s := &Scheduler{
		store:       store,
		blocks:      blocks,
		matcher:     matcher,
		spec:        spec,
		log:         logrus.StandardLogger(),
		resolved:    make(map[string]string),
		emitted:     make(map[string]bool),
		entityCache: make(map[string]*query.AggregatedEntity),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.agg == nil {
		s.agg = aggregate.New(rand.New(rand.NewSource(1)), s.log)
	}
	s.pq = &pqueue{mode: spec.OrderingMode, store: store}
	heap.Init(s.pq)

	if err := s.seed(); err != nil {
		return nil, err
	}
	return s, nil
}

// seed enumerates candidate seed records via the pre-filter and inserts
// survivors into the PQ, dropping ordering-key nulls when IgnoreNull is
// set.
func (s *Scheduler) seed() error {
	if s.spec.Operator == query.Or {
		s.store.All(func(r *record.Record) bool {
			if s.spec.PreFilterOR(r) {
				s.tryInsert(r)
			}
			return true
		})
		return nil
	}

	// AND case: admit records drawn from blocks that pass the
	// block-level AND admission, checked per final block (open question
	// resolution: final, post-closure block).
	admittedBlocks := make(map[string]bool)
	seen := make(map[string]bool)
	s.store.All(func(r *record.Record) bool {
		for _, bid := range s.blocks.BlocksOf(r.ID) {
			if _, ok := admittedBlocks[bid]; !ok {
				members := s.recordsOf(bid)
				admittedBlocks[bid] = s.spec.PreFilterAND(members, len(members) == 1)
			}
			if admittedBlocks[bid] && !seen[r.ID] {
				seen[r.ID] = true
				s.tryInsert(r)
			}
		}
		return true
	})
	return nil
}

func (s *Scheduler) recordsOf(bid string) []*record.Record {
	ids := s.blocks.RecordsOf(bid)
	out := make([]*record.Record, 0, len(ids))
	for _, id := range ids {
		if r, ok := s.store.Get(id); ok {
			out = append(out, r)
		}
	}
	return out
}

func (s *Scheduler) tryInsert(r *record.Record) {
	ok := r.Get(s.spec.OrderingKey)
	if s.spec.IgnoreNull && (ok.Null || ok.IsNaN()) {
		return
	}
	heap.Push(s.pq, head{Key: ok, ID: r.ID, Resolved: false})
}

// Next pops and resolves just enough of the dataset to produce the
// next result row, per spec §4.7's main loop. It returns (row, true,
// nil) for a result, (nil, false, nil) when the query is exhausted or
// top_k is reached, and a non-nil error on a fatal failure (the
// emitted prefix up to that point remains valid).
func (s *Scheduler) Next(ctx context.Context) (*query.AggregatedEntity, bool, error) {
	if s.spec.TopK > 0 && s.emittedN >= s.spec.TopK {
		return nil, false, nil
	}

	for s.pq.Len() > 0 {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		default:
		}

		h := heap.Pop(s.pq).(head)

		span, spanCtx := opentracing.StartSpanFromContext(ctx, "brewer.resolve_head")
		ctx = spanCtx
		span.SetTag("head.id", h.ID)
		span.SetTag("head.resolved", h.Resolved)

		canonical, skip, err := s.canonicalFor(h)
		if err != nil {
			span.Finish()
			return nil, false, err
		}
		if skip {
			span.Finish()
			continue
		}

		agg := s.entityCache[canonical]
		span.SetTag("entity.canonical", canonical)

		if s.spec.IgnoreNull && (agg.OrderingKey.Null || agg.OrderingKey.IsNaN()) {
			s.emitted[canonical] = true
			span.Finish()
			continue
		}

		if s.pq.Len() > 0 {
			top := s.pq.items[0]
			if !noWorse(agg.OrderingKey, top.Key, s.spec.OrderingMode) {
				heap.Push(s.pq, head{Key: agg.OrderingKey, ID: canonical, Resolved: true})
				span.SetTag("requeued_sentinel", true)
				span.Finish()
				continue
			}
		}

		s.emitted[canonical] = true
		span.Finish()

		if !s.spec.PostFilter(agg) {
			continue
		}
		s.emittedN++
		return agg, true, nil
	}
	return nil, false, nil
}

// canonicalFor resolves h to its canonical id, building the entity via
// C6 on first encounter. skip is true when the canonical entity has
// already been emitted and this head is stale.
func (s *Scheduler) canonicalFor(h head) (canonical string, skip bool, err error) {
	if h.Resolved {
		if s.emitted[h.ID] {
			return "", true, nil
		}
		return h.ID, false, nil
	}

	if c, ok := s.resolved[h.ID]; ok {
		if s.emitted[c] {
			return "", true, nil
		}
		return c, false, nil
	}

	entity, calls, err := resolve.Build(h.ID, s.blocks, s.matcher)
	if err != nil {
		return "", false, err
	}
	s.log.WithField("seed", h.ID).WithField("oracle_calls", calls).Debug("resolved entity")

	records := make([]*record.Record, 0, len(entity.Members))
	for _, rid := range entity.Members {
		s.resolved[rid] = entity.Canonical
		if r, ok := s.store.Get(rid); ok {
			records = append(records, r)
		}
	}

	s.entityCache[entity.Canonical] = s.aggregate(entity.Canonical, records)
	return entity.Canonical, false, nil
}

func (s *Scheduler) aggregate(canonical string, records []*record.Record) *query.AggregatedEntity {
	values := make(map[string]record.Value, len(s.spec.Aggregations))
	for attr, fn := range s.spec.Aggregations {
		values[attr] = s.agg.Attr(records, attr, fn, s.spec.IsNumeric(attr))
	}
	return &query.AggregatedEntity{
		Canonical:   canonical,
		Values:      values,
		OrderingKey: values[s.spec.OrderingKey],
	}
}
