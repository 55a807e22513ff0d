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

// Package oracle implements the match oracle (C3): a boolean,
// symmetric match(rid_a, rid_b) function, backed here by a gold-pair
// set, memoized for the process lifetime and guarded against
// out-of-block lookups.
package oracle

import (
	"sync"

	"github.com/mitchellh/hashstructure"
	"gopkg.in/src-d/go-errors.v1"

	"github.com/brewer-db/brewer/block"
)

// ErrOracleMiss is a fatal programming-bug assertion: the caller asked
// the oracle about a pair that doesn't share a block. Per contract,
// every lookup must be pre-filtered by co-blocking; this kind signals a
// violation of that contract rather than a data problem.
var ErrOracleMiss = errors.NewKind("oracle queried for non-co-blocked pair %s/%s")

// Matcher is the abstract pairwise match function. The gold-backed
// implementation below is one concrete variant; a learned classifier
// could implement the same interface without touching the scheduler.
type Matcher interface {
	// Matches reports whether a and b refer to the same entity. It must
	// be symmetric: Matches(a,b) == Matches(b,a).
	Matches(a, b string) (bool, error)
}

type pairKey struct {
	A, B string
}

// GoldMatcher is a Matcher backed by a set of ordered gold pairs
// (min(a,b), max(a,b)), with a process-lifetime memoization cache keyed
// on a hash of the ordered pair.
type GoldMatcher struct {
	gold   map[uint64]struct{}
	blocks *block.Index

	mu      sync.Mutex
	cache   map[uint64]bool
	uncalls int64 // count of uncached oracle calls, the engine's primary cost metric
}

// NewGoldMatcher builds a GoldMatcher from a set of ordered (a < b)
// gold pairs. blocks is used solely to assert the co-blocking contract
// on every lookup; pass nil to skip the assertion (e.g. in tests that
// exercise the oracle directly without a real block index).
func NewGoldMatcher(pairs [][2]string, blocks *block.Index) *GoldMatcher {
	g := &GoldMatcher{
		gold:   make(map[uint64]struct{}, len(pairs)),
		blocks: blocks,
		cache:  make(map[uint64]bool),
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if b < a {
			a, b = b, a
		}
		g.gold[mustHash(a, b)] = struct{}{}
	}
	return g
}

func mustHash(a, b string) uint64 {
	h, err := hashstructure.Hash(pairKey{A: a, B: b}, nil)
	if err != nil {
		// hashstructure only fails on unsupported types; pairKey is a
		// plain struct of two strings, so this can't happen.
		panic(err)
	}
	return h
}

// Matches looks up whether a and b are a gold match, asserting they are
// co-blocked first. The ordered-pair lookup is memoized: repeated calls
// for the same unordered pair count once against UncachedCalls.
func (g *GoldMatcher) Matches(a, b string) (bool, error) {
	if a == b {
		return true, nil
	}
	if g.blocks != nil && !g.blocks.CoBlocked(a, b) {
		return false, ErrOracleMiss.New(a, b)
	}
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	key := mustHash(lo, hi)

	g.mu.Lock()
	defer g.mu.Unlock()
	if v, ok := g.cache[key]; ok {
		return v, nil
	}
	_, match := g.gold[key]
	g.cache[key] = match
	g.uncalls++
	return match, nil
}

// UncachedCalls returns the number of distinct unordered co-blocked
// pairs actually looked up (Testable Property 7), the primary cost
// metric for comparing lazy and batch resolution.
func (g *GoldMatcher) UncachedCalls() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.uncalls
}
