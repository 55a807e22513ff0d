package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewer-db/brewer/block"
	"github.com/brewer-db/brewer/oracle"
)

// chainMatcher matches any two ids present in the same pair listed in
// its allow-set, letting tests build small deterministic match graphs
// without going through a real gold file.
type chainMatcher struct {
	pairs map[[2]string]bool
}

func newChainMatcher(pairs ...[2]string) *chainMatcher {
	m := &chainMatcher{pairs: make(map[[2]string]bool)}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if b < a {
			a, b = b, a
		}
		m.pairs[[2]string{a, b}] = true
	}
	return m
}

func (m *chainMatcher) Matches(a, b string) (bool, error) {
	if a == b {
		return true, nil
	}
	lo, hi := a, b
	if hi < lo {
		lo, hi = hi, lo
	}
	return m.pairs[[2]string{lo, hi}], nil
}

func TestBuildTransitiveClosure(t *testing.T) {
	blocks := block.New(map[string][]string{
		"b0": {"r3", "r1", "r2"},
	}, nil)
	matcher := newChainMatcher([2]string{"r1", "r2"}, [2]string{"r2", "r3"})

	entity, calls, err := Build("r1", blocks, matcher)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, entity.Members)
	assert.Equal(t, "r1", entity.Canonical, "canonical id is the lexicographically-smallest member")
	assert.Greater(t, calls, 0)
}

func TestBuildCanonicalIsLexSmallestRegardlessOfSeed(t *testing.T) {
	blocks := block.New(map[string][]string{
		"b0": {"z9", "a1", "m5"},
	}, nil)
	matcher := newChainMatcher([2]string{"z9", "a1"}, [2]string{"a1", "m5"})

	fromZ, _, err := Build("z9", blocks, matcher)
	require.NoError(t, err)
	fromM, _, err := Build("m5", blocks, matcher)
	require.NoError(t, err)

	assert.Equal(t, "a1", fromZ.Canonical)
	assert.Equal(t, fromZ.Canonical, fromM.Canonical)
	assert.ElementsMatch(t, fromZ.Members, fromM.Members)
}

func TestBuildSingletonWhenNoMatches(t *testing.T) {
	blocks := block.New(map[string][]string{"b0": {"r1", "r2"}}, nil)
	matcher := newChainMatcher()
	entity, _, err := Build("r1", blocks, matcher)
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, entity.Members)
}

func TestBuildPropagatesOracleError(t *testing.T) {
	blocks := block.New(map[string][]string{"b0": {"r1", "r2"}}, nil)
	g := oracle.NewGoldMatcher(nil, block.New(map[string][]string{"other": {"r1"}}, nil))
	_, _, err := Build("r1", blocks, g)
	require.Error(t, err)
	assert.True(t, oracle.ErrOracleMiss.Is(err))
}
