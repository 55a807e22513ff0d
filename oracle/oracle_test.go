package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewer-db/brewer/block"
)

func testBlocks() *block.Index {
	return block.New(map[string][]string{
		"b0": {"r1", "r2", "r3"},
	}, nil)
}

func TestGoldMatcherSameIDAlwaysMatches(t *testing.T) {
	g := NewGoldMatcher(nil, testBlocks())
	ok, err := g.Matches("r1", "r1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGoldMatcherLooksUpOrderedPair(t *testing.T) {
	g := NewGoldMatcher([][2]string{{"r1", "r2"}}, testBlocks())
	ok, err := g.Matches("r2", "r1")
	require.NoError(t, err)
	assert.True(t, ok, "match must be symmetric regardless of gold-pair order")

	ok, err = g.Matches("r1", "r3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGoldMatcherRejectsNonCoBlockedPair(t *testing.T) {
	g := NewGoldMatcher(nil, testBlocks())
	_, err := g.Matches("r1", "elsewhere")
	require.Error(t, err)
	assert.True(t, ErrOracleMiss.Is(err))
}

func TestGoldMatcherMemoizesUncachedCalls(t *testing.T) {
	g := NewGoldMatcher([][2]string{{"r1", "r2"}}, testBlocks())
	_, _ = g.Matches("r1", "r2")
	_, _ = g.Matches("r2", "r1")
	_, _ = g.Matches("r1", "r2")
	assert.EqualValues(t, 1, g.UncachedCalls())
}

func TestGoldMatcherNilBlocksSkipsAssertion(t *testing.T) {
	g := NewGoldMatcher([][2]string{{"a", "b"}}, nil)
	ok, err := g.Matches("a", "b")
	require.NoError(t, err)
	assert.True(t, ok)
}
