package block

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testIndex() *Index {
	return New(map[string][]string{
		"b0": {"r1", "r2", "r3"},
		"b1": {"r3", "r4"},
	}, map[string]uint64{"b0": 3, "b1": 1})
}

func TestBlocksOfAndRecordsOf(t *testing.T) {
	idx := testIndex()
	assert.ElementsMatch(t, []string{"b0"}, idx.BlocksOf("r1"))
	assert.ElementsMatch(t, []string{"b0", "b1"}, idx.BlocksOf("r3"))
	assert.ElementsMatch(t, []string{"r1", "r2", "r3"}, idx.RecordsOf("b0"))
}

func TestCost(t *testing.T) {
	idx := testIndex()
	assert.Equal(t, uint64(3), idx.Cost("b0"))
	assert.Equal(t, uint64(0), idx.Cost("unknown"))
}

func TestCoBlocked(t *testing.T) {
	idx := testIndex()
	assert.True(t, idx.CoBlocked("r1", "r2"))
	assert.True(t, idx.CoBlocked("r3", "r4"))
	assert.False(t, idx.CoBlocked("r1", "r4"))
	assert.False(t, idx.CoBlocked("r1", "unknown"))
}

func TestNeighboursExcludesSelfAndVisited(t *testing.T) {
	idx := testIndex()
	n := idx.Neighbours("r3", map[string]bool{"r2": true})
	assert.ElementsMatch(t, []string{"r1", "r4"}, n)
}

func TestUnblockedIsOneBlock(t *testing.T) {
	idx := Unblocked([]string{"a", "b", "c"})
	assert.True(t, idx.CoBlocked("a", "c"))
	assert.Equal(t, uint64(3), idx.Cost("_all"))
}
