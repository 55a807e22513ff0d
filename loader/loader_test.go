package loader

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadRecordsParsesTextAndNumericNulls(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "records.csv", "id,brand,price\n"+
		"r1,acme,10\n"+
		"r2,NaN,NaN\n"+
		"r3,widget,\n")

	store, err := LoadRecords(path, []string{"price"})
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())

	r1, _ := store.Get("r1")
	assert.Equal(t, "acme", r1.Get("brand").Text)
	assert.Equal(t, 10.0, r1.Get("price").Num)

	r2, _ := store.Get("r2")
	assert.True(t, r2.Get("brand").Null, "text column's NaN sentinel normalizes to null")
	assert.True(t, r2.Get("price").IsNaN(), "numeric column's NaN sentinel stays a present NaN, not null")

	r3, _ := store.Get("r3")
	assert.True(t, r3.Get("price").Null, "empty numeric cell is null")
}

func TestLoadRecordsMissingIDColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "records.csv", "brand,price\nacme,10\n")
	_, err := LoadRecords(path, nil)
	require.Error(t, err)
}

func TestLoadBlocksBuildsIndexAndValidatesCostCount(t *testing.T) {
	dir := t.TempDir()
	blocksPath := writeFile(t, dir, "blocks.json", `[["r1","r2"],["r3"]]`)
	costsPath := writeFile(t, dir, "costs.json", `{"0":1,"1":0}`)

	idx, err := LoadBlocks(blocksPath, costsPath, "")
	require.NoError(t, err)
	assert.True(t, idx.CoBlocked("r1", "r2"))
	assert.False(t, idx.CoBlocked("r1", "r3"))
	assert.Equal(t, uint64(1), idx.Cost("0"))
}

func TestLoadBlocksCostCountMismatch(t *testing.T) {
	dir := t.TempDir()
	blocksPath := writeFile(t, dir, "blocks.json", `[["r1","r2"],["r3"]]`)
	costsPath := writeFile(t, dir, "costs.json", `{"0":1}`)

	_, err := LoadBlocks(blocksPath, costsPath, "")
	require.Error(t, err)
}

func TestLoadBlocksCrossValidatesRecordBlocks(t *testing.T) {
	dir := t.TempDir()
	blocksPath := writeFile(t, dir, "blocks.json", `[["r1","r2"]]`)
	costsPath := writeFile(t, dir, "costs.json", `{"0":1}`)
	rbPath := writeFile(t, dir, "record_blocks.json", `{"r1":["0"],"r2":["1"]}`)

	_, err := LoadBlocks(blocksPath, costsPath, rbPath)
	require.Error(t, err, "record_blocks.json claims block 1, which doesn't exist")
}

func TestLoadGoldReadsOrderedPairs(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "gold.csv", "left_spec_id,right_spec_id\nr1,r2\n")
	g, err := LoadGold(path, nil)
	require.NoError(t, err)
	ok, err := g.Matches("r2", "r1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestParseValueNumericNaNLiteral(t *testing.T) {
	v := parseValue("NaN", true)
	assert.True(t, v.Numeric)
	assert.True(t, math.IsNaN(v.Num))
}
