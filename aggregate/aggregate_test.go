package aggregate

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brewer-db/brewer/record"
)

func recs(attr string, vals ...record.Value) []*record.Record {
	out := make([]*record.Record, len(vals))
	for i, v := range vals {
		out[i] = &record.Record{ID: string(rune('a' + i)), Attrs: map[string]record.Value{attr: v}}
	}
	return out
}

func TestMinMaxNumeric(t *testing.T) {
	a := New(nil, nil)
	rs := recs("price", record.NumericValue(5), record.NumericValue(1), record.NumericValue(3))
	assert.Equal(t, 1.0, a.Attr(rs, "price", Min, true).Num)
	assert.Equal(t, 5.0, a.Attr(rs, "price", Max, true).Num)
}

func TestMinMaxText(t *testing.T) {
	a := New(nil, nil)
	rs := recs("brand", record.TextValue("zeta"), record.TextValue("alpha"))
	assert.Equal(t, "alpha", a.Attr(rs, "brand", Min, false).Text)
	assert.Equal(t, "zeta", a.Attr(rs, "brand", Max, false).Text)
}

func TestMinMaxAllNullIsNull(t *testing.T) {
	a := New(nil, nil)
	rs := recs("x", record.NullValue(), record.NullValue())
	assert.True(t, a.Attr(rs, "x", Min, true).Null)
}

func TestAvgAndSumSkipNullAndNaN(t *testing.T) {
	a := New(nil, nil)
	rs := recs("n", record.NumericValue(2), record.NullValue(), record.NumericValue(4), record.NumericValue(math.NaN()))
	assert.Equal(t, 3.0, a.Attr(rs, "n", Avg, true).Num)
	assert.Equal(t, 6.0, a.Attr(rs, "n", Sum, true).Num)
}

func TestAvgCoercesNumericStrings(t *testing.T) {
	a := New(nil, nil)
	rs := recs("n", record.TextValue("2"), record.TextValue("4"))
	assert.Equal(t, 3.0, a.Attr(rs, "n", Avg, true).Num)
}

func TestAvgNonNumericTreatedAsNullWithWarning(t *testing.T) {
	a := New(nil, nil)
	rs := recs("n", record.TextValue("abc"), record.NumericValue(4))
	assert.Equal(t, 4.0, a.Attr(rs, "n", Avg, true).Num)
}

func TestVoteMajorityWithFirstSeenTiebreak(t *testing.T) {
	a := New(nil, nil)
	rs := recs("brand", record.TextValue("b"), record.TextValue("a"), record.TextValue("a"))
	assert.Equal(t, "a", a.Attr(rs, "brand", Vote, false).Text)

	tied := recs("brand", record.TextValue("b"), record.TextValue("a"))
	assert.Equal(t, "b", a.Attr(tied, "brand", Vote, false).Text, "tie breaks to the first-seen value")
}

func TestVoteNumericReturnsNumericValue(t *testing.T) {
	a := New(nil, nil)
	rs := recs("price", record.TextValue("9.5"), record.TextValue("9.5"))
	v := a.Attr(rs, "price", Vote, true)
	assert.True(t, v.Numeric)
	assert.Equal(t, 9.5, v.Num)
}

func TestRandomIsDeterministicForFixedSeed(t *testing.T) {
	rs := recs("x", record.TextValue("p"), record.TextValue("q"), record.TextValue("r"))
	a1 := New(rand.New(rand.NewSource(42)), nil)
	a2 := New(rand.New(rand.NewSource(42)), nil)
	assert.Equal(t, a1.Attr(rs, "x", Random, false), a2.Attr(rs, "x", Random, false))
}

func TestConcatSortsAndDedupsWithSeparator(t *testing.T) {
	a := New(nil, nil)
	rs := recs("tag", record.TextValue("b"), record.TextValue("a"), record.TextValue("b"))
	assert.Equal(t, "a|b", a.Attr(rs, "tag", Concat, false).Text)
}

func TestOrderingKeyAllowed(t *testing.T) {
	assert.True(t, OrderingKeyAllowed(Min))
	assert.True(t, OrderingKeyAllowed(Max))
	assert.True(t, OrderingKeyAllowed(Avg))
	assert.True(t, OrderingKeyAllowed(Vote))
	assert.False(t, OrderingKeyAllowed(Sum))
	assert.False(t, OrderingKeyAllowed(Random))
	assert.False(t, OrderingKeyAllowed(Concat))
}

func TestFuncString(t *testing.T) {
	assert.Equal(t, "min", Min.String())
	assert.Equal(t, "concat", Concat.String())
}
