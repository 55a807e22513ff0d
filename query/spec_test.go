package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brewer-db/brewer/aggregate"
)

func testSpec() *Spec {
	return &Spec{
		Aggregations: map[string]aggregate.Func{
			"id": aggregate.Min, "brand": aggregate.Vote, "price": aggregate.Min,
		},
		Attributes:   []string{"brand", "price"},
		Having:       [2]Condition{{Attribute: "brand", Substring: "a"}, {Attribute: "brand", Substring: "b"}},
		Operator:     Or,
		OrderingKey:  "price",
		OrderingMode: Asc,
		NumericAttrs: map[string]bool{"price": true},
	}
}

func TestValidateOK(t *testing.T) {
	s := testSpec()
	known := map[string]bool{"id": true, "brand": true, "price": true}
	require.NoError(t, s.Validate(known))
}

func TestValidateUnknownAttribute(t *testing.T) {
	s := testSpec()
	known := map[string]bool{"id": true, "price": true}
	err := s.Validate(known)
	require.Error(t, err)
	assert.True(t, ErrSchema.Is(err))
}

func TestValidateRejectsOrderingKeyAggregation(t *testing.T) {
	s := testSpec()
	s.Aggregations["price"] = aggregate.Sum
	known := map[string]bool{"id": true, "brand": true, "price": true}
	err := s.Validate(known)
	require.Error(t, err)
	assert.True(t, ErrSchema.Is(err))
}

func TestIsNumeric(t *testing.T) {
	s := testSpec()
	assert.True(t, s.IsNumeric("price"))
	assert.False(t, s.IsNumeric("brand"))
}

func TestSpecStringRendersUppercaseSQL(t *testing.T) {
	s := testSpec()
	out := s.String("widgets")
	assert.Contains(t, out, "SELECT")
	assert.Contains(t, out, "FROM WIDGETS")
	assert.Contains(t, out, "MIN(PRICE)")
	assert.Contains(t, out, " OR ")
}

func TestOperatorAndModeString(t *testing.T) {
	assert.Equal(t, "AND", And.String())
	assert.Equal(t, "OR", Or.String())
	assert.Equal(t, "ASC", Asc.String())
	assert.Equal(t, "DESC", Desc.String())
}
