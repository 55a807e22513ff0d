package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDuplicateID(t *testing.T) {
	_, err := NewStore([]*Record{
		{ID: "r1", Attrs: map[string]Value{}},
		{ID: "r1", Attrs: map[string]Value{}},
	})
	require.Error(t, err)
	require.True(t, ErrSchema.Is(err))
}

func TestStoreOrderAndAll(t *testing.T) {
	s, err := NewStore([]*Record{
		{ID: "b", Attrs: map[string]Value{}},
		{ID: "a", Attrs: map[string]Value{}},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 0, s.Order("b"))
	assert.Equal(t, 1, s.Order("a"))
	assert.Equal(t, -1, s.Order("missing"))

	var seen []string
	s.All(func(r *Record) bool {
		seen = append(seen, r.ID)
		return true
	})
	assert.Equal(t, []string{"b", "a"}, seen)
}

func TestStoreGetMissing(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	_, ok := s.Get("nope")
	assert.False(t, ok)
	assert.Nil(t, s.MustGet("nope"))
}

func TestStoreProject(t *testing.T) {
	s, err := NewStore([]*Record{
		{ID: "r1", Attrs: map[string]Value{"brand": TextValue("acme")}},
	})
	require.NoError(t, err)
	rows := s.Project([]string{"r1"}, []string{"brand", "missing"})
	require.Len(t, rows, 1)
	assert.Equal(t, "acme", rows[0][0].Text)
	assert.True(t, rows[0][1].Null)
}
