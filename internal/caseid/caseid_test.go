package caseid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_New(t *testing.T) {
	g := NewGenerator()

	t.Run("ids are unique", func(t *testing.T) {
		seen := make(map[ID]bool)
		for i := 0; i < 1000; i++ {
			id := g.New()
			assert.False(t, seen[id], "id %s issued twice", id)
			seen[id] = true
		}
	})

	t.Run("ids are sortable by issue order", func(t *testing.T) {
		prev := g.New()
		for i := 0; i < 100; i++ {
			next := g.New()
			assert.Less(t, prev.String(), next.String())
			prev = next
		}
	})

	t.Run("ids round-trip through Parse", func(t *testing.T) {
		id := g.New()
		parsed, err := Parse(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("ids carry a timestamp", func(t *testing.T) {
		id := g.New()
		ts, err := id.Timestamp()
		require.NoError(t, err)
		assert.False(t, ts.IsZero())
	})
}

func TestParse(t *testing.T) {
	t.Run("rejects garbage", func(t *testing.T) {
		_, err := Parse("not-a-case-id")
		assert.ErrorIs(t, err, ErrInvalidID)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorIs(t, err, ErrInvalidID)
	})
}

func TestID_IsZero(t *testing.T) {
	assert.True(t, ID("").IsZero())
	assert.False(t, NewGenerator().New().IsZero())
}
