package persona

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("accepts every member of the closed set", func(t *testing.T) {
		for _, id := range All() {
			got, err := Parse(string(id))
			require.NoError(t, err)
			assert.Equal(t, id, got)
		}
	})

	t.Run("rejects unknown ids", func(t *testing.T) {
		_, err := Parse("pirate")
		assert.ErrorIs(t, err, ErrUnknownPersona)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := Parse("")
		assert.ErrorIs(t, err, ErrUnknownPersona)
	})
}

func TestProfileFor(t *testing.T) {
	t.Run("every persona has complete templates", func(t *testing.T) {
		for _, id := range All() {
			p := ProfileFor(id)
			assert.Equal(t, id, p.ID)
			assert.NotEmpty(t, p.FallbackPrompt, "persona %s missing fallback prompt", id)
			assert.NotEmpty(t, p.Closing, "persona %s missing closing", id)
		}
	})

	t.Run("unknown id falls back to default", func(t *testing.T) {
		p := ProfileFor(ID("pirate"))
		assert.Equal(t, Default, p.ID)
	})
}
