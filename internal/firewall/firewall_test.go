package firewall

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/caseguard/internal/persona"
)

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		f, err := New(nil)
		require.NoError(t, err)
		assert.True(t, f.IsEnabled())
	})

	t.Run("missing category rejected", func(t *testing.T) {
		_, err := New(&Config{
			Enabled:   true,
			Forbidden: []PhraseRule{{Phrase: "x", Replacement: "y"}},
		})
		assert.Error(t, err)
	})

	t.Run("empty tables rejected when enabled", func(t *testing.T) {
		_, err := New(&Config{Enabled: true})
		assert.Error(t, err)
	})

	t.Run("replacement reintroducing a phrase rejected", func(t *testing.T) {
		_, err := New(&Config{
			Enabled: true,
			Forbidden: []PhraseRule{
				{Phrase: "you should argue", Category: "test", Replacement: "well, you should argue carefully"},
			},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reintroduces")
	})
}

func TestMustNew(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(&Config{Enabled: true})
	})
	assert.NotPanics(t, func() {
		MustNew(nil)
	})
}

func TestFirewall_Check(t *testing.T) {
	f := MustNew(nil)

	t.Run("clean text passes", func(t *testing.T) {
		v := f.Check("A search generally requires a warrant or a recognized exception.")
		assert.False(t, v.Violates)
		assert.Empty(t, v.Reason)
	})

	t.Run("forbidden phrase violates", func(t *testing.T) {
		v := f.Check("You should argue that the stop was pretextual.")
		assert.True(t, v.Violates)
		assert.Equal(t, "you should argue", v.Phrase)
		assert.Contains(t, v.Reason, "you should argue")
		assert.Equal(t, CategoryDirectiveAdvice, v.Category)
		assert.NotEmpty(t, v.Rewritten)
	})

	t.Run("matching is case-insensitive", func(t *testing.T) {
		v := f.Check("YOU SHOULD ARGUE the point.")
		assert.True(t, v.Violates)
	})

	t.Run("conclusion indicator violates", func(t *testing.T) {
		v := f.Check("Honestly, you will win this one.")
		assert.True(t, v.Violates)
		assert.Equal(t, CategoryOutcomePrediction, v.Category)
	})

	t.Run("first match decides the reason", func(t *testing.T) {
		v := f.Check("You should argue hard because you will win.")
		assert.True(t, v.Violates)
		// Forbidden table is checked before conclusions.
		assert.Equal(t, "you should argue", v.Phrase)
	})

	t.Run("empty text passes", func(t *testing.T) {
		assert.False(t, f.Check("").Violates)
	})
}

func TestFirewall_Rewrite(t *testing.T) {
	f := MustNew(nil)

	t.Run("substitutes the phrase", func(t *testing.T) {
		out := f.Rewrite("You should argue that the search was invalid.", persona.Plain)
		assert.NotContains(t, strings.ToLower(out), "you should argue")
		assert.Contains(t, out, "one line of argument sometimes examined is")
	})

	t.Run("appends the persona closing", func(t *testing.T) {
		for _, id := range persona.All() {
			out := f.Rewrite("You will win.", id)
			assert.Contains(t, out, persona.ProfileFor(id).Closing, "persona %s", id)
		}
	})

	t.Run("replaces every occurrence", func(t *testing.T) {
		out := f.Rewrite("You should argue X. Later, you should argue Y.", persona.Plain)
		assert.NotContains(t, strings.ToLower(out), "you should argue")
	})
}

func TestFirewall_Validate(t *testing.T) {
	f := MustNew(nil)

	t.Run("valid text returns as-is", func(t *testing.T) {
		v := f.Validate("Warrant requirements are a core Fourth Amendment topic.", persona.Plain)
		assert.True(t, v.Valid)
		assert.Empty(t, v.Corrected)
		assert.Nil(t, v.Violation)
	})

	t.Run("invalid text is corrected", func(t *testing.T) {
		v := f.Validate("You should argue suppression.", persona.Plain)
		require.False(t, v.Valid)
		require.NotNil(t, v.Violation)
		assert.Equal(t, "you should argue", v.Violation.Phrase)
		assert.False(t, f.Check(v.Corrected).Violates)
	})

	t.Run("Text helper selects the right output", func(t *testing.T) {
		original := "You should argue suppression."
		v := f.Validate(original, persona.Plain)
		assert.Equal(t, v.Corrected, v.Text(original))

		clean := "A suppression motion challenges admissibility."
		assert.Equal(t, clean, f.Validate(clean, persona.Plain).Text(clean))
	})
}

// TestFirewall_RewriteRegression is the required fixture: for every phrase in
// the shipped tables, the rewrite of a sentence containing it must itself
// pass Check, for every persona. A failure here means the substitution table
// has a defect.
func TestFirewall_RewriteRegression(t *testing.T) {
	f := MustNew(nil)

	var phrases []string
	for _, r := range DefaultForbidden() {
		phrases = append(phrases, r.Phrase)
	}
	for _, r := range DefaultConclusions() {
		phrases = append(phrases, r.Phrase)
	}
	require.NotEmpty(t, phrases)

	for _, phrase := range phrases {
		t.Run(phrase, func(t *testing.T) {
			sample := "Considering the facts, " + phrase + " the suppression issue."
			require.True(t, f.Check(sample).Violates, "fixture sentence must trip the check")

			for _, id := range persona.All() {
				rewritten := f.Rewrite(sample, id)
				verdict := f.Check(rewritten)
				assert.False(t, verdict.Violates,
					"rewrite for persona %s still violates: %s", id, verdict.Reason)
			}
		})
	}
}

func TestFirewall_Disabled(t *testing.T) {
	f, err := New(&Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, f.IsEnabled())
	assert.False(t, f.Check("you should argue anything").Violates)
}

func TestNoopFirewall(t *testing.T) {
	f := NoopFirewall{}
	assert.False(t, f.IsEnabled())
	assert.False(t, f.Check("you will win").Violates)
	assert.Equal(t, "you will win", f.Rewrite("you will win", persona.Plain))
	assert.True(t, f.Validate("you will win", persona.Plain).Valid)
}

func TestReplaceFold(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		phrase   string
		repl     string
		expected string
	}{
		{"simple", "a b c", "b", "x", "a x c"},
		{"case folded", "A B c", "b", "x", "A x c"},
		{"multiple", "b and b", "b", "x", "x and x"},
		{"absent", "a c", "b", "x", "a c"},
		{"at start", "b tail", "b", "x", "x tail"},
		{"at end", "head b", "b", "x", "head x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, replaceFold(tt.in, tt.phrase, tt.repl))
		})
	}
}
