package frontline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []TriggerTag
	}{
		{
			name:  "warrantless search raises search",
			input: "They searched my car without a warrant",
			want:  []TriggerTag{TagSearch},
		},
		{
			name:  "force outranks detention in ordering",
			input: "I was pulled over and the officer slammed me against the hood",
			want:  []TriggerTag{TagForce, TagDetention},
		},
		{
			name:  "procedure keywords",
			input: "I got a summons with a court date next month",
			want:  []TriggerTag{TagProcedure},
		},
		{
			name:  "case insensitive",
			input: "THEY HANDCUFFED ME",
			want:  []TriggerTag{TagDetention},
		},
		{
			name:  "no match",
			input: "hello there",
			want:  nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classify(tt.input))
		})
	}
}

func TestClassify_OrderIndependent(t *testing.T) {
	a := classify("pulled over then tased")
	b := classify("tased after being pulled over")
	assert.Equal(t, a, b)
	assert.Equal(t, []TriggerTag{TagForce, TagDetention}, a)
}

func TestScanAction(t *testing.T) {
	t.Run("legal standard request routes to research", func(t *testing.T) {
		req := scanAction("What is the legal standard for a stop like this?")
		require.NotNil(t, req)
		assert.Equal(t, dispatch.RoleResearch, req.ToAgent)
		assert.Equal(t, "legal-standard-lookup", req.Kind)
		assert.Contains(t, req.Payload, "legal standard")
	})

	t.Run("timeline request routes to chronology", func(t *testing.T) {
		req := scanAction("Can you build a timeline of what happened?")
		require.NotNil(t, req)
		assert.Equal(t, dispatch.RoleChronology, req.ToAgent)
		assert.Equal(t, "timeline-build", req.Kind)
	})

	t.Run("trigger keywords alone request nothing", func(t *testing.T) {
		assert.Nil(t, scanAction("They searched my car without a warrant"))
	})
}
