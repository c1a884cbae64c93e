package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/caseguard/internal/orchestrator"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
)

func newChatOrchestrator(t *testing.T) *orchestrator.Orchestrator {
	t.Helper()
	orch, err := orchestrator.New(orchestrator.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { orch.Close() })
	return orch
}

func TestHandleCommand_Switch(t *testing.T) {
	t.Run("malformed id records a validation-failure breach", func(t *testing.T) {
		orch := newChatOrchestrator(t)
		active := orch.CreateCase(context.Background(), "Alpha")

		quit := handleCommand(orch, "/switch not-a-case-id")
		assert.False(t, quit)

		events := orch.Registry().BreachEvents()
		require.Len(t, events, 1)
		assert.Equal(t, registry.KindValidationFailure, events[0].Kind)

		// Recoverable: the active case and both agents are untouched.
		got, ok := orch.Registry().ActiveCaseID()
		require.True(t, ok)
		assert.Equal(t, active, got)
		assert.Equal(t, "ready", orch.GetSystemStatus().AgentStatuses["frontline"])
	})

	t.Run("well-formed unknown id records unknown-context", func(t *testing.T) {
		orch := newChatOrchestrator(t)
		orch.CreateCase(context.Background(), "Alpha")

		handleCommand(orch, "/switch 01HZZZZZZZZZZZZZZZZZZZZZZZ")

		events := orch.Registry().BreachEvents()
		require.Len(t, events, 1)
		assert.Equal(t, registry.KindUnknownContext, events[0].Kind)
	})

	t.Run("quit commands", func(t *testing.T) {
		orch := newChatOrchestrator(t)
		assert.True(t, handleCommand(orch, "/quit"))
		assert.True(t, handleCommand(orch, "/exit"))
		assert.False(t, handleCommand(orch, "/cases"))
	})
}
