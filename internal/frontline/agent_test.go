package frontline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
	"github.com/fyrsmithlabs/caseguard/internal/firewall"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
)

// flaggingFirewall reports every text as a violation and hands back a fixed
// correction, so the audit path can be exercised without a matching draft.
type flaggingFirewall struct{}

func (flaggingFirewall) Check(text string) firewall.Verdict {
	return firewall.Verdict{Original: text, Violates: true, Phrase: "you should argue", Category: "directive-advice", Reason: "matched"}
}

func (flaggingFirewall) Rewrite(text string, _ persona.ID) string { return "corrected text" }

func (f flaggingFirewall) Validate(text string, p persona.ID) firewall.Validation {
	v := f.Check(text)
	return firewall.Validation{Valid: false, Corrected: f.Rewrite(text, p), Violation: &v}
}

func (flaggingFirewall) IsEnabled() bool { return true }

func newTestAgent(t *testing.T, fw firewall.Firewall) (*Agent, *registry.Registry) {
	t.Helper()
	reg := registry.New(nil)
	if fw == nil {
		fw = firewall.MustNew(firewall.DefaultConfig())
	}
	a := New(reg, fw, nil, nil)
	reg.OnFlush(a.FlushSession)
	reg.OnBreach(func(e registry.BreachEvent) {
		if e.Kind == registry.KindCrossContextAccess {
			a.Block()
		}
	})
	return a, reg
}

func TestAgent_RespondToUser(t *testing.T) {
	t.Run("search narrative gets explanatory reply with no task", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		id := reg.CreateCase(context.Background(), "Alpha")

		resp, err := a.RespondToUser(context.Background(), "They searched my car without a warrant", id)
		require.NoError(t, err)

		assert.Contains(t, resp.Message, "warrant requirement")
		assert.False(t, a.fw.Check(resp.Message).Violates)
		assert.Nil(t, resp.TriggerTask)
		assert.False(t, resp.AwaitingUserInput)
		assert.Equal(t, persona.Default, resp.Persona)
	})

	t.Run("unmatched input falls back to persona prompt", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		id := reg.CreateCase(context.Background(), "Alpha")
		require.NoError(t, a.SetPersona(persona.Mentor))

		resp, err := a.RespondToUser(context.Background(), "hmm", id)
		require.NoError(t, err)

		assert.True(t, resp.AwaitingUserInput)
		assert.Equal(t, persona.ProfileFor(persona.Mentor).FallbackPrompt, resp.Message)
		assert.Equal(t, persona.Mentor, resp.Persona)
	})

	t.Run("action phrase attaches a task request", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		id := reg.CreateCase(context.Background(), "Alpha")

		resp, err := a.RespondToUser(context.Background(), "What is the legal standard for a traffic stop?", id)
		require.NoError(t, err)
		require.NotNil(t, resp.TriggerTask)
		assert.Equal(t, "legal-standard-lookup", resp.TriggerTask.Kind)
	})

	t.Run("firewall violation is corrected and audited, turn completes", func(t *testing.T) {
		a, reg := newTestAgent(t, flaggingFirewall{})
		id := reg.CreateCase(context.Background(), "Alpha")

		resp, err := a.RespondToUser(context.Background(), "tell me anything", id)
		require.NoError(t, err)

		assert.Equal(t, "corrected text", resp.Message)
		violations := a.PolicyViolations()
		require.Len(t, violations, 1)
		assert.Equal(t, "you should argue", violations[0].Phrase)

		history := a.History(id)
		require.Len(t, history, 1)
		assert.Equal(t, "corrected text", history[0].Output, "log records what was emitted")
	})

	t.Run("stale case id aborts the turn and blocks the agent", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		stale := reg.CreateCase(context.Background(), "Alpha")
		reg.CreateCase(context.Background(), "Beta")

		_, err := a.RespondToUser(context.Background(), "hello", stale)
		require.ErrorIs(t, err, registry.ErrBoundaryViolation)
		assert.True(t, a.Blocked())
		assert.Equal(t, "blocked", a.Status())

		_, err = a.RespondToUser(context.Background(), "hello", stale)
		require.ErrorIs(t, err, ErrAgentBlocked)
		assert.Empty(t, a.History(stale))
	})

	t.Run("locked case refuses the turn", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		id := reg.CreateCase(context.Background(), "Alpha")
		require.NoError(t, reg.LockCase(id))

		_, err := a.RespondToUser(context.Background(), "hello", id)
		require.ErrorIs(t, err, registry.ErrCaseLocked)
		assert.Empty(t, reg.BreachEvents(), "locked active case is no breach")
	})

	t.Run("locked non-active case is still a recorded breach", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		alpha := reg.CreateCase(context.Background(), "Alpha")
		require.NoError(t, reg.LockCase(alpha))
		reg.CreateCase(context.Background(), "Beta")

		_, err := a.RespondToUser(context.Background(), "hello", alpha)
		require.ErrorIs(t, err, registry.ErrBoundaryViolation, "boundary outranks the lock")

		events := reg.BreachEvents()
		require.Len(t, events, 1)
		assert.Equal(t, registry.KindCrossContextAccess, events[0].Kind)
		assert.Equal(t, alpha, events[0].AttemptedCaseID)
		assert.True(t, a.Blocked())
	})

	t.Run("empty input is rejected", func(t *testing.T) {
		a, reg := newTestAgent(t, nil)
		id := reg.CreateCase(context.Background(), "Alpha")
		_, err := a.RespondToUser(context.Background(), "", id)
		require.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestAgent_HistoryIsolation(t *testing.T) {
	a, reg := newTestAgent(t, nil)
	ctx := context.Background()

	caseA := reg.CreateCase(ctx, "A")
	_, err := a.RespondToUser(ctx, "They searched my car without a warrant", caseA)
	require.NoError(t, err)

	caseB := reg.CreateCase(ctx, "B")
	_, err = a.RespondToUser(ctx, "I got a summons with a court date", caseB)
	require.NoError(t, err)

	require.True(t, reg.SwitchToCase(ctx, caseA))
	_, err = a.RespondToUser(ctx, "What happens next?", caseA)
	require.NoError(t, err)

	historyA := a.History(caseA)
	require.Len(t, historyA, 2)
	for _, turn := range historyA {
		assert.NotContains(t, turn.Input, "summons", "nothing from B in A's log")
	}
	require.Len(t, a.History(caseB), 1)
}

func TestAgent_SetPersona(t *testing.T) {
	a, _ := newTestAgent(t, nil)

	require.NoError(t, a.SetPersona(persona.Scholar))
	assert.Equal(t, persona.Scholar, a.Persona())

	err := a.SetPersona(persona.ID("pirate"))
	require.ErrorIs(t, err, persona.ErrUnknownPersona)
	assert.Equal(t, persona.Scholar, a.Persona())
}

func TestAgent_ExecutePanics(t *testing.T) {
	a, _ := newTestAgent(t, nil)
	assert.PanicsWithValue(t, "BUG: frontline agent asked to execute a task payload", func() {
		_, _ = a.Execute(context.Background(), dispatch.TaskView{})
	})
}
