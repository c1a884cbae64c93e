package frontline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
	"github.com/fyrsmithlabs/caseguard/internal/firewall"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
	"github.com/fyrsmithlabs/caseguard/internal/telemetry"
)

// Errors the agent can surface to its caller.
var (
	ErrAgentBlocked = errors.New("frontline agent is blocked pending manual recovery")
	ErrEmptyInput   = errors.New("input is empty")
)

// TurnRecord is one entry in a case's append-only conversation log.
type TurnRecord struct {
	TurnID    string       `json:"turn_id"`
	Input     string       `json:"input"`
	Output    string       `json:"output"`
	Timestamp time.Time    `json:"timestamp"`
	Tags      []TriggerTag `json:"tags,omitempty"`
}

// Response is the envelope returned to the caller after one turn.
type Response struct {
	Message string `json:"message"`

	Persona persona.ID `json:"persona"`

	// AwaitingUserInput is set when no trigger tag matched and the reply is
	// a prompt for more detail rather than an explanation.
	AwaitingUserInput bool `json:"awaiting_user_input"`

	// TriggerTask is the background work the input asked for, if any. The
	// agent only describes the task; dispatching it is the caller's job.
	TriggerTask *dispatch.TaskRequest `json:"trigger_task,omitempty"`
}

// Agent drafts every user-visible reply. One instance serves one session;
// it holds the current persona, per-case conversation logs, and the audit
// trail of firewall rewrites.
type Agent struct {
	mu sync.Mutex

	reg     *registry.Registry
	fw      firewall.Firewall
	logger  *logging.Logger
	metrics *telemetry.Metrics

	persona    persona.ID
	blocked    bool
	history    map[caseid.ID][]TurnRecord
	violations []firewall.Verdict

	// draft is transient turn state, discarded on a session flush.
	draft string
}

// New creates the frontline agent. A nil firewall gets the noop firewall,
// which passes everything through unchanged.
func New(reg *registry.Registry, fw firewall.Firewall, logger *logging.Logger, metrics *telemetry.Metrics) *Agent {
	if fw == nil {
		fw = firewall.NoopFirewall{}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Agent{
		reg:     reg,
		fw:      fw,
		logger:  logger.Named("frontline"),
		metrics: metrics,
		persona: persona.Default,
		history: make(map[caseid.ID][]TurnRecord),
	}
}

// RespondToUser runs one conversation turn against the given case.
//
// The boundary check runs without the agent's own lock held: a breach
// recorded there re-enters the agent through Block via the registry's
// breach handlers.
func (a *Agent) RespondToUser(ctx context.Context, input string, id caseid.ID) (Response, error) {
	if input == "" {
		return Response{}, ErrEmptyInput
	}

	a.mu.Lock()
	blocked := a.blocked
	p := a.persona
	a.mu.Unlock()

	if blocked {
		return Response{}, ErrAgentBlocked
	}
	// Boundary first: a turn addressed to a non-active case must land in
	// the breach log even when that case is also locked.
	if !a.reg.EnforceBoundary(ctx, id, "frontline") {
		return Response{}, registry.ErrBoundaryViolation
	}
	if a.reg.IsLocked(id) {
		return Response{}, registry.ErrCaseLocked
	}

	tags := classify(input)

	a.mu.Lock()
	defer a.mu.Unlock()

	a.draft = a.selectDraft(tags, p)
	awaiting := len(tags) == 0

	validation := a.fw.Validate(a.draft, p)
	message := validation.Text(a.draft)
	if !validation.Valid {
		a.violations = append(a.violations, *validation.Violation)
		a.metrics.RecordPolicyViolation(validation.Violation.Category)
		a.logger.Warn(ctx, "draft rewritten by content policy",
			zap.String("phrase", validation.Violation.Phrase),
			zap.String("category", validation.Violation.Category),
		)
	}

	task := scanAction(input)

	turn := TurnRecord{
		TurnID:    uuid.New().String(),
		Input:     input,
		Output:    message,
		Timestamp: time.Now().UTC(),
		Tags:      tags,
	}
	a.history[id] = append(a.history[id], turn)
	a.draft = ""
	a.metrics.RecordTurn()

	a.logger.Debug(logging.WithTurnID(logging.WithCaseID(ctx, id), turn.TurnID),
		"turn completed",
		zap.Int("tags", len(tags)),
		zap.Bool("task_requested", task != nil),
	)

	return Response{
		Message:           message,
		Persona:           p,
		AwaitingUserInput: awaiting,
		TriggerTask:       task,
	}, nil
}

// selectDraft picks the response body: first matching tag in priority order
// wins, the persona's fallback prompt covers silence.
func (a *Agent) selectDraft(tags []TriggerTag, p persona.ID) string {
	for _, tag := range tags {
		if body, ok := draftTable[tag]; ok {
			return body
		}
	}
	return persona.ProfileFor(p).FallbackPrompt
}

// Execute exists to fail loudly. The frontline agent never processes task
// payloads; reaching this is a wiring defect, not a runtime condition.
func (a *Agent) Execute(context.Context, dispatch.TaskView) (string, error) {
	panic("BUG: frontline agent asked to execute a task payload")
}

// FlushSession discards transient turn state. Conversation logs are
// case-scoped, not session-scoped, and survive. Registered with the
// registry's flush callbacks so it completes before a switch returns.
func (a *Agent) FlushSession(previous caseid.ID) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.draft = ""
}

// Block marks the agent blocked. Part of the fail-closed breach response;
// there is no Unblock, recovery means a new session.
func (a *Agent) Block() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blocked = true
}

// Blocked reports whether the agent has been blocked.
func (a *Agent) Blocked() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.blocked
}

// Status reports the agent state for status surfaces.
func (a *Agent) Status() string {
	if a.Blocked() {
		return "blocked"
	}
	return "ready"
}

// SetPersona switches the active persona. Persona is session configuration,
// not case state, so it carries across case switches.
func (a *Agent) SetPersona(id persona.ID) error {
	p, err := persona.Parse(string(id))
	if err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.persona = p
	return nil
}

// Persona returns the active persona.
func (a *Agent) Persona() persona.ID {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.persona
}

// History returns a copy of one case's conversation log, oldest first.
func (a *Agent) History(id caseid.ID) []TurnRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]TurnRecord(nil), a.history[id]...)
}

// PolicyViolations returns a copy of the firewall rewrite audit trail.
func (a *Agent) PolicyViolations() []firewall.Verdict {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]firewall.Verdict(nil), a.violations...)
}
