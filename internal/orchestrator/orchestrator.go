package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
	"github.com/fyrsmithlabs/caseguard/internal/firewall"
	"github.com/fyrsmithlabs/caseguard/internal/frontline"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
	"github.com/fyrsmithlabs/caseguard/internal/specialist"
	"github.com/fyrsmithlabs/caseguard/internal/store"
	"github.com/fyrsmithlabs/caseguard/internal/telemetry"
)

// DefaultDispatchTimeout bounds specialist execution when no timeout is
// configured. Expiry is recorded as a failed task.
const DefaultDispatchTimeout = 5 * time.Second

// Options configures an Orchestrator. Zero values get working defaults:
// a nop logger, the shipped firewall rules, the built-in specialists, and
// no archive.
type Options struct {
	Logger          *logging.Logger
	Metrics         *telemetry.Metrics
	Firewall        firewall.Firewall
	Archive         *store.Archive
	DispatchTimeout time.Duration

	// Specialists overrides the built-in research and chronology agents.
	Specialists []dispatch.Specialist
}

// Orchestrator owns one session: one registry, one frontline agent, one
// coordinator. It is safe for concurrent use; turns are serialized.
type Orchestrator struct {
	mu sync.Mutex

	reg     *registry.Registry
	agent   *frontline.Agent
	coord   *dispatch.Coordinator
	archive *store.Archive
	logger  *logging.Logger
	metrics *telemetry.Metrics

	// tasks tracks in-flight async dispatches so Drain can wait for them.
	tasks sync.WaitGroup
}

// New wires a complete session. The breach response is installed here:
// any recorded breach halts the coordinator and blocks the frontline
// agent before the breached call returns.
func New(opts Options) (*Orchestrator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("orchestrator")

	fw := opts.Firewall
	if fw == nil {
		var err error
		fw, err = firewall.New(firewall.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("build firewall: %w", err)
		}
	}

	timeout := opts.DispatchTimeout
	if timeout == 0 {
		timeout = DefaultDispatchTimeout
	}

	reg := registry.New(opts.Logger)
	agent := frontline.New(reg, fw, opts.Logger, opts.Metrics)
	coord := dispatch.NewCoordinator(reg, opts.Logger, opts.Metrics, timeout)

	o := &Orchestrator{
		reg:     reg,
		agent:   agent,
		coord:   coord,
		archive: opts.Archive,
		logger:  logger,
		metrics: opts.Metrics,
	}

	reg.OnFlush(agent.FlushSession)
	reg.OnBreach(func(event registry.BreachEvent) {
		opts.Metrics.RecordBreach(string(event.Kind))

		// Only a cross-context access engages the fail-closed response.
		// Unknown-context and validation failures are recoverable: they
		// surface to the caller and stay in the audit log.
		if event.Kind != registry.KindCrossContextAccess {
			logger.Warn(context.Background(), "recoverable breach recorded",
				zap.String("breach_id", event.ID),
				zap.String("kind", string(event.Kind)),
				zap.String("source_agent", event.SourceAgent),
				zap.String("attempted_case_id", event.AttemptedCaseID.String()),
			)
			return
		}

		coord.Halt()
		agent.Block()
		logger.Error(context.Background(), "breach response engaged",
			zap.String("breach_id", event.ID),
			zap.String("kind", string(event.Kind)),
			zap.String("source_agent", event.SourceAgent),
			zap.String("attempted_case_id", event.AttemptedCaseID.String()),
			zap.String("active_case_id", event.ActiveCaseIDAtTime.String()),
		)
	})

	specs := opts.Specialists
	if specs == nil {
		specs = []dispatch.Specialist{
			specialist.NewResearch(opts.Logger),
			specialist.NewChronology(opts.Logger),
		}
	}
	for _, s := range specs {
		if err := coord.RegisterAgent(s); err != nil {
			return nil, fmt.Errorf("register specialist: %w", err)
		}
	}

	return o, nil
}

// CreateCase registers a new case and makes it active.
func (o *Orchestrator) CreateCase(ctx context.Context, title string) caseid.ID {
	id := o.reg.CreateCase(ctx, title)
	o.metrics.RecordCaseCreated()
	return id
}

// SwitchToCase makes the given case active. Session state is flushed
// before this returns; false means the id is unknown.
func (o *Orchestrator) SwitchToCase(ctx context.Context, id caseid.ID) bool {
	return o.reg.SwitchToCase(ctx, id)
}

// SendMessage runs one conversation turn. The reply returns as soon as the
// frontline agent produces it; any requested background task is dispatched
// asynchronously and its outcome never reaches the user.
func (o *Orchestrator) SendMessage(ctx context.Context, text string, id caseid.ID) (frontline.Response, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	resp, err := o.agent.RespondToUser(ctx, text, id)
	if err != nil {
		return frontline.Response{}, err
	}

	o.persistTurn(ctx, id, text, resp)

	if resp.TriggerTask != nil {
		req := *resp.TriggerTask
		o.tasks.Add(1)
		go func() {
			defer o.tasks.Done()
			o.runTask(req, id)
		}()
	}

	return resp, nil
}

// runTask executes one background dispatch. Faults land in the log and on
// the task record, nowhere else.
func (o *Orchestrator) runTask(req dispatch.TaskRequest, id caseid.ID) {
	ctx := logging.WithCaseID(context.Background(), id)
	view := o.coord.Dispatch(ctx, req.ToAgent, id, req.Kind, req.Payload)
	if view.Status != dispatch.StatusCompleted {
		o.logger.Warn(ctx, "background task failed",
			zap.String("task_id", view.ID),
			zap.String("kind", view.Kind),
			zap.String("error", view.Error),
		)
	}
	o.persistTask(ctx, view)
}

func (o *Orchestrator) persistTurn(ctx context.Context, id caseid.ID, input string, resp frontline.Response) {
	if o.archive == nil {
		return
	}
	history := o.agent.History(id)
	if len(history) == 0 {
		return
	}
	turn := history[len(history)-1]
	tags := make([]string, 0, len(turn.Tags))
	for _, tag := range turn.Tags {
		tags = append(tags, string(tag))
	}
	err := o.archive.SaveTurn(ctx, store.TurnEntry{
		TurnID:    turn.TurnID,
		CaseID:    id,
		Input:     input,
		Output:    resp.Message,
		Tags:      tags,
		Timestamp: turn.Timestamp,
	})
	if err != nil {
		o.logger.Error(ctx, "archive turn write failed", zap.Error(err))
	}
}

func (o *Orchestrator) persistTask(ctx context.Context, view dispatch.TaskView) {
	if o.archive == nil {
		return
	}
	err := o.archive.SaveTask(ctx, store.TaskEntry{
		TaskID:      view.ID,
		CaseID:      view.CaseID,
		FromAgent:   view.FromAgent,
		ToAgent:     string(view.ToAgent),
		Kind:        view.Kind,
		Payload:     view.Payload,
		Status:      string(view.Status),
		Result:      view.Result,
		Error:       view.Error,
		CreatedAt:   view.CreatedAt,
		CompletedAt: view.CompletedAt,
	})
	if err != nil {
		o.logger.Error(ctx, "archive task write failed", zap.Error(err))
	}
}

// SetPersona switches the frontline agent's persona.
func (o *Orchestrator) SetPersona(id persona.ID) error {
	return o.agent.SetPersona(id)
}

// Persona returns the active persona.
func (o *Orchestrator) Persona() persona.ID {
	return o.agent.Persona()
}

// GetSystemStatus returns the current system snapshot.
func (o *Orchestrator) GetSystemStatus() Status {
	coordStatus := "ready"
	if o.coord.Halted() {
		coordStatus = "blocked"
	}
	active, _ := o.reg.ActiveCaseID()
	return Status{
		ActiveCaseID: active,
		Persona:      o.agent.Persona(),
		AgentStatuses: map[string]string{
			"frontline": o.agent.Status(),
			"dispatch":  coordStatus,
		},
		BreachEvents: o.reg.BreachEvents(),
		ActiveTasks:  o.coord.ActiveTaskChains(),
		Cases:        o.reg.ListCases(),
	}
}

// ExportCase produces a snapshot of one case. The export is itself
// boundary-checked: a non-active id fails and records a breach.
func (o *Orchestrator) ExportCase(ctx context.Context, id caseid.ID) (Snapshot, error) {
	if !o.reg.EnforceBoundary(ctx, id, "export") {
		return Snapshot{}, registry.ErrBoundaryViolation
	}
	cc, ok := o.reg.GetCase(id)
	if !ok {
		return Snapshot{}, registry.ErrUnknownCase
	}
	return Snapshot{
		CaseID:          id,
		Title:           cc.Title,
		CreatedAt:       cc.CreatedAt,
		ExportedAt:      time.Now().UTC(),
		ConversationLog: o.agent.History(id),
		TaskHistory:     o.coord.TasksForCase(id),
	}, nil
}

// Drain waits for in-flight background tasks to finish. Intended for
// shutdown paths and tests.
func (o *Orchestrator) Drain() {
	o.tasks.Wait()
}

// Close drains background work and releases the archive.
func (o *Orchestrator) Close() error {
	o.Drain()
	if o.archive != nil {
		return o.archive.Close()
	}
	return nil
}

// Registry exposes the underlying registry for callers that need direct
// case management (the REPL's case listing, for one).
func (o *Orchestrator) Registry() *registry.Registry {
	return o.reg
}
