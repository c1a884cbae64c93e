// Package dispatch routes task requests from the frontline agent to
// background specialists.
//
// Every dispatch re-validates the case boundary against the registry before
// any specialist runs, and a recorded breach halts the coordinator entirely.
// A task is attempted exactly once per Dispatch call; there is no automatic
// retry.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
	"github.com/fyrsmithlabs/caseguard/internal/telemetry"
)

// Errors for registration.
var (
	ErrDuplicateRole = errors.New("role already registered")
)

// Specialist executes tasks for one role. Implementations are injected;
// no specialist logic lives in this package.
type Specialist interface {
	// Role returns the role this specialist serves.
	Role() Role

	// Execute runs one task and returns its result.
	Execute(ctx context.Context, task TaskView) (string, error)
}

// Coordinator receives task requests and routes them to specialists.
type Coordinator struct {
	mu          sync.Mutex
	reg         *registry.Registry
	logger      *logging.Logger
	metrics     *telemetry.Metrics
	timeout     time.Duration
	specialists map[Role]Specialist
	tasks       []*Task
	halted      bool
}

// NewCoordinator creates a coordinator bound to a registry.
// timeout bounds specialist execution; zero disables the bound.
func NewCoordinator(reg *registry.Registry, logger *logging.Logger, metrics *telemetry.Metrics, timeout time.Duration) *Coordinator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Coordinator{
		reg:         reg,
		logger:      logger.Named("dispatch"),
		metrics:     metrics,
		timeout:     timeout,
		specialists: make(map[Role]Specialist),
	}
}

// RegisterAgent adds a specialist to the routing table. Registration fails
// fast: an out-of-set role or a duplicate is rejected here, at startup, not
// at dispatch time.
func (c *Coordinator) RegisterAgent(s Specialist) error {
	role, err := ParseRole(string(s.Role()))
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.specialists[role]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRole, role)
	}
	c.specialists[role] = s
	return nil
}

// Dispatch creates a task for the request and attempts it exactly once.
// The returned snapshot is always in a terminal status except when the
// coordinator is mid-execution in another goroutine; callers that need the
// outcome should use the returned value, not ActiveTaskChains.
//
// Failure never propagates: an unknown agent, a boundary breach, a locked
// case, a specialist fault, or a timeout all produce a failed task, and a
// halted coordinator produces a blocked one.
func (c *Coordinator) Dispatch(ctx context.Context, to Role, id caseid.ID, kind, payload string) TaskView {
	task := newTask("frontline", to, id, kind, payload)

	c.mu.Lock()
	c.tasks = append(c.tasks, task)
	halted := c.halted
	specialist, known := c.specialists[to]
	c.mu.Unlock()

	if halted {
		c.blockTask(ctx, task, "dispatch halted pending manual recovery")
		return task.Snapshot()
	}

	// Boundary re-validation happens outside c.mu: a recorded breach
	// synchronously invokes Halt through the registry's breach handlers.
	if !c.reg.EnforceBoundary(ctx, id, "dispatch") {
		c.failTask(ctx, task, registry.ErrBoundaryViolation.Error())
		return task.Snapshot()
	}

	if c.reg.IsLocked(id) {
		c.failTask(ctx, task, registry.ErrCaseLocked.Error())
		return task.Snapshot()
	}

	if !known {
		c.failTask(ctx, task, fmt.Sprintf("unknown agent: %s", to))
		return task.Snapshot()
	}

	if err := task.transition(StatusInProgress); err != nil {
		panic("BUG: fresh task refused pending -> in-progress: " + err.Error())
	}

	c.metrics.TaskStarted()
	defer c.metrics.TaskFinished()

	execCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	result, err := specialist.Execute(execCtx, task.Snapshot())
	elapsed := time.Since(start)

	if err != nil {
		reason := err.Error()
		if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
			reason = fmt.Sprintf("task timeout after %v", c.timeout)
		}
		if terr := task.fail(reason); terr != nil {
			c.logger.Error(ctx, "task status transition failed", zap.Error(terr))
		}
		c.metrics.RecordTask(string(StatusFailed), elapsed.Seconds())
		c.logger.Warn(ctx, "task failed",
			zap.String("task_id", task.ID),
			zap.String("to_agent", string(to)),
			zap.String("kind", kind),
			zap.String("reason", reason),
		)
		return task.Snapshot()
	}

	if terr := task.complete(result); terr != nil {
		c.logger.Error(ctx, "task status transition failed", zap.Error(terr))
	}
	c.metrics.RecordTask(string(StatusCompleted), elapsed.Seconds())
	c.logger.Info(ctx, "task completed",
		zap.String("task_id", task.ID),
		zap.String("to_agent", string(to)),
		zap.String("kind", kind),
		zap.Duration("duration", elapsed),
	)
	return task.Snapshot()
}

// failTask moves a pending task straight to failed.
func (c *Coordinator) failTask(ctx context.Context, task *Task, reason string) {
	if err := task.fail(reason); err != nil {
		c.logger.Error(ctx, "task status transition failed", zap.Error(err))
		return
	}
	c.metrics.RecordTask(string(StatusFailed), 0)
	c.logger.Warn(ctx, "task rejected",
		zap.String("task_id", task.ID),
		zap.String("to_agent", string(task.ToAgent)),
		zap.String("reason", reason),
	)
}

// blockTask moves a pending task to blocked: the coordinator is halted and
// will not attempt it.
func (c *Coordinator) blockTask(ctx context.Context, task *Task, reason string) {
	if err := task.block(reason); err != nil {
		c.logger.Error(ctx, "task status transition failed", zap.Error(err))
		return
	}
	c.metrics.RecordTask(string(StatusBlocked), 0)
	c.logger.Warn(ctx, "task blocked",
		zap.String("task_id", task.ID),
		zap.String("to_agent", string(task.ToAgent)),
		zap.String("reason", reason),
	)
}

// Halt stops all further dispatch. Part of the fail-closed breach response;
// recovery is manual (a new session).
func (c *Coordinator) Halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.halted = true
}

// Halted reports whether dispatch has been halted.
func (c *Coordinator) Halted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.halted
}

// ActiveTaskChains returns snapshots of all tasks this coordinator has
// handled, oldest first. Intended for status and debugging surfaces.
func (c *Coordinator) ActiveTaskChains() []TaskView {
	c.mu.Lock()
	tasks := append([]*Task(nil), c.tasks...)
	c.mu.Unlock()

	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, t.Snapshot())
	}
	return views
}

// TasksForCase returns snapshots of tasks dispatched under one case.
func (c *Coordinator) TasksForCase(id caseid.ID) []TaskView {
	var views []TaskView
	for _, v := range c.ActiveTaskChains() {
		if v.CaseID == id {
			views = append(views, v)
		}
	}
	return views
}
