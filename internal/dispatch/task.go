package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
	StatusBlocked    TaskStatus = "blocked"
)

// statusRank orders statuses for the monotonicity check. Terminal statuses
// share a rank; once any of them is reached no further transition is legal.
var statusRank = map[TaskStatus]int{
	StatusPending:    0,
	StatusInProgress: 1,
	StatusCompleted:  2,
	StatusFailed:     2,
	StatusBlocked:    2,
}

// TaskRequest is the frontline agent's ask: route kind+payload to a
// specialist under a case id.
type TaskRequest struct {
	ToAgent Role   `json:"to_agent"`
	Kind    string `json:"kind"`
	Payload string `json:"payload"`
}

// Task is one unit of background work. The coordinator owns it for its
// lifetime; callers receive snapshots. Status transitions are monotonic.
type Task struct {
	mu sync.Mutex

	ID          string     `json:"id"`
	FromAgent   string     `json:"from_agent"`
	ToAgent     Role       `json:"to_agent"`
	CaseID      caseid.ID  `json:"case_id"`
	Kind        string     `json:"kind"`
	Payload     string     `json:"payload"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}

func newTask(fromAgent string, to Role, id caseid.ID, kind, payload string) *Task {
	return &Task{
		ID:        uuid.New().String(),
		FromAgent: fromAgent,
		ToAgent:   to,
		CaseID:    id,
		Kind:      kind,
		Payload:   payload,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// transition moves the task to next, enforcing monotonicity. A regression
// or a move out of a terminal status returns an error and leaves the task
// unchanged.
func (t *Task) transition(next TaskStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	currentRank, ok := statusRank[t.Status]
	if !ok {
		return fmt.Errorf("task %s: corrupt status %q", t.ID, t.Status)
	}
	nextRank, ok := statusRank[next]
	if !ok {
		return fmt.Errorf("task %s: invalid status %q", t.ID, next)
	}
	if nextRank <= currentRank {
		return fmt.Errorf("task %s: illegal transition %s -> %s", t.ID, t.Status, next)
	}

	t.Status = next
	if nextRank == statusRank[StatusCompleted] {
		now := time.Now().UTC()
		t.CompletedAt = &now
	}
	return nil
}

// complete marks the task completed with its result.
func (t *Task) complete(result string) error {
	if err := t.transition(StatusCompleted); err != nil {
		return err
	}
	t.mu.Lock()
	t.Result = result
	t.mu.Unlock()
	return nil
}

// block marks the task rejected by the breach response, as opposed to an
// ordinary fault.
func (t *Task) block(reason string) error {
	if err := t.transition(StatusBlocked); err != nil {
		return err
	}
	t.mu.Lock()
	t.Error = reason
	t.mu.Unlock()
	return nil
}

// fail marks the task failed with an error message.
func (t *Task) fail(reason string) error {
	if err := t.transition(StatusFailed); err != nil {
		return err
	}
	t.mu.Lock()
	t.Error = reason
	t.mu.Unlock()
	return nil
}

// Snapshot returns a copy safe to hand outside the coordinator.
func (t *Task) Snapshot() TaskView {
	t.mu.Lock()
	defer t.mu.Unlock()

	view := TaskView{
		ID:        t.ID,
		FromAgent: t.FromAgent,
		ToAgent:   t.ToAgent,
		CaseID:    t.CaseID,
		Kind:      t.Kind,
		Payload:   t.Payload,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
		Result:    t.Result,
		Error:     t.Error,
	}
	if t.CompletedAt != nil {
		completed := *t.CompletedAt
		view.CompletedAt = &completed
	}
	return view
}

// TaskView is an immutable snapshot of a Task.
type TaskView struct {
	ID          string     `json:"id"`
	FromAgent   string     `json:"from_agent"`
	ToAgent     Role       `json:"to_agent"`
	CaseID      caseid.ID  `json:"case_id"`
	Kind        string     `json:"kind"`
	Payload     string     `json:"payload"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
}
