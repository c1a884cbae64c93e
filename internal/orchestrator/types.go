package orchestrator

import (
	"time"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
	"github.com/fyrsmithlabs/caseguard/internal/frontline"
	"github.com/fyrsmithlabs/caseguard/internal/persona"
	"github.com/fyrsmithlabs/caseguard/internal/registry"
)

// Status is the read-only system snapshot served by GetSystemStatus.
type Status struct {
	ActiveCaseID  caseid.ID              `json:"active_case_id,omitempty"`
	Persona       persona.ID             `json:"persona"`
	AgentStatuses map[string]string      `json:"agent_statuses"`
	BreachEvents  []registry.BreachEvent `json:"breach_events"`
	ActiveTasks   []dispatch.TaskView    `json:"active_tasks"`
	Cases         []registry.CaseContext `json:"cases"`
}

// Snapshot is the exported shape of one case: its metadata plus the full
// append-only conversation and task history.
type Snapshot struct {
	CaseID          caseid.ID              `json:"case_id"`
	Title           string                 `json:"title"`
	CreatedAt       time.Time              `json:"created_at"`
	ExportedAt      time.Time              `json:"exported_at"`
	ConversationLog []frontline.TurnRecord `json:"conversation_log"`
	TaskHistory     []dispatch.TaskView    `json:"task_history"`
}
