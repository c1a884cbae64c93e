package registry

import (
	"time"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
)

// CaseContext is the registry's record for one case. Cases have a soft
// lifecycle: they are created once, touched on activity, optionally locked,
// and never deleted.
type CaseContext struct {
	ID           caseid.ID `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	Locked       bool      `json:"locked"`
}

// BreachKind categorizes boundary failures.
type BreachKind string

const (
	// KindCrossContextAccess is an attempt to operate on a case that is
	// not the active one.
	KindCrossContextAccess BreachKind = "cross-context-access"

	// KindUnknownContext is a switch to a case id that was never issued.
	KindUnknownContext BreachKind = "unknown-context"

	// KindValidationFailure is a malformed or unparseable case id.
	KindValidationFailure BreachKind = "validation-failure"
)

// Severity indicates how serious a breach is.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// BreachEvent records one detected boundary failure. The breach log is
// append-only: events are never mutated or deleted within the process
// lifetime.
type BreachEvent struct {
	ID                 string     `json:"id"`
	Kind               BreachKind `json:"kind"`
	SourceAgent        string     `json:"source_agent"`
	AttemptedCaseID    caseid.ID  `json:"attempted_case_id"`
	ActiveCaseIDAtTime caseid.ID  `json:"active_case_id_at_time"`
	Timestamp          time.Time  `json:"timestamp"`
	Severity           Severity   `json:"severity"`
}

// FlushFunc is invoked synchronously during a case switch, before the switch
// returns. Listeners discard any transient memory scoped to the previous
// case. The previous id is zero when no case was active.
type FlushFunc func(previous caseid.ID)

// BreachFunc is invoked synchronously after a breach event is recorded.
type BreachFunc func(event BreachEvent)
