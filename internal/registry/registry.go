// Package registry owns the set of known cases and the isolation boundary.
//
// Exactly one case is active at any time per Registry instance. Every
// context-bearing operation elsewhere in the system funnels through
// EnforceBoundary before touching case data; a mismatch is a breach, and the
// design fails closed: the registered breach handlers halt further dispatch
// rather than risk mixing context between cases.
//
// A Registry is an explicitly constructed service object. Multi-session
// deployments create one Registry (and orchestrator) per session; nothing
// here is process-global.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
)

// Errors for registry operations.
var (
	ErrUnknownCase       = errors.New("unknown case")
	ErrCaseLocked        = errors.New("case is locked")
	ErrBoundaryViolation = errors.New("boundary violation: case is not active")
)

// Registry is the single source of truth for which case is active.
type Registry struct {
	mu     sync.RWMutex
	gen    *caseid.Generator
	logger *logging.Logger

	cases    map[caseid.ID]*CaseContext
	order    []caseid.ID // creation order
	activeID caseid.ID

	breaches []BreachEvent

	flushFns  []FlushFunc
	breachFns []BreachFunc
}

// New creates an empty registry. A nil logger is replaced with a no-op one.
func New(logger *logging.Logger) *Registry {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Registry{
		gen:    caseid.NewGenerator(),
		logger: logger.Named("registry"),
		cases:  make(map[caseid.ID]*CaseContext),
	}
}

// OnFlush registers a callback invoked synchronously during every successful
// case switch, before the switch returns. Registration is not safe once the
// registry is in use; wire callbacks at construction time.
func (r *Registry) OnFlush(fn FlushFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushFns = append(r.flushFns, fn)
}

// OnBreach registers a callback invoked synchronously after each recorded
// breach event.
func (r *Registry) OnBreach(fn BreachFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breachFns = append(r.breachFns, fn)
}

// CreateCase generates a never-before-issued id, registers the case, and
// makes it the active one. Creation always succeeds. Activating the new case
// flushes session state exactly like SwitchToCase does.
func (r *Registry) CreateCase(ctx context.Context, title string) caseid.ID {
	id := r.gen.New()
	now := time.Now().UTC()

	r.mu.Lock()
	r.cases[id] = &CaseContext{
		ID:           id,
		Title:        title,
		CreatedAt:    now,
		LastActivity: now,
	}
	r.order = append(r.order, id)
	previous := r.activeID
	r.activeID = id
	flushFns := append([]FlushFunc(nil), r.flushFns...)
	r.mu.Unlock()

	r.logger.Info(ctx, "case created",
		zap.String("case_id", id.String()),
		zap.String("title", title),
	)

	// Flush listeners run before the creation returns, so no transient
	// state from the previously active case survives into the new one.
	for _, fn := range flushFns {
		fn(previous)
	}
	return id
}

// SwitchToCase makes id the active case. An unknown id records an
// unknown-context breach and returns false. On success every flush callback
// runs to completion before SwitchToCase returns.
func (r *Registry) SwitchToCase(ctx context.Context, id caseid.ID) bool {
	r.mu.Lock()
	c, ok := r.cases[id]
	if !ok {
		event := r.recordBreachLocked(BreachEvent{
			Kind:            KindUnknownContext,
			SourceAgent:     "registry",
			AttemptedCaseID: id,
			Severity:        SeverityWarning,
		})
		breachFns := append([]BreachFunc(nil), r.breachFns...)
		r.mu.Unlock()

		r.logger.Warn(ctx, "switch to unknown case", zap.String("attempted_case_id", id.String()))
		for _, fn := range breachFns {
			fn(event)
		}
		return false
	}

	previous := r.activeID
	r.activeID = id
	c.LastActivity = time.Now().UTC()
	flushFns := append([]FlushFunc(nil), r.flushFns...)
	r.mu.Unlock()

	r.logger.Info(ctx, "case switched",
		zap.String("case_id", id.String()),
		zap.String("previous_case_id", previous.String()),
	)

	for _, fn := range flushFns {
		fn(previous)
	}
	return true
}

// RecordValidationFailure records a breach for a case token that failed
// validation before it could even be looked up (a malformed id from an
// outer surface). Recoverable; breach handlers still run.
func (r *Registry) RecordValidationFailure(ctx context.Context, attempted caseid.ID, sourceAgent string) BreachEvent {
	r.mu.Lock()
	event := r.recordBreachLocked(BreachEvent{
		Kind:               KindValidationFailure,
		SourceAgent:        sourceAgent,
		AttemptedCaseID:    attempted,
		ActiveCaseIDAtTime: r.activeID,
		Severity:           SeverityWarning,
	})
	breachFns := append([]BreachFunc(nil), r.breachFns...)
	r.mu.Unlock()

	r.logger.Warn(ctx, "malformed case id rejected",
		zap.String("source_agent", sourceAgent),
		zap.String("attempted_case_id", attempted.String()),
	)
	for _, fn := range breachFns {
		fn(event)
	}
	return event
}

// EnforceBoundary returns true iff requested is the active case. On a
// mismatch it records a critical cross-context-access breach and triggers
// the breach response before returning false. Nothing is partially written:
// recorded state at the time of the breach is left untouched.
func (r *Registry) EnforceBoundary(ctx context.Context, requested caseid.ID, sourceAgent string) bool {
	r.mu.Lock()
	if !requested.IsZero() && requested == r.activeID {
		if c, ok := r.cases[requested]; ok {
			c.LastActivity = time.Now().UTC()
		}
		r.mu.Unlock()
		return true
	}

	event := r.recordBreachLocked(BreachEvent{
		Kind:               KindCrossContextAccess,
		SourceAgent:        sourceAgent,
		AttemptedCaseID:    requested,
		ActiveCaseIDAtTime: r.activeID,
		Severity:           SeverityCritical,
	})
	breachFns := append([]BreachFunc(nil), r.breachFns...)
	r.mu.Unlock()

	r.logger.Error(ctx, "cross-context access attempt",
		zap.String("source_agent", sourceAgent),
		zap.String("attempted_case_id", requested.String()),
		zap.String("active_case_id", event.ActiveCaseIDAtTime.String()),
	)

	for _, fn := range breachFns {
		fn(event)
	}
	return false
}

// recordBreachLocked fills in id and timestamp and appends to the breach
// log. Callers hold r.mu.
func (r *Registry) recordBreachLocked(event BreachEvent) BreachEvent {
	event.ID = uuid.New().String()
	event.Timestamp = time.Now().UTC()
	r.breaches = append(r.breaches, event)
	return event
}

// ActiveCaseID returns the active case id, if any.
func (r *Registry) ActiveCaseID() (caseid.ID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID, !r.activeID.IsZero()
}

// GetCase returns a copy of the case record.
func (r *Registry) GetCase(id caseid.ID) (CaseContext, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	if !ok {
		return CaseContext{}, false
	}
	return *c, true
}

// ListCases returns copies of all cases in creation order.
func (r *Registry) ListCases() []CaseContext {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]CaseContext, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.cases[id])
	}
	return out
}

// BreachEvents returns a copy of the append-only breach log.
func (r *Registry) BreachEvents() []BreachEvent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]BreachEvent(nil), r.breaches...)
}

// LockCase marks a case immutable. Callers must refuse further mutation of a
// locked case; the registry itself only flips the flag.
func (r *Registry) LockCase(id caseid.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.cases[id]
	if !ok {
		return ErrUnknownCase
	}
	c.Locked = true
	return nil
}

// IsLocked reports whether a case has been locked.
func (r *Registry) IsLocked(id caseid.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	return ok && c.Locked
}
