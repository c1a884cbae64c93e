package logging

import (
	"context"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/caseid"
)

type contextKey int

const (
	caseIDKey contextKey = iota
	turnIDKey
)

// WithCaseID returns a context carrying the case id.
func WithCaseID(ctx context.Context, id caseid.ID) context.Context {
	return context.WithValue(ctx, caseIDKey, id)
}

// WithTurnID returns a context carrying the conversation turn id.
func WithTurnID(ctx context.Context, turnID string) context.Context {
	return context.WithValue(ctx, turnIDKey, turnID)
}

// CaseIDFrom extracts the case id from the context, if present.
func CaseIDFrom(ctx context.Context) (caseid.ID, bool) {
	id, ok := ctx.Value(caseIDKey).(caseid.ID)
	return id, ok
}

// ContextFields extracts log fields from the context.
func ContextFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	var fields []zap.Field
	if id, ok := ctx.Value(caseIDKey).(caseid.ID); ok && !id.IsZero() {
		fields = append(fields, zap.String("case_id", id.String()))
	}
	if turnID, ok := ctx.Value(turnIDKey).(string); ok && turnID != "" {
		fields = append(fields, zap.String("turn_id", turnID))
	}
	return fields
}
