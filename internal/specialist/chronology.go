package specialist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
)

// Chronology assembles an event timeline from a task payload. Events are
// split on newlines or semicolons and numbered in the order given; the
// specialist orders what it is told, it does not infer dates.
type Chronology struct {
	logger *logging.Logger
}

// NewChronology creates the chronology specialist.
func NewChronology(logger *logging.Logger) *Chronology {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Chronology{logger: logger.Named("chronology")}
}

// Role implements dispatch.Specialist.
func (c *Chronology) Role() dispatch.Role { return dispatch.RoleChronology }

// Execute implements dispatch.Specialist.
func (c *Chronology) Execute(ctx context.Context, task dispatch.TaskView) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	events := splitEvents(task.Payload)
	if len(events) == 0 {
		return "", fmt.Errorf("chronology task %s has no events to order", task.ID)
	}

	c.logger.Debug(ctx, "chronology task received",
		zap.String("task_id", task.ID),
		zap.Int("events", len(events)),
	)

	var b strings.Builder
	b.WriteString("Event chronology (as described):\n")
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ev)
	}
	b.WriteString("\nThe sequence reflects the account given; records such as reports or receipts can confirm the order.")
	return b.String(), nil
}

func splitEvents(payload string) []string {
	fields := strings.FieldsFunc(payload, func(r rune) bool {
		return r == '\n' || r == ';'
	})
	events := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			events = append(events, f)
		}
	}
	return events
}
