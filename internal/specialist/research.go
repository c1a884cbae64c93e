package specialist

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
	"github.com/fyrsmithlabs/caseguard/internal/logging"
)

// Research surveys legal materials relevant to a task payload. Output is
// framed as general background, never as advice for the case at hand.
type Research struct {
	logger *logging.Logger
}

// NewResearch creates the research specialist.
func NewResearch(logger *logging.Logger) *Research {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Research{logger: logger.Named("research")}
}

// Role implements dispatch.Specialist.
func (r *Research) Role() dispatch.Role { return dispatch.RoleResearch }

// Execute implements dispatch.Specialist.
func (r *Research) Execute(ctx context.Context, task dispatch.TaskView) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	topic := strings.TrimSpace(task.Payload)
	if topic == "" {
		return "", fmt.Errorf("research task %s has an empty payload", task.ID)
	}

	r.logger.Debug(ctx, "research task received",
		zap.String("task_id", task.ID),
		zap.String("topic", topic),
	)

	var b strings.Builder
	fmt.Fprintf(&b, "Background survey: %s\n\n", topic)
	b.WriteString("Commonly examined sources on this topic include the governing statute, ")
	b.WriteString("the leading appellate decisions interpreting it, and secondary treatments ")
	b.WriteString("such as practice guides. Jurisdictions differ on the details, so the ")
	b.WriteString("controlling authority depends on where the matter is heard.\n\n")
	b.WriteString("This is general educational background, not an assessment of any specific case.")
	return b.String(), nil
}
