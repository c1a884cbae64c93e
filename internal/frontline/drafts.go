package frontline

import (
	"strings"

	"github.com/fyrsmithlabs/caseguard/internal/dispatch"
)

// draftTable maps the highest-priority trigger tag to a response body.
// Every body is explanatory; nothing here assesses the user's own case.
var draftTable = map[TriggerTag]string{
	TagForce: "Use of force by officers is judged against an objective " +
		"reasonableness standard: what mattered is what a reasonable officer " +
		"would have done in the same circumstances, weighed against the " +
		"severity of the situation and any threat presented. Documenting " +
		"injuries, times, and witnesses is generally how these events are " +
		"preserved for later review.",
	TagSearch: "Searches are generally governed by a warrant requirement, " +
		"with a set of recognized exceptions such as consent, plain view, " +
		"search incident to arrest, and vehicle-specific doctrines. Whether " +
		"a particular search fits an exception depends heavily on the exact " +
		"circumstances, which is why the details of what was said and done " +
		"matter so much.",
	TagDetention: "A brief stop, a detention, and a full arrest are treated " +
		"differently: each step requires a higher level of justification, " +
		"from reasonable suspicion up to probable cause. The point at which " +
		"a person is no longer free to leave is usually where the analysis " +
		"turns.",
	TagProcedure: "Court procedure follows a fixed sequence: charging, an " +
		"initial appearance, arraignment, and then pretrial stages. Each " +
		"step has its own deadlines and paperwork, and missing a scheduled " +
		"appearance has consequences of its own, so dates on any notice are " +
		"worth tracking carefully.",
}

// actionPhrases maps phrases that request background work to the specialist
// role and task kind that serve them. This scan is independent of the
// classifier; an input can raise a trigger tag, an action, both, or neither.
var actionPhrases = []struct {
	phrase string
	role   dispatch.Role
	kind   string
}{
	{phrase: "legal standard", role: dispatch.RoleResearch, kind: "legal-standard-lookup"},
	{phrase: "what does the law say", role: dispatch.RoleResearch, kind: "legal-standard-lookup"},
	{phrase: "case law", role: dispatch.RoleResearch, kind: "precedent-survey"},
	{phrase: "precedent", role: dispatch.RoleResearch, kind: "precedent-survey"},
	{phrase: "timeline", role: dispatch.RoleChronology, kind: "timeline-build"},
	{phrase: "chronology", role: dispatch.RoleChronology, kind: "timeline-build"},
	{phrase: "order of events", role: dispatch.RoleChronology, kind: "timeline-build"},
	{phrase: "sequence of events", role: dispatch.RoleChronology, kind: "timeline-build"},
}

// scanAction returns a task request for the first matching action phrase,
// or nil when the input asks for nothing.
func scanAction(input string) *dispatch.TaskRequest {
	lowered := strings.ToLower(input)
	for _, a := range actionPhrases {
		if strings.Contains(lowered, a.phrase) {
			return &dispatch.TaskRequest{
				ToAgent: a.role,
				Kind:    a.kind,
				Payload: input,
			}
		}
	}
	return nil
}
