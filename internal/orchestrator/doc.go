// Package orchestrator is the composition root: it wires the registry,
// firewall, frontline agent, coordinator, and archive into one explicitly
// constructed service object. Nothing here is a process-wide singleton;
// multi-session deployments construct one Orchestrator per session and
// share nothing.
//
// SendMessage is the single mutation path. Turns are serialized, and task
// dispatch runs asynchronously relative to the reply: a task fault is
// logged, never surfaced to the user.
package orchestrator
