// Package specialist holds the background agents the coordinator routes
// tasks to. Each specialist serves exactly one role and produces
// deterministic, educational output; none of them hold case state of their
// own, the task payload is everything they see.
package specialist
