// Package logging wraps Zap with caseguard conventions.
//
// Loggers are context aware: the active case id travels in the
// context.Context and is attached to every entry as a "case_id" field, so a
// single grep over the log stream reconstructs one case's history without
// touching another's.
package logging
