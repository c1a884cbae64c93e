// Package frontline implements the single user-facing agent.
//
// The agent is the only component that emits text to the user. Every turn
// runs the same fixed sequence: boundary check, keyword classification,
// draft selection, firewall validation, action-phrase scan, history append.
// Classification is deterministic substring matching, not NLP; synonyms and
// rephrasings evade it, which is a documented limitation.
//
// The agent never executes task payloads. Asking it to is a programming
// error and panics.
package frontline
