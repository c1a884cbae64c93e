// Package firewall enforces the content policy on outgoing text.
//
// Every user-facing draft passes through Validate before it leaves the
// process. Text that states a legal conclusion or gives directive advice is
// rewritten into an educational equivalent via a fixed substitution table;
// nothing is ever blocked outright, and the user never sees an error.
//
// Matching is case-insensitive substring matching over a fixed ordered phrase
// table, not tokenized or learned classification. That is a deliberate
// tradeoff: over-blocking is acceptable, advisory leakage is not, and a rule
// table can be audited line by line. Synonyms and rephrasings evade it; that
// is a known, accepted limitation.
package firewall
