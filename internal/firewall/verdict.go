package firewall

// Verdict is the outcome of checking one piece of text.
// It lives for a single response cycle and is never persisted.
type Verdict struct {
	// Original is the text that was checked.
	Original string `json:"-"`

	// Violates reports whether any phrase matched.
	Violates bool `json:"violates"`

	// Reason is a human-readable explanation citing the matched phrase.
	// Empty when Violates is false.
	Reason string `json:"reason,omitempty"`

	// Phrase is the first matched phrase; order of the table decides which
	// one is reported, not whether the text violates.
	Phrase string `json:"phrase,omitempty"`

	// Category is the matched phrase's category.
	Category string `json:"category,omitempty"`

	// Rewritten is the substitution-table rewrite of the text, without a
	// persona closing. Empty when Violates is false.
	Rewritten string `json:"rewritten,omitempty"`
}

// Validation is the outcome of Validate: check plus rewrite.
type Validation struct {
	// Valid reports whether the original text passed unchanged.
	Valid bool `json:"valid"`

	// Corrected is the persona-closed rewrite; set only when Valid is false.
	Corrected string `json:"corrected,omitempty"`

	// Violation carries the verdict that triggered the rewrite.
	Violation *Verdict `json:"violation,omitempty"`
}

// Text returns the text that should be emitted: the corrected rewrite when
// invalid, otherwise the original.
func (v Validation) Text(original string) string {
	if v.Valid {
		return original
	}
	return v.Corrected
}
