package firewall

import (
	"fmt"
	"strings"
	"sync"

	"github.com/fyrsmithlabs/caseguard/internal/persona"
)

// Firewall checks and rewrites outgoing text against the content policy.
type Firewall interface {
	// Check tests text against the phrase tables without altering it.
	Check(text string) Verdict

	// Rewrite applies the substitution table across the full text and
	// appends the persona's closing sentence.
	Rewrite(text string, p persona.ID) string

	// Validate composes Check and Rewrite. When the text violates, the
	// returned Corrected text is guaranteed to pass Check for the
	// configured phrase tables.
	Validate(text string, p persona.ID) Validation

	// IsEnabled returns whether checking is active.
	IsEnabled() bool
}

// ruleFirewall is the default implementation over ordered phrase tables.
type ruleFirewall struct {
	config *Config
	mu     sync.RWMutex
}

// New creates a Firewall with the given configuration.
// If config is nil, DefaultConfig() is used.
func New(cfg *Config) (Firewall, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &ruleFirewall{config: cfg}, nil
}

// MustNew creates a Firewall, panicking on error.
func MustNew(cfg *Config) Firewall {
	f, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// Check tests text against the forbidden table, then the conclusion table.
// First match decides the reported reason; any match decides the verdict.
func (f *ruleFirewall) Check(text string) Verdict {
	verdict := Verdict{Original: text}
	if !f.config.Enabled {
		return verdict
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	lower := strings.ToLower(text)

	for i, phrase := range f.config.loweredForbidden {
		if strings.Contains(lower, phrase) {
			rule := f.config.Forbidden[i]
			return f.violation(text, rule, "forbidden phrase")
		}
	}
	for i, phrase := range f.config.loweredConclusions {
		if strings.Contains(lower, phrase) {
			rule := f.config.Conclusions[i]
			return f.violation(text, rule, "conclusion indicator")
		}
	}

	return verdict
}

func (f *ruleFirewall) violation(text string, rule PhraseRule, kind string) Verdict {
	return Verdict{
		Original:  text,
		Violates:  true,
		Phrase:    rule.Phrase,
		Category:  rule.Category,
		Reason:    fmt.Sprintf("%s %q (%s)", kind, rule.Phrase, rule.Category),
		Rewritten: f.substituteAll(text),
	}
}

// Rewrite applies every substitution and appends the persona closing.
func (f *ruleFirewall) Rewrite(text string, p persona.ID) string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	rewritten := f.substituteAll(text)
	closing := persona.ProfileFor(p).Closing
	return rewritten + "\n\n" + closing
}

// Validate composes Check and Rewrite.
func (f *ruleFirewall) Validate(text string, p persona.ID) Validation {
	verdict := f.Check(text)
	if !verdict.Violates {
		return Validation{Valid: true}
	}
	return Validation{
		Valid:     false,
		Corrected: f.Rewrite(text, p),
		Violation: &verdict,
	}
}

// IsEnabled returns whether checking is active.
func (f *ruleFirewall) IsEnabled() bool {
	return f.config.Enabled
}

// substituteAll replaces every occurrence of every table phrase. Forbidden
// rules apply before conclusion rules, mirroring Check's order.
func (f *ruleFirewall) substituteAll(text string) string {
	for _, rule := range f.config.allRules() {
		text = replaceFold(text, rule.Phrase, rule.Replacement)
	}
	return text
}

// replaceFold replaces all case-insensitive occurrences of phrase in s.
// The replacement is inserted as-is; surrounding text keeps its casing.
func replaceFold(s, phrase, replacement string) string {
	lowerPhrase := strings.ToLower(phrase)
	var b strings.Builder
	for {
		idx := strings.Index(strings.ToLower(s), lowerPhrase)
		if idx < 0 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:idx])
		b.WriteString(replacement)
		s = s[idx+len(phrase):]
	}
}

// NoopFirewall passes everything through unchanged (testing or disabled mode).
type NoopFirewall struct{}

func (NoopFirewall) Check(text string) Verdict { return Verdict{Original: text} }

func (NoopFirewall) Rewrite(text string, _ persona.ID) string { return text }

func (NoopFirewall) Validate(string, persona.ID) Validation { return Validation{Valid: true} }

func (NoopFirewall) IsEnabled() bool { return false }

// Compile-time checks.
var _ Firewall = (*ruleFirewall)(nil)
var _ Firewall = NoopFirewall{}
