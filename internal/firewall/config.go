package firewall

import (
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/caseguard/internal/persona"
)

// PhraseRule defines one forbidden phrase and its approved substitution.
type PhraseRule struct {
	// Phrase is matched case-insensitively as a substring.
	Phrase string `koanf:"phrase"`

	// Category groups phrases for reporting (e.g. "directive-advice").
	Category string `koanf:"category"`

	// Replacement is the hedged, educational equivalent spliced in
	// wherever the phrase occurs.
	Replacement string `koanf:"replacement"`
}

// Config configures the firewall.
type Config struct {
	// Enabled controls whether checking is active (default: true)
	Enabled bool `koanf:"enabled"`

	// Forbidden is the ordered list of directive-advice phrases.
	// Order decides which phrase a verdict reports; any match violates.
	Forbidden []PhraseRule `koanf:"forbidden"`

	// Conclusions is the ordered list of outcome/conclusion indicators,
	// checked after the forbidden list.
	Conclusions []PhraseRule `koanf:"conclusions"`

	// lowercased phrase caches (populated by Validate)
	loweredForbidden   []string
	loweredConclusions []string
}

// DefaultConfig returns a configuration with the standard phrase tables.
func DefaultConfig() *Config {
	return &Config{
		Enabled:     true,
		Forbidden:   DefaultForbidden(),
		Conclusions: DefaultConclusions(),
	}
}

// Validate validates and compiles the configuration.
//
// Beyond structural checks, it verifies the substitution table is closed:
// no replacement and no persona closing may itself contain a forbidden or
// conclusion phrase. A table that fails this check is a defect, caught here
// rather than at rewrite time.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}

	if len(c.Forbidden) == 0 && len(c.Conclusions) == 0 {
		return fmt.Errorf("at least one phrase rule is required when enabled")
	}

	c.loweredForbidden = make([]string, 0, len(c.Forbidden))
	for i, rule := range c.Forbidden {
		if err := c.validateRule(rule, fmt.Sprintf("forbidden[%d]", i)); err != nil {
			return err
		}
		c.loweredForbidden = append(c.loweredForbidden, strings.ToLower(rule.Phrase))
	}

	c.loweredConclusions = make([]string, 0, len(c.Conclusions))
	for i, rule := range c.Conclusions {
		if err := c.validateRule(rule, fmt.Sprintf("conclusions[%d]", i)); err != nil {
			return err
		}
		c.loweredConclusions = append(c.loweredConclusions, strings.ToLower(rule.Phrase))
	}

	// Replacements and closings must re-pass the table they feed.
	for _, rule := range c.allRules() {
		if phrase, ok := c.matchAny(rule.Replacement); ok {
			return fmt.Errorf("rule %q: replacement reintroduces phrase %q", rule.Phrase, phrase)
		}
	}
	for _, id := range persona.All() {
		if phrase, ok := c.matchAny(persona.ProfileFor(id).Closing); ok {
			return fmt.Errorf("persona %s: closing contains phrase %q", id, phrase)
		}
	}

	return nil
}

func (c *Config) validateRule(rule PhraseRule, where string) error {
	if strings.TrimSpace(rule.Phrase) == "" {
		return fmt.Errorf("%s: phrase is required", where)
	}
	if rule.Category == "" {
		return fmt.Errorf("%s: category is required", where)
	}
	if strings.TrimSpace(rule.Replacement) == "" {
		return fmt.Errorf("%s: replacement is required", where)
	}
	return nil
}

// allRules returns forbidden rules followed by conclusion rules, in the
// order verdicts report them.
func (c *Config) allRules() []PhraseRule {
	rules := make([]PhraseRule, 0, len(c.Forbidden)+len(c.Conclusions))
	rules = append(rules, c.Forbidden...)
	rules = append(rules, c.Conclusions...)
	return rules
}

// matchAny reports the first phrase from either table found in text.
func (c *Config) matchAny(text string) (string, bool) {
	lower := strings.ToLower(text)
	for i, phrase := range c.loweredForbidden {
		if strings.Contains(lower, phrase) {
			return c.Forbidden[i].Phrase, true
		}
	}
	for i, phrase := range c.loweredConclusions {
		if strings.Contains(lower, phrase) {
			return c.Conclusions[i].Phrase, true
		}
	}
	return "", false
}
