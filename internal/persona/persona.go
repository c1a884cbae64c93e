// Package persona defines the selectable tone variants for user-facing text.
//
// A persona is orthogonal to case context: it is held by the frontline agent
// as current configuration and survives case switches. The set is closed;
// adding a variant means adding templates here, not data elsewhere.
package persona

import (
	"errors"
	"fmt"
)

// ErrUnknownPersona indicates a persona id outside the closed set.
var ErrUnknownPersona = errors.New("unknown persona")

// ID identifies a persona variant.
type ID string

const (
	// Scholar is measured and academic, heavy on framing and citations.
	Scholar ID = "scholar"
	// Plain is short, direct, jargon-free.
	Plain ID = "plain"
	// Mentor is warm and encouraging, oriented toward next questions.
	Mentor ID = "mentor"
)

// Default is the persona used when none has been selected.
const Default = Plain

// All returns every valid persona id.
func All() []ID {
	return []ID{Scholar, Plain, Mentor}
}

// Parse validates a persona id.
func Parse(s string) (ID, error) {
	switch ID(s) {
	case Scholar, Plain, Mentor:
		return ID(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPersona, s)
	}
}

// Profile holds the tone templates for one persona. Template text is opaque
// data as far as the rest of the system is concerned.
type Profile struct {
	ID ID

	// FallbackPrompt is used when no classifier tag matched the input.
	FallbackPrompt string

	// Closing is appended by the firewall after a rewrite.
	Closing string
}

var profiles = map[ID]Profile{
	Scholar: {
		ID:             Scholar,
		FallbackPrompt: "That is a fair starting point, though the record so far is thin. Could you describe the events in more detail, including when and where they took place?",
		Closing:        "For context, this is a general explanation of how these concepts tend to operate, not an assessment of any particular situation.",
	},
	Plain: {
		ID:             Plain,
		FallbackPrompt: "I want to make sure I understand. Can you tell me more about what happened, step by step?",
		Closing:        "To be clear, this is general information about how the process works.",
	},
	Mentor: {
		ID:             Mentor,
		FallbackPrompt: "Thanks for sharing that. To help me explain what usually happens in situations like this, could you walk me through the details?",
		Closing:        "Keep in mind this is background to help you understand the landscape, and a licensed professional is the right person to weigh your specific situation.",
	},
}

// ProfileFor returns the profile for a persona id.
// Unknown ids fall back to the default profile.
func ProfileFor(id ID) Profile {
	if p, ok := profiles[id]; ok {
		return p
	}
	return profiles[Default]
}
