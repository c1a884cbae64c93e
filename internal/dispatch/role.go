package dispatch

import (
	"errors"
	"fmt"
)

// ErrUnknownRole indicates a role outside the closed set.
var ErrUnknownRole = errors.New("unknown specialist role")

// Role identifies a background specialist. The set is closed and validated
// at registration time, so an unregistered role fails at startup rather than
// at dispatch time.
type Role string

const (
	// RoleResearch looks up legal standards and precedent summaries.
	RoleResearch Role = "research"

	// RoleChronology builds event timelines from case material.
	RoleChronology Role = "chronology"
)

// AllRoles returns every valid specialist role.
func AllRoles() []Role {
	return []Role{RoleResearch, RoleChronology}
}

// ParseRole validates a role identifier.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleResearch, RoleChronology:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
}
