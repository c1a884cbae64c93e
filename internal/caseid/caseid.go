// Package caseid generates and validates case identifiers.
//
// A case id is an opaque, globally unique, lexicographically sortable token:
// a ULID (48-bit millisecond timestamp + 80 bits of entropy). Once issued an
// id is immutable and never reused.
package caseid

import (
	"crypto/rand"
	"errors"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrInvalidID indicates a token that does not parse as a case id.
var ErrInvalidID = errors.New("invalid case id")

// ID is an opaque case identifier.
type ID string

// String returns the id as a plain string.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }

// Timestamp returns the creation time encoded in the id.
func (id ID) Timestamp() (time.Time, error) {
	u, err := ulid.ParseStrict(string(id))
	if err != nil {
		return time.Time{}, ErrInvalidID
	}
	return time.UnixMilli(int64(u.Time())).UTC(), nil
}

// Parse validates a token and returns it as an ID.
func Parse(s string) (ID, error) {
	if _, err := ulid.ParseStrict(s); err != nil {
		return "", ErrInvalidID
	}
	return ID(s), nil
}

// Generator issues case ids. Ids from a single generator are strictly
// monotonic within the same millisecond, which keeps listings sortable by
// creation order.
type Generator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewGenerator creates a generator backed by crypto/rand entropy.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// New issues a fresh id.
func (g *Generator) New() ID {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String())
}
