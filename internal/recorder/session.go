package recorder

import "github.com/google/uuid"

// SessionTokenGenerator produces the correlation token stamped on a
// recording session. Implemented by UUIDv7Generator (production) and
// FixedGenerator (tests).
type SessionTokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 session tokens, so
// archived sessions sort by creation time.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated string. Panics if UUID
// generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns a predetermined token, for deterministic tests.
type FixedGenerator struct {
	Token string
}

func (g FixedGenerator) Generate() string { return g.Token }
