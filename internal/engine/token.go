package engine

import "github.com/google/uuid"

// TokenGenerator produces run tokens: opaque strings grouping the op
// records of one program execution in the journal.
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, making tokens
// sortable by creation time, which is helpful when eyeballing traces.
// The token never participates in op record identity, so wall-clock
// content here does not threaten determinism.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns the same run token every time.
//
// This enables deterministic test execution and golden snapshot comparison:
// the same program with the same FixedGenerator produces a byte-identical
// journal.
//
// Thread-safety: FixedGenerator is stateless and safe for concurrent use.
type FixedGenerator struct {
	token string
}

// NewFixedGenerator creates a generator that always returns token.
// If token is empty, Generate() returns "test-run-default".
func NewFixedGenerator(token string) *FixedGenerator {
	if token == "" {
		token = "test-run-default"
	}
	return &FixedGenerator{token: token}
}

// Generate returns the fixed run token.
func (g *FixedGenerator) Generate() string {
	return g.token
}
