package trace

import "github.com/google/uuid"

// RunIDGenerator names a recorded run.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, so listing runs
// by ID lists them by creation time.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a hyphenated UUIDv7, e.g.
// "01920f3c-8b4e-7a1d-9c3f-2b5e6d7f8a90".
//
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// StaticRunID returns the same run ID on every call. The CLI uses it when
// the caller pins --run-id.
type StaticRunID string

// Generate returns s.
func (s StaticRunID) Generate() string {
	return string(s)
}
