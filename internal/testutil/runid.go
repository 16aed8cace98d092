package testutil

import (
	"fmt"
	"sync"
)

// DefaultRunID is used when a scenario pins no run ID.
const DefaultRunID = "test-run-default"

// FixedRunIDGenerator returns the same run ID on every call so recorded
// traces are byte-identical across test runs.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id. Scenarios usually pin
// it in YAML:
//
//	run_id: "test-run-tata-box"
//
// An empty id falls back to DefaultRunID.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = DefaultRunID
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run ID.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}

// SequentialRunIDs yields "<prefix>-1", "<prefix>-2", ... for tests that
// record several runs and need them distinguishable.
type SequentialRunIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDs creates a counter-based generator.
func NewSequentialRunIDs(prefix string) *SequentialRunIDs {
	return &SequentialRunIDs{prefix: prefix}
}

// Generate returns the next run ID.
func (g *SequentialRunIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
