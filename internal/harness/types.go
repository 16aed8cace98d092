package harness

import "github.com/roach88/motifsim/internal/trace"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	// Trace is the recorded run; nil when the engine could not be built.
	Trace *trace.Trace `json:"trace,omitempty"`

	// Fingerprint identifies Trace by content.
	Fingerprint string `json:"fingerprint,omitempty"`

	// ConstructionError holds the engine construction failure, if any.
	ConstructionError string `json:"construction_error,omitempty"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
