package harness

// TraceEvent is the engine state observed after one scenario step.
type TraceEvent struct {
	Step   int      `json:"step"`
	Op     string   `json:"op"`
	Arg    string   `json:"arg,omitempty"`
	Year   int      `json:"year"`
	Age    int      `json:"age"`
	Money  int64    `json:"money"`
	Health int      `json:"health"`
	Active string   `json:"active,omitempty"`
	Queue  []string `json:"queue,omitempty"`
	Ended  bool     `json:"ended,omitempty"`
	Cause  string   `json:"cause,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every step ran and every assertion matched.
	Pass bool `json:"pass"`

	// Trace has one entry per step.
	Trace []TraceEvent `json:"trace"`

	// Errors contains step and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Digest is the final snapshot digest.
	Digest string `json:"digest"`

	// History is the number of telemetry records persisted.
	History int `json:"history"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
