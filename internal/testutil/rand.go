package testutil

import "sync"

// ScriptedRand replays predetermined draws so tests can force specific
// outcomes of probabilistic rolls.
//
// Each method consumes from its own script. When a script is exhausted the
// corresponding fallback is returned, so a test only scripts the draws it
// cares about. Implements model.Rand.
type ScriptedRand struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
	norms  []float64

	// FloatFallback is returned by Float64 once the float script is exhausted.
	// Defaults to 0.999999, which fails every Roll with p < 1.
	FloatFallback float64

	calls int
}

// NewScriptedRand creates a source that yields floats in order.
func NewScriptedRand(floats ...float64) *ScriptedRand {
	return &ScriptedRand{floats: floats, FloatFallback: 0.999999}
}

// WithInts appends scripted IntN results. The value is reduced modulo n.
func (r *ScriptedRand) WithInts(ints ...int) *ScriptedRand {
	r.ints = append(r.ints, ints...)
	return r
}

// WithNorms appends scripted NormFloat64 results.
func (r *ScriptedRand) WithNorms(norms ...float64) *ScriptedRand {
	r.norms = append(r.norms, norms...)
	return r
}

func (r *ScriptedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.floats) == 0 {
		return r.FloatFallback
	}
	f := r.floats[0]
	r.floats = r.floats[1:]
	return f
}

func (r *ScriptedRand) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.ints) == 0 || n <= 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return ((v % n) + n) % n
}

func (r *ScriptedRand) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if len(r.norms) == 0 {
		return 0
	}
	v := r.norms[0]
	r.norms = r.norms[1:]
	return v
}

// Calls returns how many draws were made across all methods.
func (r *ScriptedRand) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// PanicRand fails the test process if any draw is made. Use it to prove a
// code path is fully deterministic.
type PanicRand struct{}

func (PanicRand) Float64() float64     { panic("PanicRand: unexpected Float64 draw") }
func (PanicRand) IntN(int) int         { panic("PanicRand: unexpected IntN draw") }
func (PanicRand) NormFloat64() float64 { panic("PanicRand: unexpected NormFloat64 draw") }
