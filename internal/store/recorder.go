package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/roach88/lifesim/internal/engine"
)

// Recorder persists engine telemetry. It implements engine.Telemetry.
//
// A life_started record creates the life row before its history is written.
// Write failures are logged and the first one is kept for Err; the
// simulation itself is never interrupted.
//
// Thread-safety: Recorder is safe for concurrent use via internal mutex.
type Recorder struct {
	store *Store
	ctx   context.Context

	mu  sync.Mutex
	err error
	n   int
}

// NewRecorder creates a Recorder writing to s under ctx.
func NewRecorder(ctx context.Context, s *Store) *Recorder {
	return &Recorder{store: s, ctx: ctx}
}

// Record implements engine.Telemetry.
func (r *Recorder) Record(rec engine.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.Kind == engine.RecordLifeStarted {
		cfg, _ := rec.Detail["config"].(engine.LifeConfig)
		life := Life{
			ID:           rec.LifeID,
			Seed:         cfg.Seed,
			Name:         cfg.Name,
			CreatedAtSeq: rec.Seq,
			Config:       cfg,
		}
		if err := r.store.CreateLife(r.ctx, life); err != nil {
			r.fail(rec, err)
			return
		}
	}
	if err := r.store.AppendHistory(r.ctx, rec); err != nil {
		r.fail(rec, err)
		return
	}
	r.n++
}

func (r *Recorder) fail(rec engine.Record, err error) {
	slog.Warn("history write failed", "life", rec.LifeID, "seq", rec.Seq, "kind", rec.Kind, "error", err)
	if r.err == nil {
		r.err = err
	}
}

// Err returns the first write failure, if any.
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Written returns how many records were persisted.
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.n
}
