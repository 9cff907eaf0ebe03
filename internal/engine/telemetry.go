package engine

import (
	"log/slog"
	"sync/atomic"

	"github.com/roach88/lifesim/internal/model"
)

// RecordKind categorizes telemetry records.
type RecordKind string

const (
	RecordLifeStarted RecordKind = "life_started"
	RecordYear        RecordKind = "year"
	RecordMilestone   RecordKind = "milestone"
	RecordResolved    RecordKind = "resolved"
	RecordEnded       RecordKind = "ended"
	RecordRevived     RecordKind = "revived"
	RecordLegacy      RecordKind = "legacy"
)

// Record is one telemetry entry. Seq comes from the engine's logical clock.
type Record struct {
	Seq    int64          `json:"seq"`
	LifeID string         `json:"life_id"`
	Year   int            `json:"year"`
	Kind   RecordKind     `json:"kind"`
	Detail map[string]any `json:"detail,omitempty"`
}

// Telemetry receives records. It must not mutate simulation state; calls
// back into the engine during a tick are dropped by the reentrancy guard.
//
// Implemented by store.Recorder (persistence) and NopTelemetry.
type Telemetry interface {
	Record(rec Record)
}

// NopTelemetry discards records.
type NopTelemetry struct{}

// Record implements Telemetry.
func (NopTelemetry) Record(Record) {}

// TelemetryFunc adapts a function to Telemetry.
type TelemetryFunc func(rec Record)

// Record implements Telemetry.
func (f TelemetryFunc) Record(rec Record) { f(rec) }

// record stamps and delivers one record. A panicking collaborator is logged
// and otherwise ignored.
func (e *Engine) record(kind RecordKind, detail map[string]any) {
	rec := Record{
		Seq:    e.clock.next(),
		LifeID: e.lifeID,
		Year:   e.year,
		Kind:   kind,
		Detail: detail,
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("telemetry panicked", "kind", kind, "seq", rec.Seq, "panic", r)
		}
	}()
	e.telemetry.Record(rec)
}

func (e *Engine) recordYear(report model.EconomyReport, milestones []string) {
	c := e.character
	detail := map[string]any{
		"age":       c.Age,
		"money":     c.Money,
		"net_worth": report.NetWorth,
		"health":    c.Health,
		"happiness": c.Happiness,
		"stress":    c.Stress,
		"queued":    e.queue.Len(),
	}
	if e.active != nil {
		detail["active"] = e.active.ID
	}
	e.record(RecordYear, detail)
	for _, m := range milestones {
		e.record(RecordMilestone, map[string]any{"milestone": m, "age": c.Age})
	}
}

// seqClock stamps records with strictly increasing seq values. Legacy
// carries the parent's clock over to the heir; Load resumes at Snapshot.Seq.
type seqClock struct {
	last atomic.Int64
}

func (c *seqClock) next() int64 { return c.last.Add(1) }
func (c *seqClock) current() int64 { return c.last.Load() }
func (c *seqClock) resume(seq int64) { c.last.Store(seq) }
