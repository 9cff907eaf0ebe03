package event

import (
	"log/slog"
	"math"
	"sort"

	"github.com/roach88/lifesim/internal/model"
)

// Candidate is one ranked suggestion from a Director or strategy.
type Candidate struct {
	Source Source
	Event  Event
}

// LifeView is the read-only slice of life state a Director may consult.
type LifeView struct {
	Year    int
	Seen    map[string]bool
	Exclude map[string]bool
	// Arcs maps arc name to the last completed step.
	Arcs map[string]int
	Rand model.Rand
}

// Director suggests ranked candidates for the year. An empty result means a
// quiet year.
type Director interface {
	EvaluateYear(ch *model.Character, life LifeView) []Candidate
}

// Phase is the life phase used to shape event pacing.
type Phase string

const (
	PhaseChildhood  Phase = "childhood"
	PhaseAdolescent Phase = "adolescent"
	PhaseYoungAdult Phase = "young_adult"
	PhaseAdult      Phase = "adult"
	PhaseMidlife    Phase = "midlife"
	PhaseElder      Phase = "elder"
)

// PhaseOf maps an age to its life phase.
func PhaseOf(age int) Phase {
	switch {
	case age < 13:
		return PhaseChildhood
	case age < 18:
		return PhaseAdolescent
	case age < 30:
		return PhaseYoungAdult
	case age < 50:
		return PhaseAdult
	case age < 65:
		return PhaseMidlife
	}
	return PhaseElder
}

// phasePace is the base chance that a year has any narrative event.
var phasePace = map[Phase]float64{
	PhaseChildhood:  0.45,
	PhaseAdolescent: 0.65,
	PhaseYoungAdult: 0.85,
	PhaseAdult:      0.8,
	PhaseMidlife:    0.7,
	PhaseElder:      0.55,
}

// Tension measures how much pressure the character is under, in [0,1].
func Tension(ch *model.Character) float64 {
	t := float64(ch.Stress) / 100 * 0.4
	t += float64(100-ch.Health) / 100 * 0.3
	t += float64(100-ch.Happiness) / 100 * 0.2
	if ch.Money < 0 {
		t += 0.1
	}
	return math.Max(0, math.Min(1, t))
}

// TensionDirector weights candidate events by life phase and tension.
//
// High tension makes quiet years less likely and favours controlled,
// high-impact events; low tension favours arcs and the pool. In-progress arcs
// are strongly preferred so threads finish.
type TensionDirector struct {
	catalog *Catalog
	// MaxCandidates bounds the ranked list.
	MaxCandidates int
}

// NewTensionDirector creates a director over catalog.
func NewTensionDirector(catalog *Catalog) *TensionDirector {
	return &TensionDirector{catalog: catalog, MaxCandidates: 3}
}

type weighted struct {
	c Candidate
	w float64
}

// EvaluateYear implements Director.
func (d *TensionDirector) EvaluateYear(ch *model.Character, life LifeView) []Candidate {
	phase := PhaseOf(ch.Age)
	tension := Tension(ch)

	pace := math.Min(0.95, phasePace[phase]+tension*0.25)
	if !model.Roll(life.Rand, pace) {
		slog.Debug("director quiet year", "age", ch.Age, "phase", phase, "tension", tension)
		return nil
	}

	var pool []weighted
	for _, arc := range d.catalog.Arcs() {
		step := life.Arcs[arc]
		if step >= d.catalog.ArcLength(arc) {
			continue
		}
		ev, ok := d.catalog.ArcStep(arc, step+1)
		if !ok || life.Exclude[ev.ID] || life.Seen[ev.ID] || !ev.Requires.Met(ch) {
			continue
		}
		w := float64(ev.Weight) * (1 - tension*0.5)
		if step > 0 {
			w *= 4
		}
		pool = append(pool, weighted{Candidate{SourceArc, ev}, w})
	}
	for _, ev := range d.catalog.Eligible(SourceControlled, ch, life.Exclude, life.Seen) {
		pool = append(pool, weighted{Candidate{SourceControlled, ev}, float64(ev.Weight) * (0.5 + tension)})
	}
	for _, ev := range d.catalog.Eligible(SourcePool, ch, life.Exclude, life.Seen) {
		pool = append(pool, weighted{Candidate{SourcePool, ev}, float64(ev.Weight)})
	}

	return rank(life.Rand, pool, d.MaxCandidates)
}

// rank draws up to n candidates by weighted sampling without replacement.
func rank(r model.Rand, pool []weighted, n int) []Candidate {
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].c.Event.ID < pool[j].c.Event.ID })

	var out []Candidate
	for len(out) < n && len(pool) > 0 {
		total := 0.0
		for _, p := range pool {
			total += p.w
		}
		if total <= 0 {
			break
		}
		x := r.Float64() * total
		idx := len(pool) - 1
		for i, p := range pool {
			x -= p.w
			if x < 0 {
				idx = i
				break
			}
		}
		out = append(out, pool[idx].c)
		pool = append(pool[:idx], pool[idx+1:]...)
	}
	return out
}
