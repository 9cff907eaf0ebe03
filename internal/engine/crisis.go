package engine

import (
	"log/slog"
	"math"

	"github.com/roach88/lifesim/internal/model"
)

// Signal is a threshold crossing reported by a yearly process.
type Signal string

// Signals in descending severity.
const (
	SignalHealth     Signal = "health"
	SignalDebt       Signal = "debt"
	SignalStress     Signal = "stress"
	SignalDepression Signal = "depression"
	SignalLoneliness Signal = "loneliness"
)

var severity = []Signal{SignalHealth, SignalDebt, SignalStress, SignalDepression, SignalLoneliness}

// CrisisEvents maps each signal to its crisis event.
var CrisisEvents = map[Signal]string{
	SignalHealth:     "crisis_health",
	SignalDebt:       "crisis_debt",
	SignalStress:     "crisis_stress",
	SignalDepression: "crisis_depression",
	SignalLoneliness: "crisis_loneliness",
}

// CrisisProbability is min(0.9, 0.3 + 0.2n) for n concurrent crisis conditions.
func CrisisProbability(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(0.9, 0.3+0.2*float64(n))
}

// queueCrisis gates the year's signals by CrisisProbability and, on success,
// inserts the most severe crisis not already queued or active at the front.
func (e *Engine) queueCrisis(signals []Signal) {
	present := make(map[Signal]bool, len(signals))
	for _, s := range signals {
		present[s] = true
	}
	p := CrisisProbability(len(present))
	if !model.Roll(e.rng, p) {
		return
	}
	for _, s := range severity {
		if !present[s] {
			continue
		}
		id := CrisisEvents[s]
		if e.queue.Contains(id) || (e.active != nil && e.active.ID == id) {
			continue
		}
		ev, ok := e.catalog.GetByID(id)
		if !ok {
			continue
		}
		e.queue.PushFront(ev)
		slog.Info("crisis queued", "event", id, "conditions", len(present), "p", p, "age", e.character.Age)
		return
	}
}

// ScriptedEvents is the fixed age-keyed table of one-time events.
var ScriptedEvents = map[int]string{
	6:  "first_day_of_school",
	13: "teenage_years",
	16: "learners_permit",
	18: "coming_of_age",
	30: "turning_thirty",
	40: "midlife",
	50: "turning_fifty",
	65: "retirement",
}

// queueScripted inserts the event for the character's age at the front unless
// it is already queued, active, or seen.
func (e *Engine) queueScripted() {
	id, ok := ScriptedEvents[e.character.Age]
	if !ok || e.seen[id] || e.queue.Contains(id) {
		return
	}
	if e.active != nil && e.active.ID == id {
		return
	}
	ev, ok := e.catalog.GetByID(id)
	if !ok {
		return
	}
	e.queue.PushFront(ev)
}

// Process is a yearly needs, consequence, or stat-decay collaborator.
type Process interface {
	Name() string
	ProcessYear(c *model.Character) []Signal
}

// Thresholds for the default processes.
const (
	LowHealth         = 20
	HighStress        = 90
	LowHappiness      = 10
	DebtWarning       = -2500
	HappinessBaseline = 60
	HealthDeclineAge  = 50
)

// NeedsDecay drifts stress and happiness toward their baselines and reports
// stress, depression, and loneliness.
type NeedsDecay struct{}

func (NeedsDecay) Name() string { return "needs" }

// ProcessYear implements Process.
func (NeedsDecay) ProcessYear(c *model.Character) []Signal {
	baseline := 20
	if c.Employed() {
		baseline += 10
	}
	if c.HasBusiness() {
		baseline += 15
	}
	c.Stress = towards(c.Stress, baseline, 5)
	c.Happiness = towards(c.Happiness, HappinessBaseline, 2)

	var out []Signal
	lonely := c.Age >= model.AdultAgeThreshold && !c.Relations.HasPartner() && !hasActive(c.Relations.Friends)
	if lonely {
		c.AddHappiness(-3)
		out = append(out, SignalLoneliness)
	}
	if c.Stress >= HighStress {
		out = append(out, SignalStress)
	}
	if c.Happiness <= LowHappiness {
		out = append(out, SignalDepression)
	}
	return out
}

// StatDecay applies age-related health decline and reports poor health and
// debt.
type StatDecay struct{}

func (StatDecay) Name() string { return "stat_decay" }

// ProcessYear implements Process.
func (StatDecay) ProcessYear(c *model.Character) []Signal {
	switch {
	case c.Age > HealthDeclineAge:
		c.AddHealth(-(1 + (c.Age-HealthDeclineAge)/10))
	case c.Stress < 50:
		c.AddHealth(1)
	}
	if c.Stress >= 70 {
		c.AddHealth(-2)
	}
	if c.Age > 70 {
		c.AddIntelligence(-1)
	}

	var out []Signal
	if c.Health < LowHealth {
		out = append(out, SignalHealth)
	}
	if c.Money < DebtWarning {
		out = append(out, SignalDebt)
	}
	return out
}

func towards(v, target, step int) int {
	switch {
	case v > target:
		return max(target, v-step)
	case v < target:
		return min(target, v+step)
	}
	return v
}

func hasActive(bonds []*model.Bond) bool {
	for _, b := range bonds {
		if b.Active() {
			return true
		}
	}
	return false
}
