package engine

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/lifesim/internal/model"
)

// Replay is structural: a life is fully determined by its LifeConfig (seed
// included), the free actions chosen each turn, and the choice made for each
// event. The Autopilot makes both decisions from the character state and its
// own seeded source, so Simulate with the same arguments always produces the
// same final snapshot digest. The CLI replay command relies on this.

// Policy decides how the autopilot answers events.
type Policy string

const (
	// PolicyFirst takes the first available choice.
	PolicyFirst Policy = "first"
	// PolicyRandom takes a uniformly random available choice.
	PolicyRandom Policy = "random"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyFirst, PolicyRandom:
		return Policy(s), nil
	case "":
		return PolicyFirst, nil
	}
	return "", fmt.Errorf("unknown policy %q (want first or random)", s)
}

// maxResolvesPerTurn bounds ResolveAll when every remaining choice is gated.
const maxResolvesPerTurn = 64

// Autopilot plays a life without a presentation layer.
type Autopilot struct {
	Policy Policy
	// Actions picks a turn's free actions; nil uses DefaultActions.
	Actions func(c *model.Character) []string

	rng *rand.Rand
}

// NewAutopilot creates an autopilot whose random policy draws from seed.
func NewAutopilot(policy Policy, seed uint64) *Autopilot {
	return &Autopilot{
		Policy: policy,
		rng:    rand.New(rand.NewPCG(seed, 0xda3e39cb94b95bdb)),
	}
}

// ResolveAll answers active events until none is active, the life ends, or
// the active event has no available choice. Returns how many were resolved.
func (a *Autopilot) ResolveAll(e *Engine) int {
	n := 0
	for range maxResolvesPerTurn {
		if _, ok := e.ActiveEvent(); !ok || e.Ended() {
			break
		}
		choices := e.AvailableChoices()
		if len(choices) == 0 {
			break
		}
		pick := choices[0]
		if a.Policy == PolicyRandom {
			pick = choices[a.rng.IntN(len(choices))]
		}
		before := e.Stats().EventsResolved
		e.ResolveChoice(pick.ID)
		if e.Stats().EventsResolved == before {
			break
		}
		n++
	}
	return n
}

// Turn plays one year: pending events are answered, free actions chosen and
// committed, and the year advanced.
func (a *Autopilot) Turn(e *Engine) {
	a.ResolveAll(e)
	if e.Ended() {
		return
	}
	actions := a.Actions
	if actions == nil {
		actions = DefaultActions
	}
	e.BeginActionPhase()
	e.SetChosenActions(actions(e.Character()))
	e.CommitActionsAndAdvance()
}

// Run plays up to years turns, stopping early when the life ends.
// Returns the number of turns played.
func (a *Autopilot) Run(e *Engine, years int) int {
	played := 0
	for played < years && !e.Ended() {
		a.Turn(e)
		played++
	}
	a.ResolveAll(e)
	return played
}

// DefaultActions is a sensible, deterministic action plan for c's age and
// circumstances.
func DefaultActions(c *model.Character) []string {
	if c.Age < model.AdultAgeThreshold {
		return []string{ActionStudy, ActionExercise, ActionSocialize}
	}
	out := []string{ActionExercise}
	switch {
	case c.Stress >= 60:
		out = append(out, ActionMeditate)
	case !c.Relations.HasPartner() && c.Age < 45:
		out = append(out, ActionDate)
	default:
		out = append(out, ActionSpendTimeFamily)
	}
	if c.Money > 20000 {
		out = append(out, ActionInvestIndex)
	} else {
		out = append(out, ActionSocialize)
	}
	return out
}

// Simulate starts a life from cfg and plays it for up to years turns with
// the given policy. The autopilot is seeded from the life's seed.
func Simulate(cfg LifeConfig, years int, policy Policy, opts ...EngineOption) (*Engine, Snapshot) {
	e := New(opts...)
	e.StartNewLife(cfg)
	NewAutopilot(policy, e.Seed()).Run(e, years)
	return e, e.Snapshot()
}
