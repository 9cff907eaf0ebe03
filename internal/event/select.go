package event

import "github.com/roach88/lifesim/internal/model"

// ControlledChance is the yearly chance the controlled strategy offers an event.
const ControlledChance = 0.25

// PoolChance is the yearly chance the pool strategy offers an event.
const PoolChance = 0.5

// Input is what a strategy sees.
type Input struct {
	Character *model.Character
	Life      LifeView
}

// Strategy returns at most one candidate.
type Strategy func(in Input) (Candidate, bool)

// Select folds strategies left to right and returns the first candidate.
func Select(in Input, strategies ...Strategy) (Candidate, bool) {
	for _, s := range strategies {
		if c, ok := s(in); ok {
			return c, true
		}
	}
	return Candidate{}, false
}

// DirectorStrategy takes the director's first ranked candidate and discards
// the rest.
func DirectorStrategy(d Director) Strategy {
	return func(in Input) (Candidate, bool) {
		ranked := d.EvaluateYear(in.Character, in.Life)
		if len(ranked) == 0 {
			return Candidate{}, false
		}
		return ranked[0], true
	}
}

// ControlledStrategy offers a weighted curated event with probability chance.
func ControlledStrategy(c *Catalog, chance float64) Strategy {
	return func(in Input) (Candidate, bool) {
		eligible := c.Eligible(SourceControlled, in.Character, in.Life.Exclude, in.Life.Seen)
		if len(eligible) == 0 || !model.Roll(in.Life.Rand, chance) {
			return Candidate{}, false
		}
		ev, ok := weightedPick(in.Life.Rand, eligible)
		return Candidate{SourceControlled, ev}, ok
	}
}

// PoolStrategy offers a random pool event with probability chance.
func PoolStrategy(c *Catalog, chance float64) Strategy {
	return func(in Input) (Candidate, bool) {
		if !model.Roll(in.Life.Rand, chance) {
			return Candidate{}, false
		}
		ev, ok := c.GetRandom(in.Life.Rand, in.Character, in.Life.Exclude, in.Life.Seen)
		return Candidate{SourcePool, ev}, ok
	}
}

// DefaultStrategies is the selection order: the director alone when present,
// otherwise controlled events first, then the random pool.
func DefaultStrategies(c *Catalog, d Director) []Strategy {
	if d != nil {
		return []Strategy{DirectorStrategy(d)}
	}
	return []Strategy{ControlledStrategy(c, ControlledChance), PoolStrategy(c, PoolChance)}
}
