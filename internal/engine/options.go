package engine

import (
	"time"

	"github.com/roach88/lifesim/internal/event"
	"github.com/roach88/lifesim/internal/model"
)

// DefaultMaxActions is the default number of free actions kept per turn.
const DefaultMaxActions = 3

// DefaultRewardWindow is the default duplicate-suppression window for
// reward confirmations.
const DefaultRewardWindow = 2 * time.Second

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithSeed sets the seed used by StartNewLife when the life config has none.
// A zero seed picks a random one.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.seed = seed
	}
}

// WithCatalog replaces the built-in event catalog.
func WithCatalog(c *event.Catalog) EngineOption {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithDirector sets the event director. A nil director disables it, so
// selection falls back to controlled events and the random pool.
//
// Default: event.NewTensionDirector over the engine's catalog.
func WithDirector(d event.Director) EngineOption {
	return func(e *Engine) {
		e.director = d
		e.directorSet = true
	}
}

// WithTelemetry sets the telemetry collaborator.
func WithTelemetry(t Telemetry) EngineOption {
	return func(e *Engine) {
		e.telemetry = t
	}
}

// WithMaxActions sets how many free actions SetChosenActions keeps.
//
// Default: 3 (DefaultMaxActions).
func WithMaxActions(n int) EngineOption {
	return func(e *Engine) {
		e.maxActions = n
	}
}

// WithRewarder sets the external reward confirmation service used by
// ReviveWithReward.
func WithRewarder(r Rewarder) EngineOption {
	return func(e *Engine) {
		e.rewarder = r
	}
}

// WithRewardWindow sets the duplicate-suppression window for reward
// confirmations.
//
// Default: 2s (DefaultRewardWindow).
func WithRewardWindow(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.rewardWindow = d
	}
}

// WithWallClock sets the wall clock used by the reward guard.
// Tests pass testutil.FakeClock.Now.
func WithWallClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the life id generator.
//
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) EngineOption {
	return func(e *Engine) {
		e.ids = g
	}
}

// WithEconomy replaces the character-model collaborator for the yearly
// economic update.
func WithEconomy(x Economy) EngineOption {
	return func(e *Engine) {
		e.economy = x
	}
}

// WithProcesses replaces the yearly needs and stat-decay processes.
func WithProcesses(ps ...Process) EngineOption {
	return func(e *Engine) {
		e.processes = ps
	}
}

// Economy is the character-model collaborator: the yearly recomputation of
// income, expenses, and net worth, and the generic effects mutator.
//
// Implemented by model.Economy.
type Economy interface {
	ApplyYearlyUpdate(c *model.Character, market model.Market) model.EconomyReport
	ApplyEffects(c *model.Character, effects model.Effects, subjectID string) model.Effects
}
