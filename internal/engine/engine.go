package engine

import (
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync/atomic"
	"time"

	"github.com/roach88/lifesim/internal/business"
	"github.com/roach88/lifesim/internal/career"
	"github.com/roach88/lifesim/internal/education"
	"github.com/roach88/lifesim/internal/event"
	"github.com/roach88/lifesim/internal/investment"
	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/relationship"
	"github.com/roach88/lifesim/internal/survival"
)

// Phase is the turn phase.
type Phase string

const (
	// PhaseResolvingEvent is the default phase: the year may advance and the
	// active event, if any, awaits a choice.
	PhaseResolvingEvent Phase = "resolving_event"

	// PhaseSelectingActions blocks AdvanceYear until the chosen free actions
	// are committed.
	PhaseSelectingActions Phase = "selecting_actions"
)

// LifeConfig describes a new life.
type LifeConfig struct {
	Name  string `json:"name" yaml:"name"`
	Age   int    `json:"age,omitempty" yaml:"age"`
	Money int64  `json:"money,omitempty" yaml:"money"`
	// Seed fixes the random source; 0 uses the engine seed, then a random one.
	Seed uint64 `json:"seed,omitempty" yaml:"seed"`
	// LifeID fixes the life identifier; empty generates one.
	LifeID string `json:"life_id,omitempty" yaml:"life_id"`
}

// Stats are cumulative life statistics.
type Stats struct {
	TotalEarned    int64 `json:"total_earned"`
	TotalSpent     int64 `json:"total_spent"`
	PeakNetWorth   int64 `json:"peak_net_worth"`
	EventsResolved int   `json:"events_resolved"`
	ArcsCompleted  int   `json:"arcs_completed"`
	GoalsCompleted int   `json:"goals_completed"`
	GoalsFailed    int   `json:"goals_failed"`
}

// Engine is the year-cycle orchestrator for one life.
//
// CRITICAL: Engine is single-writer. Entry points must be called from one
// goroutine; the reentrancy guard drops calls that arrive while a tick is in
// progress but does not make the engine safe for concurrent mutation.
//
// INVARIANTS:
//   - At most one event is active.
//   - Age and year advance by exactly one per completed tick.
//   - Once ended, nothing advances until Revive, StartNewLife, or Legacy.
type Engine struct {
	catalog     *event.Catalog
	director    event.Director
	directorSet bool
	economy     Economy
	processes   []Process
	education   *education.Engine
	career      *career.Engine
	business    *business.Engine
	investment  *investment.Engine
	relations   *relationship.Engine
	telemetry   Telemetry
	rewarder    Rewarder
	guard       *RewardGuard
	ids         IDGenerator
	clock       *seqClock
	now         func() time.Time

	seed         uint64
	maxActions   int
	rewardWindow time.Duration

	// ticking is the reentrancy guard.
	ticking atomic.Bool

	pcg *rand.PCG
	rng model.Rand

	lifeID        string
	lifeSeed      uint64
	config        LifeConfig
	character     *model.Character
	ended         bool
	year          int
	cause         survival.FailCause
	seen          map[string]bool
	queue         *event.Queue
	active        *event.Event
	phase         Phase
	pending       []string
	stats         Stats
	market        model.Market
	boosts        []Boost
	goal          *Goal
	arcs          map[string]int
	revived       bool
	score         int64
	lastBonusYear int
	bondSeq       int

	stepErrors []error
}

// New creates an Engine. Call StartNewLife or Load before advancing.
func New(opts ...EngineOption) *Engine {
	e := &Engine{
		economy:      model.Economy{},
		processes:    []Process{NeedsDecay{}, StatDecay{}},
		education:    education.New(),
		career:       career.New(),
		business:     business.New(),
		investment:   investment.New(),
		telemetry:    NopTelemetry{},
		rewarder:     NoRewarder{},
		ids:          UUIDv7Generator{},
		clock:        &seqClock{},
		now:          time.Now,
		maxActions:   DefaultMaxActions,
		rewardWindow: DefaultRewardWindow,
		queue:        event.NewQueue(),
		phase:        PhaseResolvingEvent,
		seen:         make(map[string]bool),
		arcs:         make(map[string]int),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.catalog == nil {
		e.catalog = event.MustDefault()
	}
	if !e.directorSet {
		e.director = event.NewTensionDirector(e.catalog)
	}
	e.relations = relationship.New(bondIDs{e})
	e.guard = NewRewardGuard(e.rewardWindow, e.now)
	e.reseed(e.seed)
	return e
}

func (e *Engine) reseed(seed uint64) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	e.lifeSeed = seed
	e.pcg = rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	e.rng = rand.New(e.pcg)
}

// StartNewLife discards any current life and begins a new one.
// No-op while a tick is in progress.
func (e *Engine) StartNewLife(cfg LifeConfig) {
	if e.ticking.Load() {
		slog.Debug("new life ignored: tick in progress")
		return
	}
	if cfg.Name == "" {
		cfg.Name = "Alex"
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = e.seed
	}
	e.reseed(seed)
	cfg.Seed = e.lifeSeed
	if cfg.LifeID == "" {
		cfg.LifeID = e.ids.Generate()
	}

	e.resetLife()
	e.lifeID = cfg.LifeID
	e.config = cfg

	c := model.NewCharacter(cfg.Name, cfg.Age)
	c.Money = cfg.Money
	e.education.Backfill(c)
	e.relations.NewFamily(c, e.rng)
	e.character = c

	slog.Info("life started", "life", e.lifeID, "name", c.Name, "seed", e.lifeSeed)
	e.record(RecordLifeStarted, map[string]any{"name": c.Name, "seed": e.lifeSeed, "age": c.Age, "config": e.config})
}

// NewLife is StartNewLife with the current life's name and a fresh seed.
func (e *Engine) NewLife() {
	name := e.config.Name
	e.StartNewLife(LifeConfig{Name: name})
}

func (e *Engine) resetLife() {
	e.character = nil
	e.ended = false
	e.year = 0
	e.cause = survival.CauseNone
	e.seen = make(map[string]bool)
	e.queue = event.NewQueue()
	e.active = nil
	e.phase = PhaseResolvingEvent
	e.pending = nil
	e.stats = Stats{}
	e.market = model.Market{}
	e.boosts = nil
	e.goal = nil
	e.arcs = make(map[string]int)
	e.revived = false
	e.score = 0
	e.lastBonusYear = 0
	e.bondSeq = 0
	e.stepErrors = nil
	e.clock = &seqClock{}
}

// Character returns the live character. The caller must not mutate it
// while a tick is in progress.
func (e *Engine) Character() *model.Character { return e.character }

// LifeID returns the current life identifier.
func (e *Engine) LifeID() string { return e.lifeID }

// Seed returns the seed of the current life.
func (e *Engine) Seed() uint64 { return e.lifeSeed }

// Config returns the config the current life was started with.
func (e *Engine) Config() LifeConfig { return e.config }

// Ended reports whether the life has ended.
func (e *Engine) Ended() bool { return e.ended }

// Year returns the current simulated year.
func (e *Engine) Year() int { return e.year }

// FailCause returns why the life ended, or survival.CauseNone.
func (e *Engine) FailCause() survival.FailCause { return e.cause }

// Phase returns the turn phase.
func (e *Engine) Phase() Phase { return e.phase }

// Stats returns the cumulative life statistics.
func (e *Engine) Stats() Stats { return e.stats }

// Market returns the current year's market modifiers.
func (e *Engine) Market() model.Market { return e.market }

// Score returns the end-of-life score (0 while alive).
func (e *Engine) Score() int64 { return e.score }

// Revived reports whether the one-time revive has been used.
func (e *Engine) Revived() bool { return e.revived }

// Catalog returns the event catalog.
func (e *Engine) Catalog() *event.Catalog { return e.catalog }

// ActiveEvent returns a copy of the active event.
func (e *Engine) ActiveEvent() (event.Event, bool) {
	if e.active == nil {
		return event.Event{}, false
	}
	return *e.active, true
}

// AvailableChoices returns the active event's choices the character may take.
func (e *Engine) AvailableChoices() []event.Choice {
	if e.active == nil || e.character == nil {
		return nil
	}
	var out []event.Choice
	for _, ch := range e.active.Choices {
		if e.catalog.IsChoiceAvailable(ch, e.character) {
			out = append(out, ch)
		}
	}
	return out
}

// QueuedIDs returns queued event ids, front first.
func (e *Engine) QueuedIDs() []string { return e.queue.IDs() }

// Seen reports whether event id has been resolved in this life.
func (e *Engine) Seen(id string) bool { return e.seen[id] }

// SeenIDs returns every resolved event id in sorted order.
func (e *Engine) SeenIDs() []string {
	var out []string
	for id := range e.seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// PendingActions returns the chosen, uncommitted free actions.
func (e *Engine) PendingActions() []string {
	out := make([]string, len(e.pending))
	copy(out, e.pending)
	return out
}

// Goal returns the active mid-term goal.
func (e *Engine) Goal() (Goal, bool) {
	if e.goal == nil {
		return Goal{}, false
	}
	return *e.goal, true
}

// Boosts returns the active temporary boosts.
func (e *Engine) Boosts() []Boost {
	out := make([]Boost, len(e.boosts))
	copy(out, e.boosts)
	return out
}

// Arcs returns the completed step count of every started arc.
func (e *Engine) Arcs() map[string]int {
	out := make(map[string]int, len(e.arcs))
	for k, v := range e.arcs {
		out[k] = v
	}
	return out
}

// StepErrors returns the errors recorded during the most recent tick or commit.
func (e *Engine) StepErrors() []error {
	out := make([]error, len(e.stepErrors))
	copy(out, e.stepErrors)
	return out
}
