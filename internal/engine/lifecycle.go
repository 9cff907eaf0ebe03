package engine

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/survival"
)

// Revive tuning.
const (
	ReviveHealth        = 30
	ReviveHappinessLoss = 20
	ReviveStressCap     = 50
)

// finalize ends the life: the active event and queue are discarded, the
// score is computed, and telemetry is notified.
func (e *Engine) finalize(cause survival.FailCause) {
	c := e.character
	e.ended = true
	e.cause = cause
	e.active = nil
	e.queue.Clear()
	e.phase = PhaseResolvingEvent
	e.pending = nil
	e.score = LifeScore(c, e.stats)

	slog.Info("life ended", "life", e.lifeID, "cause", cause, "age", c.Age, "score", e.score)
	e.record(RecordEnded, map[string]any{
		"cause":     string(cause),
		"age":       c.Age,
		"score":     e.score,
		"net_worth": c.NetWorth(),
	})
}

// LifeScore is the end-of-life score: years lived, wealth, and the stories
// completed along the way.
func LifeScore(c *model.Character, s Stats) int64 {
	score := int64(c.Age) * 10
	score += max(0, c.NetWorth()) / 1000
	score += int64(s.EventsResolved) * 5
	score += int64(s.ArcsCompleted) * 50
	score += int64(s.GoalsCompleted) * 25
	score += int64(c.Happiness)
	return score
}

// CanRevive reports whether the one-time revive is available.
func (e *Engine) CanRevive() bool {
	return e.character != nil && e.ended && !e.revived && e.character.Age < survival.MaxAge
}

// Revive brings an ended life back once. Health is restored to at least 30,
// money is lifted above the bankruptcy line, burnout is reset, and happiness
// drops. Returns false when revive is unavailable or a tick is in progress.
func (e *Engine) Revive() bool {
	if !e.CanRevive() || e.ticking.Load() {
		return false
	}
	c := e.character
	c.Health = max(c.Health, ReviveHealth)
	if c.Money <= survival.BankruptcyLine {
		c.Money = 0
	}
	c.BurnoutYears = 0
	c.Stress = min(c.Stress, ReviveStressCap)
	c.AddHappiness(-ReviveHappinessLoss)

	e.revived = true
	e.ended = false
	e.cause = survival.CauseNone
	e.score = 0

	slog.Info("life revived", "life", e.lifeID, "age", c.Age)
	e.record(RecordRevived, map[string]any{"age": c.Age})
	return true
}

// Rewarder confirms an external reward (an advertisement view or payment).
type Rewarder interface {
	Confirm(ctx context.Context, confirmationID string) (bool, error)
}

// ErrNoRewarder is returned by NoRewarder.
var ErrNoRewarder = errors.New("no reward service configured")

// NoRewarder is the default Rewarder; it never confirms.
type NoRewarder struct{}

// Confirm implements Rewarder.
func (NoRewarder) Confirm(context.Context, string) (bool, error) {
	return false, ErrNoRewarder
}

// RewarderFunc adapts a function to Rewarder.
type RewarderFunc func(ctx context.Context, confirmationID string) (bool, error)

// Confirm implements Rewarder.
func (f RewarderFunc) Confirm(ctx context.Context, id string) (bool, error) {
	return f(ctx, id)
}

// ReviveWithReward revives after the external reward service confirms
// confirmationID. Duplicate confirmations inside the reward window are
// dropped. Service failures are logged and reported as false.
//
// ReviveWithReward waits for the service. Callers that own the engine on a
// single goroutine should call ConfirmReward elsewhere and Revive on success.
func (e *Engine) ReviveWithReward(ctx context.Context, confirmationID string) bool {
	if !e.CanRevive() {
		return false
	}
	if !e.ConfirmReward(ctx, confirmationID) {
		return false
	}
	return e.Revive()
}

// ConfirmReward asks the reward service to confirm confirmationID after the
// duplicate guard. It reads no life state and is safe to call from any
// goroutine while another owns the engine.
func (e *Engine) ConfirmReward(ctx context.Context, confirmationID string) bool {
	if !e.guard.Allow(confirmationID) {
		slog.Debug("duplicate reward confirmation dropped", "confirmation", confirmationID)
		return false
	}
	ok, err := e.rewarder.Confirm(ctx, confirmationID)
	if err != nil {
		slog.Warn("reward confirmation failed", "confirmation", confirmationID, "error", err)
		return false
	}
	return ok
}

// RewardGuard drops repeated reward confirmations inside a time window.
// It is independent of the tick guard.
//
// Thread-safety: RewardGuard is safe for concurrent use via internal mutex.
type RewardGuard struct {
	mu     sync.Mutex
	window time.Duration
	now    func() time.Time
	seen   map[string]time.Time
}

// NewRewardGuard creates a guard with window, reading time from now.
func NewRewardGuard(window time.Duration, now func() time.Time) *RewardGuard {
	if now == nil {
		now = time.Now
	}
	return &RewardGuard{window: window, now: now, seen: make(map[string]time.Time)}
}

// Allow reports whether id has not been allowed within the window, and
// records it.
func (g *RewardGuard) Allow(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	for k, at := range g.seen {
		if now.Sub(at) >= g.window {
			delete(g.seen, k)
		}
	}
	if _, dup := g.seen[id]; dup {
		return false
	}
	g.seen[id] = now
	return true
}

// Heir returns the eldest living child of the current character.
func (e *Engine) Heir() (*model.Bond, bool) {
	if e.character == nil {
		return nil, false
	}
	var alive []*model.Bond
	for _, ch := range e.character.Relations.Children {
		if ch.Alive {
			alive = append(alive, ch)
		}
	}
	if len(alive) == 0 {
		return nil, false
	}
	sort.SliceStable(alive, func(i, j int) bool { return alive[i].Age > alive[j].Age })
	return alive[0], true
}

// Legacy continues an ended life as the eldest living child. The prior
// timeline is discarded; the heir inherits half of the parent's positive net
// worth, keeps living siblings, and starts generation+1. Returns false when
// the life has not ended or there is no heir.
func (e *Engine) Legacy() bool {
	if !e.ended || e.ticking.Load() {
		return false
	}
	heir, ok := e.Heir()
	if !ok {
		return false
	}
	parent := e.character
	inheritance := max(0, parent.NetWorth()) / 2

	c := model.NewCharacter(heir.Name, heir.Age)
	c.Generation = parent.Generation + 1
	c.Money = inheritance
	e.education.Backfill(c)
	for _, sib := range parent.Relations.Children {
		if sib.ID == heir.ID || !sib.Alive {
			continue
		}
		s := *sib
		s.Role = model.RoleSibling
		s.Memories = nil
		c.Relations.Siblings = append(c.Relations.Siblings, &s)
	}

	lifeID, seed, bonds, clock := e.lifeID, e.lifeSeed, e.bondSeq, e.clock
	e.resetLife()
	e.clock = clock
	e.lifeID = lifeID
	e.lifeSeed = seed
	e.bondSeq = bonds
	e.config.Name = c.Name
	e.character = c

	slog.Info("legacy continued", "life", e.lifeID, "heir", c.Name, "generation", c.Generation, "inheritance", inheritance)
	e.record(RecordLegacy, map[string]any{"heir": c.Name, "generation": c.Generation, "inheritance": inheritance})
	return true
}
