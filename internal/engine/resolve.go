package engine

import (
	"log/slog"

	"github.com/roach88/lifesim/internal/event"
	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/survival"
)

// Special effect tuning.
const (
	HighRiskDeathChance      = 0.2
	BankruptcyHappinessLoss  = 15
	BankruptcyStressIncrease = 10
)

// ResolveChoice answers the active event with choiceID.
//
// Unknown or unavailable choices, a missing active event, an ended life, and
// calls during a tick are ignored. Otherwise the choice's effects and special
// effect are applied, the event is recorded as seen, deterministic survival is
// re-checked, and the next queued event becomes active.
func (e *Engine) ResolveChoice(choiceID string) {
	if e.character == nil || e.ended || e.active == nil || e.ticking.Load() {
		return
	}
	c := e.character
	ev := *e.active

	out, ok := e.catalog.ApplyChoice(ev, choiceID, c)
	if !ok {
		slog.Debug("choice ignored", "event", ev.ID, "choice", choiceID)
		return
	}

	e.active = nil
	e.seen[ev.ID] = true
	e.stats.EventsResolved++
	if ev.Arc != "" && ev.ArcStep > e.arcs[ev.Arc] {
		e.arcs[ev.Arc] = ev.ArcStep
		if ev.ArcStep == e.catalog.ArcLength(ev.Arc) {
			e.stats.ArcsCompleted++
			slog.Info("arc completed", "arc", ev.Arc, "age", c.Age)
		}
	}

	e.applySpecial(out.Special)
	e.record(RecordResolved, map[string]any{
		"event":   ev.ID,
		"choice":  out.ChoiceID,
		"applied": len(out.Applied),
		"special": string(out.Special),
	})

	if res := survival.CheckThresholds(survival.VitalsOf(c)); !res.Alive {
		e.finalize(res.Cause)
		return
	}
	e.promote()
}

func (e *Engine) applySpecial(s event.Special) {
	c := e.character
	switch s {
	case event.SpecialNone:
	case event.SpecialBankruptcyPenalty:
		c.Money = 0
		c.Portfolio = model.NewPortfolio()
		if c.HasBusiness() {
			c.Business.State = model.BusinessFailed
		}
		c.AddHappiness(-BankruptcyHappinessLoss)
		c.AddStress(BankruptcyStressIncrease)
		slog.Info("bankruptcy declared", "age", c.Age)
	case event.SpecialHighRiskDeath:
		if model.Roll(e.rng, HighRiskDeathChance) {
			c.Health = 0
			slog.Info("high-risk choice was fatal", "age", c.Age)
		}
	case event.SpecialIncomeBoost:
		e.boosts = append(e.boosts, Boost{Kind: BoostIncome, Multiplier: IncomeBoostMultiplier, YearsLeft: IncomeBoostYears})
	case event.SpecialBusinessExit:
		if _, err := e.business.Exit(c); err != nil {
			slog.Debug("business exit ignored", "error", err)
		}
	case event.SpecialEnrollNextStage:
		if err := e.enrollNext(c); err != nil {
			slog.Debug("enrollment ignored", "error", err)
		}
	case event.SpecialHaveChild:
		if _, err := e.relations.HaveChild(c, e.rng); err != nil {
			slog.Debug("child ignored", "error", err)
		}
	default:
		slog.Warn("unknown special effect", "special", s)
	}
}
