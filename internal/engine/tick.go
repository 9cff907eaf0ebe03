package engine

import (
	"fmt"
	"log/slog"

	"github.com/roach88/lifesim/internal/event"
	"github.com/roach88/lifesim/internal/investment"
	"github.com/roach88/lifesim/internal/model"
	"github.com/roach88/lifesim/internal/survival"
)

// Passive bonus thresholds.
const (
	SportsBonusSkill  = 70
	SportsBonusHealth = 2
)

// AdvanceYear runs one tick.
//
// No-op when there is no character, the life has ended, a tick is already in
// progress, or the turn is in PhaseSelectingActions. Never returns an error;
// failed steps are logged, recorded in StepErrors, and skipped.
func (e *Engine) AdvanceYear() {
	if e.character == nil || e.ended {
		slog.Debug("advance ignored: no live character")
		return
	}
	if !e.ticking.CompareAndSwap(false, true) {
		slog.Debug("advance ignored: tick in progress", "year", e.year)
		return
	}
	defer e.ticking.Store(false)

	if e.phase == PhaseSelectingActions {
		slog.Debug("advance ignored: free actions not committed", "year", e.year)
		return
	}
	e.tick()
}

// tick is the body of AdvanceYear. The guard is held by the caller.
func (e *Engine) tick() {
	c := e.character
	e.stepErrors = nil
	var milestones []string

	e.year++
	c.Age++
	slog.Debug("tick", "year", e.year, "age", c.Age)

	e.step("market", func() error {
		e.market = investment.GenerateMarket(e.rng)
		return nil
	})

	report := model.EconomyReport{Alive: true}
	e.step("economy", func() error {
		report = e.economy.ApplyYearlyUpdate(c, e.market)
		return nil
	})
	if !report.Alive {
		cause := survival.CheckThresholds(survival.VitalsOf(c)).Cause
		if cause == survival.CauseNone {
			cause = survival.CausePoorHealth
		}
		e.finalize(cause)
		return
	}

	e.step("statistics", func() error {
		e.stats.TotalEarned += report.Income
		e.stats.TotalSpent += report.Expenses
		e.stats.PeakNetWorth = max(e.stats.PeakNetWorth, report.NetWorth)
		return nil
	})

	e.step("boosts", func() error {
		e.applyBoosts()
		return nil
	})

	e.step("career_risk", func() error {
		res := e.career.CheckRisk(c, e.rng)
		e.enqueueAll(res.Events)
		return nil
	})

	e.step("passive_bonus", func() error {
		if c.Skill(model.SkillSports) >= SportsBonusSkill && e.lastBonusYear != e.year {
			c.AddHealth(SportsBonusHealth)
			e.lastBonusYear = e.year
		}
		return nil
	})

	e.step("education", func() error {
		if id, ok := e.education.EnsureCompulsory(c); ok {
			slog.Debug("compulsory enrollment", "stage", id, "age", c.Age)
		}
		res := e.education.Progress(c, e.rng)
		if res.Graduated {
			milestones = append(milestones, "graduated:"+string(res.Stage))
		}
		e.enqueueAll(res.Events)
		return nil
	})

	e.step("career", func() error {
		if err := e.seekWork(); err != nil {
			return err
		}
		res := e.career.Progress(c, e.rng)
		if res.Promoted {
			milestones = append(milestones, fmt.Sprintf("promoted:%d", res.Level))
		}
		e.enqueueAll(res.Events)
		return nil
	})

	e.step("business", func() error {
		if c.Business == nil || c.Business.State.Absorbing() {
			return nil
		}
		res := e.business.Progress(c, e.rng)
		if res.From != res.To {
			milestones = append(milestones, "business:"+string(res.To))
		}
		e.enqueueAll(res.Events)
		return nil
	})

	e.step("investment", func() error {
		if len(c.Portfolio.Holdings) == 0 {
			return nil
		}
		res := e.investment.Progress(c, e.market, e.rng)
		e.enqueueAll(res.Events)
		return nil
	})

	var signals []Signal
	e.step("relationships", func() error {
		res := e.relations.Advance(c, e.rng)
		for _, t := range res.Triggers {
			e.enqueue(t.EventID, t.SubjectID)
		}
		return nil
	})
	for _, p := range e.processes {
		e.step(p.Name(), func() error {
			signals = append(signals, p.ProcessYear(c)...)
			return nil
		})
	}

	e.step("crisis", func() error {
		e.queueCrisis(signals)
		return nil
	})

	e.step("scripted", func() error {
		e.queueScripted()
		return nil
	})

	e.step("goals", func() error {
		e.advanceGoal()
		return nil
	})

	if e.active == nil && e.queue.Len() == 0 {
		e.step("selection", func() error {
			e.selectEvent()
			return nil
		})
	}

	verdict := survival.Result{Alive: true}
	e.step("survival", func() error {
		verdict = survival.Evaluate(survival.VitalsOf(c), e.rng)
		return nil
	})
	if !verdict.Alive {
		e.finalize(verdict.Cause)
		return
	}

	e.promote()

	e.step("telemetry", func() error {
		e.recordYear(report, milestones)
		return nil
	})
}

// step runs fn, converting an error or panic into a logged StepError.
func (e *Engine) step(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(ErrCodeSubsystemPanic, name, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := fn(); err != nil {
		e.fail(ErrCodeSubsystemFailed, name, err)
	}
}

func (e *Engine) fail(code StepErrorCode, name string, err error) {
	se := &StepError{Code: code, Step: name, Year: e.year, Err: err}
	e.stepErrors = append(e.stepErrors, se)
	slog.Error("step failed", "step", name, "year", e.year, "code", code, "error", err)
}

// seekWork employs an adult who is not studying, working, or running a
// business. The ladder position is kept across layoffs.
func (e *Engine) seekWork() error {
	c := e.character
	if c.Age < model.AdultAgeThreshold || c.Age >= model.RetirementAge {
		return nil
	}
	if c.Employed() || c.Education.Enrolled || c.HasBusiness() {
		return nil
	}
	return e.career.Start(c)
}

// enqueue appends catalog event id to the back of the queue. Unknown ids and
// ids already queued or active are ignored.
func (e *Engine) enqueue(id, subjectID string) bool {
	if e.queue.Contains(id) || (e.active != nil && e.active.ID == id) {
		return false
	}
	ev, ok := e.catalog.GetByID(id)
	if !ok {
		slog.Debug("unknown event ignored", "event", id)
		return false
	}
	ev.SubjectID = subjectID
	e.queue.PushBack(ev)
	return true
}

func (e *Engine) enqueueAll(ids []string) {
	for _, id := range ids {
		e.enqueue(id, "")
	}
}

// selectEvent runs the selection strategies and makes the winner active.
func (e *Engine) selectEvent() {
	exclude := make(map[string]bool, e.queue.Len()+1)
	for _, id := range e.queue.IDs() {
		exclude[id] = true
	}
	if e.active != nil {
		exclude[e.active.ID] = true
	}
	in := event.Input{
		Character: e.character,
		Life: event.LifeView{
			Year:    e.year,
			Seen:    e.seen,
			Exclude: exclude,
			Arcs:    e.arcs,
			Rand:    e.rng,
		},
	}
	cand, ok := event.Select(in, event.DefaultStrategies(e.catalog, e.director)...)
	if !ok {
		return
	}
	ev := cand.Event
	e.active = &ev
	slog.Debug("event selected", "event", ev.ID, "source", cand.Source, "year", e.year)
}

// promote makes the front of the queue active when nothing is.
func (e *Engine) promote() {
	if e.active != nil || e.ended {
		return
	}
	if ev, ok := e.queue.Pop(); ok {
		e.active = &ev
	}
}
