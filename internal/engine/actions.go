package engine

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lifesim/internal/model"
)

// Free action identifiers.
const (
	ActionStudy           = "study"
	ActionExercise        = "exercise"
	ActionMeditate        = "meditate"
	ActionSocialize       = "socialize"
	ActionSpendTimeFamily = "spend_time_family"
	ActionDate            = "date"
	ActionWorkOvertime    = "work_overtime"
	ActionSideHustle      = "side_hustle"
	ActionInvestSavings   = "invest_savings"
	ActionInvestIndex     = "invest_index"
	ActionEnrollNext      = "enroll_next"
	ActionStartCareer     = "start_career"
	ActionStartBusiness   = "start_business"
	ActionAdoptPet        = "adopt_pet"
)

var (
	ErrNotEmployed   = errors.New("not employed")
	ErrNoNextStage   = errors.New("no next education stage")
	ErrNothingToSave = errors.New("not enough cash to invest")
)

// Action is one free action.
type Action struct {
	ID    string
	Label string
	apply func(e *Engine, c *model.Character) error
}

// Actions is the closed free-action catalog in display order.
var Actions = []Action{
	{ActionStudy, "Study", (*Engine).study},
	{ActionExercise, "Exercise", (*Engine).exercise},
	{ActionMeditate, "Meditate", (*Engine).meditate},
	{ActionSocialize, "Socialize", (*Engine).socialize},
	{ActionSpendTimeFamily, "Spend time with family", (*Engine).spendTimeFamily},
	{ActionDate, "Go on a date", (*Engine).date},
	{ActionWorkOvertime, "Work overtime", (*Engine).workOvertime},
	{ActionSideHustle, "Side hustle", (*Engine).sideHustle},
	{ActionInvestSavings, "Put money in savings", (*Engine).investSavings},
	{ActionInvestIndex, "Buy index funds", (*Engine).investIndex},
	{ActionEnrollNext, "Enroll in the next stage", (*Engine).enrollNext},
	{ActionStartCareer, "Look for a job", (*Engine).startCareer},
	{ActionStartBusiness, "Start a business", (*Engine).startBusiness},
	{ActionAdoptPet, "Adopt a pet", (*Engine).adoptPet},
}

// LookupAction returns the free action with id.
func LookupAction(id string) (Action, bool) {
	for _, a := range Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// BeginActionPhase switches the turn to PhaseSelectingActions and clears any
// previously chosen actions. No-op without a live character or mid-tick.
func (e *Engine) BeginActionPhase() {
	if e.character == nil || e.ended || e.ticking.Load() {
		return
	}
	e.phase = PhaseSelectingActions
	e.pending = nil
}

// SetChosenActions records up to MaxActions action ids for the commit.
// No-op outside PhaseSelectingActions.
func (e *Engine) SetChosenActions(ids []string) {
	if e.phase != PhaseSelectingActions || e.ticking.Load() {
		return
	}
	if e.maxActions > 0 && len(ids) > e.maxActions {
		ids = ids[:e.maxActions]
	}
	e.pending = append([]string(nil), ids...)
}

// CommitActionsAndAdvance applies the chosen actions, returns the turn to
// PhaseResolvingEvent, and advances the year.
//
// Each action is applied independently: unknown ids are skipped and a failed
// action is recorded in StepErrors without affecting the others or the
// advance. No-op outside PhaseSelectingActions.
func (e *Engine) CommitActionsAndAdvance() {
	if e.character == nil || e.ended || e.phase != PhaseSelectingActions {
		return
	}
	if !e.ticking.CompareAndSwap(false, true) {
		return
	}

	e.stepErrors = nil
	for _, id := range e.pending {
		a, ok := LookupAction(id)
		if !ok {
			slog.Debug("unknown action ignored", "action", id)
			continue
		}
		e.applyAction(a)
	}
	actionErrs := e.stepErrors
	e.stepErrors = nil
	e.pending = nil
	e.phase = PhaseResolvingEvent
	e.ticking.Store(false)

	e.AdvanceYear()
	e.stepErrors = append(actionErrs, e.stepErrors...)
}

func (e *Engine) applyAction(a Action) {
	defer func() {
		if r := recover(); r != nil {
			e.fail(ErrCodeActionFailed, a.ID, fmt.Errorf("panic: %v", r))
		}
	}()
	if err := a.apply(e, e.character); err != nil {
		e.fail(ErrCodeActionFailed, a.ID, err)
		return
	}
	slog.Debug("action applied", "action", a.ID, "age", e.character.Age)
}

func (e *Engine) study(c *model.Character) error {
	c.AddIntelligence(3)
	c.AddStress(2)
	if c.Education.Enrolled {
		c.AddIntelligence(1)
	}
	return nil
}

func (e *Engine) exercise(c *model.Character) error {
	c.AddHealth(3)
	c.AddSkill(model.SkillSports, 3)
	c.AddStress(-2)
	return nil
}

func (e *Engine) meditate(c *model.Character) error {
	c.AddStress(-8)
	c.AddHappiness(2)
	return nil
}

func (e *Engine) socialize(c *model.Character) error {
	e.relations.Socialize(c, e.rng)
	return nil
}

func (e *Engine) spendTimeFamily(c *model.Character) error {
	e.relations.SpendTimeFamily(c)
	return nil
}

func (e *Engine) date(c *model.Character) error {
	_, err := e.relations.Date(c, e.rng)
	return err
}

func (e *Engine) workOvertime(c *model.Character) error {
	if !c.Employed() {
		return ErrNotEmployed
	}
	c.Money += c.Career.Salary / 10
	c.Career.Performance = model.ClampStat(c.Career.Performance + 3)
	c.AddStress(8)
	return nil
}

func (e *Engine) sideHustle(c *model.Character) error {
	if c.Age < 16 {
		return fmt.Errorf("side hustle: minimum age 16")
	}
	c.Money += 1000 + int64(c.Skill(model.SkillCreativity))*20
	c.AddSkill(model.SkillBusiness, 1)
	c.AddStress(4)
	return nil
}

func (e *Engine) investSavings(c *model.Character) error {
	return e.investShare(c, model.AssetSavings)
}

func (e *Engine) investIndex(c *model.Character) error {
	return e.investShare(c, model.AssetIndexFund)
}

// investShare moves a quarter of cash into class.
func (e *Engine) investShare(c *model.Character, class model.AssetClass) error {
	amount := c.Money / 4
	if amount <= 0 {
		return ErrNothingToSave
	}
	if err := e.investment.Invest(c, class, amount); err != nil {
		return err
	}
	c.AddSkill(model.SkillInvesting, 1)
	return nil
}

func (e *Engine) enrollNext(c *model.Character) error {
	s, ok := e.education.NextStage(c)
	if !ok {
		return ErrNoNextStage
	}
	return e.education.Enroll(c, s.ID)
}

func (e *Engine) startCareer(c *model.Character) error {
	return e.career.Start(c)
}

func (e *Engine) startBusiness(c *model.Character) error {
	return e.business.Start(c, c.Name+" & Co.", 0)
}

func (e *Engine) adoptPet(c *model.Character) error {
	_, err := e.relations.AdoptPet(c, "", e.rng)
	return err
}
