package engine

import (
	"log/slog"

	"github.com/roach88/lifesim/internal/career"
	"github.com/roach88/lifesim/internal/model"
)

// GoalKind names a mid-term goal.
type GoalKind string

const (
	GoalSaveMoney   GoalKind = "save_money"
	GoalCareerLevel GoalKind = "career_level"
	GoalGraduate    GoalKind = "graduate"
	GoalGetFit      GoalKind = "get_fit"
)

// Goal tuning.
const (
	GoalMinAge      = 10
	GoalYears       = 3
	GoalSavings     = 10000
	GoalFitHealth   = 80
	GoalRewardCash  = 1000
	GoalRewardHappy = 5
)

// Goal is the single active mid-term goal.
type Goal struct {
	Kind GoalKind `json:"kind"`
	// Target is the money amount, career level, or education level to reach.
	Target   int64 `json:"target"`
	Deadline int   `json:"deadline"`
}

// Met reports whether c has reached the goal.
func (g Goal) Met(c *model.Character) bool {
	switch g.Kind {
	case GoalSaveMoney:
		return c.Money >= g.Target
	case GoalCareerLevel:
		return c.Employed() && int64(c.Career.LevelIndex) >= g.Target
	case GoalGraduate:
		return int64(c.Education.HighestLevel) >= g.Target
	case GoalGetFit:
		return int64(c.Health) >= g.Target
	}
	return false
}

// chooseGoal picks the next goal for c's age.
func chooseGoal(c *model.Character) Goal {
	g := Goal{Deadline: c.Age + GoalYears}
	switch {
	case c.Age < model.AdultAgeThreshold || c.Education.Enrolled:
		g.Kind = GoalGraduate
		g.Target = int64(c.Education.HighestLevel + 1)
	case c.Employed() && c.Career.LevelIndex < career.TopLevel && c.Age < 50:
		g.Kind = GoalCareerLevel
		g.Target = int64(c.Career.LevelIndex + 1)
	case c.Age < model.RetirementAge:
		g.Kind = GoalSaveMoney
		g.Target = max(0, c.Money) + GoalSavings
	default:
		g.Kind = GoalGetFit
		g.Target = GoalFitHealth
	}
	return g
}

// advanceGoal evaluates the active goal and picks a new one when none is set.
// Goals never consume random draws.
func (e *Engine) advanceGoal() {
	c := e.character
	if c.Age < GoalMinAge {
		return
	}
	if e.goal == nil {
		g := chooseGoal(c)
		e.goal = &g
		return
	}

	g := *e.goal
	switch {
	case g.Met(c):
		e.economy.ApplyEffects(c, model.Effects{
			{Kind: model.DeltaHappiness, Amount: GoalRewardHappy},
			{Kind: model.DeltaMoney, Amount: GoalRewardCash},
		}, "")
		e.stats.GoalsCompleted++
		e.goal = nil
		slog.Debug("goal completed", "goal", g.Kind, "age", c.Age)
	case c.Age >= g.Deadline:
		e.stats.GoalsFailed++
		e.goal = nil
		slog.Debug("goal missed", "goal", g.Kind, "age", c.Age)
	}
}

// BoostKind names a temporary boost.
type BoostKind string

// BoostIncome multiplies salary for a number of years.
const BoostIncome BoostKind = "income"

// Income boost granted by the income_boost special.
const (
	IncomeBoostMultiplier = 1.5
	IncomeBoostYears      = 3
)

// Boost is a temporary multi-year effect.
type Boost struct {
	Kind       BoostKind `json:"kind"`
	Multiplier float64   `json:"multiplier"`
	YearsLeft  int       `json:"years_left"`
}

// applyBoosts pays the extra share of salary for every income boost and
// expires boosts whose duration has run out.
func (e *Engine) applyBoosts() {
	c := e.character
	kept := e.boosts[:0]
	for _, b := range e.boosts {
		if b.Kind == BoostIncome && c.Employed() {
			extra := int64(float64(c.Career.Salary) * (b.Multiplier - 1))
			c.Money += extra
			e.stats.TotalEarned += extra
		}
		b.YearsLeft--
		if b.YearsLeft > 0 {
			kept = append(kept, b)
		}
	}
	e.boosts = kept
	if len(e.boosts) == 0 {
		e.boosts = nil
	}
}
