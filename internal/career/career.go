// Package career implements the nine-level career ladder and the yearly
// career-risk check.
//
// INVARIANT: CareerRecord.LevelIndex only ever changes by +1 through a
// promotion. Layoffs end employment but keep the level.
package career

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/lifesim/internal/model"
)

var (
	ErrTooYoung        = errors.New("too young to work")
	ErrAlreadyEmployed = errors.New("already employed")
	ErrInvalidLevel    = errors.New("career level out of range")
)

// Event identifiers surfaced by the engine.
const (
	EventPromotion = "career_promotion"
	EventLayoff    = "career_layoff"
	EventBurnout   = "career_burnout_warning"
)

const (
	MinWorkingAge   = 16
	BaseSalary      = 30000
	LayoffThreshold = 25
	LayoffChance    = 0.30
	BurnoutStress   = 85
	MinPromotion    = 0.05
	MaxPromotion    = 0.6
)

// Level is one rung of the ladder.
type Level struct {
	Title      string
	Multiplier float64
	// YearsRequired is the time needed at the previous level to reach this one.
	YearsRequired int
}

// Levels is the fixed nine-level ladder.
var Levels = [9]Level{
	{"Intern", 0.4, 0},
	{"Junior", 0.7, 1},
	{"Associate", 1.0, 2},
	{"Senior", 1.4, 2},
	{"Lead", 1.9, 3},
	{"Manager", 2.5, 3},
	{"Director", 3.4, 4},
	{"Vice President", 4.6, 4},
	{"Executive", 6.5, 5},
}

// TopLevel is the last index; it has no further promotion.
const TopLevel = len(Levels) - 1

// Result describes one yearly progression.
type Result struct {
	Promoted bool
	Level    int
	Events   []string
}

// RiskResult describes one yearly career-risk check.
type RiskResult struct {
	LaidOff      bool
	BurnoutYears int
	Events       []string
}

// Engine advances careers.
type Engine struct{}

// New creates an Engine.
func New() *Engine { return &Engine{} }

// Title returns the title for level index i.
func Title(i int) string {
	if i < 0 || i > TopLevel {
		return ""
	}
	return Levels[i].Title
}

// Salary computes the yearly salary at level i with an education premium of
// 5% per completed education level.
func Salary(i, educationLevel int) int64 {
	if i < 0 || i > TopLevel {
		return 0
	}
	premium := 1 + 0.05*float64(educationLevel)
	return int64(math.Round(BaseSalary * Levels[i].Multiplier * premium))
}

// Start employs the character at their current level index.
func (e *Engine) Start(c *model.Character) error {
	if c.Age < MinWorkingAge {
		return fmt.Errorf("%w: minimum age %d", ErrTooYoung, MinWorkingAge)
	}
	if c.Career.Employed {
		return ErrAlreadyEmployed
	}
	if c.Career.LevelIndex < 0 || c.Career.LevelIndex > TopLevel {
		return fmt.Errorf("%w: %d", ErrInvalidLevel, c.Career.LevelIndex)
	}
	c.Career.Employed = true
	c.Career.YearsAtLevel = 0
	if c.Career.Performance == 0 {
		c.Career.Performance = 50
	}
	c.Career.Salary = Salary(c.Career.LevelIndex, c.Education.HighestLevel)
	slog.Info("career started", "level", Title(c.Career.LevelIndex), "salary", c.Career.Salary, "age", c.Age)
	return nil
}

// Quit ends employment without penalty.
func (e *Engine) Quit(c *model.Character) bool {
	if !c.Career.Employed {
		return false
	}
	c.Career.Employed = false
	c.Career.Salary = 0
	return true
}

// PromotionChance computes the promotion probability clamped to [0.05, 0.6].
func PromotionChance(c *model.Character) float64 {
	p := 0.1 +
		float64(c.Skill(model.SkillCareer))/400 +
		float64(c.Intelligence)/500 +
		float64(c.Career.Performance-50)/200
	return math.Max(MinPromotion, math.Min(MaxPromotion, p))
}

// Progress advances an employed career by one year.
func (e *Engine) Progress(c *model.Character, r model.Rand) Result {
	rec := &c.Career
	if !rec.Employed {
		return Result{Level: rec.LevelIndex}
	}

	rec.YearsAtLevel++
	rec.TotalYears++
	rec.Performance = model.ClampStat(rec.Performance + performanceDelta(c, r))
	c.AddSkill(model.SkillCareer, 1)

	res := Result{Level: rec.LevelIndex}
	if rec.LevelIndex < TopLevel && rec.YearsAtLevel >= Levels[rec.LevelIndex+1].YearsRequired {
		if model.Roll(r, PromotionChance(c)) {
			rec.LevelIndex++
			rec.YearsAtLevel = 0
			res.Promoted = true
			res.Level = rec.LevelIndex
			res.Events = append(res.Events, EventPromotion)
			slog.Info("career promoted", "level", Title(rec.LevelIndex), "age", c.Age)
		}
	}
	rec.Salary = Salary(rec.LevelIndex, c.Education.HighestLevel)
	return res
}

// performanceDelta is a bounded random walk step: uniform noise in [-5,5],
// pushed up by career skill and intelligence and down by stress.
func performanceDelta(c *model.Character, r model.Rand) int {
	noise := r.IntN(11) - 5
	return noise + c.Skill(model.SkillCareer)/25 + (c.Intelligence-50)/25 - c.Stress/30
}

// CheckRisk tracks burnout and rolls for layoffs on weak performance.
//
// BurnoutYears counts consecutive years with stress at or above 85 and
// resets otherwise.
func (e *Engine) CheckRisk(c *model.Character, r model.Rand) RiskResult {
	var res RiskResult

	if c.Stress >= BurnoutStress {
		c.BurnoutYears++
		res.Events = append(res.Events, EventBurnout)
	} else {
		c.BurnoutYears = 0
	}
	res.BurnoutYears = c.BurnoutYears

	if c.Career.Employed && c.Career.Performance < LayoffThreshold && model.Roll(r, LayoffChance) {
		c.Career.Employed = false
		c.Career.Salary = 0
		c.Career.Layoffs++
		c.Career.Performance = 50
		res.LaidOff = true
		res.Events = append(res.Events, EventLayoff)
		slog.Info("career layoff", "level", Title(c.Career.LevelIndex), "age", c.Age)
	}
	return res
}
