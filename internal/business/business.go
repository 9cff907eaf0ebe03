// Package business implements the business state machine.
//
//	idea -> launch -> {struggling <-> breakeven} -> growth -> profitable -> scaling -> exit
//	any live state -> failed
//
// INVARIANT: exit and failed are absorbing. Progress never moves a business
// out of either state.
package business

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/lifesim/internal/model"
)

var (
	ErrTooYoung          = errors.New("too young to start a business")
	ErrAlreadyActive     = errors.New("business already active")
	ErrInsufficientFunds = errors.New("insufficient funds for startup cost")
	ErrNotScaling        = errors.New("business can only exit from scaling")
	ErrNoBusiness        = errors.New("no business")
)

// Event identifiers surfaced by the engine.
const (
	EventFailed          = "business_failed"
	EventInvestorOffer   = "business_investor_offer"
	EventExitOpportunity = "business_exit_opportunity"
)

const (
	MinFounderAge      = 18
	DefaultStartupCost = 10000
	InvestorChance     = 0.10
	ExitChance         = 0.10
	// SkillFailReduction is the share of the fail chance removed at skill 100.
	SkillFailReduction = 0.6
)

// BaseFailChance is the per-year failure probability of each live state at skill 0.
var BaseFailChance = map[model.BusinessState]float64{
	model.BusinessIdea:       0.10,
	model.BusinessLaunch:     0.15,
	model.BusinessStruggling: 0.20,
	model.BusinessBreakeven:  0.08,
	model.BusinessGrowth:     0.06,
	model.BusinessProfitable: 0.04,
	model.BusinessScaling:    0.05,
}

type monthly struct {
	revenue  int64
	expenses int64
}

var monthlyByState = map[model.BusinessState]monthly{
	model.BusinessIdea:       {0, 500},
	model.BusinessLaunch:     {2000, 4000},
	model.BusinessStruggling: {3000, 5000},
	model.BusinessBreakeven:  {6000, 6000},
	model.BusinessGrowth:     {15000, 11000},
	model.BusinessProfitable: {30000, 20000},
	model.BusinessScaling:    {60000, 42000},
}

// Result describes one yearly progression.
type Result struct {
	From   model.BusinessState
	To     model.BusinessState
	Failed bool
	Score  float64
	Profit int64
	Events []string
}

// Engine advances businesses.
type Engine struct{}

// New creates an Engine.
func New() *Engine { return &Engine{} }

// Start founds a business in the idea state and pays the startup cost.
// A cost of 0 uses DefaultStartupCost.
func (e *Engine) Start(c *model.Character, name string, cost int64) error {
	if cost <= 0 {
		cost = DefaultStartupCost
	}
	if c.Age < MinFounderAge {
		return fmt.Errorf("%w: minimum age %d", ErrTooYoung, MinFounderAge)
	}
	if c.HasBusiness() {
		return fmt.Errorf("%w: %s", ErrAlreadyActive, c.Business.Name)
	}
	if c.Money < cost {
		return fmt.Errorf("%w: need %d", ErrInsufficientFunds, cost)
	}
	c.Money -= cost
	c.Business = &model.BusinessRecord{
		Name:        name,
		State:       model.BusinessIdea,
		StartupCost: cost,
		Valuation:   cost / 2,
	}
	slog.Info("business started", "name", name, "cost", cost, "age", c.Age)
	return nil
}

// FailChance is the state's base fail chance reduced by business skill.
func FailChance(state model.BusinessState, skill int) float64 {
	base, ok := BaseFailChance[state]
	if !ok {
		return 0
	}
	return base * (1 - float64(model.ClampStat(skill))/100*SkillFailReduction)
}

// Score combines business skill, intelligence and a random factor in [0,40).
func Score(c *model.Character, r model.Rand) float64 {
	return float64(c.Skill(model.SkillBusiness))*0.5 + float64(c.Intelligence)*0.2 + r.Float64()*40
}

// next applies the threshold rules of each live state.
func next(state model.BusinessState, score float64) model.BusinessState {
	switch state {
	case model.BusinessIdea:
		if score >= 40 {
			return model.BusinessLaunch
		}
	case model.BusinessLaunch:
		if score >= 55 {
			return model.BusinessBreakeven
		}
		if score < 35 {
			return model.BusinessStruggling
		}
	case model.BusinessStruggling:
		if score >= 50 {
			return model.BusinessBreakeven
		}
	case model.BusinessBreakeven:
		if score >= 65 {
			return model.BusinessGrowth
		}
		if score < 30 {
			return model.BusinessStruggling
		}
	case model.BusinessGrowth:
		if score >= 70 {
			return model.BusinessProfitable
		}
		if score < 35 {
			return model.BusinessBreakeven
		}
	case model.BusinessProfitable:
		if score >= 75 {
			return model.BusinessScaling
		}
		if score < 40 {
			return model.BusinessGrowth
		}
	case model.BusinessScaling:
		if score < 45 {
			return model.BusinessProfitable
		}
	}
	return state
}

// Progress advances the business by one year.
//
// The failure roll happens first and wins regardless of performance. Otherwise
// the performance score drives a threshold transition, and the new state's
// monthly figures produce this year's profit, which is paid to the character.
func (e *Engine) Progress(c *model.Character, r model.Rand) Result {
	b := c.Business
	if b == nil || b.State.Absorbing() {
		var state model.BusinessState
		if b != nil {
			state = b.State
		}
		return Result{From: state, To: state}
	}

	res := Result{From: b.State}
	b.YearsActive++

	if model.Roll(r, FailChance(b.State, c.Skill(model.SkillBusiness))) {
		b.State = model.BusinessFailed
		b.LastProfit = 0
		b.Valuation = 0
		res.To = b.State
		res.Failed = true
		res.Events = append(res.Events, EventFailed)
		c.AddHappiness(-10)
		c.AddStress(10)
		slog.Info("business failed", "name", b.Name, "from", res.From, "age", c.Age)
		return res
	}

	res.Score = Score(c, r)
	b.State = next(b.State, res.Score)
	res.To = b.State

	m := monthlyByState[b.State]
	revenue, expenses := m.revenue*12, m.expenses*12
	profit := revenue - expenses
	b.Revenue += revenue
	b.Expenses += expenses
	b.LastProfit = profit
	b.Valuation = max(b.StartupCost/2, profit*4)
	c.Money += profit
	res.Profit = profit
	c.AddSkill(model.SkillBusiness, 2)

	if b.State == model.BusinessProfitable || b.State == model.BusinessScaling {
		if model.Roll(r, InvestorChance) {
			res.Events = append(res.Events, EventInvestorOffer)
		}
	}
	if b.State == model.BusinessScaling && model.Roll(r, ExitChance) {
		res.Events = append(res.Events, EventExitOpportunity)
	}

	if res.From != res.To {
		slog.Debug("business transition", "name", b.Name, "from", res.From, "to", res.To, "score", res.Score)
	}
	return res
}

// Exit sells a scaling business for its valuation.
func (e *Engine) Exit(c *model.Character) (int64, error) {
	b := c.Business
	if b == nil {
		return 0, ErrNoBusiness
	}
	if b.State != model.BusinessScaling {
		return 0, fmt.Errorf("%w: state is %s", ErrNotScaling, b.State)
	}
	payout := b.Valuation
	c.Money += payout
	b.State = model.BusinessExit
	slog.Info("business exit", "name", b.Name, "payout", payout, "age", c.Age)
	return payout, nil
}
