// Package investment holds the portfolio engine and the yearly market
// generator.
package investment

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/roach88/lifesim/internal/model"
)

var (
	ErrUnknownClass      = errors.New("unknown asset class")
	ErrTooYoung          = errors.New("too young to invest")
	ErrBelowMinimum      = errors.New("amount below class minimum")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Event identifiers surfaced by the engine.
const (
	EventCrash    = "investment_crash"
	EventWindfall = "investment_windfall"
)

// MinInvestorAge is the minimum age to hold any position.
const MinInvestorAge = 18

// Class describes one asset class.
type Class struct {
	ID         model.AssetClass
	BaseReturn float64
	// Volatility scales the yearly normal noise; 0 marks a fixed-rate class.
	Volatility float64
	Minimum    int64
	// MarketRange bounds the uniform yearly market modifier; 0 for fixed-rate classes.
	MarketRange float64
}

// Fixed reports whether the class has a deterministic yield.
func (c Class) Fixed() bool { return c.Volatility == 0 }

// Classes is every available class in a stable order.
var Classes = []Class{
	{ID: model.AssetSavings, BaseReturn: 0.02, Minimum: 100},
	{ID: model.AssetBonds, BaseReturn: 0.04, Minimum: 1000},
	{ID: model.AssetIndexFund, BaseReturn: 0.07, Volatility: 0.15, Minimum: 500, MarketRange: 0.05},
	{ID: model.AssetStocks, BaseReturn: 0.08, Volatility: 0.25, Minimum: 500, MarketRange: 0.08},
	{ID: model.AssetRealEstate, BaseReturn: 0.05, Volatility: 0.10, Minimum: 20000, MarketRange: 0.04},
	{ID: model.AssetCrypto, BaseReturn: 0.10, Volatility: 0.60, Minimum: 100, MarketRange: 0.30},
}

// Lookup returns the class definition for id.
func Lookup(id model.AssetClass) (Class, bool) {
	for _, c := range Classes {
		if c.ID == id {
			return c, true
		}
	}
	return Class{}, false
}

// Result describes one yearly portfolio update.
type Result struct {
	Gains           map[model.AssetClass]int64
	TotalValue      int64
	Diversification float64
	Events          []string
}

// Engine advances portfolios.
type Engine struct{}

// New creates an Engine.
func New() *Engine { return &Engine{} }

// Invest moves amount of cash into class.
func (e *Engine) Invest(c *model.Character, id model.AssetClass, amount int64) error {
	class, ok := Lookup(id)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClass, id)
	}
	if c.Age < MinInvestorAge {
		return fmt.Errorf("%w: minimum age %d", ErrTooYoung, MinInvestorAge)
	}
	if amount < class.Minimum {
		return fmt.Errorf("%w: %s minimum is %d", ErrBelowMinimum, id, class.Minimum)
	}
	if c.Money < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, c.Money, amount)
	}

	if c.Portfolio.Holdings == nil {
		c.Portfolio.Holdings = make(map[model.AssetClass]*model.Holding)
	}
	h := c.Portfolio.Holdings[id]
	if h == nil {
		h = &model.Holding{}
		c.Portfolio.Holdings[id] = h
	}
	c.Money -= amount
	h.Contributed += amount
	h.Value += amount
	c.Portfolio.Diversification = Diversification(&c.Portfolio)
	slog.Debug("investment made", "class", id, "amount", amount, "age", c.Age)
	return nil
}

// Withdraw sells up to amount from class back into cash and returns the
// amount actually withdrawn.
func (e *Engine) Withdraw(c *model.Character, id model.AssetClass, amount int64) int64 {
	h := c.Portfolio.Holdings[id]
	if h == nil || amount <= 0 {
		return 0
	}
	amount = min(amount, h.Value)
	h.Value -= amount
	c.Money += amount
	if h.Value == 0 {
		delete(c.Portfolio.Holdings, id)
	}
	c.Portfolio.Diversification = Diversification(&c.Portfolio)
	return amount
}

// Progress applies one year of returns.
//
// Per holding: return = base + noise + market modifier, where noise is a
// normal draw scaled by the class volatility and reduced by investing skill.
// Fixed-rate classes draw nothing. Values are floored at zero.
func (e *Engine) Progress(c *model.Character, market model.Market, r model.Rand) Result {
	res := Result{Gains: make(map[model.AssetClass]int64)}
	if len(c.Portfolio.Holdings) == 0 {
		return res
	}

	skill := float64(c.Skill(model.SkillInvesting))
	for _, id := range c.Portfolio.Classes() {
		h := c.Portfolio.Holdings[id]
		class, ok := Lookup(id)
		if !ok {
			continue
		}
		ret := class.BaseReturn + market.Modifier(id)
		if !class.Fixed() {
			ret += r.NormFloat64() * class.Volatility * (1 - skill/200)
		}
		before := h.Value
		h.Value = max(0, int64(math.Round(float64(h.Value)*(1+ret))))
		res.Gains[id] = h.Value - before
	}
	c.AddSkill(model.SkillInvesting, 1)

	if market.Crash != "" && c.Portfolio.Holdings[market.Crash] != nil {
		res.Events = append(res.Events, EventCrash)
	}
	if market.Boom != "" && c.Portfolio.Holdings[market.Boom] != nil {
		res.Events = append(res.Events, EventWindfall)
	}

	c.Portfolio.Diversification = Diversification(&c.Portfolio)
	res.TotalValue = c.Portfolio.TotalValue()
	res.Diversification = c.Portfolio.Diversification
	return res
}

// Diversification is a normalized Herfindahl-Hirschman score over current
// holding values: 0 for an empty or single-class portfolio, 100 when value is
// spread evenly across every available class.
func Diversification(p *model.Portfolio) float64 {
	total := p.TotalValue()
	if total <= 0 {
		return 0
	}
	var hhi float64
	for _, h := range p.Holdings {
		share := float64(h.Value) / float64(total)
		hhi += share * share
	}
	n := float64(len(Classes))
	score := (1 - hhi) / (1 - 1/n) * 100
	return math.Max(0, math.Min(100, score))
}
