package model

import "math"

// Living-cost constants for the default yearly economic model.
const (
	AdultAgeThreshold = 18
	BaseLivingCost    = 12000
	ChildCost         = 3000
	PoorHealthCost    = 2000
	RetirementAge     = 65
	Pension           = 14000
)

// EconomyReport summarises one yearly economic recomputation.
type EconomyReport struct {
	Income   int64 `json:"income"`
	Expenses int64 `json:"expenses"`
	NetWorth int64 `json:"net_worth"`
	Alive    bool  `json:"alive"`
}

// Economy is the default character-model collaborator for yearly income,
// expenses, and net worth.
type Economy struct{}

// ApplyYearlyUpdate credits salary (or a pension once retired), debits living
// costs scaled by the year's inflation, and recomputes net worth. Minors and
// enrolled students have no expenses.
func (Economy) ApplyYearlyUpdate(c *Character, market Market) EconomyReport {
	var report EconomyReport

	switch {
	case c.Career.Employed:
		report.Income = c.Career.Salary
	case c.Age >= RetirementAge:
		report.Income = Pension
	}

	if c.Age >= AdultAgeThreshold && !c.Education.Enrolled {
		cost := float64(BaseLivingCost)
		for _, ch := range c.Relations.Children {
			if ch.Alive {
				cost += ChildCost
			}
		}
		if c.Health < 40 {
			cost += PoorHealthCost
		}
		report.Expenses = int64(math.Round(cost * (1 + market.Inflation)))
	}

	c.Money += report.Income - report.Expenses
	report.NetWorth = c.NetWorth()
	report.Alive = c.Health > 0
	return report
}

// ApplyEffects applies deltas through the package-level ApplyEffects.
func (Economy) ApplyEffects(c *Character, effects Effects, subjectID string) Effects {
	return ApplyEffects(c, effects, subjectID)
}
