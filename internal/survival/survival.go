// Package survival decides whether a simulated life continues.
//
// The evaluator is a pure function of the current vitals and one random
// source. Deterministic thresholds are checked first, in fixed priority, and
// always win over the stochastic old-age check.
package survival

import "github.com/roach88/lifesim/internal/model"

// FailCause is the enumerated reason a life ended.
type FailCause string

const (
	CauseNone       FailCause = ""
	CauseOldAge     FailCause = "old_age"
	CausePoorHealth FailCause = "poor_health"
	CauseBankruptcy FailCause = "bankruptcy"
	CauseBurnout    FailCause = "burnout"
)

// Thresholds.
const (
	MaxAge             = 110
	BankruptcyLine     = -5000
	MaxBurnoutYears    = 2
	StochasticAgeFloor = 70
)

// Vitals is the subset of character state the evaluator reads.
type Vitals struct {
	Age          int
	Health       int
	Money        int64
	BurnoutYears int
}

// VitalsOf extracts vitals from a character.
func VitalsOf(c *model.Character) Vitals {
	return Vitals{Age: c.Age, Health: c.Health, Money: c.Money, BurnoutYears: c.BurnoutYears}
}

// Result is the evaluator's verdict.
type Result struct {
	Alive bool
	Cause FailCause
}

// CheckThresholds applies only the deterministic rules. First match wins.
func CheckThresholds(v Vitals) Result {
	switch {
	case v.Age >= MaxAge:
		return Result{Cause: CauseOldAge}
	case v.Health <= 0:
		return Result{Cause: CausePoorHealth}
	case v.Money <= BankruptcyLine:
		return Result{Cause: CauseBankruptcy}
	case v.BurnoutYears >= MaxBurnoutYears:
		return Result{Cause: CauseBurnout}
	}
	return Result{Alive: true}
}

// OldAgeProbability is ((age-70)/100) * ((100-health)/100) for age > 70, else 0.
func OldAgeProbability(v Vitals) float64 {
	if v.Age <= StochasticAgeFloor {
		return 0
	}
	return (float64(v.Age-StochasticAgeFloor) / 100) * (float64(100-v.Health) / 100)
}

// Evaluate applies the deterministic thresholds, then the stochastic
// old-age check. r is consulted only when age > 70 and no threshold matched.
//
// Both the hard 110 cutoff and the stochastic check are kept; the stochastic
// path usually ends a life well before the cutoff is reached.
func Evaluate(v Vitals, r model.Rand) Result {
	if res := CheckThresholds(v); !res.Alive {
		return res
	}
	if v.Age <= StochasticAgeFloor {
		return Result{Alive: true}
	}
	if model.Roll(r, OldAgeProbability(v)) {
		return Result{Cause: CauseOldAge}
	}
	return Result{Alive: true}
}
