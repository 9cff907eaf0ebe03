package survival

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/lifesim/internal/testutil"
)

func TestCheckThresholds_Priority(t *testing.T) {
	tests := []struct {
		name string
		v    Vitals
		want FailCause
	}{
		{"age cutoff beats everything", Vitals{Age: 110, Health: 0, Money: -9000, BurnoutYears: 5}, CauseOldAge},
		{"health before money", Vitals{Age: 40, Health: 0, Money: -9000}, CausePoorHealth},
		{"negative health", Vitals{Age: 40, Health: -3, Money: 0}, CausePoorHealth},
		{"bankruptcy line inclusive", Vitals{Age: 40, Health: 50, Money: -5000}, CauseBankruptcy},
		{"burnout", Vitals{Age: 40, Health: 50, Money: 0, BurnoutYears: 2}, CauseBurnout},
		{"alive", Vitals{Age: 40, Health: 50, Money: -4999, BurnoutYears: 1}, CauseNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := CheckThresholds(tt.v)
			assert.Equal(t, tt.want, res.Cause)
			assert.Equal(t, tt.want == CauseNone, res.Alive)
		})
	}
}

// Deterministic thresholds never consult the random source.
func TestEvaluate_ThresholdsDoNotDraw(t *testing.T) {
	for _, v := range []Vitals{
		{Age: 112, Health: 100},
		{Age: 80, Health: 0},
		{Age: 80, Health: 90, Money: -6000},
		{Age: 80, Health: 90, BurnoutYears: 3},
	} {
		res := Evaluate(v, testutil.PanicRand{})
		assert.False(t, res.Alive, "%+v", v)
	}
}

// Age 69 sits below the stochastic floor: no draw is made at all.
func TestEvaluate_NoStochasticCheckAtOrBelow70(t *testing.T) {
	for _, age := range []int{69, 70} {
		res := Evaluate(Vitals{Age: age, Health: 100, Money: 0}, testutil.PanicRand{})
		assert.True(t, res.Alive)
		assert.Equal(t, CauseNone, res.Cause)
	}
}

func TestEvaluate_StochasticUsesProbability(t *testing.T) {
	v := Vitals{Age: 95, Health: 10}
	assert.InDelta(t, 0.225, OldAgeProbability(v), 1e-12)

	res := Evaluate(v, testutil.NewScriptedRand(0.2249))
	assert.Equal(t, Result{Cause: CauseOldAge}, res)

	res = Evaluate(v, testutil.NewScriptedRand(0.2251))
	assert.Equal(t, Result{Alive: true}, res)
}

func TestEvaluate_FullHealthNeverDiesStochastically(t *testing.T) {
	v := Vitals{Age: 100, Health: 100}
	assert.Equal(t, 0.0, OldAgeProbability(v))
	assert.True(t, Evaluate(v, testutil.PanicRand{}).Alive)
}

// 10,000 independent trials at age 95, health 10 converge on 0.225.
func TestEvaluate_OldAgeDeathRate(t *testing.T) {
	r := rand.New(rand.NewPCG(95, 10))
	v := Vitals{Age: 95, Health: 10}

	const trials = 10000
	deaths := 0
	for i := 0; i < trials; i++ {
		if !Evaluate(v, r).Alive {
			deaths++
		}
	}

	// sigma = sqrt(0.225*0.775/10000) ~ 0.0042; allow ~5 sigma
	assert.InDelta(t, 0.225, float64(deaths)/trials, 0.02)
}
